package core

import (
	"strings"
	"time"
)

// TransactionInput carries raw form values for a new transaction.
type TransactionInput struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Type        string `json:"type"`
}

// Build validates the input and returns a complete transaction with the given id.
// An empty date defaults to today, an empty type to expense.
func (in TransactionInput) Build(id string, today time.Time) (Transaction, error) {
	if strings.TrimSpace(in.Amount) == "" {
		return Transaction{}, invalid("amount", ErrInvalidAmount)
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, invalid("amount", err)
	}
	date := DateOf(today)
	if strings.TrimSpace(in.Date) != "" {
		if date, err = ParseDate(in.Date); err != nil {
			return Transaction{}, invalid("date", err)
		}
	}
	typ, err := ParseTransactionType(in.Type)
	if err != nil {
		return Transaction{}, invalid("type", err)
	}
	t := Transaction{
		ID:          id,
		Amount:      amount,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		Type:        typ,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// TransactionPatch replaces only the fields that are set.
type TransactionPatch struct {
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Type        *string `json:"type,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Description == nil && p.Date == nil && p.Type == nil
}

// ApplyTo returns t with the patch applied; the id never changes.
func (p TransactionPatch) ApplyTo(t Transaction) (Transaction, error) {
	out := t
	if p.Amount != nil {
		amount, err := ParseAmount(*p.Amount)
		if err != nil {
			return t, invalid("amount", err)
		}
		out.Amount = amount
	}
	if p.Category != nil {
		out.Category = strings.TrimSpace(*p.Category)
	}
	if p.Description != nil {
		out.Description = strings.TrimSpace(*p.Description)
	}
	if p.Date != nil {
		date, err := ParseDate(*p.Date)
		if err != nil {
			return t, invalid("date", err)
		}
		out.Date = date
	}
	if p.Type != nil {
		if strings.TrimSpace(*p.Type) == "" {
			return t, invalid("type", ErrInvalidType)
		}
		typ, err := ParseTransactionType(*p.Type)
		if err != nil {
			return t, invalid("type", err)
		}
		out.Type = typ
	}
	if err := out.Validate(); err != nil {
		return t, err
	}
	return out, nil
}

// CategoryInput carries raw values for a new category.
type CategoryInput struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
	Budget string `json:"budget"`
}

// Build validates the input; an empty budget means no ceiling (zero).
func (in CategoryInput) Build(id int64) (Category, error) {
	c := Category{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Icon:  strings.TrimSpace(in.Icon),
		Color: strings.TrimSpace(in.Color),
	}
	if strings.TrimSpace(in.Budget) != "" {
		budget, err := ParseAmount(in.Budget)
		if err != nil {
			return Category{}, invalid("budget", err)
		}
		c.Budget = budget
	}
	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

// StrPtr is a small helper for building patches.
func StrPtr(s string) *string {
	return &s
}
