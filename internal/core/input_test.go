package core

import (
	"errors"
	"testing"
	"time"
)

var today = time.Date(2025, 8, 22, 15, 4, 5, 0, time.UTC)

func TestTransactionInputBuild(t *testing.T) {
	in := TransactionInput{Amount: "450", Category: "Food", Description: "Lunch", Date: "2025-08-21", Type: "expense"}
	tx, err := in.Build("id-1", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Transaction{ID: "id-1", Amount: Units(450), Category: "Food", Description: "Lunch", Date: NewDate(2025, 8, 21), Type: Expense}
	if tx != want {
		t.Fatalf("got %+v, want %+v", tx, want)
	}
}

func TestTransactionInputDefaults(t *testing.T) {
	tx, err := TransactionInput{Amount: "10", Category: "Bills", Description: "Water"}.Build("id", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Type != Expense {
		t.Fatalf("expected default type expense, got %s", tx.Type)
	}
	if tx.Date != NewDate(2025, 8, 22) {
		t.Fatalf("expected today's date, got %s", tx.Date)
	}
}

func TestTransactionInputRejects(t *testing.T) {
	cases := []struct {
		name  string
		in    TransactionInput
		field string
	}{
		{"missing amount", TransactionInput{Category: "Food", Description: "x"}, "amount"},
		{"bad amount", TransactionInput{Amount: "abc", Category: "Food", Description: "x"}, "amount"},
		{"negative amount", TransactionInput{Amount: "-3", Category: "Food", Description: "x"}, "amount"},
		{"missing category", TransactionInput{Amount: "1", Description: "x"}, "category"},
		{"missing description", TransactionInput{Amount: "1", Category: "Food", Description: "   "}, "description"},
		{"bad date", TransactionInput{Amount: "1", Category: "Food", Description: "x", Date: "yesterday"}, "date"},
		{"bad type", TransactionInput{Amount: "1", Category: "Food", Description: "x", Type: "refund"}, "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.in.Build("id", today)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestTransactionPatchApply(t *testing.T) {
	orig := Transaction{ID: "a", Amount: Units(300), Category: "Food", Description: "Groceries", Date: NewDate(2025, 8, 17), Type: Expense}

	got, err := TransactionPatch{Description: StrPtr("X")}.ApplyTo(orig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := orig
	want.Description = "X"
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	got, err = TransactionPatch{Amount: StrPtr("12.5"), Type: StrPtr("income"), Date: StrPtr("2025-09-01")}.ApplyTo(orig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "a" || got.Amount.Cents != 1250 || got.Type != Income || got.Date != NewDate(2025, 9, 1) {
		t.Fatalf("unexpected patch result: %+v", got)
	}

	if _, err := (TransactionPatch{Description: StrPtr("")}).ApplyTo(orig); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if _, err := (TransactionPatch{Type: StrPtr("")}).ApplyTo(orig); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty type, got %v", err)
	}
	if !(TransactionPatch{}).IsEmpty() {
		t.Fatalf("zero patch must be empty")
	}
}

func TestCategoryInputBuild(t *testing.T) {
	c, err := CategoryInput{Name: " Pets ", Budget: "1500"}.Build(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 8 || c.Name != "Pets" || c.Budget != Units(1500) {
		t.Fatalf("unexpected category: %+v", c)
	}
	if _, err := (CategoryInput{Name: ""}).Build(9); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := (CategoryInput{Name: "X", Budget: "-1"}).Build(9); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDefaultsAndDemo(t *testing.T) {
	defaults := DefaultCategories()
	if len(defaults) != 7 {
		t.Fatalf("expected 7 built-in categories, got %d", len(defaults))
	}
	for _, c := range defaults {
		if c.Budget.Cents != 0 {
			t.Fatalf("default category %s has budget %d", c.Name, c.Budget.Cents)
		}
	}
	demo := DemoCategories()
	if demo[0].Name != "Food" || demo[0].Budget != Units(8000) {
		t.Fatalf("unexpected demo food budget: %+v", demo[0])
	}
	for _, tx := range DemoTransactions() {
		tx.ID = "set"
		if err := tx.Validate(); err != nil {
			t.Fatalf("demo transaction %q invalid: %v", tx.Description, err)
		}
	}
}
