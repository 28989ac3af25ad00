package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-08-21" {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDate("21/08/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("expected ok for zero, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "x",
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Category:    "Food",
		Type:        Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		field  string
		mutate func(*Transaction)
	}{
		{"amount", func(tx *Transaction) { tx.Amount = Money{Cents: -5} }},
		{"category", func(tx *Transaction) { tx.Category = "  " }},
		{"description", func(tx *Transaction) { tx.Description = "" }},
		{"date", func(tx *Transaction) { tx.Date = Date{} }},
		{"type", func(tx *Transaction) { tx.Type = "transfer" }},
	}
	for _, b := range bads {
		tx := good
		b.mutate(&tx)
		err := tx.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", b.field, err)
		}
		if verr.Field != b.field {
			t.Fatalf("expected field %q, got %q", b.field, verr.Field)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected errors.Is(ErrValidation)", b.field)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	err := TransactionNotFound("abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("not found must not match validation")
	}
	if err.Error() != `transaction "abc" not found` {
		t.Fatalf("unexpected message %q", err.Error())
	}

	verr := NewValidationError("amount", ErrInvalidAmount)
	if !errors.Is(verr, ErrInvalidAmount) {
		t.Fatalf("expected wrapped ErrInvalidAmount")
	}
}

func TestTransactionJSON(t *testing.T) {
	tx := Transaction{
		ID:          "t1",
		Amount:      Money{Cents: 45050},
		Category:    "Food",
		Description: "Lunch",
		Date:        NewDate(2025, 8, 21),
		Type:        Expense,
	}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"t1","amount":450.5,"category":"Food","description":"Lunch","date":"2025-08-21","type":"expense"}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}

	var back Transaction
	if err := json.Unmarshal([]byte(`{"id":"t2","amount":"12,5","date":"2025-01-02","type":"income"}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Amount.Cents != 1250 || back.Date != NewDate(2025, 1, 2) || back.Type != Income {
		t.Fatalf("unexpected decode: %+v", back)
	}
}
