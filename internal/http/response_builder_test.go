package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetdash/internal/core"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Body(map[string]int{"count": 2}).
		Header("Location", "/api/transactions/1").
		Success("Transaction added").
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("Location") != "/api/transactions/1" {
		t.Errorf("Location header missing")
	}
	if w.Body.String() != "{\"count\":2}\n" {
		t.Errorf("Body = %q", w.Body.String())
	}

	var n Notification
	if err := json.Unmarshal([]byte(w.Header().Get(NotificationHeader)), &n); err != nil {
		t.Fatalf("notification header: %v", err)
	}
	if n.Type != NotificationSuccess || n.Message != "Transaction added" {
		t.Errorf("notification = %+v", n)
	}
}

func TestJSONResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d with %q", w.Code, w.Body.String())
	}
	if w.Header().Get(NotificationHeader) != "" {
		t.Error("no notification expected")
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{"validation", core.NewValidationError("amount", core.ErrInvalidAmount), http.StatusUnprocessableEntity, "amount"},
		{"wrapped validation", fmt.Errorf("row 2: %w", core.NewValidationError("date", core.ErrInvalidDate)), http.StatusUnprocessableEntity, "date"},
		{"not found", core.TransactionNotFound("tx-1"), http.StatusNotFound, ""},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			FromError(tt.err).Write(w)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Field != tt.wantField {
				t.Errorf("field = %q, want %q", body.Field, tt.wantField)
			}
			if tt.wantStatus == http.StatusInternalServerError && body.Error != "internal error" {
				t.Errorf("internal errors must not leak details: %q", body.Error)
			}
			var n Notification
			_ = json.Unmarshal([]byte(w.Header().Get(NotificationHeader)), &n)
			if n.Type != NotificationError {
				t.Errorf("notification type = %q, want error", n.Type)
			}
		})
	}
}
