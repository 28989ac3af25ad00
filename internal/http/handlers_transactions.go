package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"budgetdash/internal/core"
	"budgetdash/internal/ledger"
	"budgetdash/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ledger.Filter{
		SearchText: sanitizeInput(q.Get("q")),
		Category:   sanitizeInput(q.Get("category")),
	}
	if strings.EqualFold(f.Category, "all") {
		f.Category = ""
	}

	seq, err := s.service.ListTransactions(r.Context(), f)
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	items := ledger.Collect(seq)
	if items == nil {
		items = []core.Transaction{}
	}
	NewJSONResponse().Body(items).Write(w)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	t, err := s.service.AddTransaction(r.Context(), p.TransactionInput())
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+t.ID).
		Body(t).
		Success("Transaction added").
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	t, err := s.service.UpdateTransaction(r.Context(), id, p.TransactionPatch())
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(t).Success("Transaction updated").Write(w)
}

// handleRemoveTransaction is idempotent: removing an unknown id still succeeds.
func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.RemoveTransaction(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Success("Transaction deleted").Write(w)
}
