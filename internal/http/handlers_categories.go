package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"budgetdash/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.service.Categories(r.Context())
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(cats).Write(w)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	c, err := s.service.AddCategory(r.Context(), p.CategoryInput())
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(c).Success("Category added").Write(w)
}

func (s *Server) handleSetCategoryBudget(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	budget, err := p.Amount("budget")
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	c, err := s.service.SetCategoryBudget(r.Context(), name, budget)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(c).Success("Budget updated").Write(w)
}

func (s *Server) handleCategoryStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.CategoryStatus(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(status).Write(w)
}

func (s *Server) handleSetMonthlyBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	budget, err := p.Amount("budget")
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	if err := s.service.SetMonthlyBudget(r.Context(), budget); err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().
		Body(map[string]any{"monthly_budget": budget}).
		Success("Monthly budget updated").
		Write(w)
}
