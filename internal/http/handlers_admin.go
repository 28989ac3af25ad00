package http

import (
	"errors"
	"net/http"

	"budgetdash/internal/log"
	"budgetdash/internal/services"
)

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetToDefaults(r.Context()); err != nil {
		s.fail(w, r, log.OpReset, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Success("Ledger reset to defaults").Write(w)
}

func (s *Server) handleLoadDemo(w http.ResponseWriter, r *http.Request) {
	if err := s.service.LoadDemo(r.Context()); err != nil {
		s.fail(w, r, log.OpLoad, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Success("Demo data loaded").Write(w)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.ImportTransactions(r.Context())
	if errors.Is(err, services.ErrImportDisabled) {
		ErrorResponse(http.StatusNotImplemented, "Import is not configured").Write(w)
		return
	}
	if err != nil {
		s.fail(w, r, log.OpLoad, err)
		return
	}
	NewJSONResponse().
		Body(map[string]int{"imported": n}).
		Success("Transactions imported").
		Write(w)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	ref, sum, err := s.service.ExportReport(r.Context())
	if errors.Is(err, services.ErrReportsDisabled) {
		ErrorResponse(http.StatusNotImplemented, "Report export is not configured").Write(w)
		return
	}
	if err != nil {
		s.fail(w, r, log.OpExport, err)
		return
	}
	NewJSONResponse().
		Body(map[string]any{"ref": ref, "revision": sum.Revision}).
		Success("Report exported").
		Write(w)
}
