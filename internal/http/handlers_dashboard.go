package http

import (
	"fmt"
	"net/http"

	"budgetdash/internal/log"
)

func dashboardKey(revision uint64, recent int) string {
	return fmt.Sprintf("dashboard:%d:%d", revision, recent)
}

// handleDashboard serves the summary, cached per ledger revision so repeated
// reads between mutations skip the aggregation pass.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recent := queryInt(r, "recent", s.recentLimit)
	if recent > 100 {
		recent = 100
	}

	rev, err := s.service.Revision(ctx)
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	if sum, ok := s.dashboards.Get(dashboardKey(rev, recent)); ok {
		log.FromContext(ctx).DebugContext(ctx, "Dashboard cache hit", log.FieldRevision, rev)
		NewJSONResponse().Header("X-Cache", "hit").Body(sum).Write(w)
		return
	}

	sum, err := s.service.Dashboard(ctx, recent)
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	s.dashboards.Set(dashboardKey(sum.Revision, recent), sum)
	NewJSONResponse().Header("X-Cache", "miss").Body(sum).Write(w)
}
