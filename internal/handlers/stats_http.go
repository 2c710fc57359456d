package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

type StatsHTTP struct {
	analytics *service.AnalyticsService
	log       zerolog.Logger
}

func NewStatsHTTP(analytics *service.AnalyticsService, log zerolog.Logger) *StatsHTTP {
	return &StatsHTTP{analytics: analytics, log: log}
}

// GET /api/stats. Cross-project KPI rollup, scoped the same way as the
// project list.
func (h *StatsHTTP) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		scope := ""
		if !p.IsAdmin() {
			scope = p.UserID
		}
		stats, err := h.analytics.Dashboard(r.Context(), scope)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, stats)
	}
}
