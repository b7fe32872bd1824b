package httpapi

import (
	"net/http"

	"nccportal.org/internal/identity"
)

func (a *API) handleAdminReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}

	reports := a.store.Reports()
	counts, err := reports.UserCounts(r.Context(), id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	events, err := reports.EventsCount(r.Context(), id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	attendance, err := reports.AttendanceSummary(r.Context(), id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalCadets":   counts.TotalCadets,
		"pendingCadets": counts.PendingCadets,
		"eventsCount":   events,
		"avgAttendance": attendance.AvgAttendance,
	})
}

func (a *API) handleSystemReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}

	reports := a.store.Reports()
	summary, err := reports.PlatformSummary(r.Context())
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	trends, err := reports.AttendanceTrends(r.Context())
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"trends":  trends,
	})
}
