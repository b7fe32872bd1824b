package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"nccportal.org/internal/audit"
	"nccportal.org/internal/identity"
	"nccportal.org/internal/portal"
)

func (a *API) handleEligibleCadets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	cadets, err := a.store.Attendance().EligibleCadets(r.Context(), id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if cadets == nil {
		cadets = []portal.CadetName{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cadets": cadets})
}

func (a *API) handleAttendanceHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	history, err := a.store.Attendance().HistoryForCadet(r.Context(), id.NaturalKey)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if history == nil {
		history = []portal.CadetAttendance{}
	}
	present := 0
	for _, rec := range history {
		if rec.Status == "Present" {
			present++
		}
	}
	percentage := 0.0
	if len(history) > 0 {
		percentage = float64(present) / float64(len(history)) * 100
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"history":    history,
		"present":    present,
		"total":      len(history),
		"percentage": percentage,
	})
}

type attendanceRequest struct {
	Records []portal.AttendanceMark `json:"records"`
}

// handleAttendanceResource serves /api/attendance/{fallinID}: POST marks the
// batch, GET returns the stored records.
func (a *API) handleAttendanceResource(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/attendance/")
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	fallinID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || fallinID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid identifier")
		return
	}

	switch r.Method {
	case http.MethodPost:
		a.markAttendance(w, r, fallinID)
	case http.MethodGet:
		a.attendanceRecords(w, r, fallinID)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) markAttendance(w http.ResponseWriter, r *http.Request, fallinID int64) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	var req attendanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.store.Attendance().Mark(r.Context(), fallinID, id.AnoID, req.Records); err != nil {
		handlePortalError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "attendance.mark", map[string]any{
		"fallin_id": fallinID,
		"records":   len(req.Records),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "recorded",
		"records": len(req.Records),
	})
}

func (a *API) attendanceRecords(w http.ResponseWriter, r *http.Request, fallinID int64) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	// Tenant check through the fall-in row before exposing records.
	f, err := a.store.Fallins().Get(r.Context(), fallinID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if f.AnoID != id.AnoID {
		writeError(w, r, http.StatusNotFound, portal.ErrNotFound.Error())
		return
	}
	records, err := a.store.Attendance().RecordsForFallin(r.Context(), fallinID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if records == nil {
		records = []portal.AttendanceRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}
