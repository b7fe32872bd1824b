package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"nccportal.org/internal/audit"
	"nccportal.org/internal/identity"
	"nccportal.org/internal/obs"
	"nccportal.org/internal/portal"
	"nccportal.org/internal/stream"
)

type fallinRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	Type            string `json:"type"`
	Location        string `json:"location"`
	DressCode       string `json:"dress_code"`
	Instructions    string `json:"instructions"`
	ActivityDetails string `json:"activity_details"`
}

func (req *fallinRequest) validate() string {
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Type = strings.TrimSpace(req.Type)
	req.DressCode = strings.TrimSpace(req.DressCode)
	if req.Date == "" || req.Time == "" || req.Type == "" || req.DressCode == "" {
		return "date, time, type and dress_code are required"
	}
	return ""
}

func (a *API) handleFallinCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listFallins(w, r)
	case http.MethodPost:
		a.createFallin(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleFallinResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/fallin/")
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getFallin(w, r, id)
	case http.MethodPut:
		a.updateFallin(w, r, id)
	case http.MethodDelete:
		a.deleteFallin(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listFallins(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindCadet, identity.KindAdmin)
	if !ok {
		return
	}
	fallins, err := a.store.Fallins().ListByAno(r.Context(), id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if fallins == nil {
		fallins = []portal.Fallin{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"fallins": fallins})
}

func (a *API) createFallin(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}

	var req fallinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	fallinID, notified, err := a.store.Fallins().Create(r.Context(), portal.NewFallin{
		AnoID:           id.AnoID,
		Date:            req.Date,
		Time:            req.Time,
		Type:            req.Type,
		Location:        req.Location,
		DressCode:       req.DressCode,
		Instructions:    req.Instructions,
		ActivityDetails: req.ActivityDetails,
	})
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	obs.ObserveFanout("fallin", notified)
	if a.stream != nil {
		a.stream.Publish(stream.NotificationEvent{
			AnoID:   id.AnoID,
			Type:    "Fallin",
			Message: "New Fall-In posted.",
			Link:    "/cadet/fallin",
		})
	}
	_ = audit.LogEvent(r.Context(), "fallin.create", map[string]any{
		"fallin_id": fallinID,
		"notified":  notified,
	})

	w.Header().Set("Location", "/api/fallin/"+strconv.FormatInt(fallinID, 10))
	writeJSON(w, http.StatusCreated, map[string]any{
		"fallin_id": fallinID,
		"notified":  notified,
	})
}

func (a *API) getFallin(w http.ResponseWriter, r *http.Request, fallinID int64) {
	id, ok := requireKind(w, r, identity.KindCadet, identity.KindAdmin)
	if !ok {
		return
	}
	f, err := a.store.Fallins().Get(r.Context(), fallinID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	// The row's own tenant decides visibility, not the URL.
	if f.AnoID != id.AnoID {
		writeError(w, r, http.StatusNotFound, portal.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (a *API) updateFallin(w http.ResponseWriter, r *http.Request, fallinID int64) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	var req fallinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	notified, err := a.store.Fallins().Update(r.Context(), fallinID, id.AnoID, portal.NewFallin{
		Date:            req.Date,
		Time:            req.Time,
		Type:            req.Type,
		Location:        req.Location,
		DressCode:       req.DressCode,
		Instructions:    req.Instructions,
		ActivityDetails: req.ActivityDetails,
	})
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	obs.ObserveFanout("fallin", notified)
	if a.stream != nil {
		a.stream.Publish(stream.NotificationEvent{
			AnoID:   id.AnoID,
			Type:    "Fallin",
			Message: "A Fall-In was updated.",
			Link:    "/cadet/fallin",
		})
	}
	_ = audit.LogEvent(r.Context(), "fallin.update", map[string]any{
		"fallin_id": fallinID,
		"notified":  notified,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "updated", "notified": notified})
}

func (a *API) deleteFallin(w http.ResponseWriter, r *http.Request, fallinID int64) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	notified, err := a.store.Fallins().Delete(r.Context(), fallinID, id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	obs.ObserveFanout("fallin", notified)
	if a.stream != nil {
		a.stream.Publish(stream.NotificationEvent{
			AnoID:   id.AnoID,
			Type:    "Fallin",
			Message: "A Fall-In was removed.",
			Link:    "/cadet/fallin",
		})
	}
	_ = audit.LogEvent(r.Context(), "fallin.delete", map[string]any{
		"fallin_id": fallinID,
		"notified":  notified,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "notified": notified})
}

// pathID parses the numeric id segment after prefix.
func pathID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid identifier")
		return 0, false
	}
	return id, true
}
