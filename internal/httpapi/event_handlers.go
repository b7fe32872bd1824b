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

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
}

func (req *eventRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	req.Date = strings.TrimSpace(req.Date)
	if req.Title == "" || req.Date == "" {
		return "title and date are required"
	}
	return ""
}

func (a *API) handleEventCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listEvents(w, r)
	case http.MethodPost:
		a.createEvent(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEventResource(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/events/")
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	eventID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || eventID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid identifier")
		return
	}
	switch r.Method {
	case http.MethodPut:
		a.updateEvent(w, r, eventID)
	case http.MethodDelete:
		a.deleteEvent(w, r, eventID)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindCadet, identity.KindAdmin)
	if !ok {
		return
	}
	events, err := a.store.Events().ListByAno(r.Context(), id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if events == nil {
		events = []portal.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	eventID, notified, err := a.store.Events().Create(r.Context(), portal.NewEvent{
		AnoID:       id.AnoID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
	})
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	obs.ObserveFanout("event", notified)
	if a.stream != nil {
		a.stream.Publish(stream.NotificationEvent{
			AnoID:   id.AnoID,
			Type:    "Event",
			Message: "New event: " + req.Title,
			Link:    "/cadet/events",
		})
	}
	_ = audit.LogEvent(r.Context(), "event.create", map[string]any{
		"event_id": eventID,
		"notified": notified,
	})

	w.Header().Set("Location", "/api/events/"+strconv.FormatInt(eventID, 10))
	writeJSON(w, http.StatusCreated, map[string]any{
		"event_id": eventID,
		"notified": notified,
	})
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request, eventID int64) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	notified, err := a.store.Events().Update(r.Context(), eventID, id.AnoID, portal.NewEvent{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
	})
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	obs.ObserveFanout("event", notified)
	if a.stream != nil {
		a.stream.Publish(stream.NotificationEvent{
			AnoID:   id.AnoID,
			Type:    "Event",
			Message: "Event updated: " + req.Title,
			Link:    "/cadet/events",
		})
	}
	_ = audit.LogEvent(r.Context(), "event.update", map[string]any{
		"event_id": eventID,
		"notified": notified,
	})

	writeJSON(w, http.StatusOK, map[string]any{"status": "updated", "notified": notified})
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request, eventID int64) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	notified, err := a.store.Events().Delete(r.Context(), eventID, id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	obs.ObserveFanout("event", notified)
	if a.stream != nil {
		a.stream.Publish(stream.NotificationEvent{
			AnoID:   id.AnoID,
			Type:    "Event",
			Message: "An event was cancelled.",
			Link:    "/cadet/events",
		})
	}
	_ = audit.LogEvent(r.Context(), "event.delete", map[string]any{
		"event_id": eventID,
		"notified": notified,
	})

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "notified": notified})
}
