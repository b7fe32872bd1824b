package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"nccportal.org/internal/identity"
	"nccportal.org/internal/portal"
)

func (a *API) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	items, err := a.store.Notifications().ListForCadet(r.Context(), id.NaturalKey)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if items == nil {
		items = []portal.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

// handleNotificationResource serves /api/notifications/{id}/read.
func (a *API) handleNotificationResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	if !strings.HasSuffix(path, "/read") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	raw := strings.TrimSuffix(path, "/read")
	notificationID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || notificationID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid identifier")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	if err := a.store.Notifications().MarkRead(r.Context(), notificationID, id.NaturalKey); err != nil {
		handlePortalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "read"})
}

func (a *API) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	if err := a.store.Notifications().MarkAllRead(r.Context(), id.NaturalKey); err != nil {
		handlePortalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "read"})
}

func (a *API) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	count, err := a.store.Notifications().UnreadCount(r.Context(), id.NaturalKey)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unread": count})
}

// handleNotificationStream is the SSE endpoint for live inbox updates.
func (a *API) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	if a.stream == nil {
		writeError(w, r, http.StatusServiceUnavailable, "streaming disabled")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch := a.stream.Subscribe(ctx, id.NaturalKey, id.AnoID)

	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for event := range ch {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
