package httpapi

import (
	"net/http"
	"strings"

	"nccportal.org/internal/audit"
	"nccportal.org/internal/identity"
	"nccportal.org/internal/ids"
	"nccportal.org/internal/portal"
	"nccportal.org/internal/stream"
)

type supportCreateRequest struct {
	Message string `json:"message"`
}

func (a *API) handleSupportCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listSupportQueries(w, r)
	case http.MethodPost:
		a.createSupportQuery(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listSupportQueries(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindCadet, identity.KindMaster)
	if !ok {
		return
	}
	var (
		queries []portal.SupportQuery
		err     error
	)
	if id.Kind == identity.KindMaster {
		queries, err = a.store.Support().ListAll(r.Context())
	} else {
		queries, err = a.store.Support().ListForCadet(r.Context(), id.NaturalKey)
	}
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if queries == nil {
		queries = []portal.SupportQuery{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"queries": queries})
}

func (a *API) createSupportQuery(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	var req supportCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, r, http.StatusBadRequest, "message is required")
		return
	}

	queryID := ids.New()
	if err := a.store.Support().Create(r.Context(), queryID, id.NaturalKey, req.Message); err != nil {
		handlePortalError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "support.create", map[string]any{"query_id": queryID})

	w.Header().Set("Location", "/api/support-queries/"+queryID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"query_id": queryID,
		"status":   "Open",
	})
}

type supportRespondRequest struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// handleSupportResource serves /api/support-queries/{id}/respond.
func (a *API) handleSupportResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/support-queries/")
	if !strings.HasSuffix(path, "/respond") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	queryID := strings.TrimSuffix(path, "/respond")
	if queryID == "" || strings.Contains(queryID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}

	var req supportRespondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Response = strings.TrimSpace(req.Response)
	if req.Response == "" {
		writeError(w, r, http.StatusBadRequest, "response is required")
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "Answered"
	}

	owner, err := a.store.Support().Respond(r.Context(), queryID, req.Response, status)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	if a.stream != nil {
		a.stream.Publish(stream.NotificationEvent{
			RegimentalNumber: owner,
			Type:             "Support",
			Message:          "Your support query has received a response.",
			Link:             "/cadet/support",
		})
	}
	_ = audit.LogEvent(r.Context(), "support.respond", map[string]any{
		"query_id": queryID,
		"status":   status,
	})

	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}
