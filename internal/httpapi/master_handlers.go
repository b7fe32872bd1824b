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

// --- admin manage-users ---

func (a *API) handleManageUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	cadets, err := a.store.Cadets().ListByAno(r.Context(), id.AnoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if cadets == nil {
		cadets = []portal.CadetRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cadets": cadets})
}

// handleManageUserResource serves POST /{id}/approve and DELETE /{id} under
// the admin's tenant scope.
func (a *API) handleManageUserResource(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	a.manageUserResource(w, r, "/api/admin/manage-users/", id.AnoID)
}

// --- master manage-users ---

func (a *API) handleMasterManageUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}
	cadets, err := a.store.Cadets().ListAll(r.Context())
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if cadets == nil {
		cadets = []portal.CadetRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cadets": cadets})
}

func (a *API) handleMasterManageUserResource(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}
	// Empty tenant lifts the scope restriction.
	a.manageUserResource(w, r, "/api/master/manage-users/", "")
}

func (a *API) manageUserResource(w http.ResponseWriter, r *http.Request, prefix, anoID string) {
	path := strings.TrimPrefix(r.URL.Path, prefix)

	if strings.HasSuffix(path, "/approve") {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		userID, err := strconv.ParseInt(strings.TrimSuffix(path, "/approve"), 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid identifier")
			return
		}
		if err := a.store.Cadets().Approve(r.Context(), userID, anoID); err != nil {
			handlePortalError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "cadet.approve", map[string]any{"user_id": userID})
		writeJSON(w, http.StatusOK, map[string]any{"status": "approved"})
		return
	}

	userID, err := strconv.ParseInt(strings.TrimSuffix(path, "/"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid identifier")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if err := a.store.Cadets().Delete(r.Context(), userID, anoID); err != nil {
		handlePortalError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "cadet.delete", map[string]any{"user_id": userID})
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// --- master manage-admins ---

func (a *API) handleManageAdmins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}
	admins, err := a.store.Cadets().ListAdmins(r.Context())
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if admins == nil {
		admins = []portal.AdminRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

type adminApprovalRequest struct {
	Approved bool `json:"approved"`
}

// handleManageAdminResource serves POST /{anoID}/approval and DELETE /{anoID}.
func (a *API) handleManageAdminResource(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/master/manage-admins/")

	if strings.HasSuffix(path, "/approval") {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		anoID := strings.TrimSuffix(path, "/approval")
		if anoID == "" {
			writeError(w, r, http.StatusBadRequest, "invalid identifier")
			return
		}
		var req adminApprovalRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.store.Cadets().SetAdminApproval(r.Context(), anoID, req.Approved); err != nil {
			handlePortalError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "admin.approval", map[string]any{
			"ano_id":   anoID,
			"approved": req.Approved,
		})
		writeJSON(w, http.StatusOK, map[string]any{"status": "updated", "approved": req.Approved})
		return
	}

	anoID := strings.TrimSuffix(path, "/")
	if anoID == "" || strings.Contains(anoID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if err := a.store.Cadets().DeleteAdmin(r.Context(), anoID); err != nil {
		handlePortalError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "admin.delete", map[string]any{"ano_id": anoID})
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// --- broadcast notification manager ---

type broadcastRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Message    string `json:"message"`
}

func (a *API) handleNotificationManager(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindMaster)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		broadcasts, err := a.store.Notifications().Broadcasts(r.Context())
		if err != nil {
			handlePortalError(w, r, err)
			return
		}
		if broadcasts == nil {
			broadcasts = []portal.Broadcast{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"broadcasts": broadcasts})
	case http.MethodPost:
		var req broadcastRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		req.Message = strings.TrimSpace(req.Message)
		if req.Message == "" {
			writeError(w, r, http.StatusBadRequest, "message is required")
			return
		}
		switch req.TargetType {
		case "all", "admin", "user":
		default:
			writeError(w, r, http.StatusBadRequest, "target_type must be all, admin or user")
			return
		}
		if req.TargetType == "user" && strings.TrimSpace(req.TargetID) == "" {
			writeError(w, r, http.StatusBadRequest, "target_id is required for user broadcasts")
			return
		}

		broadcastID, fanout, err := a.store.Notifications().CreateBroadcast(r.Context(), portal.Broadcast{
			SenderType: string(identity.KindMaster),
			SenderID:   id.NaturalKey,
			TargetType: req.TargetType,
			TargetID:   strings.TrimSpace(req.TargetID),
			Message:    req.Message,
		})
		if err != nil {
			handlePortalError(w, r, err)
			return
		}

		obs.ObserveFanout("broadcast", fanout)
		if a.stream != nil && req.TargetType != "admin" {
			a.stream.Publish(stream.NotificationEvent{
				RegimentalNumber: strings.TrimSpace(req.TargetID),
				Type:             "Broadcast",
				Message:          req.Message,
				Link:             "/cadet/notifications",
			})
		}
		_ = audit.LogEvent(r.Context(), "broadcast.create", map[string]any{
			"notification_id": broadcastID,
			"target_type":     req.TargetType,
			"fanout":          fanout,
		})

		writeJSON(w, http.StatusCreated, map[string]any{
			"notification_id": broadcastID,
			"fanout":          fanout,
		})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// --- platform config ---

type platformConfigRequest struct {
	Updates []portal.ConfigUpdate `json:"updates"`
}

func (a *API) handlePlatformConfig(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		entries, err := a.store.Config().List(r.Context())
		if err != nil {
			handlePortalError(w, r, err)
			return
		}
		if entries == nil {
			entries = []portal.ConfigEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"config": entries})
	case http.MethodPut:
		var req platformConfigRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.store.Config().Upsert(r.Context(), req.Updates); err != nil {
			handlePortalError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "config.upsert", map[string]any{"entries": len(req.Updates)})
		writeJSON(w, http.StatusOK, map[string]any{"status": "updated", "entries": len(req.Updates)})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

// --- global search ---

func (a *API) handleGlobalSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		writeError(w, r, http.StatusBadRequest, "q must be at least 2 characters")
		return
	}
	results, err := a.store.Cadets().Search(r.Context(), q)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	if results.Cadets == nil {
		results.Cadets = []portal.SearchHit{}
	}
	if results.Admins == nil {
		results.Admins = []portal.SearchHit{}
	}
	if results.Masters == nil {
		results.Masters = []portal.SearchHit{}
	}
	writeJSON(w, http.StatusOK, results)
}
