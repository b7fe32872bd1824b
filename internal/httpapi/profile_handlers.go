package httpapi

import (
	"encoding/base64"
	"net/http"
	"strings"

	"nccportal.org/internal/identity"
	"nccportal.org/internal/portal"
)

func (a *API) handleCadetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		profile, err := a.store.Profiles().CadetProfile(r.Context(), id.ID)
		if err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodPut:
		var req portal.CadetProfileUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.store.Profiles().UpsertCadetProfile(r.Context(), id.NaturalKey, req); err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) handleAdminProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		profile, err := a.store.Profiles().AdminProfile(r.Context(), id.ID)
		if err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodPut:
		var req portal.AdminProfileUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.store.Profiles().UpsertAdminProfile(r.Context(), id.AnoID, req); err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

type masterProfileUpdate struct {
	Address string `json:"address"`
}

func (a *API) handleMasterProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindMaster)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		profile, err := a.store.Profiles().MasterProfile(r.Context(), id.NaturalKey)
		if err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodPut:
		var req masterProfileUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.store.Profiles().UpsertMasterProfile(r.Context(), id.NaturalKey, strings.TrimSpace(req.Address)); err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) handleCadetPicture(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindCadet)
	if !ok {
		return
	}
	a.servePicture(w, r, id)
}

func (a *API) handleAdminPicture(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	a.servePicture(w, r, id)
}

func (a *API) handleMasterPicture(w http.ResponseWriter, r *http.Request) {
	id, ok := requireKind(w, r, identity.KindMaster)
	if !ok {
		return
	}
	a.servePicture(w, r, id)
}

type pictureRequest struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

var allowedPictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// servePicture uploads or returns a profile picture. The payload travels as
// base64 in JSON both ways, which is the API's storage and wire contract.
func (a *API) servePicture(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	switch r.Method {
	case http.MethodGet:
		pic, err := a.store.Profiles().Picture(r.Context(), string(id.Kind), id.NaturalKey)
		if err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pic)
	case http.MethodPost:
		var req pictureRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if !allowedPictureTypes[req.MimeType] {
			writeError(w, r, http.StatusBadRequest, "mime_type must be image/jpeg, image/png or image/webp")
			return
		}
		raw, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "data must be base64-encoded")
			return
		}
		if len(raw) == 0 {
			writeError(w, r, http.StatusBadRequest, "data is required")
			return
		}
		err = a.store.Profiles().SavePicture(r.Context(), string(id.Kind), id.NaturalKey, portal.ProfilePicture{
			MimeType: req.MimeType,
			Data:     req.Data,
		})
		if err != nil {
			handlePortalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "saved"})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}
