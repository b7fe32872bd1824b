package httpapi

import (
	"net/http"
	"strings"
	"time"

	"nccportal.org/internal/audit"
	"nccportal.org/internal/identity"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Redirect  string    `json:"redirect"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.resolver.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		handleIdentityError(w, r, err)
		return
	}

	token, expiresAt, err := a.issuer.Issue(result.Identity)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token issuance failed")
		return
	}

	a.setSessionCookie(w, token, expiresAt)

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"kind":     string(result.Identity.Kind),
		"key":      result.Identity.NaturalKey,
		"redirect": result.Redirect,
	})

	writeJSON(w, http.StatusOK, loginResponse{Redirect: result.Redirect, ExpiresAt: expiresAt})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	if token, ok := identity.TokenFromContext(r.Context()); ok && a.registry != nil {
		a.registry.Revoke(token)
	}
	a.clearSessionCookie(w)

	_ = audit.LogEvent(r.Context(), "auth.logout", nil)

	writeJSON(w, http.StatusOK, map[string]any{"status": "logged_out"})
}

type cadetRegisterRequest struct {
	RegimentalNumber string `json:"regimental_number"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Contact          string `json:"contact"`
	Password         string `json:"password"`
	AnoID            string `json:"ano_id"`
}

func (a *API) handleRegisterCadet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req cadetRegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.RegimentalNumber = strings.TrimSpace(req.RegimentalNumber)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.AnoID = strings.TrimSpace(req.AnoID)
	if req.RegimentalNumber == "" || req.Name == "" || req.Email == "" || req.AnoID == "" {
		writeError(w, r, http.StatusBadRequest, "regimental_number, name, email and ano_id are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	err = a.creds.CreateCadet(r.Context(), identity.CadetRegistration{
		RegimentalNumber: req.RegimentalNumber,
		Name:             req.Name,
		Email:            req.Email,
		Contact:          strings.TrimSpace(req.Contact),
		PasswordHash:     hash,
		AnoID:            req.AnoID,
	})
	if err != nil {
		handleIdentityError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "pending_approval",
		"message": "Registration received. An administrator must approve your account before you can log in.",
	})
}

type adminRegisterRequest struct {
	AnoID    string `json:"ano_id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

func (a *API) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req adminRegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.AnoID = strings.TrimSpace(req.AnoID)
	req.Role = strings.TrimSpace(req.Role)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.AnoID == "" || req.Role == "" || req.Name == "" || req.Email == "" {
		writeError(w, r, http.StatusBadRequest, "ano_id, role, name and email are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	err = a.creds.CreateAdmin(r.Context(), identity.AdminRegistration{
		AnoID:        req.AnoID,
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		Contact:      strings.TrimSpace(req.Contact),
		PasswordHash: hash,
		Type:         strings.TrimSpace(req.Type),
	})
	if err != nil {
		handleIdentityError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "pending_approval",
		"message": "Registration received. The master administrator must approve your account before you can log in.",
	})
}

func (a *API) handleAnos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	admins, err := a.creds.ApprovedAdmins(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if admins == nil {
		admins = []identity.AdminSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"anos": admins})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	id, ok := requireKind(w, r, identity.KindCadet, identity.KindAdmin, identity.KindMaster)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, r, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}
	if req.NewPassword == req.CurrentPassword {
		writeError(w, r, http.StatusBadRequest, "new password must differ from the current one")
		return
	}

	hash, err := a.creds.PasswordHashFor(r.Context(), id)
	if err != nil {
		handleIdentityError(w, r, err)
		return
	}
	if err := identity.VerifyPassword(hash, req.CurrentPassword); err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	newHash, err := identity.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if err := a.creds.UpdatePassword(r.Context(), id, newHash); err != nil {
		handleIdentityError(w, r, err)
		return
	}

	if id.Kind == identity.KindCadet && a.store != nil {
		_ = a.store.Notifications().Notify(r.Context(), id.NaturalKey, "Security",
			"Your password was changed. If this was not you, contact your ANO immediately.", "")
	}

	// The presented session dies with the old password.
	if token, ok := identity.TokenFromContext(r.Context()); ok && a.registry != nil {
		a.registry.Revoke(token)
	}
	a.clearSessionCookie(w)

	_ = audit.LogEvent(r.Context(), "auth.password_change", nil)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "password_changed",
		"message": "Password updated. Please log in again.",
	})
}

func (a *API) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if a.env == "production" {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	http.SetCookie(w, cookie)
}

func (a *API) clearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if a.env == "production" {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	http.SetCookie(w, cookie)
}
