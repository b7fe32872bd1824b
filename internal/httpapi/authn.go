package httpapi

import (
	"net/http"
	"strings"

	"nccportal.org/internal/identity"
)

const sessionCookie = "token"

var publicPaths = []string{
	"/auth/login",
	"/auth/register/cadet",
	"/auth/register/admin",
	"/auth/anos",
	"/metrics",
	"/healthz",
	"/readyz",
	"/api/info",
	"/",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// withAuth is the authorization gate: session token from the HTTP-only
// cookie, revocation check, then signature verification. The revocation
// lookup runs first so a revoked-but-valid token never reaches handlers.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		token := cookie.Value

		if a.registry != nil && a.registry.IsRevoked(token) {
			writeError(w, r, http.StatusUnauthorized, "session revoked")
			return
		}

		id, err := a.issuer.Verify(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid session")
			return
		}

		ctx := identity.ContextWithIdentity(r.Context(), id)
		ctx = identity.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireKind admits only the listed identity kinds. 401 without an identity,
// 403 with the wrong kind.
func requireKind(w http.ResponseWriter, r *http.Request, kinds ...identity.Kind) (identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Cookie")
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return identity.Identity{}, false
	}
	for _, k := range kinds {
		if id.Kind == k {
			return id, true
		}
	}
	w.Header().Set("WWW-Authenticate", "Cookie")
	writeError(w, r, http.StatusForbidden, "insufficient role")
	return identity.Identity{}, false
}
