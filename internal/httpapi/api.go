// Package httpapi is the HTTP layer of the portal: routing, the cookie
// authorization gate, and the role-scoped handlers.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"nccportal.org/internal/identity"
	"nccportal.org/internal/obs"
	"nccportal.org/internal/portal"
	"nccportal.org/internal/stream"
)

// ReadyProbe reports readiness, normally by pinging the database.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Config carries the API's injected dependencies.
type Config struct {
	Version    string
	Env        string
	Issuer     *identity.Issuer
	Registry   identity.Registry
	Resolver   *identity.Resolver
	Creds      identity.CredentialStore
	Store      portal.Store
	Stream     *stream.Stream
	ReadyProbe ReadyProbe
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	version    string
	env        string
	issuer     *identity.Issuer
	registry   identity.Registry
	resolver   *identity.Resolver
	creds      identity.CredentialStore
	store      portal.Store
	stream     *stream.Stream
	readyProbe ReadyProbe
}

// New builds the API and registers all routes.
func New(cfg Config) *API {
	a := &API{
		mux:        http.NewServeMux(),
		version:    cfg.Version,
		env:        cfg.Env,
		issuer:     cfg.Issuer,
		registry:   cfg.Registry,
		resolver:   cfg.Resolver,
		creds:      cfg.Creds,
		store:      cfg.Store,
		stream:     cfg.Stream,
		readyProbe: cfg.ReadyProbe,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/api/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// auth
	a.mux.HandleFunc("/auth/login", a.handleLogin)
	a.mux.HandleFunc("/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/auth/register/cadet", a.handleRegisterCadet)
	a.mux.HandleFunc("/auth/register/admin", a.handleRegisterAdmin)
	a.mux.HandleFunc("/auth/anos", a.handleAnos)
	a.mux.HandleFunc("/auth/change-password", a.handleChangePassword)

	// fall-ins and attendance
	a.mux.HandleFunc("/api/fallin", a.handleFallinCollection)
	a.mux.HandleFunc("/api/fallin/", a.handleFallinResource)
	a.mux.HandleFunc("/api/attendance/cadets", a.handleEligibleCadets)
	a.mux.HandleFunc("/api/attendance/history", a.handleAttendanceHistory)
	a.mux.HandleFunc("/api/attendance/", a.handleAttendanceResource)

	// events
	a.mux.HandleFunc("/api/events", a.handleEventCollection)
	a.mux.HandleFunc("/api/events/", a.handleEventResource)

	// notifications
	a.mux.HandleFunc("/api/notifications", a.handleNotifications)
	a.mux.HandleFunc("/api/notifications/read-all", a.handleMarkAllRead)
	a.mux.HandleFunc("/api/notifications/unread-count", a.handleUnreadCount)
	a.mux.HandleFunc("/api/notifications/stream", a.handleNotificationStream)
	a.mux.HandleFunc("/api/notifications/", a.handleNotificationResource)

	// support queries
	a.mux.HandleFunc("/api/support-queries", a.handleSupportCollection)
	a.mux.HandleFunc("/api/support-queries/", a.handleSupportResource)

	// profiles
	a.mux.HandleFunc("/api/users/profile", a.handleCadetProfile)
	a.mux.HandleFunc("/api/users/profile/picture", a.handleCadetPicture)
	a.mux.HandleFunc("/api/admin/profile", a.handleAdminProfile)
	a.mux.HandleFunc("/api/admin/profile/picture", a.handleAdminPicture)
	a.mux.HandleFunc("/api/master/profile", a.handleMasterProfile)
	a.mux.HandleFunc("/api/master/profile/picture", a.handleMasterPicture)

	// admin reports + manage-users + roll
	a.mux.HandleFunc("/api/admin/reports", a.handleAdminReports)
	a.mux.HandleFunc("/api/admin/manage-users", a.handleManageUsers)
	a.mux.HandleFunc("/api/admin/manage-users/", a.handleManageUserResource)
	a.mux.HandleFunc("/api/admin/generate-nominal-roll", a.handleAdminNominalRoll)

	// master module
	a.mux.HandleFunc("/api/master/manage-admins", a.handleManageAdmins)
	a.mux.HandleFunc("/api/master/manage-admins/", a.handleManageAdminResource)
	a.mux.HandleFunc("/api/master/manage-users", a.handleMasterManageUsers)
	a.mux.HandleFunc("/api/master/manage-users/", a.handleMasterManageUserResource)
	a.mux.HandleFunc("/api/master/notification-manager", a.handleNotificationManager)
	a.mux.HandleFunc("/api/master/platform-config", a.handlePlatformConfig)
	a.mux.HandleFunc("/api/master/global-search", a.handleGlobalSearch)
	a.mux.HandleFunc("/api/master/system-reports", a.handleSystemReports)
	a.mux.HandleFunc("/api/master/generate-nominal-roll", a.handleMasterNominalRoll)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = LoggingJSON(h)
	h = obs.Instrument(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, 20, 10)
	h = CORS(h, a.env)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return h
}
