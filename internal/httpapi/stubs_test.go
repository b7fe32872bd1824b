package httpapi

import (
	"context"
	"errors"
	"testing"

	"nccportal.org/internal/identity"
	"nccportal.org/internal/portal"
	"nccportal.org/internal/stream"
)

// stubStore satisfies portal.Store through per-method function fields; any
// method a test does not wire fails loudly.
type stubStore struct {
	fallins       stubFallins
	attendance    stubAttendance
	events        stubEvents
	notifications stubNotifications
	support       stubSupport
	profiles      stubProfiles
	config        stubConfig
	reports       stubReports
	cadets        stubCadets
}

var errStubUnwired = errors.New("stub method not wired")

// newTestAPI wires an API around stubs with an in-memory registry and a real
// issuer so cookie round-trips behave as in production.
func newTestAPI(t *testing.T, store *stubStore, creds *stubCreds) *API {
	t.Helper()
	iss, err := identity.NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	if store == nil {
		store = &stubStore{}
	}
	if creds == nil {
		creds = &stubCreds{}
	}
	return New(Config{
		Version:  "test",
		Env:      "development",
		Issuer:   iss,
		Registry: identity.NewMemoryRegistry(),
		Resolver: identity.NewResolver(creds),
		Creds:    creds,
		Store:    store,
		Stream:   stream.New(),
	})
}

func (s *stubStore) Fallins() portal.FallinStore             { return &s.fallins }
func (s *stubStore) Attendance() portal.AttendanceStore      { return &s.attendance }
func (s *stubStore) Events() portal.EventStore               { return &s.events }
func (s *stubStore) Notifications() portal.NotificationStore { return &s.notifications }
func (s *stubStore) Support() portal.SupportStore            { return &s.support }
func (s *stubStore) Profiles() portal.ProfileStore           { return &s.profiles }
func (s *stubStore) Config() portal.ConfigStore              { return &s.config }
func (s *stubStore) Reports() portal.ReportStore             { return &s.reports }
func (s *stubStore) Cadets() portal.CadetStore               { return &s.cadets }

type stubFallins struct {
	create func(context.Context, portal.NewFallin) (int64, int, error)
	list   func(context.Context, string) ([]portal.Fallin, error)
	get    func(context.Context, int64) (*portal.Fallin, error)
	update func(context.Context, int64, string, portal.NewFallin) (int, error)
	delete func(context.Context, int64, string) (int, error)
}

func (s *stubFallins) Create(ctx context.Context, f portal.NewFallin) (int64, int, error) {
	if s.create == nil {
		return 0, 0, errStubUnwired
	}
	return s.create(ctx, f)
}
func (s *stubFallins) ListByAno(ctx context.Context, anoID string) ([]portal.Fallin, error) {
	if s.list == nil {
		return nil, errStubUnwired
	}
	return s.list(ctx, anoID)
}
func (s *stubFallins) Get(ctx context.Context, id int64) (*portal.Fallin, error) {
	if s.get == nil {
		return nil, errStubUnwired
	}
	return s.get(ctx, id)
}
func (s *stubFallins) Update(ctx context.Context, id int64, anoID string, f portal.NewFallin) (int, error) {
	if s.update == nil {
		return 0, errStubUnwired
	}
	return s.update(ctx, id, anoID, f)
}
func (s *stubFallins) Delete(ctx context.Context, id int64, anoID string) (int, error) {
	if s.delete == nil {
		return 0, errStubUnwired
	}
	return s.delete(ctx, id, anoID)
}

type stubAttendance struct {
	mark     func(context.Context, int64, string, []portal.AttendanceMark) error
	records  func(context.Context, int64) ([]portal.AttendanceRecord, error)
	history  func(context.Context, string) ([]portal.CadetAttendance, error)
	eligible func(context.Context, string) ([]portal.CadetName, error)
}

func (s *stubAttendance) Mark(ctx context.Context, fallinID int64, anoID string, records []portal.AttendanceMark) error {
	if s.mark == nil {
		return errStubUnwired
	}
	return s.mark(ctx, fallinID, anoID, records)
}
func (s *stubAttendance) RecordsForFallin(ctx context.Context, fallinID int64) ([]portal.AttendanceRecord, error) {
	if s.records == nil {
		return nil, errStubUnwired
	}
	return s.records(ctx, fallinID)
}
func (s *stubAttendance) HistoryForCadet(ctx context.Context, rn string) ([]portal.CadetAttendance, error) {
	if s.history == nil {
		return nil, errStubUnwired
	}
	return s.history(ctx, rn)
}
func (s *stubAttendance) EligibleCadets(ctx context.Context, anoID string) ([]portal.CadetName, error) {
	if s.eligible == nil {
		return nil, errStubUnwired
	}
	return s.eligible(ctx, anoID)
}

type stubEvents struct {
	create func(context.Context, portal.NewEvent) (int64, int, error)
	list   func(context.Context, string) ([]portal.Event, error)
	update func(context.Context, int64, string, portal.NewEvent) (int, error)
	delete func(context.Context, int64, string) (int, error)
}

func (s *stubEvents) Create(ctx context.Context, e portal.NewEvent) (int64, int, error) {
	if s.create == nil {
		return 0, 0, errStubUnwired
	}
	return s.create(ctx, e)
}
func (s *stubEvents) ListByAno(ctx context.Context, anoID string) ([]portal.Event, error) {
	if s.list == nil {
		return nil, errStubUnwired
	}
	return s.list(ctx, anoID)
}
func (s *stubEvents) Update(ctx context.Context, id int64, anoID string, e portal.NewEvent) (int, error) {
	if s.update == nil {
		return 0, errStubUnwired
	}
	return s.update(ctx, id, anoID, e)
}
func (s *stubEvents) Delete(ctx context.Context, id int64, anoID string) (int, error) {
	if s.delete == nil {
		return 0, errStubUnwired
	}
	return s.delete(ctx, id, anoID)
}

type stubNotifications struct {
	notify          func(context.Context, string, string, string, string) error
	list            func(context.Context, string) ([]portal.Notification, error)
	markRead        func(context.Context, int64, string) error
	markAllRead     func(context.Context, string) error
	unreadCount     func(context.Context, string) (int, error)
	broadcasts      func(context.Context) ([]portal.Broadcast, error)
	createBroadcast func(context.Context, portal.Broadcast) (int64, int, error)
}

func (s *stubNotifications) Notify(ctx context.Context, rn, typ, msg, link string) error {
	if s.notify == nil {
		return nil
	}
	return s.notify(ctx, rn, typ, msg, link)
}
func (s *stubNotifications) ListForCadet(ctx context.Context, rn string) ([]portal.Notification, error) {
	if s.list == nil {
		return nil, errStubUnwired
	}
	return s.list(ctx, rn)
}
func (s *stubNotifications) MarkRead(ctx context.Context, id int64, rn string) error {
	if s.markRead == nil {
		return errStubUnwired
	}
	return s.markRead(ctx, id, rn)
}
func (s *stubNotifications) MarkAllRead(ctx context.Context, rn string) error {
	if s.markAllRead == nil {
		return errStubUnwired
	}
	return s.markAllRead(ctx, rn)
}
func (s *stubNotifications) UnreadCount(ctx context.Context, rn string) (int, error) {
	if s.unreadCount == nil {
		return 0, errStubUnwired
	}
	return s.unreadCount(ctx, rn)
}
func (s *stubNotifications) Broadcasts(ctx context.Context) ([]portal.Broadcast, error) {
	if s.broadcasts == nil {
		return nil, errStubUnwired
	}
	return s.broadcasts(ctx)
}
func (s *stubNotifications) CreateBroadcast(ctx context.Context, b portal.Broadcast) (int64, int, error) {
	if s.createBroadcast == nil {
		return 0, 0, errStubUnwired
	}
	return s.createBroadcast(ctx, b)
}

type stubSupport struct {
	create  func(context.Context, string, string, string) error
	forUser func(context.Context, string) ([]portal.SupportQuery, error)
	all     func(context.Context) ([]portal.SupportQuery, error)
	respond func(context.Context, string, string, string) (string, error)
}

func (s *stubSupport) Create(ctx context.Context, queryID, rn, msg string) error {
	if s.create == nil {
		return errStubUnwired
	}
	return s.create(ctx, queryID, rn, msg)
}
func (s *stubSupport) ListForCadet(ctx context.Context, rn string) ([]portal.SupportQuery, error) {
	if s.forUser == nil {
		return nil, errStubUnwired
	}
	return s.forUser(ctx, rn)
}
func (s *stubSupport) ListAll(ctx context.Context) ([]portal.SupportQuery, error) {
	if s.all == nil {
		return nil, errStubUnwired
	}
	return s.all(ctx)
}
func (s *stubSupport) Respond(ctx context.Context, queryID, response, status string) (string, error) {
	if s.respond == nil {
		return "", errStubUnwired
	}
	return s.respond(ctx, queryID, response, status)
}

type stubProfiles struct {
	cadet       func(context.Context, int64) (*portal.CadetProfile, error)
	upsertCadet func(context.Context, string, portal.CadetProfileUpdate) error
	admin       func(context.Context, int64) (*portal.AdminProfile, error)
	upsertAdmin func(context.Context, string, portal.AdminProfileUpdate) error
	master      func(context.Context, string) (*portal.MasterProfile, error)
	upsertMast  func(context.Context, string, string) error
	savePicture func(context.Context, string, string, portal.ProfilePicture) error
	picture     func(context.Context, string, string) (*portal.ProfilePicture, error)
}

func (s *stubProfiles) CadetProfile(ctx context.Context, userID int64) (*portal.CadetProfile, error) {
	if s.cadet == nil {
		return nil, errStubUnwired
	}
	return s.cadet(ctx, userID)
}
func (s *stubProfiles) UpsertCadetProfile(ctx context.Context, rn string, p portal.CadetProfileUpdate) error {
	if s.upsertCadet == nil {
		return errStubUnwired
	}
	return s.upsertCadet(ctx, rn, p)
}
func (s *stubProfiles) AdminProfile(ctx context.Context, adminID int64) (*portal.AdminProfile, error) {
	if s.admin == nil {
		return nil, errStubUnwired
	}
	return s.admin(ctx, adminID)
}
func (s *stubProfiles) UpsertAdminProfile(ctx context.Context, anoID string, p portal.AdminProfileUpdate) error {
	if s.upsertAdmin == nil {
		return errStubUnwired
	}
	return s.upsertAdmin(ctx, anoID, p)
}
func (s *stubProfiles) MasterProfile(ctx context.Context, phone string) (*portal.MasterProfile, error) {
	if s.master == nil {
		return nil, errStubUnwired
	}
	return s.master(ctx, phone)
}
func (s *stubProfiles) UpsertMasterProfile(ctx context.Context, phone, address string) error {
	if s.upsertMast == nil {
		return errStubUnwired
	}
	return s.upsertMast(ctx, phone, address)
}
func (s *stubProfiles) SavePicture(ctx context.Context, kind, key string, pic portal.ProfilePicture) error {
	if s.savePicture == nil {
		return errStubUnwired
	}
	return s.savePicture(ctx, kind, key, pic)
}
func (s *stubProfiles) Picture(ctx context.Context, kind, key string) (*portal.ProfilePicture, error) {
	if s.picture == nil {
		return nil, errStubUnwired
	}
	return s.picture(ctx, kind, key)
}

type stubConfig struct {
	list   func(context.Context) ([]portal.ConfigEntry, error)
	upsert func(context.Context, []portal.ConfigUpdate) error
}

func (s *stubConfig) List(ctx context.Context) ([]portal.ConfigEntry, error) {
	if s.list == nil {
		return nil, errStubUnwired
	}
	return s.list(ctx)
}
func (s *stubConfig) Upsert(ctx context.Context, updates []portal.ConfigUpdate) error {
	if s.upsert == nil {
		return errStubUnwired
	}
	return s.upsert(ctx, updates)
}

type stubReports struct {
	userCounts func(context.Context, string) (portal.UserCounts, error)
	events     func(context.Context, string) (int, error)
	attendance func(context.Context, string) (portal.AttendanceSummary, error)
	platform   func(context.Context) (portal.PlatformSummary, error)
	trends     func(context.Context) ([]portal.AttendanceTrend, error)
}

func (s *stubReports) UserCounts(ctx context.Context, anoID string) (portal.UserCounts, error) {
	if s.userCounts == nil {
		return portal.UserCounts{}, errStubUnwired
	}
	return s.userCounts(ctx, anoID)
}
func (s *stubReports) EventsCount(ctx context.Context, anoID string) (int, error) {
	if s.events == nil {
		return 0, errStubUnwired
	}
	return s.events(ctx, anoID)
}
func (s *stubReports) AttendanceSummary(ctx context.Context, anoID string) (portal.AttendanceSummary, error) {
	if s.attendance == nil {
		return portal.AttendanceSummary{}, errStubUnwired
	}
	return s.attendance(ctx, anoID)
}
func (s *stubReports) PlatformSummary(ctx context.Context) (portal.PlatformSummary, error) {
	if s.platform == nil {
		return portal.PlatformSummary{}, errStubUnwired
	}
	return s.platform(ctx)
}
func (s *stubReports) AttendanceTrends(ctx context.Context) ([]portal.AttendanceTrend, error) {
	if s.trends == nil {
		return nil, errStubUnwired
	}
	return s.trends(ctx)
}

type stubCadets struct {
	listByAno   func(context.Context, string) ([]portal.CadetRecord, error)
	listAll     func(context.Context) ([]portal.CadetRecord, error)
	approve     func(context.Context, int64, string) error
	delete      func(context.Context, int64, string) error
	listAdmins  func(context.Context) ([]portal.AdminRecord, error)
	setApproval func(context.Context, string, bool) error
	deleteAdmin func(context.Context, string) error
	roster      func(context.Context, string) ([]portal.RosterRow, error)
	search      func(context.Context, string) (portal.SearchResults, error)
}

func (s *stubCadets) ListByAno(ctx context.Context, anoID string) ([]portal.CadetRecord, error) {
	if s.listByAno == nil {
		return nil, errStubUnwired
	}
	return s.listByAno(ctx, anoID)
}
func (s *stubCadets) ListAll(ctx context.Context) ([]portal.CadetRecord, error) {
	if s.listAll == nil {
		return nil, errStubUnwired
	}
	return s.listAll(ctx)
}
func (s *stubCadets) Approve(ctx context.Context, userID int64, anoID string) error {
	if s.approve == nil {
		return errStubUnwired
	}
	return s.approve(ctx, userID, anoID)
}
func (s *stubCadets) Delete(ctx context.Context, userID int64, anoID string) error {
	if s.delete == nil {
		return errStubUnwired
	}
	return s.delete(ctx, userID, anoID)
}
func (s *stubCadets) ListAdmins(ctx context.Context) ([]portal.AdminRecord, error) {
	if s.listAdmins == nil {
		return nil, errStubUnwired
	}
	return s.listAdmins(ctx)
}
func (s *stubCadets) SetAdminApproval(ctx context.Context, anoID string, approved bool) error {
	if s.setApproval == nil {
		return errStubUnwired
	}
	return s.setApproval(ctx, anoID, approved)
}
func (s *stubCadets) DeleteAdmin(ctx context.Context, anoID string) error {
	if s.deleteAdmin == nil {
		return errStubUnwired
	}
	return s.deleteAdmin(ctx, anoID)
}
func (s *stubCadets) Roster(ctx context.Context, anoID string) ([]portal.RosterRow, error) {
	if s.roster == nil {
		return nil, errStubUnwired
	}
	return s.roster(ctx, anoID)
}
func (s *stubCadets) Search(ctx context.Context, q string) (portal.SearchResults, error) {
	if s.search == nil {
		return portal.SearchResults{}, errStubUnwired
	}
	return s.search(ctx, q)
}

// stubCreds satisfies identity.CredentialStore for auth endpoint tests.
type stubCreds struct {
	findCadet  func(context.Context, string) (*identity.Credential, error)
	findAdmin  func(context.Context, string) (*identity.Credential, error)
	findMaster func(context.Context, string) (*identity.Credential, error)
	createC    func(context.Context, identity.CadetRegistration) error
	createA    func(context.Context, identity.AdminRegistration) error
	hashFor    func(context.Context, identity.Identity) (string, error)
	updatePass func(context.Context, identity.Identity, string) error
	approved   func(context.Context) ([]identity.AdminSummary, error)
}

func (s *stubCreds) FindCadet(ctx context.Context, key string) (*identity.Credential, error) {
	if s.findCadet == nil {
		return nil, identity.ErrNotFound
	}
	return s.findCadet(ctx, key)
}
func (s *stubCreds) FindAdmin(ctx context.Context, key string) (*identity.Credential, error) {
	if s.findAdmin == nil {
		return nil, identity.ErrNotFound
	}
	return s.findAdmin(ctx, key)
}
func (s *stubCreds) FindMaster(ctx context.Context, key string) (*identity.Credential, error) {
	if s.findMaster == nil {
		return nil, identity.ErrNotFound
	}
	return s.findMaster(ctx, key)
}
func (s *stubCreds) CreateCadet(ctx context.Context, reg identity.CadetRegistration) error {
	if s.createC == nil {
		return errStubUnwired
	}
	return s.createC(ctx, reg)
}
func (s *stubCreds) CreateAdmin(ctx context.Context, reg identity.AdminRegistration) error {
	if s.createA == nil {
		return errStubUnwired
	}
	return s.createA(ctx, reg)
}
func (s *stubCreds) PasswordHashFor(ctx context.Context, id identity.Identity) (string, error) {
	if s.hashFor == nil {
		return "", errStubUnwired
	}
	return s.hashFor(ctx, id)
}
func (s *stubCreds) UpdatePassword(ctx context.Context, id identity.Identity, hash string) error {
	if s.updatePass == nil {
		return errStubUnwired
	}
	return s.updatePass(ctx, id, hash)
}
func (s *stubCreds) ApprovedAdmins(ctx context.Context) ([]identity.AdminSummary, error) {
	if s.approved == nil {
		return nil, nil
	}
	return s.approved(ctx)
}
