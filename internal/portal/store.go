package portal

import "context"

// Store groups the per-resource persistence contracts. Handlers receive the
// narrow sub-store they need; the Postgres implementation in
// internal/store/pg backs all of them with one pool.
type Store interface {
	Fallins() FallinStore
	Attendance() AttendanceStore
	Events() EventStore
	Notifications() NotificationStore
	Support() SupportStore
	Profiles() ProfileStore
	Config() ConfigStore
	Reports() ReportStore
	Cadets() CadetStore
}

// FallinStore manages fall-in records. Mutations re-fetch the row's tenant
// inside the transaction: a missing row is ErrNotFound, a foreign one is
// ErrForbidden. Every mutation fans out inbox rows to the unit's cadets in
// the same transaction; the int return is the number of rows created.
type FallinStore interface {
	// Create inserts the fall-in and fans out exactly one notification per
	// cadet of the same ano_id within a single transaction. It returns the
	// generated fall-in id and the number of cadets notified.
	Create(ctx context.Context, f NewFallin) (int64, int, error)
	ListByAno(ctx context.Context, anoID string) ([]Fallin, error)
	// Get returns the row including its tenant reference so callers can
	// re-derive ownership from the database rather than the token.
	Get(ctx context.Context, fallinID int64) (*Fallin, error)
	Update(ctx context.Context, fallinID int64, anoID string, f NewFallin) (int, error)
	Delete(ctx context.Context, fallinID int64, anoID string) (int, error)
}

// AttendanceStore manages per-fall-in attendance rows.
type AttendanceStore interface {
	// Mark bulk-upserts the records for a fall-in in one transaction. The
	// fall-in's tenant is re-checked inside the transaction; ErrForbidden is
	// returned on a mismatch and ErrNotFound when the fall-in is absent.
	Mark(ctx context.Context, fallinID int64, anoID string, records []AttendanceMark) error
	RecordsForFallin(ctx context.Context, fallinID int64) ([]AttendanceRecord, error)
	HistoryForCadet(ctx context.Context, regimentalNumber string) ([]CadetAttendance, error)
	EligibleCadets(ctx context.Context, anoID string) ([]CadetName, error)
}

// EventStore manages unit events with the same tenant guard as fall-ins.
// Every mutation notifies the unit's cadets in the same transaction; the
// int return is the number of inbox rows created.
type EventStore interface {
	Create(ctx context.Context, e NewEvent) (int64, int, error)
	ListByAno(ctx context.Context, anoID string) ([]Event, error)
	Update(ctx context.Context, eventID int64, anoID string, e NewEvent) (int, error)
	Delete(ctx context.Context, eventID int64, anoID string) (int, error)
}

// NotificationStore manages cadet inboxes and the master broadcast ledger.
type NotificationStore interface {
	// Notify inserts a single inbox row outside any fan-out.
	Notify(ctx context.Context, regimentalNumber, typ, message, link string) error
	ListForCadet(ctx context.Context, regimentalNumber string) ([]Notification, error)
	// MarkRead flips is_read for one owned notification; ErrNotFound when the
	// id does not exist or belongs to another cadet.
	MarkRead(ctx context.Context, notificationID int64, regimentalNumber string) error
	MarkAllRead(ctx context.Context, regimentalNumber string) error
	UnreadCount(ctx context.Context, regimentalNumber string) (int, error)

	Broadcasts(ctx context.Context) ([]Broadcast, error)
	// CreateBroadcast records the ledger entry and fans out inbox rows to the
	// addressed cadets in one transaction, returning the fan-out count.
	CreateBroadcast(ctx context.Context, b Broadcast) (int64, int, error)
}

// SupportStore manages cadet help-desk queries.
type SupportStore interface {
	Create(ctx context.Context, queryID, regimentalNumber, message string) error
	ListForCadet(ctx context.Context, regimentalNumber string) ([]SupportQuery, error)
	ListAll(ctx context.Context) ([]SupportQuery, error)
	// Respond stores the master's response, flips the status and notifies the
	// owning cadet in one transaction. It returns the owner's regimental
	// number so callers can push a live update to them.
	Respond(ctx context.Context, queryID, response, status string) (string, error)
}

// ProfileStore manages the per-kind profile tables and pictures.
type ProfileStore interface {
	CadetProfile(ctx context.Context, userID int64) (*CadetProfile, error)
	UpsertCadetProfile(ctx context.Context, regimentalNumber string, p CadetProfileUpdate) error
	AdminProfile(ctx context.Context, adminID int64) (*AdminProfile, error)
	UpsertAdminProfile(ctx context.Context, anoID string, p AdminProfileUpdate) error
	MasterProfile(ctx context.Context, phone string) (*MasterProfile, error)
	UpsertMasterProfile(ctx context.Context, phone, address string) error

	SavePicture(ctx context.Context, kind, naturalKey string, pic ProfilePicture) error
	Picture(ctx context.Context, kind, naturalKey string) (*ProfilePicture, error)
}

// ConfigStore manages platform configuration key/value pairs.
type ConfigStore interface {
	List(ctx context.Context) ([]ConfigEntry, error)
	// Upsert applies the whole batch in one transaction.
	Upsert(ctx context.Context, updates []ConfigUpdate) error
}

// ReportStore aggregates dashboard figures.
type ReportStore interface {
	UserCounts(ctx context.Context, anoID string) (UserCounts, error)
	EventsCount(ctx context.Context, anoID string) (int, error)
	AttendanceSummary(ctx context.Context, anoID string) (AttendanceSummary, error)
	PlatformSummary(ctx context.Context) (PlatformSummary, error)
	AttendanceTrends(ctx context.Context) ([]AttendanceTrend, error)
}

// CadetStore manages registration rows on behalf of admins and the master,
// plus roster and global search reads. An empty anoID lifts the tenant
// restriction (master scope); handlers must only pass it for master callers.
type CadetStore interface {
	ListByAno(ctx context.Context, anoID string) ([]CadetRecord, error)
	ListAll(ctx context.Context) ([]CadetRecord, error)
	// Approve flips is_approved and inserts the approval notification in one
	// transaction. A concurrent second approval observes zero updated rows
	// and gets ErrNotFound.
	Approve(ctx context.Context, userID int64, anoID string) error
	Delete(ctx context.Context, userID int64, anoID string) error

	ListAdmins(ctx context.Context) ([]AdminRecord, error)
	SetAdminApproval(ctx context.Context, anoID string, approved bool) error
	DeleteAdmin(ctx context.Context, anoID string) error

	Roster(ctx context.Context, anoID string) ([]RosterRow, error)
	Search(ctx context.Context, q string) (SearchResults, error)
}
