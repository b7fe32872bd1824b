// Package portal defines the unit-scoped domain types and persistence
// contracts behind the HTTP layer: fall-ins, attendance, events,
// notifications, support queries, profiles, platform config and reports.
package portal

import "time"

// Fallin is a parade/muster record owned by a unit admin's tenant (ano_id).
type Fallin struct {
	FallinID        int64     `json:"fallin_id"`
	AnoID           string    `json:"ano_id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Type            string    `json:"type"`
	Location        string    `json:"location,omitempty"`
	DressCode       string    `json:"dress_code"`
	Instructions    string    `json:"instructions,omitempty"`
	ActivityDetails string    `json:"activity_details,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewFallin carries the fields accepted at creation time.
type NewFallin struct {
	AnoID           string
	Date            string
	Time            string
	Type            string
	Location        string
	DressCode       string
	Instructions    string
	ActivityDetails string
}

// AttendanceMark is one cadet's row in a bulk attendance submission.
type AttendanceMark struct {
	RegimentalNumber string `json:"regimental_number"`
	Status           string `json:"status"`
	Remarks          string `json:"remarks,omitempty"`
}

// AttendanceRecord is a stored attendance row for a fall-in.
type AttendanceRecord struct {
	FallinID         int64     `json:"fallin_id"`
	RegimentalNumber string    `json:"regimental_number"`
	Name             string    `json:"name,omitempty"`
	Status           string    `json:"status"`
	Remarks          string    `json:"remarks,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CadetAttendance is a cadet-facing history row joining the fall-in metadata.
type CadetAttendance struct {
	FallinID int64  `json:"fallin_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Remarks  string `json:"remarks,omitempty"`
}

// CadetName is the minimal roster entry used when taking attendance.
type CadetName struct {
	RegimentalNumber string `json:"regimental_number"`
	Name             string `json:"name"`
}

// Event is a unit-scoped calendar entry.
type Event struct {
	EventID     int64     `json:"event_id"`
	AnoID       string    `json:"ano_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent carries the fields accepted when creating or updating an event.
type NewEvent struct {
	AnoID       string
	Title       string
	Description string
	Date        string
	Time        string
	Location    string
}

// Notification is one cadet's inbox entry.
type Notification struct {
	NotificationID   int64     `json:"notification_id"`
	RegimentalNumber string    `json:"regimental_number,omitempty"`
	Type             string    `json:"type"`
	Message          string    `json:"message"`
	Link             string    `json:"link,omitempty"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

// Broadcast is a master-authored entry in the platform-wide notification
// ledger; fan-out into per-cadet inbox rows happens at creation.
type Broadcast struct {
	NotificationID int64     `json:"notification_id"`
	SenderType     string    `json:"sender_type"`
	SenderID       string    `json:"sender_id"`
	TargetType     string    `json:"target_type"`
	TargetID       string    `json:"target_id,omitempty"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// SupportQuery is a cadet's help-desk thread with the master's response.
type SupportQuery struct {
	QueryID          string    `json:"query_id"`
	RegimentalNumber string    `json:"regimental_number"`
	Message          string    `json:"message"`
	Response         string    `json:"response,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CadetProfile is the joined users + users_profile + admins view.
type CadetProfile struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Contact          string `json:"contact,omitempty"`
	RegimentalNumber string `json:"regimental_number"`
	AnoID            string `json:"ano_id"`
	AnoName          string `json:"ano_name,omitempty"`
	AnoType          string `json:"ano_type,omitempty"`
	DOB              string `json:"dob,omitempty"`
	MotherName       string `json:"mother_name,omitempty"`
	FatherName       string `json:"father_name,omitempty"`
	ParentPhone      string `json:"parent_phone,omitempty"`
	ParentEmail      string `json:"parent_email,omitempty"`
	Address          string `json:"address,omitempty"`
	Wing             string `json:"wing,omitempty"`
	Category         string `json:"category,omitempty"`
	CurrentYear      string `json:"current_year,omitempty"`
	InstitutionName  string `json:"institution_name,omitempty"`
	YearClass        string `json:"year_class,omitempty"`
}

// CadetProfileUpdate is the upsertable slice of CadetProfile.
type CadetProfileUpdate struct {
	DOB             string `json:"dob,omitempty"`
	MotherName      string `json:"mother_name,omitempty"`
	FatherName      string `json:"father_name,omitempty"`
	ParentPhone     string `json:"parent_phone,omitempty"`
	ParentEmail     string `json:"parent_email,omitempty"`
	Address         string `json:"address,omitempty"`
	Wing            string `json:"wing,omitempty"`
	Category        string `json:"category,omitempty"`
	CurrentYear     string `json:"current_year,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
	YearClass       string `json:"year_class,omitempty"`
}

// AdminProfile is the joined admins + admin_profile view.
type AdminProfile struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Contact         string `json:"contact,omitempty"`
	AnoID           string `json:"ano_id"`
	Role            string `json:"role"`
	Type            string `json:"type,omitempty"`
	DOB             string `json:"dob,omitempty"`
	Address         string `json:"address,omitempty"`
	UnitName        string `json:"unit_name,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
}

// AdminProfileUpdate is the upsertable slice of AdminProfile.
type AdminProfileUpdate struct {
	DOB             string `json:"dob,omitempty"`
	Address         string `json:"address,omitempty"`
	UnitName        string `json:"unit_name,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
}

// MasterProfile is the joined masters + master_profile view.
type MasterProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// ProfilePicture is a stored image, kept as a base64 payload so the API can
// return it inline.
type ProfilePicture struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// ConfigEntry is one platform configuration key/value pair.
type ConfigEntry struct {
	ConfigID    int64     `json:"config_id"`
	Key         string    `json:"config_key"`
	Value       string    `json:"config_value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConfigUpdate is one entry of a bulk config upsert.
type ConfigUpdate struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// CadetRecord is the admin-facing registration row for manage-users views.
type CadetRecord struct {
	ID               int64  `json:"id"`
	RegimentalNumber string `json:"regimental_number"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Contact          string `json:"contact,omitempty"`
	AnoID            string `json:"ano_id"`
	IsApproved       bool   `json:"is_approved"`
}

// AdminRecord is the master-facing admin registration row.
type AdminRecord struct {
	AnoID      string    `json:"ano_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Contact    string    `json:"contact,omitempty"`
	Role       string    `json:"role"`
	Type       string    `json:"type,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RosterRow is one line of the nominal roll export.
type RosterRow struct {
	RegimentalNumber string
	Name             string
	Email            string
	Contact          string
	AnoID            string
	Wing             string
	Category         string
	InstitutionName  string
	CurrentYear      string
}

// UserCounts is the admin dashboard registration summary.
type UserCounts struct {
	TotalCadets   int `json:"totalCadets"`
	PendingCadets int `json:"pendingCadets"`
}

// AttendanceSummary is the unit's average attendance percentage.
type AttendanceSummary struct {
	AvgAttendance float64 `json:"avgAttendance"`
}

// PlatformSummary is the master dashboard's platform-wide counters.
type PlatformSummary struct {
	TotalCadets  int `json:"totalCadets"`
	TotalAdmins  int `json:"totalAdmins"`
	TotalMasters int `json:"totalMasters"`
	TotalFallins int `json:"totalFallins"`
	TotalEvents  int `json:"totalEvents"`
	TotalQueries int `json:"totalQueries"`
}

// AttendanceTrend is one fall-in's platform-wide attendance ratio.
type AttendanceTrend struct {
	FallinID     int64   `json:"fallin_id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	PresentCount int     `json:"presentCount"`
	TotalCount   int     `json:"totalCount"`
	Percentage   float64 `json:"percentage"`
}

// SearchHit is one row of the master's global search.
type SearchHit struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact,omitempty"`
}

// SearchResults groups hits per identity kind.
type SearchResults struct {
	Cadets  []SearchHit `json:"cadets"`
	Admins  []SearchHit `json:"admins"`
	Masters []SearchHit `json:"masters"`
}
