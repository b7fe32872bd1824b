// Package pg implements the portal's persistence contracts on PostgreSQL
// through database/sql with the pgx stdlib driver.
package pg

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"nccportal.org/internal/portal"
)

// Store owns the connection pool and hands out the per-resource sub-stores.
type Store struct {
	db *sql.DB
}

var _ portal.Store = (*Store)(nil)

// Open connects to PostgreSQL and applies pool defaults sized for the
// portal's request volume.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing pool; used by tests with sqlmock.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the pool for readiness probes and the migration runner.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Fallins() portal.FallinStore             { return &fallinStore{db: s.db} }
func (s *Store) Attendance() portal.AttendanceStore      { return &attendanceStore{db: s.db} }
func (s *Store) Events() portal.EventStore               { return &eventStore{db: s.db} }
func (s *Store) Notifications() portal.NotificationStore { return &notificationStore{db: s.db} }
func (s *Store) Support() portal.SupportStore            { return &supportStore{db: s.db} }
func (s *Store) Profiles() portal.ProfileStore           { return &profileStore{db: s.db} }
func (s *Store) Config() portal.ConfigStore              { return &configStore{db: s.db} }
func (s *Store) Reports() portal.ReportStore             { return &reportStore{db: s.db} }
func (s *Store) Cadets() portal.CadetStore               { return &cadetStore{db: s.db} }
