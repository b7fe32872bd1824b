package pg

import (
	"context"
	"database/sql"
	"errors"

	"nccportal.org/internal/portal"
)

type attendanceStore struct {
	db *sql.DB
}

func (s *attendanceStore) Mark(ctx context.Context, fallinID int64, anoID string, records []portal.AttendanceMark) error {
	if len(records) == 0 {
		return portal.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Ownership is re-derived from the row inside the transaction, not
	// trusted from the token, to tolerate tenant reassignment between logins.
	var owner string
	err = tx.QueryRowContext(ctx, `select ano_id from fallin where fallin_id = $1`, fallinID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return portal.ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != anoID {
		return portal.ErrForbidden
	}

	for _, rec := range records {
		if rec.RegimentalNumber == "" || rec.Status == "" {
			return portal.ErrInvalidInput
		}
		if _, err := tx.ExecContext(ctx, `
			insert into attendance (fallin_id, regimental_number, ano_id, status, remarks)
			values ($1, $2, $3, $4, $5)
			on conflict (fallin_id, regimental_number) do update set
				status = excluded.status,
				remarks = excluded.remarks,
				updated_at = now()
		`, fallinID, rec.RegimentalNumber, anoID, rec.Status, nullable(rec.Remarks)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *attendanceStore) RecordsForFallin(ctx context.Context, fallinID int64) ([]portal.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		select a.fallin_id, a.regimental_number, u.name, a.status, coalesce(a.remarks, ''), a.updated_at
		from attendance a
		join users u on u.regimental_number = a.regimental_number
		where a.fallin_id = $1
		order by u.name
	`, fallinID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.AttendanceRecord
	for rows.Next() {
		var rec portal.AttendanceRecord
		if err := rows.Scan(&rec.FallinID, &rec.RegimentalNumber, &rec.Name, &rec.Status, &rec.Remarks, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (s *attendanceStore) HistoryForCadet(ctx context.Context, regimentalNumber string) ([]portal.CadetAttendance, error) {
	rows, err := s.db.QueryContext(ctx, `
		select f.fallin_id, to_char(f.date, 'YYYY-MM-DD'), to_char(f.time, 'HH24:MI'), f.type,
		       a.status, coalesce(a.remarks, '')
		from attendance a
		join fallin f on f.fallin_id = a.fallin_id
		where a.regimental_number = $1
		order by f.date desc, f.time desc
	`, regimentalNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.CadetAttendance
	for rows.Next() {
		var rec portal.CadetAttendance
		if err := rows.Scan(&rec.FallinID, &rec.Date, &rec.Time, &rec.Type, &rec.Status, &rec.Remarks); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (s *attendanceStore) EligibleCadets(ctx context.Context, anoID string) ([]portal.CadetName, error) {
	rows, err := s.db.QueryContext(ctx, `
		select regimental_number, name
		from users
		where ano_id = $1 and is_approved = true
		order by name
	`, anoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.CadetName
	for rows.Next() {
		var c portal.CadetName
		if err := rows.Scan(&c.RegimentalNumber, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
