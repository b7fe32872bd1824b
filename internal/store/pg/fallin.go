package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nccportal.org/internal/portal"
)

type fallinStore struct {
	db *sql.DB
}

func (s *fallinStore) Create(ctx context.Context, f portal.NewFallin) (int64, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var fallinID int64
	err = tx.QueryRowContext(ctx, `
		insert into fallin (date, time, type, ano_id, location, dress_code, instructions, activity_details)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		returning fallin_id
	`, f.Date, f.Time, f.Type, f.AnoID, nullable(f.Location), f.DressCode,
		nullable(f.Instructions), nullable(f.ActivityDetails)).Scan(&fallinID)
	if err != nil {
		return 0, 0, err
	}

	notified, err := s.fanOut(ctx, tx, f.AnoID,
		fmt.Sprintf("New Fall-In posted on %s @ %s @ %s.", f.Date, f.Time, orDash(f.Location)))
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return fallinID, notified, nil
}

func (s *fallinStore) ListByAno(ctx context.Context, anoID string) ([]portal.Fallin, error) {
	rows, err := s.db.QueryContext(ctx, `
		select fallin_id, ano_id, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), type,
		       coalesce(location, ''), dress_code, coalesce(instructions, ''),
		       coalesce(activity_details, ''), created_at, updated_at
		from fallin
		where ano_id = $1
		order by date desc, time desc
	`, anoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.Fallin
	for rows.Next() {
		var f portal.Fallin
		if err := rows.Scan(&f.FallinID, &f.AnoID, &f.Date, &f.Time, &f.Type,
			&f.Location, &f.DressCode, &f.Instructions, &f.ActivityDetails,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (s *fallinStore) Get(ctx context.Context, fallinID int64) (*portal.Fallin, error) {
	row := s.db.QueryRowContext(ctx, `
		select fallin_id, ano_id, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), type,
		       coalesce(location, ''), dress_code, coalesce(instructions, ''),
		       coalesce(activity_details, ''), created_at, updated_at
		from fallin
		where fallin_id = $1
	`, fallinID)
	var f portal.Fallin
	if err := row.Scan(&f.FallinID, &f.AnoID, &f.Date, &f.Time, &f.Type,
		&f.Location, &f.DressCode, &f.Instructions, &f.ActivityDetails,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (s *fallinStore) Update(ctx context.Context, fallinID int64, anoID string, f portal.NewFallin) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// Ownership is re-derived from the row inside the transaction, not
	// trusted from the token. A foreign row is a forbidden mutation, not a
	// missing one.
	var owner string
	err = tx.QueryRowContext(ctx, `select ano_id from fallin where fallin_id = $1`, fallinID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, portal.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if owner != anoID {
		return 0, portal.ErrForbidden
	}

	_, err = tx.ExecContext(ctx, `
		update fallin
		set date = $1, time = $2, type = $3, location = $4, dress_code = $5,
		    instructions = $6, activity_details = $7, updated_at = now()
		where fallin_id = $8
	`, f.Date, f.Time, f.Type, nullable(f.Location), f.DressCode,
		nullable(f.Instructions), nullable(f.ActivityDetails), fallinID)
	if err != nil {
		return 0, err
	}

	notified, err := s.fanOut(ctx, tx, anoID,
		fmt.Sprintf("Fall-In updated: now on %s @ %s @ %s.", f.Date, f.Time, orDash(f.Location)))
	if err != nil {
		return 0, err
	}
	return notified, tx.Commit()
}

func (s *fallinStore) Delete(ctx context.Context, fallinID int64, anoID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var owner, date, timeOfDay string
	err = tx.QueryRowContext(ctx, `
		select ano_id, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI')
		from fallin where fallin_id = $1
	`, fallinID).Scan(&owner, &date, &timeOfDay)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, portal.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if owner != anoID {
		return 0, portal.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `delete from fallin where fallin_id = $1`, fallinID); err != nil {
		return 0, err
	}

	notified, err := s.fanOut(ctx, tx, anoID,
		fmt.Sprintf("Fall-In removed: %s @ %s.", date, timeOfDay))
	if err != nil {
		return 0, err
	}
	return notified, tx.Commit()
}

func (s *fallinStore) fanOut(ctx context.Context, tx *sql.Tx, anoID, message string) (int, error) {
	res, err := tx.ExecContext(ctx, `
		insert into notifications (regimental_number, type, message, link)
		select regimental_number, 'Fallin', $1, '/cadet/fallin'
		from users
		where ano_id = $2
	`, message, anoID)
	if err != nil {
		return 0, err
	}
	notified, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(notified), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// requireAffected maps a zero-row mutation to ErrNotFound.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return portal.ErrNotFound
	}
	return nil
}
