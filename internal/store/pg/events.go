package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nccportal.org/internal/portal"
)

type eventStore struct {
	db *sql.DB
}

func (s *eventStore) Create(ctx context.Context, e portal.NewEvent) (int64, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var eventID int64
	err = tx.QueryRowContext(ctx, `
		insert into events (ano_id, title, description, date, time, location)
		values ($1, $2, $3, $4, $5, $6)
		returning event_id
	`, e.AnoID, e.Title, nullable(e.Description), e.Date, nullable(e.Time), nullable(e.Location)).Scan(&eventID)
	if err != nil {
		return 0, 0, err
	}

	notified, err := s.fanOut(ctx, tx, e.AnoID,
		fmt.Sprintf("New event: %s on %s.", e.Title, e.Date))
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return eventID, notified, nil
}

func (s *eventStore) ListByAno(ctx context.Context, anoID string) ([]portal.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		select event_id, ano_id, title, coalesce(description, ''), to_char(date, 'YYYY-MM-DD'),
		       coalesce(to_char(time, 'HH24:MI'), ''), coalesce(location, ''), created_at, updated_at
		from events
		where ano_id = $1
		order by date desc
	`, anoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.Event
	for rows.Next() {
		var e portal.Event
		if err := rows.Scan(&e.EventID, &e.AnoID, &e.Title, &e.Description, &e.Date,
			&e.Time, &e.Location, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *eventStore) Update(ctx context.Context, eventID int64, anoID string, e portal.NewEvent) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// Ownership is re-derived from the row inside the transaction; a foreign
	// row is a forbidden mutation, not a missing one.
	var owner string
	err = tx.QueryRowContext(ctx, `select ano_id from events where event_id = $1`, eventID).Scan(&owner)
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
		update events
		set title = $1, description = $2, date = $3, time = $4, location = $5, updated_at = now()
		where event_id = $6
	`, e.Title, nullable(e.Description), e.Date, nullable(e.Time), nullable(e.Location), eventID)
	if err != nil {
		return 0, err
	}

	notified, err := s.fanOut(ctx, tx, anoID,
		fmt.Sprintf("Event updated: %s on %s.", e.Title, e.Date))
	if err != nil {
		return 0, err
	}
	return notified, tx.Commit()
}

func (s *eventStore) Delete(ctx context.Context, eventID int64, anoID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var owner, title string
	err = tx.QueryRowContext(ctx, `
		select ano_id, title from events where event_id = $1
	`, eventID).Scan(&owner, &title)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, portal.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if owner != anoID {
		return 0, portal.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `delete from events where event_id = $1`, eventID); err != nil {
		return 0, err
	}

	notified, err := s.fanOut(ctx, tx, anoID,
		fmt.Sprintf("Event cancelled: %s.", title))
	if err != nil {
		return 0, err
	}
	return notified, tx.Commit()
}

func (s *eventStore) fanOut(ctx context.Context, tx *sql.Tx, anoID, message string) (int, error) {
	res, err := tx.ExecContext(ctx, `
		insert into notifications (regimental_number, type, message, link)
		select regimental_number, 'Event', $1, '/cadet/events'
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
