package pg

import (
	"context"
	"database/sql"
	"errors"

	"nccportal.org/internal/portal"
)

type supportStore struct {
	db *sql.DB
}

func (s *supportStore) Create(ctx context.Context, queryID, regimentalNumber, message string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into support_queries (query_id, regimental_number, message)
		values ($1, $2, $3)
	`, queryID, regimentalNumber, message)
	return err
}

const supportQueryColumns = `
	select query_id, regimental_number, message, coalesce(response, ''), status, created_at, updated_at
	from support_queries`

func (s *supportStore) ListForCadet(ctx context.Context, regimentalNumber string) ([]portal.SupportQuery, error) {
	rows, err := s.db.QueryContext(ctx, supportQueryColumns+`
		where regimental_number = $1
		order by created_at desc
	`, regimentalNumber)
	if err != nil {
		return nil, err
	}
	return scanSupportQueries(rows)
}

func (s *supportStore) ListAll(ctx context.Context) ([]portal.SupportQuery, error) {
	rows, err := s.db.QueryContext(ctx, supportQueryColumns+`
		order by status asc, created_at desc
	`)
	if err != nil {
		return nil, err
	}
	return scanSupportQueries(rows)
}

func (s *supportStore) Respond(ctx context.Context, queryID, response, status string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var regimentalNumber string
	err = tx.QueryRowContext(ctx, `
		update support_queries
		set response = $1, status = $2, updated_at = now()
		where query_id = $3
		returning regimental_number
	`, response, status, queryID).Scan(&regimentalNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return "", portal.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		insert into notifications (regimental_number, type, message, link)
		values ($1, 'Support', 'Your support query has received a response.', '/cadet/support')
	`, regimentalNumber); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return regimentalNumber, nil
}

func scanSupportQueries(rows *sql.Rows) ([]portal.SupportQuery, error) {
	defer rows.Close()
	var result []portal.SupportQuery
	for rows.Next() {
		var q portal.SupportQuery
		if err := rows.Scan(&q.QueryID, &q.RegimentalNumber, &q.Message, &q.Response, &q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}
