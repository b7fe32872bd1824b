package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nccportal.org/internal/portal"
)

type cadetStore struct {
	db *sql.DB
}

const cadetColumns = `id, regimental_number, name, email, coalesce(contact, ''), ano_id, is_approved`

func (s *cadetStore) ListByAno(ctx context.Context, anoID string) ([]portal.CadetRecord, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select %s from users
		where ano_id = $1
		order by is_approved asc, name asc
	`, cadetColumns), anoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCadetRecords(rows)
}

func (s *cadetStore) ListAll(ctx context.Context) ([]portal.CadetRecord, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select %s from users
		order by ano_id asc, is_approved asc, name asc
	`, cadetColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCadetRecords(rows)
}

func scanCadetRecords(rows *sql.Rows) ([]portal.CadetRecord, error) {
	var result []portal.CadetRecord
	for rows.Next() {
		var c portal.CadetRecord
		if err := rows.Scan(&c.ID, &c.RegimentalNumber, &c.Name, &c.Email, &c.Contact, &c.AnoID, &c.IsApproved); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// Approve flips the pending flag and writes the approval notification in one
// transaction. The UPDATE matches pending rows only, so a second concurrent
// approval sees zero rows and reports ErrNotFound.
func (s *cadetStore) Approve(ctx context.Context, userID int64, anoID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var regimentalNumber string
	if anoID == "" {
		err = tx.QueryRowContext(ctx, `
			update users set is_approved = true
			where id = $1 and is_approved = false
			returning regimental_number
		`, userID).Scan(&regimentalNumber)
	} else {
		err = tx.QueryRowContext(ctx, `
			update users set is_approved = true
			where id = $1 and ano_id = $2 and is_approved = false
			returning regimental_number
		`, userID, anoID).Scan(&regimentalNumber)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return portal.ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		insert into notifications (regimental_number, type, message, link)
		values ($1, 'ManageUsers', 'Your account has been approved! You may now log in.', '/cadet/dashboard')
	`, regimentalNumber)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *cadetStore) Delete(ctx context.Context, userID int64, anoID string) error {
	if anoID == "" {
		res, err := s.db.ExecContext(ctx, `delete from users where id = $1`, userID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var owner string
	err = tx.QueryRowContext(ctx, `select ano_id from users where id = $1`, userID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return portal.ErrNotFound
	}
	if err != nil {
		return err
	}
	// A cadet in another unit is a forbidden deletion, not a missing one.
	if owner != anoID {
		return portal.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `delete from users where id = $1`, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *cadetStore) ListAdmins(ctx context.Context) ([]portal.AdminRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		select ano_id, name, email, coalesce(contact, ''), role, coalesce(type, ''),
		       is_approved, created_at, updated_at
		from admins
		order by is_approved asc, name asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.AdminRecord
	for rows.Next() {
		var a portal.AdminRecord
		if err := rows.Scan(&a.AnoID, &a.Name, &a.Email, &a.Contact, &a.Role, &a.Type, &a.IsApproved, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *cadetStore) SetAdminApproval(ctx context.Context, anoID string, approved bool) error {
	res, err := s.db.ExecContext(ctx, `
		update admins set is_approved = $2, updated_at = now() where ano_id = $1
	`, anoID, approved)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *cadetStore) DeleteAdmin(ctx context.Context, anoID string) error {
	res, err := s.db.ExecContext(ctx, `delete from admins where ano_id = $1`, anoID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *cadetStore) Roster(ctx context.Context, anoID string) ([]portal.RosterRow, error) {
	query := `
		select u.regimental_number, u.name, u.email, coalesce(u.contact, ''), u.ano_id,
		       coalesce(p.wing, ''), coalesce(p.category, ''),
		       coalesce(p.institution_name, ''), coalesce(p.current_year, '')
		from users u
		left join users_profile p on p.regimental_number = u.regimental_number
		where u.is_approved = true`
	args := []any{}
	if anoID != "" {
		query += ` and u.ano_id = $1`
		args = append(args, anoID)
	}
	query += ` order by u.ano_id asc, u.name asc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.RosterRow
	for rows.Next() {
		var r portal.RosterRow
		if err := rows.Scan(&r.RegimentalNumber, &r.Name, &r.Email, &r.Contact, &r.AnoID,
			&r.Wing, &r.Category, &r.InstitutionName, &r.CurrentYear); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *cadetStore) Search(ctx context.Context, q string) (portal.SearchResults, error) {
	var out portal.SearchResults
	pattern := "%" + q + "%"

	cadets, err := s.searchHits(ctx, `
		select 'cadet', regimental_number, name, email, coalesce(contact, '')
		from users
		where name ilike $1 or regimental_number ilike $1 or email ilike $1
		order by name asc limit 25
	`, pattern)
	if err != nil {
		return out, err
	}
	admins, err := s.searchHits(ctx, `
		select 'admin', ano_id, name, email, coalesce(contact, '')
		from admins
		where name ilike $1 or ano_id ilike $1 or email ilike $1
		order by name asc limit 25
	`, pattern)
	if err != nil {
		return out, err
	}
	masters, err := s.searchHits(ctx, `
		select 'master', phone, name, email, phone
		from masters
		where name ilike $1 or phone ilike $1 or email ilike $1
		order by name asc limit 25
	`, pattern)
	if err != nil {
		return out, err
	}

	out.Cadets = cadets
	out.Admins = admins
	out.Masters = masters
	return out, nil
}

func (s *cadetStore) searchHits(ctx context.Context, query, pattern string) ([]portal.SearchHit, error) {
	rows, err := s.db.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []portal.SearchHit
	for rows.Next() {
		var h portal.SearchHit
		if err := rows.Scan(&h.Type, &h.ID, &h.Name, &h.Email, &h.Contact); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
