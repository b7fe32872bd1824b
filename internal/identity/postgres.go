package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrUniqueViolation = "23505"

var _ CredentialStore = (*PGStore)(nil)

// PGStore implements CredentialStore against the three PostgreSQL identity
// tables (users, admins, masters).
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) FindCadet(ctx context.Context, regimentalNumber string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, regimental_number, ano_id, password_hash, is_approved
		from users
		where regimental_number = $1
	`, regimentalNumber)
	var (
		cred Credential
		id   int64
	)
	if err := row.Scan(&id, &cred.Identity.NaturalKey, &cred.Identity.AnoID, &cred.PasswordHash, &cred.Approved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cred.Identity.Kind = KindCadet
	cred.Identity.ID = id
	return &cred, nil
}

func (s *PGStore) FindAdmin(ctx context.Context, anoID string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, ano_id, role, password_hash, is_approved
		from admins
		where ano_id = $1
	`, anoID)
	var cred Credential
	if err := row.Scan(&cred.Identity.ID, &cred.Identity.NaturalKey, &cred.Identity.Role, &cred.PasswordHash, &cred.Approved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// For a unit admin the natural key is also the tenant reference.
	cred.Identity.Kind = KindAdmin
	cred.Identity.AnoID = cred.Identity.NaturalKey
	return &cred, nil
}

func (s *PGStore) FindMaster(ctx context.Context, phone string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx, `
		select phone, password_hash, is_active
		from masters
		where phone = $1
	`, phone)
	var cred Credential
	if err := row.Scan(&cred.Identity.NaturalKey, &cred.PasswordHash, &cred.Approved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cred.Identity.Kind = KindMaster
	return &cred, nil
}

func (s *PGStore) CreateCadet(ctx context.Context, reg CadetRegistration) error {
	_, err := s.db.ExecContext(ctx, `
		insert into users (regimental_number, name, email, contact, password_hash, ano_id)
		values ($1, $2, $3, $4, $5, $6)
	`, reg.RegimentalNumber, reg.Name, reg.Email, nullable(reg.Contact), reg.PasswordHash, reg.AnoID)
	return mapDuplicate(err)
}

func (s *PGStore) CreateAdmin(ctx context.Context, reg AdminRegistration) error {
	_, err := s.db.ExecContext(ctx, `
		insert into admins (ano_id, role, name, email, contact, password_hash, type)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, reg.AnoID, reg.Role, reg.Name, reg.Email, nullable(reg.Contact), reg.PasswordHash, reg.Type)
	return mapDuplicate(err)
}

func (s *PGStore) PasswordHashFor(ctx context.Context, id Identity) (string, error) {
	var (
		query string
		arg   any
	)
	switch id.Kind {
	case KindCadet:
		query, arg = `select password_hash from users where id = $1`, id.ID
	case KindAdmin:
		query, arg = `select password_hash from admins where id = $1`, id.ID
	case KindMaster:
		query, arg = `select password_hash from masters where phone = $1`, id.NaturalKey
	default:
		return "", ErrInvalidInput
	}
	var hash string
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

func (s *PGStore) UpdatePassword(ctx context.Context, id Identity, hash string) error {
	var (
		query string
		arg   any
	)
	switch id.Kind {
	case KindCadet:
		query, arg = `update users set password_hash = $1, updated_at = now() where id = $2`, id.ID
	case KindAdmin:
		query, arg = `update admins set password_hash = $1, updated_at = now() where id = $2`, id.ID
	case KindMaster:
		query, arg = `update masters set password_hash = $1, updated_at = now() where phone = $2`, id.NaturalKey
	default:
		return ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, query, hash, arg)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ApprovedAdmins(ctx context.Context) ([]AdminSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		select ano_id, name, role
		from admins
		where is_approved = true
		order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AdminSummary
	for rows.Next() {
		var a AdminSummary
		if err := rows.Scan(&a.AnoID, &a.Name, &a.Role); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return ErrDuplicate
	}
	return err
}
