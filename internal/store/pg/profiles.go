package pg

import (
	"context"
	"database/sql"
	"errors"

	"nccportal.org/internal/portal"
)

type profileStore struct {
	db *sql.DB
}

func (s *profileStore) CadetProfile(ctx context.Context, userID int64) (*portal.CadetProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		select u.name, u.email, coalesce(u.contact, ''), u.regimental_number, u.ano_id,
		       coalesce(a.name, ''), coalesce(a.type, ''),
		       coalesce(to_char(p.dob, 'YYYY-MM-DD'), ''), coalesce(p.mother_name, ''),
		       coalesce(p.father_name, ''), coalesce(p.parent_phone, ''), coalesce(p.parent_email, ''),
		       coalesce(p.address, ''), coalesce(p.wing, ''), coalesce(p.category, ''),
		       coalesce(p.current_year, ''), coalesce(p.institution_name, ''), coalesce(p.year_class, '')
		from users u
		left join users_profile p on p.regimental_number = u.regimental_number
		left join admins a on a.ano_id = u.ano_id
		where u.id = $1
	`, userID)
	var p portal.CadetProfile
	if err := row.Scan(&p.Name, &p.Email, &p.Contact, &p.RegimentalNumber, &p.AnoID,
		&p.AnoName, &p.AnoType, &p.DOB, &p.MotherName, &p.FatherName, &p.ParentPhone,
		&p.ParentEmail, &p.Address, &p.Wing, &p.Category, &p.CurrentYear,
		&p.InstitutionName, &p.YearClass); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *profileStore) UpsertCadetProfile(ctx context.Context, regimentalNumber string, p portal.CadetProfileUpdate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into users_profile (regimental_number, dob, mother_name, father_name, parent_phone,
		                           parent_email, address, wing, category, current_year,
		                           institution_name, year_class)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		on conflict (regimental_number) do update set
			dob = excluded.dob,
			mother_name = excluded.mother_name,
			father_name = excluded.father_name,
			parent_phone = excluded.parent_phone,
			parent_email = excluded.parent_email,
			address = excluded.address,
			wing = excluded.wing,
			category = excluded.category,
			current_year = excluded.current_year,
			institution_name = excluded.institution_name,
			year_class = excluded.year_class,
			updated_at = now()
	`, regimentalNumber, nullable(p.DOB), nullable(p.MotherName), nullable(p.FatherName),
		nullable(p.ParentPhone), nullable(p.ParentEmail), nullable(p.Address), nullable(p.Wing),
		nullable(p.Category), nullable(p.CurrentYear), nullable(p.InstitutionName), nullable(p.YearClass))
	return err
}

func (s *profileStore) AdminProfile(ctx context.Context, adminID int64) (*portal.AdminProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		select a.name, a.email, coalesce(a.contact, ''), a.ano_id, a.role, coalesce(a.type, ''),
		       coalesce(to_char(p.dob, 'YYYY-MM-DD'), ''), coalesce(p.address, ''),
		       coalesce(p.unit_name, ''), coalesce(p.institution_name, '')
		from admins a
		left join admin_profile p on p.ano_id = a.ano_id
		where a.id = $1
	`, adminID)
	var p portal.AdminProfile
	if err := row.Scan(&p.Name, &p.Email, &p.Contact, &p.AnoID, &p.Role, &p.Type,
		&p.DOB, &p.Address, &p.UnitName, &p.InstitutionName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *profileStore) UpsertAdminProfile(ctx context.Context, anoID string, p portal.AdminProfileUpdate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into admin_profile (ano_id, dob, address, unit_name, institution_name)
		values ($1, $2, $3, $4, $5)
		on conflict (ano_id) do update set
			dob = excluded.dob,
			address = excluded.address,
			unit_name = excluded.unit_name,
			institution_name = excluded.institution_name,
			updated_at = now()
	`, anoID, nullable(p.DOB), nullable(p.Address), nullable(p.UnitName), nullable(p.InstitutionName))
	return err
}

func (s *profileStore) MasterProfile(ctx context.Context, phone string) (*portal.MasterProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		select m.name, m.email, m.phone, coalesce(p.address, '')
		from masters m
		left join master_profile p on p.phone = m.phone
		where m.phone = $1
	`, phone)
	var p portal.MasterProfile
	if err := row.Scan(&p.Name, &p.Email, &p.Phone, &p.Address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *profileStore) UpsertMasterProfile(ctx context.Context, phone, address string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into master_profile (phone, address)
		values ($1, $2)
		on conflict (phone) do update set
			address = excluded.address,
			updated_at = now()
	`, phone, nullable(address))
	return err
}

func (s *profileStore) SavePicture(ctx context.Context, kind, naturalKey string, pic portal.ProfilePicture) error {
	_, err := s.db.ExecContext(ctx, `
		insert into profile_pictures (owner_kind, owner_key, mime_type, data)
		values ($1, $2, $3, $4)
		on conflict (owner_kind, owner_key) do update set
			mime_type = excluded.mime_type,
			data = excluded.data,
			updated_at = now()
	`, kind, naturalKey, pic.MimeType, pic.Data)
	return err
}

func (s *profileStore) Picture(ctx context.Context, kind, naturalKey string) (*portal.ProfilePicture, error) {
	row := s.db.QueryRowContext(ctx, `
		select mime_type, data
		from profile_pictures
		where owner_kind = $1 and owner_key = $2
	`, kind, naturalKey)
	var pic portal.ProfilePicture
	if err := row.Scan(&pic.MimeType, &pic.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, err
	}
	return &pic, nil
}
