package pg

import (
	"context"
	"database/sql"

	"nccportal.org/internal/portal"
)

type configStore struct {
	db *sql.DB
}

func (s *configStore) List(ctx context.Context) ([]portal.ConfigEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select config_id, config_key, config_value, coalesce(description, ''), updated_at
		from platform_config
		order by config_key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.ConfigEntry
	for rows.Next() {
		var e portal.ConfigEntry
		if err := rows.Scan(&e.ConfigID, &e.Key, &e.Value, &e.Description, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *configStore) Upsert(ctx context.Context, updates []portal.ConfigUpdate) error {
	if len(updates) == 0 {
		return portal.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		if u.Key == "" {
			return portal.ErrInvalidInput
		}
		if _, err := tx.ExecContext(ctx, `
			insert into platform_config (config_key, config_value, description)
			values ($1, $2, $3)
			on conflict (config_key) do update set
				config_value = excluded.config_value,
				description = excluded.description,
				updated_at = now()
		`, u.Key, u.Value, nullable(u.Description)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
