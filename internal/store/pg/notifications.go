package pg

import (
	"context"
	"database/sql"

	"nccportal.org/internal/portal"
)

type notificationStore struct {
	db *sql.DB
}

func (s *notificationStore) Notify(ctx context.Context, regimentalNumber, typ, message, link string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into notifications (regimental_number, type, message, link)
		values ($1, $2, $3, $4)
	`, regimentalNumber, typ, message, nullable(link))
	return err
}

func (s *notificationStore) ListForCadet(ctx context.Context, regimentalNumber string) ([]portal.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		select notification_id, regimental_number, type, message, coalesce(link, ''), is_read, created_at
		from notifications
		where regimental_number = $1
		order by created_at desc
	`, regimentalNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.Notification
	for rows.Next() {
		var n portal.Notification
		if err := rows.Scan(&n.NotificationID, &n.RegimentalNumber, &n.Type, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (s *notificationStore) MarkRead(ctx context.Context, notificationID int64, regimentalNumber string) error {
	res, err := s.db.ExecContext(ctx, `
		update notifications
		set is_read = true, updated_at = now()
		where notification_id = $1 and regimental_number = $2
	`, notificationID, regimentalNumber)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *notificationStore) MarkAllRead(ctx context.Context, regimentalNumber string) error {
	_, err := s.db.ExecContext(ctx, `
		update notifications
		set is_read = true, updated_at = now()
		where regimental_number = $1 and is_read = false
	`, regimentalNumber)
	return err
}

func (s *notificationStore) UnreadCount(ctx context.Context, regimentalNumber string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		select count(*) from notifications where regimental_number = $1 and is_read = false
	`, regimentalNumber).Scan(&count)
	return count, err
}

func (s *notificationStore) Broadcasts(ctx context.Context) ([]portal.Broadcast, error) {
	rows, err := s.db.QueryContext(ctx, `
		select notification_id, sender_type, sender_id, target_type, coalesce(target_id, ''), message, created_at
		from notification
		order by created_at desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.Broadcast
	for rows.Next() {
		var b portal.Broadcast
		if err := rows.Scan(&b.NotificationID, &b.SenderType, &b.SenderID, &b.TargetType, &b.TargetID, &b.Message, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (s *notificationStore) CreateBroadcast(ctx context.Context, b portal.Broadcast) (int64, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var broadcastID int64
	err = tx.QueryRowContext(ctx, `
		insert into notification (sender_type, sender_id, target_type, target_id, message)
		values ($1, $2, $3, $4, $5)
		returning notification_id
	`, b.SenderType, b.SenderID, b.TargetType, nullable(b.TargetID), b.Message).Scan(&broadcastID)
	if err != nil {
		return 0, 0, err
	}

	// Fan out to cadet inboxes; admin/master-targeted broadcasts stay in the
	// ledger only since those roles read it directly.
	var fanout int64
	switch b.TargetType {
	case "all", "user":
		query := `
			insert into notifications (regimental_number, type, message, link)
			select regimental_number, 'Broadcast', $1, '/cadet/notifications'
			from users
			where is_approved = true
		`
		args := []any{b.Message}
		if b.TargetID != "" {
			query += ` and regimental_number = $2`
			args = append(args, b.TargetID)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, 0, err
		}
		if fanout, err = res.RowsAffected(); err != nil {
			return 0, 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return broadcastID, int(fanout), nil
}
