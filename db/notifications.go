package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// SaveNotifications bulk-inserts pending rows in one transaction.
func (db *postgresDB) SaveNotifications(ctx context.Context, ns []model.ScheduledNotification) error {
	const insert = `INSERT INTO notifications (
		recipient_ref,
		type,
		payload,
		send_at,
		status
	) VALUES (
		@recipientRef,
		@type,
		@payload,
		@sendAt,
		@status
	)`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, n := range ns {
		status := n.Status
		if status == "" {
			status = model.NotificationPending
		}
		args := pgx.NamedArgs{
			"recipientRef": n.RecipientRef,
			"type":         string(n.Type),
			"payload":      []byte(n.Payload),
			"sendAt": pgtype.Timestamptz{
				Time:  n.SendAt.UTC(),
				Valid: true,
			},
			"status": string(status),
		}
		_, err := tx.Exec(ctx, insert, args)
		if err != nil {
			return fmt.Errorf("error inserting notification for %s: %w", n.RecipientRef, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing notification transaction: %w", err)
	}
	return nil
}

func (db *postgresDB) ListDueNotifications(ctx context.Context, now time.Time) ([]model.ScheduledNotification, error) {
	const query = `SELECT id, recipient_ref, type, payload, send_at, status, read
					FROM notifications
					WHERE status='pending' AND send_at <= @now
					ORDER BY send_at`

	args := pgx.NamedArgs{
		"now": pgtype.Timestamptz{
			Time:  now.UTC(),
			Valid: true,
		},
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying due notifications: %w", err)
	}

	result := make([]model.ScheduledNotification, 0, 16)
	for rows.Next() {
		var n model.ScheduledNotification
		var typ, status string
		var payload []byte
		var sendAt pgtype.Timestamptz
		err := rows.Scan(&n.ID, &n.RecipientRef, &typ, &payload, &sendAt, &status, &n.Read)
		if err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		n.Type = model.NotificationType(typ)
		n.Status = model.NotificationStatus(status)
		n.Payload = payload
		n.SendAt = sendAt.Time
		result = append(result, n)
	}

	return result, nil
}

func (db *postgresDB) MarkNotificationSent(ctx context.Context, id int64) error {
	const query = `UPDATE notifications SET status='sent' WHERE id=@id`

	args := pgx.NamedArgs{
		"id": id,
	}
	_, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error marking notification %d sent: %w", id, err)
	}
	return nil
}
