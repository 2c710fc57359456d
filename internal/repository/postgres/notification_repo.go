package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type NotificationRepo struct{ db *pgxpool.Pool }

func NewNotificationRepo(db *pgxpool.Pool) repository.NotificationRepository {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, message, entity_id, link)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''))
		RETURNING id, read, created_at`,
		n.UserID, n.Type, n.Message, n.EntityID, n.Link).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
}

func (r *NotificationRepo) CreateBulk(ctx context.Context, userIDs []string, n models.Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (user_id, type, message, entity_id, link)
		SELECT unnest($1::uuid[]), $2, $3, NULLIF($4,''), NULLIF($5,'')`,
		userIDs, n.Type, n.Message, n.EntityID, n.Link)
	return err
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, take int) ([]models.Notification, error) {
	sql := `
		SELECT id, user_id, type, message, COALESCE(entity_id,''), COALESCE(link,''), read, created_at
		FROM notifications WHERE user_id=$1
		ORDER BY read ASC, created_at DESC`
	args := []any{userID}
	if take > 0 {
		args = append(args, take)
		sql += ` LIMIT $2`
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.EntityID, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead only touches rows owned by userID; foreign ids are ignored.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID string, ids []string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET read=TRUE
		WHERE user_id=$1 AND id = ANY($2::uuid[])`, userID, ids)
	return err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET read=TRUE WHERE user_id=$1 AND read=FALSE`, userID)
	return err
}

func (r *NotificationRepo) Delete(ctx context.Context, userID, id string) error {
	ct, err := r.db.Exec(ctx, `
		DELETE FROM notifications WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
