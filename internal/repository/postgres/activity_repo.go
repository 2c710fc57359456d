package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type ActivityRepo struct{ db *pgxpool.Pool }

func NewActivityRepo(db *pgxpool.Pool) repository.ActivityRepository { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Create(ctx context.Context, a *models.ActivityLog) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO activity_logs (project_id, user_id, entity_type, entity_id, action, details)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`,
		a.ProjectID, a.UserID, a.EntityType, a.EntityID, a.Action, a.Details).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *ActivityRepo) ListByProject(ctx context.Context, projectID string, take int) ([]models.ActivityLog, error) {
	if take <= 0 {
		take = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.project_id, a.user_id, u.name, a.entity_type, a.entity_id,
		       a.action, a.details, a.created_at
		FROM activity_logs a
		JOIN users u ON u.id = a.user_id
		WHERE a.project_id=$1
		ORDER BY a.created_at DESC
		LIMIT $2`, projectID, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivityLog
	for rows.Next() {
		var a models.ActivityLog
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.UserID, &a.UserName, &a.EntityType,
			&a.EntityID, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
