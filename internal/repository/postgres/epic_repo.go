package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type EpicRepo struct{ db *pgxpool.Pool }

func NewEpicRepo(db *pgxpool.Pool) repository.EpicRepository { return &EpicRepo{db: db} }

func (r *EpicRepo) Create(ctx context.Context, e *models.Epic) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO epics (project_id, title, description, status, due_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`,
		e.ProjectID, e.Title, e.Description, e.Status, e.DueDate).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *EpicRepo) Get(ctx context.Context, id string) (*models.Epic, error) {
	var e models.Epic
	err := r.db.QueryRow(ctx, `
		SELECT e.id, e.project_id, e.title, e.description, e.status, e.due_date, e.created_at,
		       COUNT(t.id), COUNT(t.id) FILTER (WHERE t.status = 'DONE')
		FROM epics e
		LEFT JOIN tickets t ON t.epic_id = e.id
		WHERE e.id=$1
		GROUP BY e.id`, id).
		Scan(&e.ID, &e.ProjectID, &e.Title, &e.Description, &e.Status, &e.DueDate, &e.CreatedAt,
			&e.TicketCount, &e.CompletedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EpicRepo) ListByProject(ctx context.Context, projectID string) ([]models.Epic, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.project_id, e.title, e.description, e.status, e.due_date, e.created_at,
		       COUNT(t.id), COUNT(t.id) FILTER (WHERE t.status = 'DONE')
		FROM epics e
		LEFT JOIN tickets t ON t.epic_id = e.id
		WHERE e.project_id=$1
		GROUP BY e.id
		ORDER BY e.created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Epic
	for rows.Next() {
		var e models.Epic
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Title, &e.Description, &e.Status, &e.DueDate,
			&e.CreatedAt, &e.TicketCount, &e.CompletedCount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EpicRepo) Update(ctx context.Context, e *models.Epic) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE epics SET title=$1, description=$2, status=$3, due_date=$4
		WHERE id=$5`,
		e.Title, e.Description, e.Status, e.DueDate, e.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete unlinks tickets before removing the epic; tickets survive with
// epic_id = NULL and their status untouched.
func (r *EpicRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE tickets SET epic_id=NULL WHERE epic_id=$1`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM epics WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}
