package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type ProjectRepo struct{ db *pgxpool.Pool }

func NewProjectRepo(db *pgxpool.Pool) repository.ProjectRepository { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO projects (name, start_date, end_date, owner_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, status, deleted, created_at, updated_at`,
		p.Name, p.StartDate, p.EndDate, p.OwnerID).
		Scan(&p.ID, &p.Status, &p.Deleted, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.name, p.start_date, p.end_date, p.status, p.owner_id, p.deleted,
		       p.created_at, p.updated_at, u.name, u.email
		FROM projects p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1 AND p.deleted = FALSE`, id).
		Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.OwnerID, &p.Deleted,
			&p.CreatedAt, &p.UpdatedAt, &p.OwnerName, &p.OwnerEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) GetFull(ctx context.Context, id string) (*models.Project, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// sprints, newest first
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, rhythm, status, start_date, end_date, created_at
		FROM sprints WHERE project_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s models.Sprint
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Rhythm, &s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt); err != nil {
			return nil, err
		}
		p.Sprints = append(p.Sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range p.Sprints {
		s := &p.Sprints[i]
		if s.Tickets, err = sprintTickets(ctx, r.db, s.ID); err != nil {
			return nil, err
		}
		if s.Bugs, err = sprintBugs(ctx, r.db, s.ID); err != nil {
			return nil, err
		}
		if s.Status == models.SprintOpen {
			p.HasOpen = true
		}
	}
	p.SprintCount = len(p.Sprints)
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context, scopeUserID string) ([]models.Project, error) {
	sql := `
		SELECT p.id, p.name, p.start_date, p.end_date, p.status, p.owner_id,
		       p.created_at, p.updated_at, u.name, u.email,
		       (SELECT COUNT(*) FROM sprints s WHERE s.project_id = p.id),
		       EXISTS (SELECT 1 FROM sprints s WHERE s.project_id = p.id AND s.status = 'OPEN')
		FROM projects p
		JOIN users u ON u.id = p.owner_id
		WHERE p.deleted = FALSE`
	args := []any{}
	if scopeUserID != "" {
		args = append(args, scopeUserID)
		sql += ` AND (p.owner_id = $1 OR EXISTS (
			SELECT 1 FROM project_assignments pa
			WHERE pa.project_id = p.id AND pa.user_id = $1))`
	}
	sql += ` ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.OwnerID,
			&p.CreatedAt, &p.UpdatedAt, &p.OwnerName, &p.OwnerEmail,
			&p.SprintCount, &p.HasOpen); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepo) SoftDelete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE projects SET deleted = TRUE, updated_at = now()
		WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) IsAssigned(ctx context.Context, projectID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM project_assignments WHERE project_id=$1 AND user_id=$2)`,
		projectID, userID).Scan(&ok)
	return ok, err
}

func (r *ProjectRepo) Assignees(ctx context.Context, projectID string) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.email, u.name, u.role, u.created_at, u.updated_at
		FROM project_assignments pa
		JOIN users u ON u.id = pa.user_id
		WHERE pa.project_id = $1
		ORDER BY u.name ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *ProjectRepo) Assign(ctx context.Context, projectID, userID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO project_assignments (project_id, user_id)
		VALUES ($1,$2) ON CONFLICT DO NOTHING`, projectID, userID)
	return err
}

func (r *ProjectRepo) Unassign(ctx context.Context, projectID, userID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM project_assignments WHERE project_id=$1 AND user_id=$2`,
		projectID, userID)
	return err
}
