package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type MeetingRepo struct{ db *pgxpool.Pool }

func NewMeetingRepo(db *pgxpool.Pool) repository.MeetingRepository { return &MeetingRepo{db: db} }

func (r *MeetingRepo) Create(ctx context.Context, m *models.Meeting) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO meetings (project_id, created_by, title, date, notes, next_steps, attendees)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`,
		m.ProjectID, m.CreatedBy, m.Title, m.Date, m.Notes, m.NextSteps, m.Attendees).
		Scan(&m.ID, &m.CreatedAt)
}

func (r *MeetingRepo) Get(ctx context.Context, id string) (*models.Meeting, error) {
	var m models.Meeting
	err := r.db.QueryRow(ctx, `
		SELECT m.id, m.project_id, m.created_by, m.title, m.date, m.notes, m.next_steps,
		       m.attendees, m.created_at, u.name, u.email
		FROM meetings m
		JOIN users u ON u.id = m.created_by
		WHERE m.id=$1`, id).
		Scan(&m.ID, &m.ProjectID, &m.CreatedBy, &m.Title, &m.Date, &m.Notes, &m.NextSteps,
			&m.Attendees, &m.CreatedAt, &m.CreatorName, &m.CreatorEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepo) ListByProject(ctx context.Context, projectID string) ([]models.Meeting, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.project_id, m.created_by, m.title, m.date, m.notes, m.next_steps,
		       m.attendees, m.created_at, u.name, u.email
		FROM meetings m
		JOIN users u ON u.id = m.created_by
		WHERE m.project_id=$1 ORDER BY m.date DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.CreatedBy, &m.Title, &m.Date, &m.Notes,
			&m.NextSteps, &m.Attendees, &m.CreatedAt, &m.CreatorName, &m.CreatorEmail); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MeetingRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
