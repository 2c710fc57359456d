package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) repository.TicketRepository { return &TicketRepo{db: db} }

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tickets (sprint_id, epic_id, title, status)
		VALUES ($1, NULLIF($2,'')::uuid, $3, 'TODO')
		RETURNING id, status, created_at, updated_at`,
		t.SprintID, t.EpicID, t.Title).
		Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.QueryRow(ctx, `
		SELECT id, sprint_id, COALESCE(epic_id::text, ''), title, status, created_at, updated_at
		FROM tickets WHERE id=$1`, id).
		Scan(&t.ID, &t.SprintID, &t.EpicID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.ticket_id, c.author_id, u.name, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.ticket_id=$1 ORDER BY c.created_at ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		t.Comments = append(t.Comments, c)
	}
	return &t, rows.Err()
}

func (r *TicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets SET
			title=$1, status=$2, epic_id=NULLIF($3,'')::uuid, updated_at=now()
		WHERE id=$4`,
		t.Title, t.Status, t.EpicID, t.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) AddComment(ctx context.Context, c *models.Comment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO comments (ticket_id, author_id, text)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		c.TicketID, c.AuthorID, c.Text).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *TicketRepo) ProjectID(ctx context.Context, ticketID string) (string, error) {
	var projectID string
	err := r.db.QueryRow(ctx, `
		SELECT s.project_id FROM tickets t
		JOIN sprints s ON s.id = t.sprint_id
		WHERE t.id=$1`, ticketID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return projectID, nil
}
