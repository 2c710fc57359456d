package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type SprintRepo struct{ db *pgxpool.Pool }

func NewSprintRepo(db *pgxpool.Pool) repository.SprintRepository { return &SprintRepo{db: db} }

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CreateWithTickets inserts the sprint and its tickets atomically. The
// partial unique index on sprints(project_id) WHERE status='OPEN' rejects a
// second open sprint; that violation surfaces as ErrOpenSprintExists and the
// whole transaction rolls back, so a sprint without tickets (or tickets
// without a sprint) is never observable.
func (r *SprintRepo) CreateWithTickets(ctx context.Context, s *models.Sprint, titles []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO sprints (project_id, rhythm, status, start_date, end_date)
		VALUES ($1,$2,'OPEN',$3,$4)
		RETURNING id, status, created_at`,
		s.ProjectID, s.Rhythm, s.StartDate, s.EndDate).
		Scan(&s.ID, &s.Status, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrOpenSprintExists
		}
		return err
	}

	for _, title := range titles {
		var t models.Ticket
		err := tx.QueryRow(ctx, `
			INSERT INTO tickets (sprint_id, title, status)
			VALUES ($1,$2,'TODO')
			RETURNING id, sprint_id, title, status, created_at, updated_at`,
			s.ID, title).
			Scan(&t.ID, &t.SprintID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return err
		}
		s.Tickets = append(s.Tickets, t)
	}

	return tx.Commit(ctx)
}

func (r *SprintRepo) Get(ctx context.Context, id string) (*models.Sprint, error) {
	var s models.Sprint
	err := r.db.QueryRow(ctx, `
		SELECT id, project_id, rhythm, status, start_date, end_date, created_at
		FROM sprints WHERE id=$1`, id).
		Scan(&s.ID, &s.ProjectID, &s.Rhythm, &s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SprintRepo) ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, rhythm, status, start_date, end_date, created_at
		FROM sprints WHERE project_id=$1 ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Sprint
	for rows.Next() {
		var s models.Sprint
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Rhythm, &s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Tickets, err = sprintTickets(ctx, r.db, out[i].ID); err != nil {
			return nil, err
		}
		if out[i].Bugs, err = sprintBugs(ctx, r.db, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SprintRepo) Close(ctx context.Context, id string) (*models.Sprint, error) {
	var s models.Sprint
	err := r.db.QueryRow(ctx, `
		UPDATE sprints SET status='CLOSED'
		WHERE id=$1
		RETURNING id, project_id, rhythm, status, start_date, end_date, created_at`, id).
		Scan(&s.ID, &s.ProjectID, &s.Rhythm, &s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SprintRepo) ClosedWithRetro(ctx context.Context, projectID string) ([]models.Sprint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, rhythm, status, start_date, end_date, created_at
		FROM sprints WHERE project_id=$1 AND status='CLOSED'
		ORDER BY end_date DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Sprint
	for rows.Next() {
		var s models.Sprint
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Rhythm, &s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.retroItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].RetroItems = items
	}
	return out, nil
}

func (r *SprintRepo) AddRetroItem(ctx context.Context, item *models.RetroItem) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO retro_items (sprint_id, author_id, type, content)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		item.SprintID, item.AuthorID, item.Type, item.Content).
		Scan(&item.ID, &item.CreatedAt)
}

func (r *SprintRepo) retroItems(ctx context.Context, sprintID string) ([]models.RetroItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ri.id, ri.sprint_id, ri.author_id, u.name, ri.type, ri.content, ri.created_at
		FROM retro_items ri
		JOIN users u ON u.id = ri.author_id
		WHERE ri.sprint_id=$1 ORDER BY ri.created_at ASC`, sprintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RetroItem
	for rows.Next() {
		var it models.RetroItem
		if err := rows.Scan(&it.ID, &it.SprintID, &it.AuthorID, &it.AuthorName, &it.Type, &it.Content, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func sprintTickets(ctx context.Context, q queryer, sprintID string) ([]models.Ticket, error) {
	rows, err := q.Query(ctx, `
		SELECT id, sprint_id, COALESCE(epic_id::text, ''), title, status, created_at, updated_at
		FROM tickets WHERE sprint_id=$1 ORDER BY created_at ASC`, sprintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.SprintID, &t.EpicID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func sprintBugs(ctx context.Context, q queryer, sprintID string) ([]models.Bug, error) {
	rows, err := q.Query(ctx, `
		SELECT b.id, b.sprint_id, COALESCE(b.ticket_id::text, ''), b.description, b.priority,
		       b.status, COALESCE(b.evidence_url, ''), b.reporter_id, b.created_at, b.updated_at,
		       u.name, COALESCE(t.title, '')
		FROM bugs b
		JOIN users u ON u.id = b.reporter_id
		LEFT JOIN tickets t ON t.id = b.ticket_id
		WHERE b.sprint_id=$1 ORDER BY b.created_at DESC`, sprintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Bug
	for rows.Next() {
		var b models.Bug
		if err := rows.Scan(&b.ID, &b.SprintID, &b.TicketID, &b.Description, &b.Priority,
			&b.Status, &b.EvidenceURL, &b.ReporterID, &b.CreatedAt, &b.UpdatedAt,
			&b.ReporterName, &b.TicketTitle); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
