package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type BugRepo struct{ db *pgxpool.Pool }

func NewBugRepo(db *pgxpool.Pool) repository.BugRepository { return &BugRepo{db: db} }

const bugSelect = `
	SELECT b.id, b.sprint_id, COALESCE(b.ticket_id::text, ''), b.description, b.priority,
	       b.status, COALESCE(b.evidence_url, ''), b.reporter_id, b.created_at, b.updated_at,
	       u.name, COALESCE(t.title, ''), p.name
	FROM bugs b
	JOIN users u ON u.id = b.reporter_id
	LEFT JOIN tickets t ON t.id = b.ticket_id
	JOIN sprints s ON s.id = b.sprint_id
	JOIN projects p ON p.id = s.project_id`

func scanBug(row pgx.Row, b *models.Bug) error {
	return row.Scan(&b.ID, &b.SprintID, &b.TicketID, &b.Description, &b.Priority,
		&b.Status, &b.EvidenceURL, &b.ReporterID, &b.CreatedAt, &b.UpdatedAt,
		&b.ReporterName, &b.TicketTitle, &b.ProjectName)
}

func (r *BugRepo) Create(ctx context.Context, b *models.Bug) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO bugs (sprint_id, ticket_id, description, priority, evidence_url, reporter_id)
		VALUES ($1, NULLIF($2,'')::uuid, $3, $4, NULLIF($5,''), $6)
		RETURNING id, status, created_at, updated_at`,
		b.SprintID, b.TicketID, b.Description, b.Priority, b.EvidenceURL, b.ReporterID).
		Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BugRepo) Get(ctx context.Context, id string) (*models.Bug, error) {
	var b models.Bug
	err := scanBug(r.db.QueryRow(ctx, bugSelect+` WHERE b.id=$1`, id), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BugRepo) List(ctx context.Context, f repository.BugFilter) ([]models.Bug, error) {
	conds := []string{"p.deleted = FALSE"}
	args := []any{}

	if f.SprintID != "" {
		args = append(args, f.SprintID)
		conds = append(conds, "b.sprint_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, "b.status = $"+strconv.Itoa(len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pat := "%" + s + "%"
		args = append(args, pat, pat, pat)
		n := len(args)
		conds = append(conds, "(b.description ILIKE $"+strconv.Itoa(n-2)+
			" OR t.title ILIKE $"+strconv.Itoa(n-1)+
			" OR p.name ILIKE $"+strconv.Itoa(n)+")")
	}
	if f.ScopeUserID != "" {
		args = append(args, f.ScopeUserID)
		n := strconv.Itoa(len(args))
		conds = append(conds, `(p.owner_id = $`+n+` OR EXISTS (
			SELECT 1 FROM project_assignments pa
			WHERE pa.project_id = p.id AND pa.user_id = $`+n+`))`)
	}

	sql := bugSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY b.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Bug
	for rows.Next() {
		var b models.Bug
		if err := scanBug(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Validate is guarded by the WHERE status='PENDING' predicate so a validated
// bug can never transition again, no matter how the request raced.
func (r *BugRepo) Validate(ctx context.Context, id, status string) (*models.Bug, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE bugs SET status=$1, updated_at=now()
		WHERE id=$2 AND status='PENDING'`, status, id)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		// Either the bug is gone or it already left PENDING.
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, repository.ErrBugValidated
	}
	return r.Get(ctx, id)
}

func (r *BugRepo) ProjectID(ctx context.Context, bugID string) (string, error) {
	var projectID string
	err := r.db.QueryRow(ctx, `
		SELECT s.project_id FROM bugs b
		JOIN sprints s ON s.id = b.sprint_id
		WHERE b.id=$1`, bugID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return projectID, nil
}
