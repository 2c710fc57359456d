package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

type AnalyticsRepo struct{ db *pgxpool.Pool }

func NewAnalyticsRepo(db *pgxpool.Pool) repository.AnalyticsRepository {
	return &AnalyticsRepo{db: db}
}

// Velocity picks the last n CLOSED sprints by end date and counts their DONE
// tickets, returned oldest first so the series reads left to right.
func (r *AnalyticsRepo) Velocity(ctx context.Context, projectID string, n int) ([]models.VelocityPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, end_date, done FROM (
			SELECT s.id, s.end_date,
			       (SELECT COUNT(*) FROM tickets t WHERE t.sprint_id = s.id AND t.status = 'DONE') AS done
			FROM sprints s
			WHERE s.project_id = $1 AND s.status = 'CLOSED'
			ORDER BY s.end_date DESC
			LIMIT $2
		) latest
		ORDER BY end_date ASC`, projectID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.VelocityPoint
	for rows.Next() {
		var p models.VelocityPoint
		if err := rows.Scan(&p.SprintID, &p.EndDate, &p.CompletedTickets); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) BugStatusCounts(ctx context.Context, projectID string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.status, COUNT(*)
		FROM bugs b
		JOIN sprints s ON s.id = b.sprint_id
		WHERE s.project_id = $1
		GROUP BY b.status`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCounts(rows)
}

func (r *AnalyticsRepo) OpenSprintBugCounts(ctx context.Context, projectID string) ([]models.UserCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.name, COUNT(*)
		FROM bugs b
		JOIN sprints s ON s.id = b.sprint_id
		JOIN users u ON u.id = b.reporter_id
		WHERE s.project_id = $1 AND s.status = 'OPEN'
		GROUP BY u.name
		ORDER BY COUNT(*) DESC, u.name ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserCount
	for rows.Next() {
		var uc models.UserCount
		if err := rows.Scan(&uc.Name, &uc.Count); err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

// Dashboard rollups. scopeUserID empty = every project; otherwise only
// projects owned by or assigned to that user, matching list visibility.

const bugScopeJoin = `
	FROM bugs b
	JOIN sprints s ON s.id = b.sprint_id
	JOIN projects p ON p.id = s.project_id
	WHERE p.deleted = FALSE`

const userScopeCond = ` AND (p.owner_id = $1 OR EXISTS (
	SELECT 1 FROM project_assignments pa
	WHERE pa.project_id = p.id AND pa.user_id = $1))`

func (r *AnalyticsRepo) CountActiveProjects(ctx context.Context, scopeUserID string) (int, error) {
	sql := `SELECT COUNT(*) FROM projects p WHERE p.deleted = FALSE AND p.status = 'ACTIVE'`
	args := []any{}
	if scopeUserID != "" {
		args = append(args, scopeUserID)
		sql += userScopeCond
	}
	var n int
	err := r.db.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

func (r *AnalyticsRepo) CountBugsByPriority(ctx context.Context, scopeUserID string) (map[string]int, error) {
	return r.bugGroupCount(ctx, "b.priority", scopeUserID)
}

func (r *AnalyticsRepo) CountBugsByStatus(ctx context.Context, scopeUserID string) (map[string]int, error) {
	return r.bugGroupCount(ctx, "b.status", scopeUserID)
}

func (r *AnalyticsRepo) bugGroupCount(ctx context.Context, col, scopeUserID string) (map[string]int, error) {
	sql := `SELECT ` + col + `, COUNT(*)` + bugScopeJoin
	args := []any{}
	if scopeUserID != "" {
		args = append(args, scopeUserID)
		sql += userScopeCond
	}
	sql += ` GROUP BY ` + col

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCounts(rows)
}

func (r *AnalyticsRepo) CountTicketsByStatus(ctx context.Context, scopeUserID string) (map[string]int, error) {
	sql := `
		SELECT t.status, COUNT(*)
		FROM tickets t
		JOIN sprints s ON s.id = t.sprint_id
		JOIN projects p ON p.id = s.project_id
		WHERE p.deleted = FALSE`
	args := []any{}
	if scopeUserID != "" {
		args = append(args, scopeUserID)
		sql += userScopeCond
	}
	sql += ` GROUP BY t.status`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCounts(rows)
}

func (r *AnalyticsRepo) RecentBugs(ctx context.Context, scopeUserID string, take int) ([]models.Bug, error) {
	if take <= 0 {
		take = 5
	}
	sql := bugSelect + ` WHERE p.deleted = FALSE`
	args := []any{}
	if scopeUserID != "" {
		args = append(args, scopeUserID)
		sql += userScopeCond
	}
	args = append(args, take)
	sql += ` ORDER BY b.created_at DESC LIMIT $` + itoa(len(args))

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
