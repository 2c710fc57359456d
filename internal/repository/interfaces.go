package repository

import (
	"context"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, email, name, role, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListDevs(ctx context.Context) ([]models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	// Get returns the bare row; GetFull nests sprints with their tickets
	// and bugs. Both exclude soft-deleted projects.
	Get(ctx context.Context, id string) (*models.Project, error)
	GetFull(ctx context.Context, id string) (*models.Project, error)
	// List returns all non-deleted projects when scopeUserID is empty,
	// otherwise only those owned by or assigned to that user.
	List(ctx context.Context, scopeUserID string) ([]models.Project, error)
	SoftDelete(ctx context.Context, id string) error
	IsAssigned(ctx context.Context, projectID, userID string) (bool, error)
	Assignees(ctx context.Context, projectID string) ([]models.User, error)
	Assign(ctx context.Context, projectID, userID string) error
	Unassign(ctx context.Context, projectID, userID string) error
}

type SprintRepository interface {
	// CreateWithTickets inserts the sprint and one TODO ticket per title in
	// a single transaction; a second OPEN sprint for the project fails with
	// ErrOpenSprintExists and nothing is written.
	CreateWithTickets(ctx context.Context, s *models.Sprint, titles []string) error
	Get(ctx context.Context, id string) (*models.Sprint, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error)
	Close(ctx context.Context, id string) (*models.Sprint, error)
	ClosedWithRetro(ctx context.Context, projectID string) ([]models.Sprint, error)
	AddRetroItem(ctx context.Context, item *models.RetroItem) error
}

type TicketRepository interface {
	Create(ctx context.Context, t *models.Ticket) error
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Update(ctx context.Context, t *models.Ticket) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, c *models.Comment) error
	// ProjectID resolves the owning project for policy checks.
	ProjectID(ctx context.Context, ticketID string) (string, error)
}

type BugFilter struct {
	SprintID string
	Status   string
	Search   string
	// ScopeUserID restricts results to projects the user owns or is
	// assigned to; empty means no restriction.
	ScopeUserID string
	Limit       int
}

type BugRepository interface {
	Create(ctx context.Context, b *models.Bug) error
	Get(ctx context.Context, id string) (*models.Bug, error)
	List(ctx context.Context, f BugFilter) ([]models.Bug, error)
	// Validate moves PENDING to REAL or FALSE; any other transition fails with
	// ErrBugValidated.
	Validate(ctx context.Context, id, status string) (*models.Bug, error)
	ProjectID(ctx context.Context, bugID string) (string, error)
}

type EpicRepository interface {
	Create(ctx context.Context, e *models.Epic) error
	Get(ctx context.Context, id string) (*models.Epic, error)
	// ListByProject populates TicketCount and CompletedCount per epic.
	ListByProject(ctx context.Context, projectID string) ([]models.Epic, error)
	Update(ctx context.Context, e *models.Epic) error
	// Delete unlinks the epic's tickets (epic_id = NULL) and removes the
	// epic in one transaction; ticket statuses are untouched.
	Delete(ctx context.Context, id string) error
}

type MeetingRepository interface {
	Create(ctx context.Context, m *models.Meeting) error
	Get(ctx context.Context, id string) (*models.Meeting, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Meeting, error)
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateBulk(ctx context.Context, userIDs []string, n models.Notification) error
	// ListByUser orders unread first, newest first; take <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, take int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
}

type ActivityRepository interface {
	Create(ctx context.Context, a *models.ActivityLog) error
	ListByProject(ctx context.Context, projectID string, take int) ([]models.ActivityLog, error)
}

// AnalyticsRepository backs the read-only rollups; nothing here writes.
type AnalyticsRepository interface {
	// Velocity returns DONE ticket counts for the last n CLOSED sprints of
	// a project, ordered by end date ascending.
	Velocity(ctx context.Context, projectID string, n int) ([]models.VelocityPoint, error)
	BugStatusCounts(ctx context.Context, projectID string) (map[string]int, error)
	// OpenSprintBugCounts counts bugs reported per user on the project's
	// currently OPEN sprint; empty when no sprint is open.
	OpenSprintBugCounts(ctx context.Context, projectID string) ([]models.UserCount, error)

	// Dashboard rollups; scopeUserID as in ProjectRepository.List.
	CountActiveProjects(ctx context.Context, scopeUserID string) (int, error)
	CountBugsByPriority(ctx context.Context, scopeUserID string) (map[string]int, error)
	CountBugsByStatus(ctx context.Context, scopeUserID string) (map[string]int, error)
	CountTicketsByStatus(ctx context.Context, scopeUserID string) (map[string]int, error)
	RecentBugs(ctx context.Context, scopeUserID string, take int) ([]models.Bug, error)
}

// VelocityWindow is the number of closed sprints the velocity rollup covers.
const VelocityWindow = 5
