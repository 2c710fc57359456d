package service

import (
	"context"
	"math"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

// ProjectAnalytics is the per-project rollup: velocity over the last closed
// sprints, bug totals by validation status, and bug reports per user on the
// open sprint (the closest available engagement proxy).
type ProjectAnalytics struct {
	Velocity  []models.VelocityPoint `json:"velocity"`
	BugStats  models.BugStats        `json:"bugStats"`
	TeamStats []models.UserCount     `json:"teamStats"`
}

// DashboardStats is the cross-project KPI rollup behind /api/stats.
type DashboardStats struct {
	TotalActiveProjects int            `json:"totalActiveProjects"`
	TotalCriticalBugs   int            `json:"totalCriticalBugs"`
	TotalValidatedBugs  int            `json:"totalValidatedBugs"`
	RecentBugs          []models.Bug   `json:"recentBugs"`
	BugsByPriority      map[string]int `json:"bugsByPriority"`
	TicketsByStatus     map[string]int `json:"ticketsByStatus"`
}

type AnalyticsService struct {
	analytics repository.AnalyticsRepository
}

func NewAnalyticsService(analytics repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics}
}

// EpicProgress is round(100*done/total), defined as 0 for an empty epic.
func EpicProgress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

func (a *AnalyticsService) ForProject(ctx context.Context, projectID string) (*ProjectAnalytics, error) {
	velocity, err := a.analytics.Velocity(ctx, projectID, repository.VelocityWindow)
	if err != nil {
		return nil, err
	}
	statusCounts, err := a.analytics.BugStatusCounts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	team, err := a.analytics.OpenSprintBugCounts(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := models.BugStats{
		Pending: statusCounts[models.BugPending],
		Real:    statusCounts[models.BugReal],
		False:   statusCounts[models.BugFalse],
	}
	stats.Total = stats.Pending + stats.Real + stats.False

	return &ProjectAnalytics{
		Velocity:  velocity,
		BugStats:  stats,
		TeamStats: team,
	}, nil
}

// Dashboard computes the KPI rollup. scopeUserID empty means the caller sees
// every project (ADMIN); otherwise counts are restricted to the caller's
// visible projects, mirroring list filtering.
func (a *AnalyticsService) Dashboard(ctx context.Context, scopeUserID string) (*DashboardStats, error) {
	active, err := a.analytics.CountActiveProjects(ctx, scopeUserID)
	if err != nil {
		return nil, err
	}
	byPriority, err := a.analytics.CountBugsByPriority(ctx, scopeUserID)
	if err != nil {
		return nil, err
	}
	byStatus, err := a.analytics.CountBugsByStatus(ctx, scopeUserID)
	if err != nil {
		return nil, err
	}
	ticketsByStatus, err := a.analytics.CountTicketsByStatus(ctx, scopeUserID)
	if err != nil {
		return nil, err
	}
	recent, err := a.analytics.RecentBugs(ctx, scopeUserID, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalActiveProjects: active,
		TotalCriticalBugs:   byPriority[models.PriorityCritical],
		TotalValidatedBugs:  byStatus[models.BugReal],
		RecentBugs:          recent,
		BugsByPriority:      byPriority,
		TicketsByStatus:     ticketsByStatus,
	}, nil
}
