package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

// Emitter writes activity-log and notification rows as side effects of
// mutating operations. Every write is best-effort: failures are logged and
// never propagate, so the primary operation cannot be failed or rolled back
// by its audit trail.
type Emitter struct {
	activity repository.ActivityRepository
	notifs   repository.NotificationRepository
	log      zerolog.Logger
}

func NewEmitter(activity repository.ActivityRepository, notifs repository.NotificationRepository, log zerolog.Logger) *Emitter {
	return &Emitter{activity: activity, notifs: notifs, log: log}
}

func (e *Emitter) LogActivity(ctx context.Context, a models.ActivityLog) {
	if err := e.activity.Create(ctx, &a); err != nil {
		e.log.Warn().Err(err).
			Str("project_id", a.ProjectID).
			Str("entity_type", a.EntityType).
			Str("action", a.Action).
			Msg("activity log write failed")
	}
}

func (e *Emitter) Notify(ctx context.Context, n models.Notification) {
	if err := e.notifs.Create(ctx, &n); err != nil {
		e.log.Warn().Err(err).
			Str("user_id", n.UserID).
			Str("type", n.Type).
			Msg("notification write failed")
	}
}

func (e *Emitter) NotifyMany(ctx context.Context, userIDs []string, n models.Notification) {
	if len(userIDs) == 0 {
		return
	}
	if err := e.notifs.CreateBulk(ctx, userIDs, n); err != nil {
		e.log.Warn().Err(err).
			Int("recipients", len(userIDs)).
			Str("type", n.Type).
			Msg("bulk notification write failed")
	}
}
