package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

// RetroInput is one retrospective note submitted alongside a sprint close.
type RetroInput struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// CloseResult reports the close plus the outcome of the retro batch. Item
// failures do not undo the close; they are surfaced here instead.
type CloseResult struct {
	Sprint     *models.Sprint     `json:"sprint"`
	RetroItems []models.RetroItem `json:"retroItems"`
	RetroErrs  []string           `json:"retroErrors,omitempty"`
}

type SprintService struct {
	sprints repository.SprintRepository
	emitter *Emitter
}

func NewSprintService(sprints repository.SprintRepository, emitter *Emitter) *SprintService {
	return &SprintService{sprints: sprints, emitter: emitter}
}

// Create opens a sprint with its initial tickets. The end date is derived
// from the rhythm; the sprint and tickets are written atomically and the
// database's partial unique index rejects a second open sprint for the
// project (repository.ErrOpenSprintExists).
func (s *SprintService) Create(ctx context.Context, userID, projectID, rhythm string, startDate time.Time, titles []string) (*models.Sprint, error) {
	if projectID == "" {
		return nil, Validationf("projectId is required")
	}
	if rhythm != models.RhythmWeekly && rhythm != models.RhythmBiweekly {
		return nil, Validationf("rhythm must be WEEKLY or BIWEEKLY")
	}

	clean := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, Validationf("at least one ticket title is required")
	}

	if startDate.IsZero() {
		startDate = time.Now()
	}
	sprint := &models.Sprint{
		ProjectID: projectID,
		Rhythm:    rhythm,
		StartDate: startDate,
		EndDate:   startDate.Add(models.SprintDuration(rhythm)),
	}
	if err := s.sprints.CreateWithTickets(ctx, sprint, clean); err != nil {
		return nil, err
	}

	s.emitter.LogActivity(ctx, models.ActivityLog{
		ProjectID:  projectID,
		UserID:     userID,
		EntityType: "SPRINT",
		EntityID:   sprint.ID,
		Action:     "CREATED",
		Details:    "sprint opened with " + strconv.Itoa(len(sprint.Tickets)) + " tickets",
	})
	return sprint, nil
}

// Close moves the sprint to CLOSED and then appends the submitted retro
// items one by one. The close is committed before any item is written; a
// failing item is recorded in the result and the loop continues.
func (s *SprintService) Close(ctx context.Context, userID, sprintID string, items []RetroInput) (*CloseResult, error) {
	sprint, err := s.sprints.Get(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint.Status == models.SprintClosed {
		return nil, Validationf("sprint is already closed")
	}

	closed, err := s.sprints.Close(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	res := &CloseResult{Sprint: closed}

	for _, in := range items {
		content := strings.TrimSpace(in.Content)
		if content == "" || !models.ValidRetroType(in.Type) {
			res.RetroErrs = append(res.RetroErrs, "skipped invalid retro item")
			continue
		}
		item := models.RetroItem{
			SprintID: sprintID,
			AuthorID: userID,
			Type:     in.Type,
			Content:  content,
		}
		if err := s.sprints.AddRetroItem(ctx, &item); err != nil {
			res.RetroErrs = append(res.RetroErrs, err.Error())
			continue
		}
		res.RetroItems = append(res.RetroItems, item)
	}

	s.emitter.LogActivity(ctx, models.ActivityLog{
		ProjectID:  closed.ProjectID,
		UserID:     userID,
		EntityType: "SPRINT",
		EntityID:   closed.ID,
		Action:     "CLOSED",
		Details:    "sprint closed",
	})
	return res, nil
}

// AddRetroItem appends a single note to a sprint outside of a close.
func (s *SprintService) AddRetroItem(ctx context.Context, userID, sprintID, itemType, content string) (*models.RetroItem, error) {
	content = strings.TrimSpace(content)
	if sprintID == "" || content == "" {
		return nil, Validationf("sprintId and content are required")
	}
	if !models.ValidRetroType(itemType) {
		return nil, Validationf("type must be POSITIVE, NEGATIVE or ACTION")
	}
	if _, err := s.sprints.Get(ctx, sprintID); err != nil {
		return nil, err
	}
	item := &models.RetroItem{
		SprintID: sprintID,
		AuthorID: userID,
		Type:     itemType,
		Content:  content,
	}
	if err := s.sprints.AddRetroItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
