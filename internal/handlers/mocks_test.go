package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/mock"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/middleware"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
)

// authedRequest attaches a resolved session to the request context the way
// WithAuth does.
func authedRequest(r *http.Request, userID, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.CtxUserID, userID)
	ctx = context.WithValue(ctx, middleware.CtxRole, role)
	return r.WithContext(ctx)
}

func doRequest(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

type mockProjectRepo struct{ mock.Mock }

func (m *mockProjectRepo) Create(ctx context.Context, p *models.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProjectRepo) Get(ctx context.Context, id string) (*models.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockProjectRepo) GetFull(ctx context.Context, id string) (*models.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockProjectRepo) List(ctx context.Context, scopeUserID string) ([]models.Project, error) {
	args := m.Called(ctx, scopeUserID)
	ps, _ := args.Get(0).([]models.Project)
	return ps, args.Error(1)
}

func (m *mockProjectRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProjectRepo) IsAssigned(ctx context.Context, projectID, userID string) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProjectRepo) Assignees(ctx context.Context, projectID string) ([]models.User, error) {
	args := m.Called(ctx, projectID)
	us, _ := args.Get(0).([]models.User)
	return us, args.Error(1)
}

func (m *mockProjectRepo) Assign(ctx context.Context, projectID, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}

func (m *mockProjectRepo) Unassign(ctx context.Context, projectID, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}

type mockSprintRepo struct{ mock.Mock }

func (m *mockSprintRepo) CreateWithTickets(ctx context.Context, s *models.Sprint, titles []string) error {
	return m.Called(ctx, s, titles).Error(0)
}

func (m *mockSprintRepo) Get(ctx context.Context, id string) (*models.Sprint, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Sprint)
	return s, args.Error(1)
}

func (m *mockSprintRepo) ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error) {
	args := m.Called(ctx, projectID)
	ss, _ := args.Get(0).([]models.Sprint)
	return ss, args.Error(1)
}

func (m *mockSprintRepo) Close(ctx context.Context, id string) (*models.Sprint, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Sprint)
	return s, args.Error(1)
}

func (m *mockSprintRepo) ClosedWithRetro(ctx context.Context, projectID string) ([]models.Sprint, error) {
	args := m.Called(ctx, projectID)
	ss, _ := args.Get(0).([]models.Sprint)
	return ss, args.Error(1)
}

func (m *mockSprintRepo) AddRetroItem(ctx context.Context, item *models.RetroItem) error {
	return m.Called(ctx, item).Error(0)
}

type mockBugRepo struct{ mock.Mock }

func (m *mockBugRepo) Create(ctx context.Context, b *models.Bug) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBugRepo) Get(ctx context.Context, id string) (*models.Bug, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Bug)
	return b, args.Error(1)
}

func (m *mockBugRepo) List(ctx context.Context, f repository.BugFilter) ([]models.Bug, error) {
	args := m.Called(ctx, f)
	bs, _ := args.Get(0).([]models.Bug)
	return bs, args.Error(1)
}

func (m *mockBugRepo) Validate(ctx context.Context, id, status string) (*models.Bug, error) {
	args := m.Called(ctx, id, status)
	b, _ := args.Get(0).(*models.Bug)
	return b, args.Error(1)
}

func (m *mockBugRepo) ProjectID(ctx context.Context, bugID string) (string, error) {
	args := m.Called(ctx, bugID)
	return args.String(0), args.Error(1)
}

type mockActivityRepo struct{ mock.Mock }

func (m *mockActivityRepo) Create(ctx context.Context, a *models.ActivityLog) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockActivityRepo) ListByProject(ctx context.Context, projectID string, take int) ([]models.ActivityLog, error) {
	args := m.Called(ctx, projectID, take)
	as, _ := args.Get(0).([]models.ActivityLog)
	return as, args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationRepo) CreateBulk(ctx context.Context, userIDs []string, n models.Notification) error {
	return m.Called(ctx, userIDs, n).Error(0)
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID string, take int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, take)
	ns, _ := args.Get(0).([]models.Notification)
	return ns, args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID string, ids []string) error {
	return m.Called(ctx, userID, ids).Error(0)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockNotificationRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}
