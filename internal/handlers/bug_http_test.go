package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
)

func newBugHarness() (*BugHTTP, *mockBugRepo, *mockSprintRepo, *mockProjectRepo, *mockActivityRepo, *mockNotificationRepo) {
	bugs := &mockBugRepo{}
	sprints := &mockSprintRepo{}
	projects := &mockProjectRepo{}
	activity := &mockActivityRepo{}
	notifs := &mockNotificationRepo{}
	emitter := service.NewEmitter(activity, notifs, zerolog.Nop())
	h := NewBugHTTP(bugs, sprints, projects, emitter, zerolog.Nop())
	return h, bugs, sprints, projects, activity, notifs
}

func TestBugValidate_DevForbidden(t *testing.T) {
	h, bugs, _, _, _, _ := newBugHarness()

	r := httptest.NewRequest(http.MethodPatch, "/bugs/b1/validate", strings.NewReader(`{"status":"REAL"}`))
	w := doRequest(h.Validate(), authedRequest(r, uuid.NewString(), models.RoleDev))

	assert.Equal(t, http.StatusForbidden, w.Code)
	bugs.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything, mock.Anything)
}

func TestBugValidate_AdminMarksReal(t *testing.T) {
	h, bugs, _, _, activity, notifs := newBugHarness()
	bugID := uuid.NewString()
	reporter := uuid.NewString()

	bugs.On("Validate", mock.Anything, bugID, models.BugReal).
		Return(&models.Bug{ID: bugID, Status: models.BugReal, ReporterID: reporter}, nil)
	bugs.On("ProjectID", mock.Anything, bugID).Return("p1", nil)
	activity.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == reporter && n.Type == "BUG_VALIDATED"
	})).Return(nil)

	router := chi.NewRouter()
	router.Patch("/bugs/{id}/validate", h.Validate())

	r := httptest.NewRequest(http.MethodPatch, "/bugs/"+bugID+"/validate", strings.NewReader(`{"status":"REAL"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, uuid.NewString(), models.RoleAdmin))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"REAL"`)
	bugs.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestBugValidate_TerminalConflict(t *testing.T) {
	h, bugs, _, _, _, _ := newBugHarness()
	bugID := uuid.NewString()

	bugs.On("Validate", mock.Anything, bugID, models.BugFalse).
		Return(nil, repository.ErrBugValidated)

	router := chi.NewRouter()
	router.Patch("/bugs/{id}/validate", h.Validate())

	r := httptest.NewRequest(http.MethodPatch, "/bugs/"+bugID+"/validate", strings.NewReader(`{"status":"FALSE"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, uuid.NewString(), models.RoleAdmin))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBugValidate_RejectsPending(t *testing.T) {
	h, _, _, _, _, _ := newBugHarness()

	r := httptest.NewRequest(http.MethodPatch, "/bugs/b1/validate", strings.NewReader(`{"status":"PENDING"}`))
	w := doRequest(h.Validate(), authedRequest(r, uuid.NewString(), models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBugList_DevScoped(t *testing.T) {
	h, bugs, _, _, _, _ := newBugHarness()
	dev := uuid.NewString()

	bugs.On("List", mock.Anything, mock.MatchedBy(func(f repository.BugFilter) bool {
		return f.ScopeUserID == dev && f.Status == models.BugPending
	})).Return([]models.Bug{}, nil)

	r := httptest.NewRequest(http.MethodGet, "/bugs?status=PENDING", nil)
	w := doRequest(h.List(), authedRequest(r, dev, models.RoleDev))

	assert.Equal(t, http.StatusOK, w.Code)
	bugs.AssertExpectations(t)
}

func TestBugList_AdminUnscoped(t *testing.T) {
	h, bugs, _, _, _, _ := newBugHarness()

	bugs.On("List", mock.Anything, mock.MatchedBy(func(f repository.BugFilter) bool {
		return f.ScopeUserID == ""
	})).Return([]models.Bug{}, nil)

	r := httptest.NewRequest(http.MethodGet, "/bugs", nil)
	w := doRequest(h.List(), authedRequest(r, uuid.NewString(), models.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
	bugs.AssertExpectations(t)
}

func TestBugCreate_InvalidPriority(t *testing.T) {
	h, _, _, _, _, _ := newBugHarness()

	body := `{"sprintId":"s1","description":"broken login","priority":"URGENT"}`
	r := httptest.NewRequest(http.MethodPost, "/bugs", strings.NewReader(body))
	w := doRequest(h.Create(), authedRequest(r, uuid.NewString(), models.RoleDev))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBugCreate_ReporterVisibleProject(t *testing.T) {
	h, bugs, sprints, projects, activity, _ := newBugHarness()
	dev := uuid.NewString()

	sprints.On("Get", mock.Anything, "s1").
		Return(&models.Sprint{ID: "s1", ProjectID: "p1", Status: models.SprintOpen}, nil)
	projects.On("Get", mock.Anything, "p1").
		Return(&models.Project{ID: "p1", OwnerID: dev}, nil)
	projects.On("IsAssigned", mock.Anything, "p1", dev).Return(false, nil)
	bugs.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Bug) bool {
		return b.ReporterID == dev && b.Priority == models.PriorityHigh
	})).Return(nil)
	activity.On("Create", mock.Anything, mock.Anything).Return(nil)

	body := `{"sprintId":"s1","description":"broken login","priority":"HIGH"}`
	r := httptest.NewRequest(http.MethodPost, "/bugs", strings.NewReader(body))
	w := doRequest(h.Create(), authedRequest(r, dev, models.RoleDev))

	require.Equal(t, http.StatusCreated, w.Code)
	bugs.AssertExpectations(t)
}

func TestBugCreate_StrangerForbidden(t *testing.T) {
	h, bugs, sprints, projects, _, _ := newBugHarness()
	dev := uuid.NewString()

	sprints.On("Get", mock.Anything, "s1").
		Return(&models.Sprint{ID: "s1", ProjectID: "p1", Status: models.SprintOpen}, nil)
	projects.On("Get", mock.Anything, "p1").
		Return(&models.Project{ID: "p1", OwnerID: uuid.NewString()}, nil)
	projects.On("IsAssigned", mock.Anything, "p1", dev).Return(false, nil)

	body := `{"sprintId":"s1","description":"broken login","priority":"LOW"}`
	r := httptest.NewRequest(http.MethodPost, "/bugs", strings.NewReader(body))
	w := doRequest(h.Create(), authedRequest(r, dev, models.RoleDev))

	assert.Equal(t, http.StatusForbidden, w.Code)
	bugs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
