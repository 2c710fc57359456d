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

func newSprintHarness() (*SprintHTTP, *mockSprintRepo, *mockProjectRepo, *mockActivityRepo) {
	sprints := &mockSprintRepo{}
	projects := &mockProjectRepo{}
	activity := &mockActivityRepo{}
	notifs := &mockNotificationRepo{}
	emitter := service.NewEmitter(activity, notifs, zerolog.Nop())
	svc := service.NewSprintService(sprints, emitter)
	h := NewSprintHTTP(svc, sprints, projects, emitter, zerolog.Nop())
	return h, sprints, projects, activity
}

func TestSprintCreate_SecondOpenConflicts(t *testing.T) {
	h, sprints, projects, _ := newSprintHarness()
	owner := uuid.NewString()

	projects.On("Get", mock.Anything, "p1").
		Return(&models.Project{ID: "p1", OwnerID: owner}, nil)
	projects.On("IsAssigned", mock.Anything, "p1", owner).Return(false, nil)
	sprints.On("CreateWithTickets", mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ErrOpenSprintExists)

	body := `{"projectId":"p1","rhythm":"WEEKLY","startDate":"2025-03-03T00:00:00Z","tickets":["a"]}`
	r := httptest.NewRequest(http.MethodPost, "/sprints", strings.NewReader(body))
	w := doRequest(h.Create(), authedRequest(r, owner, models.RoleDev))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSprintClose_SurfacesRetroErrors(t *testing.T) {
	h, sprints, projects, activity := newSprintHarness()
	owner := uuid.NewString()

	projects.On("Get", mock.Anything, "p1").
		Return(&models.Project{ID: "p1", OwnerID: owner}, nil)
	projects.On("IsAssigned", mock.Anything, "p1", owner).Return(false, nil)
	sprints.On("Get", mock.Anything, "s1").
		Return(&models.Sprint{ID: "s1", ProjectID: "p1", Status: models.SprintOpen}, nil)
	sprints.On("Close", mock.Anything, "s1").
		Return(&models.Sprint{ID: "s1", ProjectID: "p1", Status: models.SprintClosed}, nil)
	sprints.On("AddRetroItem", mock.Anything, mock.Anything).Return(nil)
	activity.On("Create", mock.Anything, mock.Anything).Return(nil)
	projects.On("Assignees", mock.Anything, "p1").Return([]models.User{}, nil)

	router := chi.NewRouter()
	router.Patch("/sprints/{id}/close", h.Close())

	body := `{"retroItems":[{"type":"POSITIVE","content":"shipped"},{"type":"BAD","content":"x"}]}`
	r := httptest.NewRequest(http.MethodPatch, "/sprints/s1/close", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, owner, models.RoleDev))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"CLOSED"`)
	assert.Contains(t, w.Body.String(), "retroErrors")
}

func TestSprintClose_StrangerForbidden(t *testing.T) {
	h, sprints, projects, _ := newSprintHarness()
	dev := uuid.NewString()

	sprints.On("Get", mock.Anything, "s1").
		Return(&models.Sprint{ID: "s1", ProjectID: "p1", Status: models.SprintOpen}, nil)
	projects.On("Get", mock.Anything, "p1").
		Return(&models.Project{ID: "p1", OwnerID: uuid.NewString()}, nil)
	projects.On("IsAssigned", mock.Anything, "p1", dev).Return(false, nil)

	router := chi.NewRouter()
	router.Patch("/sprints/{id}/close", h.Close())

	r := httptest.NewRequest(http.MethodPatch, "/sprints/s1/close", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, dev, models.RoleDev))

	assert.Equal(t, http.StatusForbidden, w.Code)
	sprints.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestSprintList_RequiresProjectID(t *testing.T) {
	h, _, _, _ := newSprintHarness()

	r := httptest.NewRequest(http.MethodGet, "/sprints", nil)
	w := doRequest(h.List(), authedRequest(r, uuid.NewString(), models.RoleDev))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
