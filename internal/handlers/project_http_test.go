package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
)

func newProjectHarness() (*ProjectHTTP, *mockProjectRepo, *mockActivityRepo) {
	projects := &mockProjectRepo{}
	activity := &mockActivityRepo{}
	notifs := &mockNotificationRepo{}
	emitter := service.NewEmitter(activity, notifs, zerolog.Nop())
	h := NewProjectHTTP(projects, activity, service.NewAnalyticsService(nil), emitter, zerolog.Nop())
	return h, projects, activity
}

func TestProjectList_DevSeesOwnedAndAssigned(t *testing.T) {
	h, projects, _ := newProjectHarness()
	dev := uuid.NewString()

	projects.On("List", mock.Anything, dev).Return([]models.Project{{ID: "p1"}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/projects", nil)
	w := doRequest(h.List(), authedRequest(r, dev, models.RoleDev))

	assert.Equal(t, http.StatusOK, w.Code)
	projects.AssertExpectations(t)
}

func TestProjectList_AdminSeesAll(t *testing.T) {
	h, projects, _ := newProjectHarness()

	projects.On("List", mock.Anything, "").Return([]models.Project{{ID: "p1"}, {ID: "p2"}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/projects", nil)
	w := doRequest(h.List(), authedRequest(r, uuid.NewString(), models.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
	projects.AssertExpectations(t)
}

func TestProjectGet_StrangerForbidden(t *testing.T) {
	h, projects, _ := newProjectHarness()
	dev := uuid.NewString()

	projects.On("Get", mock.Anything, "p1").
		Return(&models.Project{ID: "p1", OwnerID: uuid.NewString()}, nil)
	projects.On("IsAssigned", mock.Anything, "p1", dev).Return(false, nil)

	router := chi.NewRouter()
	router.Get("/projects/{id}", h.Get())

	r := httptest.NewRequest(http.MethodGet, "/projects/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, dev, models.RoleDev))

	assert.Equal(t, http.StatusForbidden, w.Code)
	projects.AssertNotCalled(t, "GetFull", mock.Anything, mock.Anything)
}

func TestProjectGet_UnknownNotFound(t *testing.T) {
	h, projects, _ := newProjectHarness()

	projects.On("Get", mock.Anything, "nope").Return(nil, repository.ErrNotFound)

	router := chi.NewRouter()
	router.Get("/projects/{id}", h.Get())

	r := httptest.NewRequest(http.MethodGet, "/projects/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, uuid.NewString(), models.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectDelete_DevForbidden(t *testing.T) {
	h, projects, _ := newProjectHarness()

	router := chi.NewRouter()
	router.Delete("/projects/{id}", h.Delete())

	r := httptest.NewRequest(http.MethodDelete, "/projects/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, uuid.NewString(), models.RoleDev))

	assert.Equal(t, http.StatusForbidden, w.Code)
	projects.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestProjectDelete_AdminSoftDeletes(t *testing.T) {
	h, projects, _ := newProjectHarness()

	projects.On("SoftDelete", mock.Anything, "p1").Return(nil)

	router := chi.NewRouter()
	router.Delete("/projects/{id}", h.Delete())

	r := httptest.NewRequest(http.MethodDelete, "/projects/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(r, uuid.NewString(), models.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
	projects.AssertExpectations(t)
}
