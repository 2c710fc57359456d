package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/policy"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

type ProjectHTTP struct {
	projects  repository.ProjectRepository
	activity  repository.ActivityRepository
	analytics *service.AnalyticsService
	emitter   *service.Emitter
	log       zerolog.Logger
}

func NewProjectHTTP(
	projects repository.ProjectRepository,
	activity repository.ActivityRepository,
	analytics *service.AnalyticsService,
	emitter *service.Emitter,
	log zerolog.Logger,
) *ProjectHTTP {
	return &ProjectHTTP{projects: projects, activity: activity, analytics: analytics, emitter: emitter, log: log}
}

// GET /api/projects
// ADMIN sees every non-deleted project; DEV sees owned or assigned.
func (h *ProjectHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		scope := p.UserID
		if p.IsAdmin() {
			scope = ""
		}
		projects, err := h.projects.List(r.Context(), scope)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, projects)
	}
}

// POST /api/projects
func (h *ProjectHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name      string    `json:"name"`
		StartDate time.Time `json:"startDate"`
		EndDate   time.Time `json:"endDate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			utils.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		if in.StartDate.IsZero() || in.EndDate.IsZero() {
			utils.Error(w, http.StatusBadRequest, "startDate and endDate are required")
			return
		}

		p := principalFrom(r)
		project := &models.Project{
			Name:      in.Name,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			OwnerID:   p.UserID,
		}
		if err := h.projects.Create(r.Context(), project); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  project.ID,
			UserID:     p.UserID,
			EntityType: "PROJECT",
			EntityID:   project.ID,
			Action:     "CREATED",
			Details:    "project " + project.Name + " created",
		})
		utils.JSON(w, http.StatusCreated, project)
	}
}

// GET /api/projects/{id}. Full view with nested sprints/tickets/bugs.
func (h *ProjectHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p := principalFrom(r)

		dec, err := projectDecision(r.Context(), h.projects, p, id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Visible {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		project, err := h.projects.GetFull(r.Context(), id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, project)
	}
}

// DELETE /api/projects/{id}. Soft delete, ADMIN only.
func (h *ProjectHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if !policy.CanDeleteProject(p) {
			utils.Error(w, http.StatusForbidden, "only administrators can delete projects")
			return
		}
		id := chi.URLParam(r, "id")
		if err := h.projects.SoftDelete(r.Context(), id); err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GET /api/projects/{id}/assignments. ADMIN only.
func (h *ProjectHTTP) Assignees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if !policy.CanManageAssignments(p) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		users, err := h.projects.Assignees(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, users)
	}
}

// POST /api/projects/{id}/assignments. ADMIN only.
func (h *ProjectHTTP) Assign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if !policy.CanManageAssignments(p) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		var in struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.UserID == "" {
			utils.Error(w, http.StatusBadRequest, "userId is required")
			return
		}
		id := chi.URLParam(r, "id")
		if _, err := h.projects.Get(r.Context(), id); err != nil {
			writeErr(w, h.log, err)
			return
		}
		if err := h.projects.Assign(r.Context(), id, in.UserID); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.Notify(r.Context(), models.Notification{
			UserID:   in.UserID,
			Type:     "PROJECT_ASSIGNED",
			Message:  "you were assigned to a project",
			EntityID: id,
			Link:     "/projects/" + id,
		})
		utils.JSON(w, http.StatusCreated, map[string]bool{"success": true})
	}
}

// DELETE /api/projects/{id}/assignments. ADMIN only.
func (h *ProjectHTTP) Unassign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if !policy.CanManageAssignments(p) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		var in struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.UserID == "" {
			utils.Error(w, http.StatusBadRequest, "userId is required")
			return
		}
		if err := h.projects.Unassign(r.Context(), chi.URLParam(r, "id"), in.UserID); err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GET /api/projects/{id}/activity. Last 20 entries.
func (h *ProjectHTTP) Activity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p := principalFrom(r)

		dec, err := projectDecision(r.Context(), h.projects, p, id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Visible {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		take := utils.QueryInt(r.URL.Query(), "take", 20)
		logs, err := h.activity.ListByProject(r.Context(), id, take)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, logs)
	}
}

// GET /api/projects/{id}/analytics
func (h *ProjectHTTP) Analytics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p := principalFrom(r)

		dec, err := projectDecision(r.Context(), h.projects, p, id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Visible {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		out, err := h.analytics.ForProject(r.Context(), id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, out)
	}
}
