package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/policy"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

type SprintHTTP struct {
	svc      *service.SprintService
	sprints  repository.SprintRepository
	projects repository.ProjectRepository
	emitter  *service.Emitter
	log      zerolog.Logger
}

func NewSprintHTTP(svc *service.SprintService, sprints repository.SprintRepository, projects repository.ProjectRepository, emitter *service.Emitter, log zerolog.Logger) *SprintHTTP {
	return &SprintHTTP{svc: svc, sprints: sprints, projects: projects, emitter: emitter, log: log}
}

// GET /api/sprints?projectId=...
func (h *SprintHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := r.URL.Query().Get("projectId")
		if projectID == "" {
			utils.Error(w, http.StatusBadRequest, "projectId is required")
			return
		}
		p := principalFrom(r)

		dec, err := projectDecision(r.Context(), h.projects, p, projectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Visible {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		sprints, err := h.sprints.ListByProject(r.Context(), projectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, sprints)
	}
}

// POST /api/sprints opens a sprint with its tickets as one atomic unit.
func (h *SprintHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		ProjectID string    `json:"projectId"`
		Rhythm    string    `json:"rhythm"`
		StartDate time.Time `json:"startDate"`
		Tickets   []string  `json:"tickets"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		p := principalFrom(r)

		dec, err := projectDecision(r.Context(), h.projects, p, in.ProjectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !policy.CanContribute(p, dec) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		sprint, err := h.svc.Create(r.Context(), p.UserID, in.ProjectID, in.Rhythm, in.StartDate, in.Tickets)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, sprint)
	}
}

// PATCH /api/sprints/{id}/close. Optionally carries a retro batch.
func (h *SprintHTTP) Close() http.HandlerFunc {
	type inDTO struct {
		RetroItems []service.RetroInput `json:"retroItems"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p := principalFrom(r)

		sprint, err := h.sprints.Get(r.Context(), id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		dec, err := projectDecision(r.Context(), h.projects, p, sprint.ProjectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Mutable {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var in inDTO
		if r.Body != nil {
			// An empty body is fine; the retro batch is optional.
			_ = json.NewDecoder(r.Body).Decode(&in)
		}

		res, err := h.svc.Close(r.Context(), p.UserID, id, in.RetroItems)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}

		if assignees, aerr := h.projects.Assignees(r.Context(), sprint.ProjectID); aerr == nil {
			ids := make([]string, 0, len(assignees))
			for _, u := range assignees {
				if u.ID != p.UserID {
					ids = append(ids, u.ID)
				}
			}
			h.emitter.NotifyMany(r.Context(), ids, models.Notification{
				Type:     "SPRINT_CLOSED",
				Message:  "a sprint on your project was closed",
				EntityID: res.Sprint.ID,
				Link:     "/projects/" + sprint.ProjectID,
			})
		}
		utils.JSON(w, http.StatusOK, res)
	}
}

// GET /api/projects/{id}/retrospectives. Closed sprints with their notes.
func (h *SprintHTTP) Retrospectives() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		p := principalFrom(r)

		dec, err := projectDecision(r.Context(), h.projects, p, projectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Visible {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		sprints, err := h.sprints.ClosedWithRetro(r.Context(), projectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, sprints)
	}
}

// POST /api/projects/{id}/retrospectives. Appends one note.
func (h *SprintHTTP) AddRetroItem() http.HandlerFunc {
	type inDTO struct {
		SprintID string `json:"sprintId"`
		Type     string `json:"type"`
		Content  string `json:"content"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		p := principalFrom(r)

		dec, err := projectDecision(r.Context(), h.projects, p, projectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !policy.CanContribute(p, dec) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		item, err := h.svc.AddRetroItem(r.Context(), p.UserID, in.SprintID, in.Type, in.Content)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, item)
	}
}
