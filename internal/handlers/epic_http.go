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

type EpicHTTP struct {
	epics    repository.EpicRepository
	projects repository.ProjectRepository
	emitter  *service.Emitter
	log      zerolog.Logger
}

func NewEpicHTTP(epics repository.EpicRepository, projects repository.ProjectRepository, emitter *service.Emitter, log zerolog.Logger) *EpicHTTP {
	return &EpicHTTP{epics: epics, projects: projects, emitter: emitter, log: log}
}

// GET /api/projects/{id}/epics
func (h *EpicHTTP) List() http.HandlerFunc {
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

		epics, err := h.epics.ListByProject(r.Context(), projectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		for i := range epics {
			epics[i].Progress = service.EpicProgress(epics[i].CompletedCount, epics[i].TicketCount)
		}
		utils.JSON(w, http.StatusOK, epics)
	}
}

// POST /api/projects/{id}/epics
func (h *EpicHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"dueDate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Title = strings.TrimSpace(in.Title)
		if in.Title == "" {
			utils.Error(w, http.StatusBadRequest, "title is required")
			return
		}

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

		e := &models.Epic{
			ProjectID:   projectID,
			Title:       in.Title,
			Description: strings.TrimSpace(in.Description),
			Status:      models.EpicPlanning,
			DueDate:     in.DueDate,
		}
		if err := h.epics.Create(r.Context(), e); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  e.ProjectID,
			UserID:     p.UserID,
			EntityType: "EPIC",
			EntityID:   e.ID,
			Action:     "CREATED",
			Details:    "epic " + e.Title + " created",
		})
		utils.JSON(w, http.StatusCreated, e)
	}
}

// PATCH /api/epics/{id}
func (h *EpicHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"dueDate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := h.epics.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, h.log, err)
			return
		}

		p := principalFrom(r)
		dec, err := projectDecision(r.Context(), h.projects, p, e.ProjectID)
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
		if in.Title != nil {
			t := strings.TrimSpace(*in.Title)
			if t == "" {
				utils.Error(w, http.StatusBadRequest, "title must not be empty")
				return
			}
			e.Title = t
		}
		if in.Description != nil {
			e.Description = strings.TrimSpace(*in.Description)
		}
		if in.Status != nil {
			if !models.ValidEpicStatus(*in.Status) {
				utils.Error(w, http.StatusBadRequest, "invalid epic status")
				return
			}
			e.Status = *in.Status
		}
		if in.DueDate != nil {
			e.DueDate = in.DueDate
		}

		if err := h.epics.Update(r.Context(), e); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  e.ProjectID,
			UserID:     p.UserID,
			EntityType: "EPIC",
			EntityID:   e.ID,
			Action:     "UPDATED",
			Details:    "epic " + e.Title + " updated",
		})
		utils.JSON(w, http.StatusOK, e)
	}
}

// DELETE /api/epics/{id}. Tickets linked to the epic are detached, not
// deleted, and keep their statuses.
func (h *EpicHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := h.epics.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, h.log, err)
			return
		}

		p := principalFrom(r)
		dec, err := projectDecision(r.Context(), h.projects, p, e.ProjectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !policy.CanContribute(p, dec) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := h.epics.Delete(r.Context(), e.ID); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  e.ProjectID,
			UserID:     p.UserID,
			EntityType: "EPIC",
			EntityID:   e.ID,
			Action:     "DELETED",
			Details:    "epic " + e.Title + " deleted, tickets detached",
		})
		utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
