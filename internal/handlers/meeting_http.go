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

type MeetingHTTP struct {
	meetings repository.MeetingRepository
	projects repository.ProjectRepository
	emitter  *service.Emitter
	log      zerolog.Logger
}

func NewMeetingHTTP(meetings repository.MeetingRepository, projects repository.ProjectRepository, emitter *service.Emitter, log zerolog.Logger) *MeetingHTTP {
	return &MeetingHTTP{meetings: meetings, projects: projects, emitter: emitter, log: log}
}

// GET /api/projects/{id}/meetings
func (h *MeetingHTTP) List() http.HandlerFunc {
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

		meetings, err := h.meetings.ListByProject(r.Context(), projectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, meetings)
	}
}

// POST /api/projects/{id}/meetings
func (h *MeetingHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Title     string    `json:"title"`
		Date      time.Time `json:"date"`
		Notes     string    `json:"notes"`
		NextSteps string    `json:"nextSteps"`
		Attendees string    `json:"attendees"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Title = strings.TrimSpace(in.Title)
		if in.Title == "" || in.Date.IsZero() {
			utils.Error(w, http.StatusBadRequest, "title and date are required")
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

		m := &models.Meeting{
			ProjectID: projectID,
			CreatedBy: p.UserID,
			Title:     in.Title,
			Date:      in.Date,
			Notes:     in.Notes,
			NextSteps: in.NextSteps,
			Attendees: strings.TrimSpace(in.Attendees),
		}
		if err := h.meetings.Create(r.Context(), m); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  m.ProjectID,
			UserID:     p.UserID,
			EntityType: "MEETING",
			EntityID:   m.ID,
			Action:     "CREATED",
			Details:    "meeting " + m.Title + " recorded",
		})
		utils.JSON(w, http.StatusCreated, m)
	}
}

// DELETE /api/meetings/{id}
func (h *MeetingHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := h.meetings.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, h.log, err)
			return
		}

		p := principalFrom(r)
		dec, err := projectDecision(r.Context(), h.projects, p, m.ProjectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !policy.CanContribute(p, dec) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := h.meetings.Delete(r.Context(), m.ID); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  m.ProjectID,
			UserID:     p.UserID,
			EntityType: "MEETING",
			EntityID:   m.ID,
			Action:     "DELETED",
			Details:    "meeting " + m.Title + " deleted",
		})
		utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
