package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/policy"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

type TicketHTTP struct {
	tickets  repository.TicketRepository
	sprints  repository.SprintRepository
	projects repository.ProjectRepository
	emitter  *service.Emitter
	log      zerolog.Logger
}

func NewTicketHTTP(
	tickets repository.TicketRepository,
	sprints repository.SprintRepository,
	projects repository.ProjectRepository,
	emitter *service.Emitter,
	log zerolog.Logger,
) *TicketHTTP {
	return &TicketHTTP{tickets: tickets, sprints: sprints, projects: projects, emitter: emitter, log: log}
}

// ticketDecision resolves the policy decision through the ticket's project.
func (h *TicketHTTP) ticketDecision(r *http.Request, ticketID string) (policy.Principal, policy.Decision, string, error) {
	p := principalFrom(r)
	projectID, err := h.tickets.ProjectID(r.Context(), ticketID)
	if err != nil {
		return p, policy.Decision{}, "", err
	}
	dec, err := projectDecision(r.Context(), h.projects, p, projectID)
	return p, dec, projectID, err
}

// GET /api/tickets/{id}
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		_, dec, _, err := h.ticketDecision(r, id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Visible {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// POST /api/tickets adds a ticket to an existing sprint.
func (h *TicketHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		SprintID string `json:"sprintId"`
		Title    string `json:"title"`
		EpicID   string `json:"epicId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Title = strings.TrimSpace(in.Title)
		if in.Title == "" || in.SprintID == "" {
			utils.Error(w, http.StatusBadRequest, "title and sprintId are required")
			return
		}

		p := principalFrom(r)
		sprint, err := h.sprints.Get(r.Context(), in.SprintID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		dec, err := projectDecision(r.Context(), h.projects, p, sprint.ProjectID)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !policy.CanContribute(p, dec) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		t := &models.Ticket{SprintID: in.SprintID, EpicID: in.EpicID, Title: in.Title}
		if err := h.tickets.Create(r.Context(), t); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  sprint.ProjectID,
			UserID:     p.UserID,
			EntityType: "TICKET",
			EntityID:   t.ID,
			Action:     "CREATED",
			Details:    "ticket " + t.Title + " created",
		})
		utils.JSON(w, http.StatusCreated, t)
	}
}

// PATCH /api/tickets/{id}
// Status moves freely between any two values; there is no enforced order.
func (h *TicketHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Title  *string `json:"title"`
		Status *string `json:"status"`
		EpicID *string `json:"epicId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, dec, projectID, err := h.ticketDecision(r, id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Mutable {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if in.Title != nil {
			if s := strings.TrimSpace(*in.Title); s != "" {
				t.Title = s
			}
		}
		if in.Status != nil {
			if !models.ValidTicketStatus(*in.Status) {
				utils.Error(w, http.StatusBadRequest, "invalid ticket status")
				return
			}
			t.Status = *in.Status
		}
		if in.EpicID != nil {
			t.EpicID = *in.EpicID
		}

		if err := h.tickets.Update(r.Context(), t); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  projectID,
			UserID:     p.UserID,
			EntityType: "TICKET",
			EntityID:   t.ID,
			Action:     "UPDATED",
			Details:    "ticket moved to " + t.Status,
		})
		utils.JSON(w, http.StatusOK, t)
	}
}

// DELETE /api/tickets/{id}
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, dec, projectID, err := h.ticketDecision(r, id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		if !dec.Mutable {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		if err := h.tickets.Delete(r.Context(), id); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  projectID,
			UserID:     p.UserID,
			EntityType: "TICKET",
			EntityID:   id,
			Action:     "DELETED",
			Details:    "ticket deleted",
		})
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// POST /api/tickets/{id}/comments
func (h *TicketHTTP) AddComment() http.HandlerFunc {
	type inDTO struct {
		Text string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, dec, _, err := h.ticketDecision(r, id)
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
		in.Text = strings.TrimSpace(in.Text)
		if in.Text == "" {
			utils.Error(w, http.StatusBadRequest, "text is required")
			return
		}

		c := &models.Comment{TicketID: id, AuthorID: p.UserID, Text: in.Text}
		if err := h.tickets.AddComment(r.Context(), c); err != nil {
			writeErr(w, h.log, err)
			return
		}
		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}
