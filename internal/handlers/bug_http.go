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

type BugHTTP struct {
	bugs     repository.BugRepository
	sprints  repository.SprintRepository
	projects repository.ProjectRepository
	emitter  *service.Emitter
	log      zerolog.Logger
}

func NewBugHTTP(
	bugs repository.BugRepository,
	sprints repository.SprintRepository,
	projects repository.ProjectRepository,
	emitter *service.Emitter,
	log zerolog.Logger,
) *BugHTTP {
	return &BugHTTP{bugs: bugs, sprints: sprints, projects: projects, emitter: emitter, log: log}
}

// GET /api/bugs?sprintId=&status=&search=
// DEV results are restricted to visible projects via the same owner/assigned
// filter as project listing.
func (h *BugHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		qv := r.URL.Query()

		f := repository.BugFilter{
			SprintID: qv.Get("sprintId"),
			Status:   qv.Get("status"),
			Search:   qv.Get("search"),
			Limit:    utils.QueryInt(qv, "take", 0),
		}
		if !p.IsAdmin() {
			f.ScopeUserID = p.UserID
		}

		bugs, err := h.bugs.List(r.Context(), f)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, bugs)
	}
}

// POST /api/bugs. Bugs are born PENDING.
func (h *BugHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		SprintID    string `json:"sprintId"`
		TicketID    string `json:"ticketId"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		EvidenceURL string `json:"evidenceUrl"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Description = strings.TrimSpace(in.Description)
		if in.SprintID == "" || in.Description == "" {
			utils.Error(w, http.StatusBadRequest, "sprintId and description are required")
			return
		}
		if !models.ValidBugPriority(in.Priority) {
			utils.Error(w, http.StatusBadRequest, "priority must be LOW, MEDIUM, HIGH or CRITICAL")
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

		b := &models.Bug{
			SprintID:    in.SprintID,
			TicketID:    in.TicketID,
			Description: in.Description,
			Priority:    in.Priority,
			EvidenceURL: strings.TrimSpace(in.EvidenceURL),
			ReporterID:  p.UserID,
		}
		if err := h.bugs.Create(r.Context(), b); err != nil {
			writeErr(w, h.log, err)
			return
		}

		h.emitter.LogActivity(r.Context(), models.ActivityLog{
			ProjectID:  sprint.ProjectID,
			UserID:     p.UserID,
			EntityType: "BUG",
			EntityID:   b.ID,
			Action:     "CREATED",
			Details:    "bug reported with priority " + b.Priority,
		})
		utils.JSON(w, http.StatusCreated, b)
	}
}

// PATCH /api/bugs/{id}/validate. ADMIN only; PENDING to REAL or FALSE, terminal.
func (h *BugHTTP) Validate() http.HandlerFunc {
	type inDTO struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if !policy.CanValidateBug(p) {
			utils.Error(w, http.StatusForbidden, "only administrators can validate bugs")
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Status != models.BugReal && in.Status != models.BugFalse {
			utils.Error(w, http.StatusBadRequest, "status must be REAL or FALSE")
			return
		}

		id := chi.URLParam(r, "id")
		b, err := h.bugs.Validate(r.Context(), id, in.Status)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}

		projectID, perr := h.bugs.ProjectID(r.Context(), id)
		if perr == nil {
			h.emitter.LogActivity(r.Context(), models.ActivityLog{
				ProjectID:  projectID,
				UserID:     p.UserID,
				EntityType: "BUG",
				EntityID:   b.ID,
				Action:     "VALIDATED",
				Details:    "bug marked " + b.Status,
			})
		}
		h.emitter.Notify(r.Context(), models.Notification{
			UserID:   b.ReporterID,
			Type:     "BUG_VALIDATED",
			Message:  "your bug report was marked " + b.Status,
			EntityID: b.ID,
		})
		utils.JSON(w, http.StatusOK, b)
	}
}
