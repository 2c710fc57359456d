package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

// notificationDefaultTake bounds the bell-icon poll; ?all=true lifts it.
const notificationDefaultTake = 20

type NotificationHTTP struct {
	notifs repository.NotificationRepository
	log    zerolog.Logger
}

func NewNotificationHTTP(notifs repository.NotificationRepository, log zerolog.Logger) *NotificationHTTP {
	return &NotificationHTTP{notifs: notifs, log: log}
}

// GET /api/notifications?all=true
func (h *NotificationHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		take := notificationDefaultTake
		if r.URL.Query().Get("all") == "true" {
			take = 0
		}
		notifs, err := h.notifs.ListByUser(r.Context(), p.UserID, take)
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, notifs)
	}
}

// PATCH /api/notifications accepts {"ids": [...]} or {"markAllRead": true}.
func (h *NotificationHTTP) MarkRead() http.HandlerFunc {
	type inDTO struct {
		IDs         []string `json:"ids"`
		MarkAllRead bool     `json:"markAllRead"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		p := principalFrom(r)

		var err error
		switch {
		case in.MarkAllRead:
			err = h.notifs.MarkAllRead(r.Context(), p.UserID)
		case len(in.IDs) > 0:
			err = h.notifs.MarkRead(r.Context(), p.UserID, in.IDs)
		default:
			utils.Error(w, http.StatusBadRequest, "ids or markAllRead is required")
			return
		}
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// DELETE /api/notifications/{id} is scoped to the owner; someone else's id
// reads as not found.
func (h *NotificationHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if err := h.notifs.Delete(r.Context(), p.UserID, chi.URLParam(r, "id")); err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
