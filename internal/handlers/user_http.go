package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/policy"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

type UserHTTP struct {
	users repository.UserRepository
	log   zerolog.Logger
}

func NewUserHTTP(users repository.UserRepository, log zerolog.Logger) *UserHTTP {
	return &UserHTTP{users: users, log: log}
}

// GET /api/users. The assignment picker; ADMIN only.
func (h *UserHTTP) ListDevs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !policy.CanListUsers(principalFrom(r)) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		devs, err := h.users.ListDevs(r.Context())
		if err != nil {
			writeErr(w, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, devs)
	}
}
