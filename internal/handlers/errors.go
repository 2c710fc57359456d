package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/middleware"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/policy"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

// writeErr maps domain errors to the HTTP taxonomy: 400 validation,
// 404 unresolved id, 409 invariant conflicts, 500 everything else (detail
// logged, generic message returned).
func writeErr(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrOpenSprintExists),
		errors.Is(err, repository.ErrBugValidated):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrEmailTaken):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case service.IsValidation(err):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		utils.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func principalFrom(r *http.Request) policy.Principal {
	uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
	role, _ := utils.GetString(r.Context(), middleware.CtxRole)
	return policy.Principal{UserID: uid, Role: role}
}

// projectDecision resolves the caller's policy decision for a project,
// loading ownership and assignment as needed. Soft-deleted and unknown
// projects surface as ErrNotFound.
func projectDecision(ctx context.Context, projects repository.ProjectRepository, p policy.Principal, projectID string) (policy.Decision, error) {
	pr, err := projects.Get(ctx, projectID)
	if err != nil {
		return policy.Decision{}, err
	}
	assigned := false
	if !p.IsAdmin() {
		if assigned, err = projects.IsAssigned(ctx, projectID, p.UserID); err != nil {
			return policy.Decision{}, err
		}
	}
	return policy.ForProject(p, pr.OwnerID, assigned, pr.Deleted), nil
}
