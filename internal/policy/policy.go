// Package policy is the single place where role-scoped visibility and
// permission decisions are made. Handlers never inline role conditionals;
// they ask the policy and translate the answer to 401/403.
package policy

import "github.com/alezamal98/qacorvus-enterprise-qa/internal/models"

// Principal is the authenticated caller as resolved from the session.
// A zero UserID means the request carried no valid session.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) Authenticated() bool { return p.UserID != "" }
func (p Principal) IsAdmin() bool       { return p.Role == models.RoleAdmin }

// Decision is the policy contract: can the principal see the resource,
// and can they mutate it.
type Decision struct {
	Visible bool
	Mutable bool
}

// ForProject derives the decision for one project. assigned reports whether
// the principal appears in the project's assignment relation. The same
// decision cascades to the project's sprints, tickets and bugs.
func ForProject(p Principal, ownerID string, assigned, deleted bool) Decision {
	if !p.Authenticated() || deleted {
		return Decision{}
	}
	if p.IsAdmin() {
		return Decision{Visible: true, Mutable: true}
	}
	if ownerID == p.UserID || assigned {
		return Decision{Visible: true, Mutable: true}
	}
	return Decision{}
}

// CanValidateBug: validating a PENDING bug is ADMIN-only regardless of project
// assignment.
func CanValidateBug(p Principal) bool { return p.IsAdmin() }

func CanDeleteProject(p Principal) bool     { return p.IsAdmin() }
func CanManageAssignments(p Principal) bool { return p.IsAdmin() }
func CanListUsers(p Principal) bool         { return p.IsAdmin() }

// CanContribute: any authenticated user may report bugs, create tickets,
// post comments and add retro items on a sprint they can see.
func CanContribute(p Principal, project Decision) bool {
	return p.Authenticated() && project.Visible
}
