package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrOpenSprintExists maps the partial unique index violation on
	// sprints(project_id) WHERE status='OPEN'.
	ErrOpenSprintExists = errors.New("project already has an open sprint")

	ErrEmailTaken = errors.New("email already registered")

	// ErrBugValidated: a bug's status is terminal once moved off PENDING.
	ErrBugValidated = errors.New("bug has already been validated")
)
