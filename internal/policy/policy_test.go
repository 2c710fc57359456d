package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
)

func TestForProject(t *testing.T) {
	admin := Principal{UserID: "a1", Role: models.RoleAdmin}
	owner := Principal{UserID: "d1", Role: models.RoleDev}
	assignee := Principal{UserID: "d2", Role: models.RoleDev}
	stranger := Principal{UserID: "d3", Role: models.RoleDev}
	anon := Principal{}

	tests := []struct {
		name     string
		p        Principal
		assigned bool
		deleted  bool
		want     Decision
	}{
		{"admin sees and mutates", admin, false, false, Decision{Visible: true, Mutable: true}},
		{"owner sees and mutates", owner, false, false, Decision{Visible: true, Mutable: true}},
		{"assignee sees and mutates", assignee, true, false, Decision{Visible: true, Mutable: true}},
		{"stranger sees nothing", stranger, false, false, Decision{}},
		{"anonymous sees nothing", anon, false, false, Decision{}},
		{"deleted hidden from admin too", admin, false, true, Decision{}},
		{"deleted hidden from owner", owner, false, true, Decision{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForProject(tt.p, "d1", tt.assigned, tt.deleted))
		})
	}
}

func TestAdminOnlyPermissions(t *testing.T) {
	admin := Principal{UserID: "a1", Role: models.RoleAdmin}
	dev := Principal{UserID: "d1", Role: models.RoleDev}

	assert.True(t, CanValidateBug(admin))
	assert.False(t, CanValidateBug(dev))
	assert.True(t, CanDeleteProject(admin))
	assert.False(t, CanDeleteProject(dev))
	assert.True(t, CanManageAssignments(admin))
	assert.False(t, CanManageAssignments(dev))
	assert.True(t, CanListUsers(admin))
	assert.False(t, CanListUsers(dev))
}

func TestCanContribute(t *testing.T) {
	dev := Principal{UserID: "d1", Role: models.RoleDev}

	assert.True(t, CanContribute(dev, Decision{Visible: true}))
	assert.False(t, CanContribute(dev, Decision{}))
	assert.False(t, CanContribute(Principal{}, Decision{Visible: true}))
}
