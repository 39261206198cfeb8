package pkg

import (
	"testing"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role model.Role
		op   Operation
		want bool
	}{
		{model.RoleAdmin, OpDelete, true},
		{model.RoleAdmin, OpChangeRole, true},
		{model.RoleModerator, OpInvite, true},
		{model.RoleModerator, OpRemoveMember, true},
		{model.RoleModerator, OpEditBranding, true},
		{model.RoleModerator, OpDelete, false},
		{model.RoleMember, OpInvite, true},
		{model.RoleMember, OpPostActivity, true},
		{model.RoleMember, OpResend, false},
		{model.RoleMember, OpChangeRole, false},
		{model.RoleMember, OpRemoveMember, false},
		{model.RoleMember, OpEditBranding, false},
		{"", OpInvite, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, Can(c.role, c.op), "Can(%s, %s)", c.role, c.op)
	}
}

func TestCanTouchRole(t *testing.T) {
	cases := []struct {
		name                   string
		actor, target, newRole model.Role
		want                   bool
	}{
		{"admin demotes admin", model.RoleAdmin, model.RoleAdmin, model.RoleMember, true},
		{"admin promotes to admin", model.RoleAdmin, model.RoleMember, model.RoleAdmin, true},
		{"moderator touches member", model.RoleModerator, model.RoleMember, model.RoleModerator, true},
		{"moderator demotes admin", model.RoleModerator, model.RoleAdmin, model.RoleMember, false},
		{"moderator promotes to admin", model.RoleModerator, model.RoleMember, model.RoleAdmin, false},
		{"moderator removes member", model.RoleModerator, model.RoleMember, "", true},
		{"moderator removes admin", model.RoleModerator, model.RoleAdmin, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CanTouchRole(c.actor, c.target, c.newRole))
		})
	}
}
