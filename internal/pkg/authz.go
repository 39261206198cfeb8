package pkg

import "github.com/derintolu/frs-partner-network/internal/model"

// Operation is a mutating action gated by a member's role.
type Operation string

const (
	OpInvite       Operation = "invite"
	OpResend       Operation = "resend"
	OpChangeRole   Operation = "change_role"
	OpRemoveMember Operation = "remove_member"
	OpPostActivity Operation = "post_activity"
	OpEditBranding Operation = "edit_branding"
	OpDelete       Operation = "delete_company"
)

// permissions is the single source of truth for role gating. Callers must not
// re-check roles ad hoc.
var permissions = map[model.Role]map[Operation]bool{
	model.RoleAdmin: {
		OpInvite:       true,
		OpResend:       true,
		OpChangeRole:   true,
		OpRemoveMember: true,
		OpPostActivity: true,
		OpEditBranding: true,
		OpDelete:       true,
	},
	model.RoleModerator: {
		OpInvite:       true,
		OpResend:       true,
		OpChangeRole:   true, // but never on admins, see CanTouchRole
		OpRemoveMember: true,
		OpPostActivity: true,
		OpEditBranding: true,
	},
	model.RoleMember: {
		OpInvite:       true,
		OpPostActivity: true,
	},
}

// Can reports whether a role may perform op.
func Can(role model.Role, op Operation) bool {
	return permissions[role][op]
}

// CanTouchRole reports whether an actor may change or remove a member holding
// targetRole, or assign newRole. Only admins may touch admins or mint new ones.
func CanTouchRole(actor, targetRole, newRole model.Role) bool {
	if targetRole == model.RoleAdmin || newRole == model.RoleAdmin {
		return actor == model.RoleAdmin
	}
	return true
}
