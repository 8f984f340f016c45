package authz

// HasPermission reports whether the given role grants the given action.
//
// The role is a pointer because "no role" is a legitimate state: an
// authenticated identity that has not bound a workspace yet. A nil role
// grants nothing, including read. Unknown actions and unknown roles also
// grant nothing: the evaluator fails closed.
func HasPermission(role *Role, action Action) bool {
	if role == nil || !role.IsValid() {
		return false
	}
	switch action {
	case ActionRead:
		return true
	case ActionWrite:
		return role.AtLeast(RoleManager)
	case ActionAdmin, ActionBilling:
		return *role == RoleOwner
	default:
		return false
	}
}
