package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolePtr(r Role) *Role {
	return &r
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name   string
		role   *Role
		action Action
		want   bool
	}{
		{"owner read", rolePtr(RoleOwner), ActionRead, true},
		{"owner write", rolePtr(RoleOwner), ActionWrite, true},
		{"owner admin", rolePtr(RoleOwner), ActionAdmin, true},
		{"owner billing", rolePtr(RoleOwner), ActionBilling, true},

		{"manager read", rolePtr(RoleManager), ActionRead, true},
		{"manager write", rolePtr(RoleManager), ActionWrite, true},
		{"manager admin", rolePtr(RoleManager), ActionAdmin, false},
		{"manager billing", rolePtr(RoleManager), ActionBilling, false},

		{"viewer read", rolePtr(RoleViewer), ActionRead, true},
		{"viewer write", rolePtr(RoleViewer), ActionWrite, false},
		{"viewer admin", rolePtr(RoleViewer), ActionAdmin, false},
		{"viewer billing", rolePtr(RoleViewer), ActionBilling, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.action))
		})
	}
}

func TestHasPermissionNilRole(t *testing.T) {
	for _, action := range []Action{ActionRead, ActionWrite, ActionAdmin, ActionBilling, Action("export")} {
		t.Run(string(action), func(t *testing.T) {
			assert.False(t, HasPermission(nil, action))
		})
	}
}

func TestHasPermissionUnknownAction(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleManager, RoleViewer} {
		t.Run(role.String(), func(t *testing.T) {
			assert.False(t, HasPermission(rolePtr(role), Action("export")))
		})
	}
}

func TestHasPermissionUnknownRole(t *testing.T) {
	bogus := Role("superuser")
	assert.False(t, HasPermission(&bogus, ActionRead))
}

func TestRoleOrdering(t *testing.T) {
	t.Run("total order", func(t *testing.T) {
		assert.Greater(t, RoleOwner.Level(), RoleManager.Level())
		assert.Greater(t, RoleManager.Level(), RoleViewer.Level())
	})

	t.Run("reflexive", func(t *testing.T) {
		for _, r := range []Role{RoleOwner, RoleManager, RoleViewer} {
			assert.True(t, r.AtLeast(r), "AtLeast must be reflexive for %s", r)
		}
	})

	t.Run("antisymmetric", func(t *testing.T) {
		assert.True(t, RoleOwner.AtLeast(RoleViewer))
		assert.False(t, RoleViewer.AtLeast(RoleOwner))
		assert.True(t, RoleManager.AtLeast(RoleViewer))
		assert.False(t, RoleViewer.AtLeast(RoleManager))
	})

	t.Run("unknown role is below everything", func(t *testing.T) {
		assert.False(t, Role("superuser").AtLeast(RoleViewer))
		assert.False(t, RoleViewer.AtLeast(Role("superuser")))
	})
}

func TestRoleMonotonicity(t *testing.T) {
	// Anything granted to a role must be granted to every role above it.
	ordered := []Role{RoleViewer, RoleManager, RoleOwner}
	actions := []Action{ActionRead, ActionWrite, ActionAdmin, ActionBilling}

	for i := 0; i < len(ordered)-1; i++ {
		lower, higher := ordered[i], ordered[i+1]
		for _, action := range actions {
			if HasPermission(rolePtr(lower), action) {
				assert.True(t, HasPermission(rolePtr(higher), action),
					"%s grants %s but %s does not", lower, action, higher)
			}
		}
	}
}

func TestParseRole(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r, err := ParseRole("manager")
		require.NoError(t, err)
		assert.Equal(t, RoleManager, r)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseRole("root")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown role")
	})
}
