package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts known roles case-insensitively", func(t *testing.T) {
		r, err := ParseRole(" owner ")
		require.NoError(t, err)
		assert.Equal(t, RoleOwner, r)

		r, err = ParseRole("EMPLOYEE")
		require.NoError(t, err)
		assert.Equal(t, RoleEmployee, r)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := ParseRole("manager")
		assert.Error(t, err)
		assert.False(t, Role("manager").IsValid())
	})
}

func TestActor_Capabilities(t *testing.T) {
	tenantID := uuid.New()

	t.Run("owner", func(t *testing.T) {
		a := NewActor(tenantID, uuid.New(), RoleOwner)
		assert.True(t, a.IsOwner())
		assert.False(t, a.IsFieldEmployee())
		assert.True(t, a.CanMutate())
		assert.True(t, a.CanReadTenant(tenantID))
		assert.False(t, a.CanReadTenant(uuid.New()))
	})

	t.Run("employee", func(t *testing.T) {
		a := NewActor(tenantID, uuid.New(), RoleEmployee)
		assert.False(t, a.IsOwner())
		assert.True(t, a.IsFieldEmployee())
		assert.True(t, a.CanMutate())
	})

	t.Run("super admin is read only until impersonating", func(t *testing.T) {
		a := NewActor(tenantID, uuid.New(), RoleSuperAdmin)
		assert.False(t, a.CanMutate())
		assert.False(t, a.IsOwner())
		assert.True(t, a.CanReadTenant(uuid.New()))

		a.Impersonating = true
		assert.True(t, a.CanMutate())
		assert.True(t, a.IsOwner())
	})
}
