package auth_test

import (
	"context"
	"testing"

	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &auth.UserContext{
		Auth0UserID: "auth0|abc123",
		DisplayName: "Jordan Smith",
		Roles:       []domain.UserRole{domain.RoleContractor},
	}

	ctx := auth.WithUserContext(context.Background(), user)

	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "auth0|abc123", got.Auth0UserID)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestMustFromContext_PanicsWithoutUser(t *testing.T) {
	assert.Panics(t, func() {
		auth.MustFromContext(context.Background())
	})
}

func TestUserContextRoles(t *testing.T) {
	user := &auth.UserContext{
		Roles: []domain.UserRole{domain.RoleContractor, domain.RoleSalesperson},
	}

	assert.True(t, user.HasRole(domain.RoleContractor))
	assert.False(t, user.HasRole(domain.RoleOwner))
	assert.True(t, user.HasAnyRole(domain.RoleOwner, domain.RoleSalesperson))
	assert.False(t, user.HasAnyRole(domain.RoleOwner, domain.RoleCustomer))
	assert.False(t, user.IsOwner())

	owner := &auth.UserContext{Roles: []domain.UserRole{domain.RoleOwner}}
	assert.True(t, owner.IsOwner())

	assert.Equal(t, []string{"CONTRACTOR", "SALESPERSON"}, user.RolesAsStrings())
}
