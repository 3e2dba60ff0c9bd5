package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorizeRoleCapabilities(t *testing.T) {
	tests := []struct {
		role    string
		action  Action
		allowed bool
	}{
		{RoleAdmin, ActionUserManage, true},
		{RoleAdmin, ActionFarmDelete, true},
		{RoleManager, ActionFarmWrite, true},
		{RoleManager, ActionUserManage, false},
		{RoleManager, ActionFarmDelete, false},
		{RoleManager, ActionFarmReadAll, true},
		{RoleWorker, ActionSprayWrite, true},
		{RoleWorker, ActionFarmWrite, false},
		{RoleWorker, ActionFarmReadAll, false},
		{RoleViewer, ActionFarmRead, true},
		{RoleViewer, ActionFarmReadAll, false},
		{RoleViewer, ActionWeatherWrite, false},
	}
	for _, tc := range tests {
		p := NewPrincipal(10, []string{tc.role})
		require.Equal(t, tc.allowed, Authorize(p, tc.action, nil), "%s %s", tc.role, tc.action)
	}
}

func TestAuthorizeOwnerOverride(t *testing.T) {
	viewer := NewPrincipal(10, []string{RoleViewer})

	owned := &ResourceRef{Type: "farm", OwnerID: 10}
	other := &ResourceRef{Type: "farm", OwnerID: 11}

	require.True(t, Authorize(viewer, ActionFarmWrite, owned))
	require.False(t, Authorize(viewer, ActionFarmWrite, other))
}

func TestAuthorizeIsPure(t *testing.T) {
	p := NewPrincipal(10, []string{RoleWorker})
	for i := 0; i < 3; i++ {
		require.True(t, Authorize(p, ActionSprayWrite, nil))
		require.False(t, Authorize(p, ActionUserManage, nil))
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	p := NewPrincipal(10, []string{"gardener"})
	require.False(t, Authorize(p, ActionFarmRead, nil))
}

func TestAuthorizeMultipleRolesUnion(t *testing.T) {
	p := NewPrincipal(10, []string{RoleViewer, RoleWorker})
	require.True(t, Authorize(p, ActionFarmRead, nil))
	require.True(t, Authorize(p, ActionWeatherWrite, nil))
	require.False(t, Authorize(p, ActionFarmWrite, nil))
}
