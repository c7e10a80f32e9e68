package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/domain/user"
	"github.com/orgnest/orgnest/modules/org/services"
)

func newPermissionService(tree *fakeTree, offices *fakeOffices) *services.PermissionService {
	return services.NewPermissionService(tree, offices, testLogger())
}

func TestListOffices(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root, west, westOps, venue, east := fixtureUnits()
	tree := newFakeTree(root, west, westOps, venue, east)

	t.Run("no offices at all", func(t *testing.T) {
		svc := newPermissionService(tree, newFakeOffices())

		_, err := svc.ListOffices(ctx, office.OfficerFromUser(10), office.PermOrgUpdate)

		var noGrant *services.NoGrantingOfficeError
		require.ErrorAs(t, err, &noGrant)
		require.Equal(t, int64(10), noGrant.UserID)
	})

	t.Run("offices without the permission", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, west.ID, "org_create_venue"))
		svc := newPermissionService(tree, offices)

		_, err := svc.ListOffices(ctx, office.OfficerFromUser(10), office.PermOrgUpdate)

		var noGrant *services.NoGrantingOfficeError
		require.ErrorAs(t, err, &noGrant)
	})

	t.Run("filters to granting offices", func(t *testing.T) {
		offices := newFakeOffices(
			unitOffice(1, 10, west.ID, office.PermOrgUpdate),
			unitOffice(2, 10, east.ID, "org_create_domain"),
		)
		svc := newPermissionService(tree, offices)

		granting, err := svc.ListOffices(ctx, office.OfficerFromUser(10), office.PermOrgUpdate)

		require.NoError(t, err)
		require.Len(t, granting, 1)
		require.Equal(t, int64(1), granting[0].ID)
	})

	t.Run("resolved officer bypasses the registry", func(t *testing.T) {
		svc := newPermissionService(tree, newFakeOffices())
		officer := office.OfficerFromOffices([]office.Office{*unitOffice(7, 10, west.ID, office.PermOrgUpdate)})

		granting, err := svc.ListOffices(ctx, officer, office.PermOrgUpdate)

		require.NoError(t, err)
		require.Len(t, granting, 1)
	})
}

func TestHasOverUnit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root, west, westOps, venue, east := fixtureUnits()
	tree := newFakeTree(root, west, westOps, venue, east)

	t.Run("national office covers any unit", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, root.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverUnit(ctx, unit.RefID(venue.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})

	t.Run("office on the unit itself", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, westOps.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverUnit(ctx, unit.RefID(westOps.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})

	t.Run("office on an ancestor covers the descendant", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, west.ID, "org_create_venue"))
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverUnit(ctx, unit.RefID(westOps.ID), "org_create_venue", office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})

	t.Run("sibling region is out of the chain", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, west.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverUnit(ctx, unit.RefID(east.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		var notFound *services.ChainNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.False(t, granted)
	})

	t.Run("zero ref targets the root", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, west.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverUnit(ctx, unit.Ref{}, office.PermOrgUpdate, office.OfficerFromUser(10))

		var notFound *services.ChainNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.False(t, granted)
	})

	t.Run("resolves units by code", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, root.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverUnit(ctx, unit.RefCode("west-ops"), office.PermOrgUpdate, office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})

	t.Run("unknown unit", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, root.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)

		_, err := svc.HasOverUnit(ctx, unit.RefID(99), office.PermOrgUpdate, office.OfficerFromUser(10))

		var notFound *services.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestHasOverUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root, west, westOps, venue, east := fixtureUnits()
	tree := newFakeTree(root, west, westOps, venue, east)

	t.Run("covers a user through their unit", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, west.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)
		target := &user.User{ID: 20, OrgUnitID: ptr(venue.ID)}

		granted, err := svc.HasOverUser(ctx, target, office.PermOrgUpdate, office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})

	t.Run("national user requires a national office", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, west.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)
		target := &user.User{ID: 20}

		granted, err := svc.HasOverUser(ctx, target, office.PermOrgUpdate, office.OfficerFromUser(10))

		var notFound *services.ChainNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.False(t, granted)
	})

	t.Run("national office covers a national user", func(t *testing.T) {
		offices := newFakeOffices(unitOffice(1, 10, root.ID, office.PermOrgUpdate))
		svc := newPermissionService(tree, offices)
		target := &user.User{ID: 20}

		granted, err := svc.HasOverUser(ctx, target, office.PermOrgUpdate, office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})
}

func TestHasOverOffice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root, west, westOps, venue, east := fixtureUnits()
	tree := newFakeTree(root, west, westOps, venue, east)

	t.Run("grants over a direct subordinate office", func(t *testing.T) {
		top := unitOffice(1, 30, root.ID, office.PermOrgUpdate)
		middle := chainedOffice(2, 31, top.ID)
		holder := chainedOffice(3, 10, middle.ID, office.PermOrgUpdate)
		target := chainedOffice(4, 32, middle.ID)
		offices := newFakeOffices(top, middle, holder, target)
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverOffice(ctx, office.RefID(target.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})

	t.Run("grants over the whole chain below the parent", func(t *testing.T) {
		top := unitOffice(1, 30, root.ID, office.PermOrgUpdate)
		holder := chainedOffice(2, 10, top.ID, office.PermOrgUpdate)
		middle := chainedOffice(3, 31, top.ID)
		target := chainedOffice(4, 32, middle.ID)
		offices := newFakeOffices(top, holder, middle, target)
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverOffice(ctx, office.RefID(target.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		require.NoError(t, err)
		require.True(t, granted)
	})

	t.Run("unit-bound target is not in a chain", func(t *testing.T) {
		holder := chainedOffice(2, 10, 1, office.PermOrgUpdate)
		target := unitOffice(3, 32, west.ID)
		offices := newFakeOffices(holder, target)
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverOffice(ctx, office.RefID(target.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		var notInChain *services.NotInChainError
		require.ErrorAs(t, err, &notInChain)
		require.False(t, granted)
	})

	t.Run("chain exhausted without a match", func(t *testing.T) {
		top := unitOffice(1, 30, root.ID)
		holder := chainedOffice(2, 10, 99, office.PermOrgUpdate)
		target := chainedOffice(3, 32, top.ID)
		offices := newFakeOffices(top, holder, target)
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverOffice(ctx, office.RefID(target.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		var notFound *services.ChainNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.False(t, granted)
	})

	t.Run("dangling parent office reference", func(t *testing.T) {
		holder := chainedOffice(1, 10, 50, office.PermOrgUpdate)
		target := chainedOffice(2, 32, 99)
		offices := newFakeOffices(holder, target)
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverOffice(ctx, office.RefID(target.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		var notFound *services.NotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, "office", notFound.Kind)
		require.False(t, granted)
	})

	t.Run("looping chain is reported, not walked forever", func(t *testing.T) {
		a := chainedOffice(1, 30, 2)
		b := chainedOffice(2, 31, 1)
		holder := chainedOffice(3, 10, 99, office.PermOrgUpdate)
		offices := newFakeOffices(a, b, holder)
		svc := newPermissionService(tree, offices)

		granted, err := svc.HasOverOffice(ctx, office.RefID(a.ID), office.PermOrgUpdate, office.OfficerFromUser(10))

		var cycle *services.ChainCycleError
		require.ErrorAs(t, err, &cycle)
		require.False(t, granted)
	})
}
