package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/services"
)

func TestCheckIntegrity(t *testing.T) {
	t.Parallel()

	t.Run("consistent tree", func(t *testing.T) {
		root, west, westOps, venue, east := fixtureUnits()
		require.Empty(t, services.CheckIntegrity([]*unit.OrgUnit{root, west, westOps, venue, east}))
	})

	t.Run("inverted bounds", func(t *testing.T) {
		root, west, westOps, venue, east := fixtureUnits()
		venue.Lft, venue.Rgt = venue.Rgt, venue.Lft

		problems := services.CheckIntegrity([]*unit.OrgUnit{root, west, westOps, venue, east})

		require.Len(t, problems, 1)
		require.Contains(t, problems[0], "lft")
	})

	t.Run("second parentless unit", func(t *testing.T) {
		root, west, westOps, venue, east := fixtureUnits()
		east.ParentID = nil
		east.ParentPath = "5"

		problems := services.CheckIntegrity([]*unit.OrgUnit{root, west, westOps, venue, east})

		require.NotEmpty(t, problems)
		require.Contains(t, problems[len(problems)-1], "exactly one root")
	})

	t.Run("rank adjacency broken", func(t *testing.T) {
		root, west, westOps, venue, east := fixtureUnits()
		venue.ParentID = ptr(west.ID)
		venue.ParentPath = "1.2.4"

		problems := services.CheckIntegrity([]*unit.OrgUnit{root, west, westOps, venue, east})

		require.NotEmpty(t, problems)
		require.Contains(t, problems[0], "rank adjacency")
	})

	t.Run("interval escapes the parent", func(t *testing.T) {
		root, west, westOps, venue, east := fixtureUnits()
		venue.Lft, venue.Rgt = 8, 9
		east.Lft, east.Rgt = 10, 11
		root.Rgt = 12

		problems := services.CheckIntegrity([]*unit.OrgUnit{root, west, westOps, venue, east})

		require.NotEmpty(t, problems)
		require.Contains(t, problems[0], "not inside parent")
	})

	t.Run("stale parent path", func(t *testing.T) {
		root, west, westOps, venue, east := fixtureUnits()
		venue.ParentPath = "1.5.3.4"

		problems := services.CheckIntegrity([]*unit.OrgUnit{root, west, westOps, venue, east})

		require.Len(t, problems, 1)
		require.Contains(t, problems[0], "parent path")
	})

	t.Run("overlapping siblings", func(t *testing.T) {
		root, west, westOps, venue, east := fixtureUnits()
		east.Lft = 6

		problems := services.CheckIntegrity([]*unit.OrgUnit{root, west, westOps, venue, east})

		require.NotEmpty(t, problems)
		require.Contains(t, problems[len(problems)-1], "overlap")
	})
}
