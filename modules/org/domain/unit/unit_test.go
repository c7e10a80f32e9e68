package unit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orgnest/orgnest/modules/org/domain/unit"
)

func TestParseType(t *testing.T) {
	t.Parallel()

	parsed, err := unit.ParseType("  Region ")
	require.NoError(t, err)
	require.Equal(t, unit.TypeRegion, parsed)

	_, err = unit.ParseType("continent")
	require.Error(t, err)
}

func TestChildOf(t *testing.T) {
	t.Parallel()

	require.True(t, unit.TypeRegion.ChildOf(unit.TypeNation))
	require.True(t, unit.TypeDomain.ChildOf(unit.TypeRegion))
	require.True(t, unit.TypeVenue.ChildOf(unit.TypeDomain))

	require.False(t, unit.TypeVenue.ChildOf(unit.TypeRegion))
	require.False(t, unit.TypeRegion.ChildOf(unit.TypeRegion))
	require.False(t, unit.TypeNation.ChildOf(unit.TypeVenue))
	require.False(t, unit.Type("continent").ChildOf(unit.TypeNation))
}

func TestAncestorIDs(t *testing.T) {
	t.Parallel()

	t.Run("nearest parent first", func(t *testing.T) {
		u := &unit.OrgUnit{ID: 4, ParentPath: "1.2.3.4"}
		ids, err := u.AncestorIDs()
		require.NoError(t, err)
		require.Equal(t, []int64{3, 2, 1}, ids)
	})

	t.Run("root has no ancestors", func(t *testing.T) {
		u := &unit.OrgUnit{ID: 1, ParentPath: "1"}
		ids, err := u.AncestorIDs()
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("malformed path", func(t *testing.T) {
		u := &unit.OrgUnit{ID: 4, ParentPath: "1.x.4"}
		_, err := u.AncestorIDs()
		require.Error(t, err)
	})
}

func TestChildPath(t *testing.T) {
	t.Parallel()

	u := &unit.OrgUnit{ID: 3, ParentPath: "1.2.3"}
	require.Equal(t, "1.2.3.7", u.ChildPath(7))
}

func TestContains(t *testing.T) {
	t.Parallel()

	parent := &unit.OrgUnit{Lft: 2, Rgt: 7}
	require.True(t, parent.Contains(&unit.OrgUnit{Lft: 3, Rgt: 6}))
	require.False(t, parent.Contains(&unit.OrgUnit{Lft: 2, Rgt: 7}))
	require.False(t, parent.Contains(&unit.OrgUnit{Lft: 8, Rgt: 9}))
}

func TestRefString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "unit#1", unit.Ref{}.String())
	require.Equal(t, "unit#9", unit.RefID(9).String())
	require.Equal(t, "unit:WEST", unit.RefCode(" west ").String())
}
