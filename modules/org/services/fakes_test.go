package services_test

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/pkg/itf"
)

type (
	fakeTree    = itf.InMemoryTree
	fakeOffices = itf.InMemoryOffices
	fakeUsers   = itf.InMemoryUsers
)

var (
	newFakeTree    = itf.NewInMemoryTree
	newFakeOffices = itf.NewInMemoryOffices
	newFakeUsers   = itf.NewInMemoryUsers
)

func txContext() context.Context { return itf.TxContext() }

func testLogger() *logrus.Logger { return itf.NewTestLogger() }

func ptr[T any](v T) *T { return &v }

// fixtureUnits builds the canonical test tree:
//
//	National (1)
//	├── WEST region (2)
//	│   └── WEST-OPS domain (3)
//	│       └── venue (4)
//	└── EAST region (5)
func fixtureUnits() (root, west, westOps, venue, east *unit.OrgUnit) {
	root = &unit.OrgUnit{ID: 1, Name: "National", Type: unit.TypeNation, ParentPath: "1", Lft: 1, Rgt: 10}
	west = &unit.OrgUnit{ID: 2, Code: "WEST", Name: "West", Type: unit.TypeRegion, ParentID: ptr(int64(1)), ParentPath: "1.2", Lft: 2, Rgt: 7}
	westOps = &unit.OrgUnit{ID: 3, Code: "WEST-OPS", Name: "West Operations", Type: unit.TypeDomain, ParentID: ptr(int64(2)), ParentPath: "1.2.3", Lft: 3, Rgt: 6}
	venue = &unit.OrgUnit{ID: 4, Name: "West Hall", Type: unit.TypeVenue, VenueType: "hall", ParentID: ptr(int64(3)), ParentPath: "1.2.3.4", Lft: 4, Rgt: 5}
	east = &unit.OrgUnit{ID: 5, Code: "EAST", Name: "East", Type: unit.TypeRegion, ParentID: ptr(int64(1)), ParentPath: "1.5", Lft: 8, Rgt: 9}
	return root, west, westOps, venue, east
}

func unitOffice(id, userID, unitID int64, roles ...string) *office.Office {
	return &office.Office{ID: id, UserID: userID, ParentOrgID: ptr(unitID), Roles: roles}
}

func chainedOffice(id, userID, parentOfficeID int64, roles ...string) *office.Office {
	return &office.Office{ID: id, UserID: userID, ParentOfficeID: ptr(parentOfficeID), Roles: roles}
}
