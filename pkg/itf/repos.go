package itf

import (
	"context"
	"sort"
	"strconv"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/domain/user"
	"github.com/orgnest/orgnest/modules/org/services"
)

func Ptr[T any](v T) *T { return &v }

// InMemoryTree is a TreeRepository over an in-memory nested-set snapshot.
// It mirrors the SQL implementation's bound arithmetic so service tests
// exercise real interval shifts.
type InMemoryTree struct {
	units  map[int64]*unit.OrgUnit
	nextID int64
}

func NewInMemoryTree(units ...*unit.OrgUnit) *InMemoryTree {
	t := &InMemoryTree{units: make(map[int64]*unit.OrgUnit, len(units))}
	for _, u := range units {
		t.units[u.ID] = u
		if u.ID >= t.nextID {
			t.nextID = u.ID + 1
		}
	}
	return t
}

func (t *InMemoryTree) GetByID(_ context.Context, id int64) (*unit.OrgUnit, error) {
	return t.units[id], nil
}

func (t *InMemoryTree) GetByCode(_ context.Context, code string) (*unit.OrgUnit, error) {
	for _, u := range t.units {
		if u.Code == code {
			return u, nil
		}
	}
	return nil, nil
}

func (t *InMemoryTree) GetAncestors(_ context.Context, u *unit.OrgUnit) ([]*unit.OrgUnit, error) {
	ids, err := u.AncestorIDs()
	if err != nil {
		return nil, err
	}
	ancestors := make([]*unit.OrgUnit, 0, len(ids))
	for _, id := range ids {
		if a, ok := t.units[id]; ok {
			ancestors = append(ancestors, a)
		}
	}
	return ancestors, nil
}

func (t *InMemoryTree) GetChain(ctx context.Context, u *unit.OrgUnit) (*services.Chain, error) {
	ancestors, err := t.GetAncestors(ctx, u)
	if err != nil {
		return nil, err
	}
	var descendants []*unit.OrgUnit
	for _, other := range t.units {
		if u.Contains(other) {
			descendants = append(descendants, other)
		}
	}
	sort.Slice(descendants, func(i, j int) bool { return descendants[i].Lft < descendants[j].Lft })
	return &services.Chain{Ancestors: ancestors, Descendants: descendants}, nil
}

func (t *InMemoryTree) HasChildren(_ context.Context, u *unit.OrgUnit) (bool, error) {
	for _, other := range t.units {
		if other.ParentID != nil && *other.ParentID == u.ID {
			return true, nil
		}
	}
	return false, nil
}

func (t *InMemoryTree) Insert(_ context.Context, u *unit.OrgUnit, parent *unit.OrgUnit) (*unit.OrgUnit, error) {
	at := parent.Rgt
	for _, other := range t.units {
		if other.Rgt >= at {
			other.Rgt += 2
		}
		if other.Lft > at {
			other.Lft += 2
		}
	}
	u.ID = t.nextID
	t.nextID++
	u.Lft, u.Rgt = at, at+1
	u.ParentPath = parent.ChildPath(u.ID)
	t.units[u.ID] = u
	return u, nil
}

func (t *InMemoryTree) Update(_ context.Context, u *unit.OrgUnit) error {
	if _, ok := t.units[u.ID]; !ok {
		return &services.NotFoundError{Kind: "unit", Ref: strconv.FormatInt(u.ID, 10)}
	}
	t.units[u.ID] = u
	return nil
}

func (t *InMemoryTree) Remove(_ context.Context, u *unit.OrgUnit) error {
	delete(t.units, u.ID)
	for _, other := range t.units {
		if other.Lft > u.Rgt {
			other.Lft -= 2
		}
		if other.Rgt > u.Rgt {
			other.Rgt -= 2
		}
	}
	return nil
}

// InMemoryOffices is an OfficeRepository over a plain map.
type InMemoryOffices struct {
	byID map[int64]*office.Office
}

func NewInMemoryOffices(offices ...*office.Office) *InMemoryOffices {
	r := &InMemoryOffices{byID: make(map[int64]*office.Office, len(offices))}
	for _, o := range offices {
		r.byID[o.ID] = o
	}
	return r
}

func (r *InMemoryOffices) GetByID(_ context.Context, id int64) (*office.Office, error) {
	return r.byID[id], nil
}

func (r *InMemoryOffices) GetByUser(_ context.Context, userID int64) ([]office.Office, error) {
	var held []office.Office
	for _, o := range r.byID {
		if o.UserID == userID {
			held = append(held, *o)
		}
	}
	return held, nil
}

// DeleteByUnit removes the unit's offices and, like the SQL implementation,
// the office chains hanging off them.
func (r *InMemoryOffices) DeleteByUnit(_ context.Context, unitID int64) (int64, error) {
	doomed := make(map[int64]struct{})
	for id, o := range r.byID {
		if o.ParentOrgID != nil && *o.ParentOrgID == unitID {
			doomed[id] = struct{}{}
		}
	}
	for grew := true; grew; {
		grew = false
		for id, o := range r.byID {
			if _, dead := doomed[id]; dead {
				continue
			}
			if o.ParentOfficeID == nil {
				continue
			}
			if _, dead := doomed[*o.ParentOfficeID]; dead {
				doomed[id] = struct{}{}
				grew = true
			}
		}
	}
	for id := range doomed {
		delete(r.byID, id)
	}
	return int64(len(doomed)), nil
}

// InMemoryUsers is a UserRepository over a plain map.
type InMemoryUsers struct {
	byID map[int64]*user.User
}

func NewInMemoryUsers(users ...*user.User) *InMemoryUsers {
	r := &InMemoryUsers{byID: make(map[int64]*user.User, len(users))}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *InMemoryUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	return r.byID[id], nil
}

func (r *InMemoryUsers) ReassignUnit(_ context.Context, fromUnitID, toUnitID int64) (int64, error) {
	var moved int64
	for _, u := range r.byID {
		if u.OrgUnitID != nil && *u.OrgUnitID == fromUnitID {
			u.OrgUnitID = Ptr(toUnitID)
			moved++
		}
	}
	return moved, nil
}
