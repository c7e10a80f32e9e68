package services

import (
	"fmt"

	"github.com/orgnest/orgnest/modules/org/domain/unit"
)

// CheckIntegrity validates the tree invariants over a full snapshot of
// units ordered by lft: single root, strict interval nesting, parent-path
// consistency, and type-rank adjacency. Returns one message per violation.
func CheckIntegrity(units []*unit.OrgUnit) []string {
	var problems []string
	byID := make(map[int64]*unit.OrgUnit, len(units))
	roots := 0

	for _, u := range units {
		byID[u.ID] = u
	}

	for _, u := range units {
		if u.Lft >= u.Rgt {
			problems = append(problems, fmt.Sprintf("unit %d: lft %d not below rgt %d", u.ID, u.Lft, u.Rgt))
		}

		if u.ParentID == nil {
			roots++
			if u.ID != unit.RootID {
				problems = append(problems, fmt.Sprintf("unit %d: parentless but not the national root", u.ID))
			}
			if u.Type != unit.TypeNation {
				problems = append(problems, fmt.Sprintf("unit %d: root is %s, not nation", u.ID, u.Type))
			}
			continue
		}

		parent, ok := byID[*u.ParentID]
		if !ok {
			problems = append(problems, fmt.Sprintf("unit %d: parent %d missing", u.ID, *u.ParentID))
			continue
		}
		if !u.Type.ChildOf(parent.Type) {
			problems = append(problems, fmt.Sprintf("unit %d: type %s under %s breaks rank adjacency", u.ID, u.Type, parent.Type))
		}
		if !parent.Contains(u) {
			problems = append(problems, fmt.Sprintf("unit %d: interval [%d,%d] not inside parent [%d,%d]", u.ID, u.Lft, u.Rgt, parent.Lft, parent.Rgt))
		}
		if u.ParentPath != parent.ChildPath(u.ID) {
			problems = append(problems, fmt.Sprintf("unit %d: parent path %q does not extend parent's %q", u.ID, u.ParentPath, parent.ParentPath))
		}
	}

	if roots != 1 {
		problems = append(problems, fmt.Sprintf("expected exactly one root, found %d", roots))
	}

	// Sibling intervals must not overlap. Units are lft-ordered, so it is
	// enough to compare each sibling pair in sequence.
	lastBySibling := make(map[int64]*unit.OrgUnit)
	for _, u := range units {
		if u.ParentID == nil {
			continue
		}
		if prev, ok := lastBySibling[*u.ParentID]; ok && u.Lft <= prev.Rgt {
			problems = append(problems, fmt.Sprintf("units %d and %d: sibling intervals overlap", prev.ID, u.ID))
		}
		lastBySibling[*u.ParentID] = u
	}

	return problems
}
