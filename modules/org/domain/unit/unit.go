package unit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RootID is the id of the single national root unit.
const RootID int64 = 1

// PathSeparator joins ancestor ids in the materialized parent path.
const PathSeparator = "."

type Type string

const (
	TypeNation Type = "nation"
	TypeRegion Type = "region"
	TypeDomain Type = "domain"
	TypeVenue  Type = "venue"
)

var ranks = map[Type]int{
	TypeNation: 1,
	TypeRegion: 2,
	TypeDomain: 3,
	TypeVenue:  4,
}

// Rank returns the position of the type in the fixed Nation < Region <
// Domain < Venue order. Zero for unknown types.
func (t Type) Rank() int {
	return ranks[t]
}

func (t Type) Valid() bool {
	_, ok := ranks[t]
	return ok
}

// ChildOf reports whether t is an allowed immediate child of parent, i.e.
// exactly one rank below it.
func (t Type) ChildOf(parent Type) bool {
	return t.Valid() && parent.Valid() && t.Rank() == parent.Rank()+1
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown unit type %q", s)
	}
	return t, nil
}

type OrgUnit struct {
	ID         int64
	Code       string
	Name       string
	Type       Type
	ParentID   *int64
	ParentPath string
	Lft        int64
	Rgt        int64
	VenueType  string
	Location   string
	DefDoc     string
	Website    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *OrgUnit) IsRoot() bool {
	return u.ParentID == nil
}

// AncestorIDs returns the ancestor chain implied by ParentPath, nearest
// parent first, excluding the unit's own id. Empty for the root.
func (u *OrgUnit) AncestorIDs() ([]int64, error) {
	segments := strings.Split(u.ParentPath, PathSeparator)
	if len(segments) == 0 {
		return nil, fmt.Errorf("unit %d has empty parent path", u.ID)
	}
	ids := make([]int64, 0, len(segments)-1)
	for i := len(segments) - 2; i >= 0; i-- {
		id, err := strconv.ParseInt(segments[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unit %d has malformed parent path %q: %w", u.ID, u.ParentPath, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ChildPath derives the parent path for a child with the given id.
func (u *OrgUnit) ChildPath(childID int64) string {
	return u.ParentPath + PathSeparator + strconv.FormatInt(childID, 10)
}

// Contains reports whether other lies strictly inside u's nested-set
// interval.
func (u *OrgUnit) Contains(other *OrgUnit) bool {
	return u.Lft < other.Lft && other.Rgt < u.Rgt
}

type refKind int

const (
	refEmpty refKind = iota
	refResolved
	refID
	refCode
)

// Ref identifies a unit by a resolved value, a numeric id, or a code.
// Public operations resolve it once at entry. The zero Ref targets the
// national root.
type Ref struct {
	kind     refKind
	resolved *OrgUnit
	id       int64
	code     string
}

func RefTo(u *OrgUnit) Ref {
	return Ref{kind: refResolved, resolved: u}
}

func RefID(id int64) Ref {
	return Ref{kind: refID, id: id}
}

func RefCode(code string) Ref {
	return Ref{kind: refCode, code: strings.ToUpper(strings.TrimSpace(code))}
}

// RootRef targets the national root, the default for permission checks
// with no explicit unit.
func RootRef() Ref {
	return RefID(RootID)
}

func (r Ref) Resolved() (*OrgUnit, bool) {
	return r.resolved, r.kind == refResolved
}

func (r Ref) ID() (int64, bool) {
	return r.id, r.kind == refID
}

func (r Ref) Code() (string, bool) {
	return r.code, r.kind == refCode
}

func (r Ref) String() string {
	switch r.kind {
	case refResolved:
		return fmt.Sprintf("unit#%d", r.resolved.ID)
	case refID:
		return fmt.Sprintf("unit#%d", r.id)
	case refCode:
		return fmt.Sprintf("unit:%s", r.code)
	default:
		return fmt.Sprintf("unit#%d", RootID)
	}
}
