package office

import (
	"strings"
	"time"

	"github.com/orgnest/orgnest/modules/org/domain/unit"
)

// Fixed permission-string vocabulary carried by office roles.
const (
	PermOrgUpdate       = "org_update"
	PermOrgCreatePrefix = "org_create_"
)

// CreatePermission returns the permission required to create (or delete) a
// unit of the given type, e.g. org_create_venue.
func CreatePermission(t unit.Type) string {
	return PermOrgCreatePrefix + strings.ToLower(string(t))
}

// Office is a grant binding a user to a permission set over a unit, or over
// another office for officer-of-officer chains. Exactly one of ParentOrgID
// and ParentOfficeID is set.
type Office struct {
	ID             int64
	UserID         int64
	ParentOrgID    *int64
	ParentOfficeID *int64
	Roles          []string
	CreatedAt      time.Time
}

func (o *Office) HasRole(permission string) bool {
	for _, r := range o.Roles {
		if r == permission {
			return true
		}
	}
	return false
}

// Chained reports whether the office's authority runs through another
// office rather than a unit.
func (o *Office) Chained() bool {
	return o.ParentOfficeID != nil
}

// IsNational reports whether the office is scoped to the root unit, which
// passes every unit-domain check.
func (o *Office) IsNational() bool {
	return o.ParentOrgID != nil && *o.ParentOrgID == unit.RootID
}

// Officer is the acting principal: either a user id still to be resolved
// into held offices, or an already-resolved office set (used when a chain
// walk re-enters the resolver).
type Officer struct {
	offices  []Office
	userID   int64
	resolved bool
}

func OfficerFromUser(userID int64) Officer {
	return Officer{userID: userID}
}

func OfficerFromOffices(offices []Office) Officer {
	return Officer{offices: offices, resolved: true}
}

func (o Officer) Resolved() ([]Office, bool) {
	return o.offices, o.resolved
}

func (o Officer) UserID() int64 {
	return o.userID
}
