package office

import "fmt"

type refKind int

const (
	refEmpty refKind = iota
	refResolved
	refID
)

// Ref identifies an office by a resolved value or a numeric id.
type Ref struct {
	kind     refKind
	resolved *Office
	id       int64
}

func RefTo(o *Office) Ref {
	return Ref{kind: refResolved, resolved: o}
}

func RefID(id int64) Ref {
	return Ref{kind: refID, id: id}
}

func (r Ref) Resolved() (*Office, bool) {
	return r.resolved, r.kind == refResolved
}

func (r Ref) ID() (int64, bool) {
	return r.id, r.kind == refID
}

func (r Ref) String() string {
	if r.kind == refResolved && r.resolved != nil {
		return fmt.Sprintf("office#%d", r.resolved.ID)
	}
	return fmt.Sprintf("office#%d", r.id)
}
