package user

import "time"

// User is the minimal projection of an account the org module touches:
// unit membership only. OrgUnitID is nil for national-level users.
type User struct {
	ID        int64
	Email     string
	OrgUnitID *int64
	CreatedAt time.Time
}

func (u *User) National() bool {
	return u.OrgUnitID == nil
}
