package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/orgnest/orgnest/modules/org/domain/user"
	"github.com/orgnest/orgnest/pkg/composables"
)

// UserRepository covers the org module's view of users: unit membership.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var u user.User
	err = tx.QueryRow(ctx, `SELECT id, email, org_unit_id, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.OrgUnitID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err)
	}
	return &u, nil
}

// ReassignUnit moves every user of fromUnitID to toUnitID and returns the
// number of users moved.
func (r *UserRepository) ReassignUnit(ctx context.Context, fromUnitID, toUnitID int64) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `UPDATE users SET org_unit_id = $2 WHERE org_unit_id = $1`, fromUnitID, toUnitID)
	if err != nil {
		return 0, mapPgError(err)
	}
	return tag.RowsAffected(), nil
}
