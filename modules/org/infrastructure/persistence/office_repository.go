package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/pkg/composables"
)

const officeColumns = `id, user_id, parent_org_id, parent_office_id, roles, created_at`

// OfficeRepository is the persisted office registry.
type OfficeRepository struct{}

func NewOfficeRepository() *OfficeRepository {
	return &OfficeRepository{}
}

func scanOffice(row pgx.Row) (*office.Office, error) {
	var o office.Office
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.ParentOrgID,
		&o.ParentOfficeID,
		&o.Roles,
		&o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err)
	}
	return &o, nil
}

func (r *OfficeRepository) GetByID(ctx context.Context, id int64) (*office.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanOffice(tx.QueryRow(ctx, `SELECT `+officeColumns+` FROM offices WHERE id = $1`, id))
}

func (r *OfficeRepository) GetByUser(ctx context.Context, userID int64) ([]office.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `SELECT `+officeColumns+` FROM offices WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var offices []office.Office
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, err
		}
		offices = append(offices, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}
	return offices, nil
}

// DeleteByUnit removes every office whose authority domain is the unit,
// together with the office chains hanging off them: a chain whose anchor
// loses its unit loses its authority. One statement so the parent_office_id
// references never dangle mid-delete. Returns the number of offices removed.
func (r *OfficeRepository) DeleteByUnit(ctx context.Context, unitID int64) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
WITH RECURSIVE doomed AS (
	SELECT id FROM offices WHERE parent_org_id = $1
	UNION
	SELECT o.id FROM offices o JOIN doomed d ON o.parent_office_id = d.id
)
DELETE FROM offices WHERE id IN (SELECT id FROM doomed)
`, unitID)
	if err != nil {
		return 0, mapPgError(err)
	}
	return tag.RowsAffected(), nil
}

// Create persists a new office grant. Used by seeding and registry callers,
// not by the unit mutation path.
func (r *OfficeRepository) Create(ctx context.Context, o *office.Office) (*office.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx, `
INSERT INTO offices (user_id, parent_org_id, parent_office_id, roles)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at
`, o.UserID, o.ParentOrgID, o.ParentOfficeID, o.Roles).Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return o, nil
}
