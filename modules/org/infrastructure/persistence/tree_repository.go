package persistence

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/services"
	"github.com/orgnest/orgnest/pkg/composables"
)

const unitColumns = `id, code, name, type, parent_id, parent_path, lft, rgt, venue_type, location, def_doc, website, created_at, updated_at`

// TreeRepository persists org units with nested-set bounds and materialized
// parent paths. All writes assume the transaction bound to ctx.
type TreeRepository struct{}

func NewTreeRepository() *TreeRepository {
	return &TreeRepository{}
}

func scanUnit(row pgx.Row) (*unit.OrgUnit, error) {
	var u unit.OrgUnit
	err := row.Scan(
		&u.ID,
		&u.Code,
		&u.Name,
		&u.Type,
		&u.ParentID,
		&u.ParentPath,
		&u.Lft,
		&u.Rgt,
		&u.VenueType,
		&u.Location,
		&u.DefDoc,
		&u.Website,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err)
	}
	return &u, nil
}

func collectUnits(rows pgx.Rows) ([]*unit.OrgUnit, error) {
	defer rows.Close()
	var units []*unit.OrgUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}
	return units, nil
}

func (r *TreeRepository) GetByID(ctx context.Context, id int64) (*unit.OrgUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanUnit(tx.QueryRow(ctx, `SELECT `+unitColumns+` FROM org_units WHERE id = $1`, id))
}

func (r *TreeRepository) GetByCode(ctx context.Context, code string) (*unit.OrgUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanUnit(tx.QueryRow(ctx, `SELECT `+unitColumns+` FROM org_units WHERE code = $1`, code))
}

func (r *TreeRepository) GetAncestors(ctx context.Context, u *unit.OrgUnit) ([]*unit.OrgUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT `+unitColumns+`
FROM org_units
WHERE lft < $1 AND rgt > $2
ORDER BY lft DESC
`, u.Lft, u.Rgt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return collectUnits(rows)
}

// GetChain fetches ancestors and descendants with one interval scan.
// Ancestors come out nearest first, descendants in lft order, which is the
// order the forest rebuild expects.
func (r *TreeRepository) GetChain(ctx context.Context, u *unit.OrgUnit) (*services.Chain, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT `+unitColumns+`
FROM org_units
WHERE (lft < $1 AND rgt > $2) OR (lft > $1 AND rgt < $2)
ORDER BY lft ASC
`, u.Lft, u.Rgt)
	if err != nil {
		return nil, mapPgError(err)
	}
	units, err := collectUnits(rows)
	if err != nil {
		return nil, err
	}

	chain := &services.Chain{}
	for _, node := range units {
		if node.Lft < u.Lft {
			// reverse to nearest-first
			chain.Ancestors = append([]*unit.OrgUnit{node}, chain.Ancestors...)
		} else {
			chain.Descendants = append(chain.Descendants, node)
		}
	}
	return chain, nil
}

func (r *TreeRepository) HasChildren(ctx context.Context, u *unit.OrgUnit) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM org_units WHERE parent_id = $1)`, u.ID).Scan(&exists); err != nil {
		return false, mapPgError(err)
	}
	return exists, nil
}

// Insert places u as the last child of parent. The parent path depends on
// the allocated id, so it is written in a second statement inside the same
// transaction.
func (r *TreeRepository) Insert(ctx context.Context, u *unit.OrgUnit, parent *unit.OrgUnit) (*unit.OrgUnit, error) {
	if parent == nil {
		return nil, &services.StructuralError{Message: "only the national root may be parentless"}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE org_units SET rgt = rgt + 2 WHERE rgt >= $1`, parent.Rgt); err != nil {
		return nil, mapPgError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE org_units SET lft = lft + 2 WHERE lft > $1`, parent.Rgt); err != nil {
		return nil, mapPgError(err)
	}

	if err := tx.QueryRow(ctx, `
INSERT INTO org_units (code, name, type, parent_id, parent_path, lft, rgt, venue_type, location, def_doc, website)
VALUES ($1, $2, $3, $4, '', $5, $6, $7, $8, $9, $10)
RETURNING id, created_at, updated_at
`,
		u.Code,
		u.Name,
		u.Type,
		u.ParentID,
		parent.Rgt,
		parent.Rgt+1,
		u.VenueType,
		u.Location,
		u.DefDoc,
		u.Website,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}

	u.ParentPath = parent.ChildPath(u.ID)
	u.Lft = parent.Rgt
	u.Rgt = parent.Rgt + 1
	if _, err := tx.Exec(ctx, `UPDATE org_units SET parent_path = $1 WHERE id = $2`, u.ParentPath, u.ID); err != nil {
		return nil, mapPgError(err)
	}
	return u, nil
}

func (r *TreeRepository) Update(ctx context.Context, u *unit.OrgUnit) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
UPDATE org_units
SET code = $2, name = $3, venue_type = $4, location = $5, def_doc = $6, website = $7, updated_at = now()
WHERE id = $1
`, u.ID, u.Code, u.Name, u.VenueType, u.Location, u.DefDoc, u.Website)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return &services.NotFoundError{Kind: "unit", Ref: strconv.FormatInt(u.ID, 10)}
	}
	return nil
}

// Remove deletes a leaf and closes the nested-set gap. Fails with
// HasChildrenError while any descendant exists.
func (r *TreeRepository) Remove(ctx context.Context, u *unit.OrgUnit) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	hasChildren, err := r.HasChildren(ctx, u)
	if err != nil {
		return err
	}
	if hasChildren {
		return &services.HasChildrenError{UnitID: u.ID}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM org_units WHERE id = $1`, u.ID); err != nil {
		return mapPgError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE org_units SET lft = lft - 2 WHERE lft > $1`, u.Rgt); err != nil {
		return mapPgError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE org_units SET rgt = rgt - 2 WHERE rgt > $1`, u.Rgt); err != nil {
		return mapPgError(err)
	}
	return nil
}

// ListAll returns every unit ordered by lft. Used by integrity tooling.
func (r *TreeRepository) ListAll(ctx context.Context) ([]*unit.OrgUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `SELECT `+unitColumns+` FROM org_units ORDER BY lft ASC`)
	if err != nil {
		return nil, mapPgError(err)
	}
	return collectUnits(rows)
}

// InsertRoot seeds the single national root. Used by tooling, never by the
// mutation service.
func (r *TreeRepository) InsertRoot(ctx context.Context, name string) (*unit.OrgUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM org_units WHERE parent_id IS NULL)`).Scan(&exists); err != nil {
		return nil, mapPgError(err)
	}
	if exists {
		return nil, &services.StructuralError{Message: "a national root already exists"}
	}

	u := &unit.OrgUnit{
		ID:         unit.RootID,
		Name:       name,
		Type:       unit.TypeNation,
		ParentPath: "1",
		Lft:        1,
		Rgt:        2,
	}
	if err := tx.QueryRow(ctx, `
INSERT INTO org_units (id, code, name, type, parent_id, parent_path, lft, rgt, venue_type, location, def_doc, website)
VALUES ($1, '', $2, $3, NULL, '1', 1, 2, '', '', '', '')
RETURNING created_at, updated_at
`, unit.RootID, u.Name, u.Type).Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return u, nil
}
