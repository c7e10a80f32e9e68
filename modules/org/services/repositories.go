package services

import (
	"context"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/domain/user"
)

// TreeRepository is the persisted nested-set tree. Mutations must run inside
// the transaction bound to ctx; reads join it when present.
type TreeRepository interface {
	GetByID(ctx context.Context, id int64) (*unit.OrgUnit, error)
	GetByCode(ctx context.Context, code string) (*unit.OrgUnit, error)

	// GetAncestors returns the chain from immediate parent up to root,
	// nearest first. Empty for the root.
	GetAncestors(ctx context.Context, u *unit.OrgUnit) ([]*unit.OrgUnit, error)

	// GetChain returns ancestors (nearest first) and descendants (by lft
	// ascending) from one interval scan.
	GetChain(ctx context.Context, u *unit.OrgUnit) (*Chain, error)

	HasChildren(ctx context.Context, u *unit.OrgUnit) (bool, error)

	// Insert persists u under parent, assigns its id, parent path, and
	// nested-set bounds, and shifts the bounds of following nodes.
	Insert(ctx context.Context, u *unit.OrgUnit, parent *unit.OrgUnit) (*unit.OrgUnit, error)

	Update(ctx context.Context, u *unit.OrgUnit) error

	// Remove deletes a leaf and closes its nested-set gap.
	Remove(ctx context.Context, u *unit.OrgUnit) error
}

// OfficeRepository is the office registry.
type OfficeRepository interface {
	GetByID(ctx context.Context, id int64) (*office.Office, error)
	GetByUser(ctx context.Context, userID int64) ([]office.Office, error)
	DeleteByUnit(ctx context.Context, unitID int64) (int64, error)
}

// UserRepository covers the user mutations unit deletion needs.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	ReassignUnit(ctx context.Context, fromUnitID, toUnitID int64) (int64, error)
}

type Chain struct {
	Ancestors   []*unit.OrgUnit
	Descendants []*unit.OrgUnit
}

// TreeNode is one node of the reconstructed descendant forest.
type TreeNode struct {
	Unit     *unit.OrgUnit
	Children []*TreeNode
}

// BuildForest reorganizes descendants (sorted by lft ascending) into a
// forest using a stack keyed by type rank: push while rank increases, pop
// and attach otherwise.
func BuildForest(descendants []*unit.OrgUnit) []*TreeNode {
	var roots []*TreeNode
	var stack []*TreeNode

	for _, u := range descendants {
		node := &TreeNode{Unit: u}
		for len(stack) > 0 && stack[len(stack)-1].Unit.Type.Rank() >= u.Type.Rank() {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}
	return roots
}
