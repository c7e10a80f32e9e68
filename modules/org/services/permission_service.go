package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/domain/user"
)

// PermissionService resolves whether an officer is authorized to act on a
// unit, a user, or another office. All three HasOver* operations follow the
// same two steps: resolve the offices granting the permission, then walk the
// target's authority chain looking for a match.
type PermissionService struct {
	tree    TreeRepository
	offices OfficeRepository
	logger  *logrus.Entry
}

func NewPermissionService(tree TreeRepository, offices OfficeRepository, logger *logrus.Logger) *PermissionService {
	return &PermissionService{
		tree:    tree,
		offices: offices,
		logger:  logger.WithField("component", "org.permissions"),
	}
}

// ListOffices resolves the officer to its held offices and filters them to
// those whose roles contain permission. Returns NoGrantingOfficeError when
// the officer holds no office at all or none carries the permission.
func (s *PermissionService) ListOffices(ctx context.Context, officer office.Officer, permission string) ([]office.Office, error) {
	held, resolved := officer.Resolved()
	if !resolved {
		var err error
		held, err = s.offices.GetByUser(ctx, officer.UserID())
		if err != nil {
			return nil, err
		}
	}
	if len(held) == 0 {
		return nil, &NoGrantingOfficeError{UserID: officer.UserID(), Permission: permission}
	}

	granting := make([]office.Office, 0, len(held))
	for _, o := range held {
		if o.HasRole(permission) {
			granting = append(granting, o)
		}
	}
	if len(granting) == 0 {
		return nil, &NoGrantingOfficeError{UserID: officer.UserID(), Permission: permission}
	}
	return granting, nil
}

// HasOverUnit reports whether the officer holds an office granting
// permission whose domain covers the unit: the national root, the unit
// itself, or any of its ancestors. A zero-value ref targets the root.
func (s *PermissionService) HasOverUnit(ctx context.Context, ref unit.Ref, permission string, officer office.Officer) (granted bool, err error) {
	defer func() { recordDecision("unit", err) }()

	granting, err := s.ListOffices(ctx, officer, permission)
	if err != nil {
		return false, err
	}

	target, err := s.resolveUnit(ctx, ref)
	if err != nil {
		return false, err
	}

	return s.grantsOverUnit(ctx, granting, target, permission)
}

// HasOverUser reports whether the officer's authority covers the user's
// unit. Users with no unit are national-level: only a root-scoped office
// passes.
func (s *PermissionService) HasOverUser(ctx context.Context, target *user.User, permission string, officer office.Officer) (granted bool, err error) {
	defer func() { recordDecision("user", err) }()

	granting, err := s.ListOffices(ctx, officer, permission)
	if err != nil {
		return false, err
	}

	if target.National() {
		for _, g := range granting {
			if g.IsNational() {
				return true, nil
			}
		}
		return false, &ChainNotFoundError{Permission: permission, Target: fmt.Sprintf("user#%d", target.ID)}
	}

	u, err := s.resolveUnit(ctx, unit.RefID(*target.OrgUnitID))
	if err != nil {
		return false, err
	}
	return s.grantsOverUnit(ctx, granting, u, permission)
}

// HasOverOffice walks the target office's parentOfficeID chain upward,
// granting when the officer holds an office hanging directly off any office
// in the chain. The target must itself be chained; a visited set guards
// against looping chains.
func (s *PermissionService) HasOverOffice(ctx context.Context, ref office.Ref, permission string, officer office.Officer) (granted bool, err error) {
	defer func() { recordDecision("office", err) }()

	granting, err := s.ListOffices(ctx, officer, permission)
	if err != nil {
		return false, err
	}

	target, err := s.resolveOffice(ctx, ref)
	if err != nil {
		return false, err
	}
	if !target.Chained() {
		return false, &NotInChainError{OfficeID: target.ID}
	}

	visited := make(map[int64]struct{})
	current := target
	for {
		if _, seen := visited[current.ID]; seen {
			return false, &ChainCycleError{OfficeID: current.ID}
		}
		visited[current.ID] = struct{}{}

		for _, g := range granting {
			if g.ParentOfficeID != nil && *g.ParentOfficeID == current.ID {
				return true, nil
			}
		}

		if current.ParentOfficeID == nil {
			return false, &ChainNotFoundError{Permission: permission, Target: fmt.Sprintf("office#%d", target.ID)}
		}
		next, err := s.offices.GetByID(ctx, *current.ParentOfficeID)
		if err != nil {
			return false, err
		}
		if next == nil {
			return false, &NotFoundError{Kind: "office", Ref: strconv.FormatInt(*current.ParentOfficeID, 10)}
		}
		current = next
	}
}

func (s *PermissionService) grantsOverUnit(ctx context.Context, granting []office.Office, target *unit.OrgUnit, permission string) (bool, error) {
	for _, g := range granting {
		if g.IsNational() {
			return true, nil
		}
		if g.ParentOrgID != nil && *g.ParentOrgID == target.ID {
			return true, nil
		}
	}

	ancestors, err := s.tree.GetAncestors(ctx, target)
	if err != nil {
		return false, err
	}
	for _, a := range ancestors {
		for _, g := range granting {
			if g.ParentOrgID != nil && *g.ParentOrgID == a.ID {
				return true, nil
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"unit":       target.ID,
		"permission": permission,
	}).Debug("no authority chain to target unit")
	return false, &ChainNotFoundError{Permission: permission, Target: fmt.Sprintf("unit#%d", target.ID)}
}

func (s *PermissionService) resolveUnit(ctx context.Context, ref unit.Ref) (*unit.OrgUnit, error) {
	if u, ok := ref.Resolved(); ok {
		return u, nil
	}
	if code, ok := ref.Code(); ok {
		u, err := s.tree.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, &NotFoundError{Kind: "unit", Ref: code}
		}
		return u, nil
	}
	id, ok := ref.ID()
	if !ok || id == 0 {
		id = unit.RootID
	}
	u, err := s.tree.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{Kind: "unit", Ref: strconv.FormatInt(id, 10)}
	}
	return u, nil
}

func (s *PermissionService) resolveOffice(ctx context.Context, ref office.Ref) (*office.Office, error) {
	if o, ok := ref.Resolved(); ok {
		return o, nil
	}
	id, _ := ref.ID()
	o, err := s.offices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &NotFoundError{Kind: "office", Ref: strconv.FormatInt(id, 10)}
	}
	return o, nil
}
