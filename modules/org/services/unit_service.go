package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/orgnest/orgnest/modules/org/domain/events"
	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/pkg/composables"
	"github.com/orgnest/orgnest/pkg/constants"
	"github.com/orgnest/orgnest/pkg/eventbus"
)

// UnitService creates, updates, and deletes org units while preserving the
// tree invariants. Every structural mutation runs inside one transaction
// spanning the permission check, validation, the unit write, and all
// dependent writes.
type UnitService struct {
	tree        TreeRepository
	offices     OfficeRepository
	users       UserRepository
	permissions *PermissionService
	bus         eventbus.EventBus
	logger      *logrus.Entry
}

func NewUnitService(
	tree TreeRepository,
	offices OfficeRepository,
	users UserRepository,
	permissions *PermissionService,
	bus eventbus.EventBus,
	logger *logrus.Logger,
) *UnitService {
	return &UnitService{
		tree:        tree,
		offices:     offices,
		users:       users,
		permissions: permissions,
		bus:         bus,
		logger:      logger.WithField("component", "org.units"),
	}
}

type CreateUnitInput struct {
	ParentID  int64  `validate:"required"`
	Type      string `validate:"required,oneof=region domain venue"`
	Name      string `validate:"required"`
	Code      string `validate:"required_unless=Type venue"`
	VenueType string `validate:"required_if=Type venue"`
	Location  string
	DefDoc    string
	Website   string `validate:"omitempty,url"`
}

// Pointer fields distinguish "not supplied" from "supplied empty": nil is
// skipped, a supplied value must survive trimming non-empty.
type UpdateUnitInput struct {
	Name      *string `validate:"omitnil,required"`
	Code      *string `validate:"omitnil,required"`
	VenueType *string `validate:"omitnil,required"`
	Location  *string
	DefDoc    *string
	Website   *string `validate:"omitempty,url"`
}

// UnitView is the public read shape: the unit, its ancestors nearest first,
// and its descendants as a nested forest.
type UnitView struct {
	Unit     *unit.OrgUnit
	Parents  []*unit.OrgUnit
	Children []*TreeNode
}

// Create validates, authorizes, and persists a new unit under parent. The
// unit's type must be exactly one rank below the parent's, and the officer
// must hold org_create_<type> over the parent or one of its ancestors.
func (s *UnitService) Create(ctx context.Context, in CreateUnitInput, officer office.Officer) (created *unit.OrgUnit, err error) {
	defer func() { recordMutation("create", err) }()

	// Trim before validation so whitespace-only values fail required checks.
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	in.VenueType = strings.TrimSpace(in.VenueType)
	in.Website = strings.TrimSpace(in.Website)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	unitType, parseErr := unit.ParseType(in.Type)
	if parseErr != nil {
		return nil, &ValidationError{Field: "type", Reason: parseErr.Error()}
	}

	created, err = composables.InTxResult(ctx, func(txCtx context.Context) (*unit.OrgUnit, error) {
		parent, err := s.permissions.resolveUnit(txCtx, unit.RefID(in.ParentID))
		if err != nil {
			return nil, err
		}
		if !unitType.ChildOf(parent.Type) {
			return nil, &StructuralError{
				Message: "unit type " + string(unitType) + " cannot be a child of " + string(parent.Type),
			}
		}
		if _, err := s.permissions.HasOverUnit(txCtx, unit.RefTo(parent), office.CreatePermission(unitType), officer); err != nil {
			return nil, err
		}

		u := &unit.OrgUnit{
			Code:      normalizeCode(in.Code, unitType),
			Name:      in.Name,
			Type:      unitType,
			ParentID:  &parent.ID,
			VenueType: in.VenueType,
			Location:  in.Location,
			DefDoc:    in.DefDoc,
			Website:   in.Website,
		}
		return s.tree.Insert(txCtx, u, parent)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"unit": created.ID, "type": created.Type}).Info("unit created")
	s.bus.Publish(events.UnitCreated{
		EventID:   uuid.New(),
		RequestID: composables.UseRequestID(ctx),
		ActorID:   officer.UserID(),
		Unit:      created,
		Timestamp: time.Now().UTC(),
	})
	return created, nil
}

// Update applies a partial update to the unit identified by ref. Requires
// org_update over the unit or one of its ancestors.
func (s *UnitService) Update(ctx context.Context, ref unit.Ref, in UpdateUnitInput, officer office.Officer) (updated *unit.OrgUnit, err error) {
	defer func() { recordMutation("update", err) }()

	in.Name = trimmedPtr(in.Name)
	in.Code = trimmedPtr(in.Code)
	in.VenueType = trimmedPtr(in.VenueType)
	in.Website = trimmedPtr(in.Website)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	updated, err = composables.InTxResult(ctx, func(txCtx context.Context) (*unit.OrgUnit, error) {
		u, err := s.permissions.resolveUnit(txCtx, ref)
		if err != nil {
			return nil, err
		}
		if _, err := s.permissions.HasOverUnit(txCtx, unit.RefTo(u), office.PermOrgUpdate, officer); err != nil {
			return nil, err
		}

		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Code != nil {
			u.Code = normalizeCode(*in.Code, u.Type)
		}
		if in.VenueType != nil {
			if u.Type != unit.TypeVenue {
				return nil, &ValidationError{Field: "venueType", Reason: "only venues carry a venue type"}
			}
			u.VenueType = *in.VenueType
		}
		if in.Location != nil {
			u.Location = *in.Location
		}
		if in.DefDoc != nil {
			u.DefDoc = *in.DefDoc
		}
		if in.Website != nil {
			u.Website = *in.Website
		}

		if err := s.tree.Update(txCtx, u); err != nil {
			return nil, err
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.UnitUpdated{
		EventID:   uuid.New(),
		RequestID: composables.UseRequestID(ctx),
		ActorID:   officer.UserID(),
		Unit:      updated,
		Timestamp: time.Now().UTC(),
	})
	return updated, nil
}

// Delete removes a leaf unit. Its offices are deleted, its users reassigned
// to the parent, and the nested-set gap closed, all inside one transaction.
// The national root is never deletable.
func (s *UnitService) Delete(ctx context.Context, ref unit.Ref, officer office.Officer) (deleted *unit.OrgUnit, err error) {
	defer func() { recordMutation("delete", err) }()

	type result struct {
		unit    *unit.OrgUnit
		users   int64
		offices int64
	}

	res, err := composables.InTxResult(ctx, func(txCtx context.Context) (result, error) {
		u, err := s.permissions.resolveUnit(txCtx, ref)
		if err != nil {
			return result{}, err
		}
		if u.ID == unit.RootID {
			return result{}, &StructuralError{Message: "the national root cannot be deleted"}
		}
		if _, err := s.permissions.HasOverUnit(txCtx, unit.RefTo(u), office.CreatePermission(u.Type), officer); err != nil {
			return result{}, err
		}

		hasChildren, err := s.tree.HasChildren(txCtx, u)
		if err != nil {
			return result{}, err
		}
		if hasChildren {
			return result{}, &HasChildrenError{UnitID: u.ID}
		}

		if u.ParentID == nil {
			return result{}, &NoParentError{UnitID: u.ID}
		}

		removedOffices, err := s.offices.DeleteByUnit(txCtx, u.ID)
		if err != nil {
			return result{}, err
		}
		movedUsers, err := s.users.ReassignUnit(txCtx, u.ID, *u.ParentID)
		if err != nil {
			return result{}, err
		}
		if err := s.tree.Remove(txCtx, u); err != nil {
			return result{}, err
		}
		return result{unit: u, users: movedUsers, offices: removedOffices}, nil
	})
	if err != nil {
		var noParent *NoParentError
		if errors.As(err, &noParent) {
			s.logger.WithField("unit", noParent.UnitID).Error("non-root unit has no parent, rolling back delete")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"unit":             res.unit.ID,
		"reassigned_users": res.users,
		"removed_offices":  res.offices,
	}).Info("unit deleted")
	s.bus.Publish(events.UnitDeleted{
		EventID:         uuid.New(),
		RequestID:       composables.UseRequestID(ctx),
		ActorID:         officer.UserID(),
		Unit:            res.unit,
		ReassignedUsers: res.users,
		RemovedOffices:  res.offices,
		Timestamp:       time.Now().UTC(),
	})
	return res.unit, nil
}

// ResolveView builds the public read shape for a unit from one chain scan.
func (s *UnitService) ResolveView(ctx context.Context, ref unit.Ref) (*UnitView, error) {
	u, err := s.permissions.resolveUnit(ctx, ref)
	if err != nil {
		return nil, err
	}
	chain, err := s.tree.GetChain(ctx, u)
	if err != nil {
		return nil, err
	}
	return &UnitView{
		Unit:     u,
		Parents:  chain.Ancestors,
		Children: BuildForest(chain.Descendants),
	}, nil
}

func validateInput(in any) error {
	errs := constants.Validate.Struct(in)
	if errs == nil {
		return nil
	}
	if fieldErrs, ok := errs.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return &ValidationError{Field: first.Field(), Reason: "failed " + first.Tag() + " validation"}
	}
	return &ValidationError{Reason: errs.Error()}
}

// Venues carry no code; everything else gets the uppercase normal form.
func normalizeCode(code string, t unit.Type) string {
	if t == unit.TypeVenue {
		return ""
	}
	return strings.ToUpper(code)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
