package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/orgnest/orgnest/modules/org/domain/unit"
)

type UnitCreated struct {
	EventID   uuid.UUID
	RequestID string
	ActorID   int64
	Unit      *unit.OrgUnit
	Timestamp time.Time
}

type UnitUpdated struct {
	EventID   uuid.UUID
	RequestID string
	ActorID   int64
	Unit      *unit.OrgUnit
	Timestamp time.Time
}

type UnitDeleted struct {
	EventID         uuid.UUID
	RequestID       string
	ActorID         int64
	Unit            *unit.OrgUnit
	ReassignedUsers int64
	RemovedOffices  int64
	Timestamp       time.Time
}
