// Package shared holds the building blocks every checkout domain package uses:
// the identity and timestamps of persisted entities, domain errors, the unit
// of work port and paginated results.
package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the identity and bookkeeping embedded in persisted entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity returns a fresh identity stamped with the current time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch moves UpdatedAt forward
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
