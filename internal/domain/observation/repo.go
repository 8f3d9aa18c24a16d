package observation

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores vitals and labs. Rows are append-only: corrections are
// new rows with later timestamps, never updates.
type Repository interface {
	CreateVitals(ctx context.Context, v *Vitals) error
	CreateLabs(ctx context.Context, l *Labs) error
	LatestVitalsByVisit(ctx context.Context, visitID uuid.UUID) (*Vitals, error)
	LatestLabsByVisit(ctx context.Context, visitID uuid.UUID) (*Labs, error)
	ListVitalsByVisit(ctx context.Context, visitID uuid.UUID) ([]*Vitals, error)
	ListLabsByVisit(ctx context.Context, visitID uuid.UUID) ([]*Labs, error)
}
