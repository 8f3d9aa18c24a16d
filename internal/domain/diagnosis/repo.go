package diagnosis

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Diagnosis) error
	GetLatestByVisit(ctx context.Context, visitID uuid.UUID) (*Diagnosis, error)
	ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*Diagnosis, error)
	// RemovePositive deletes all sepsis-positive rows for the visit, used
	// when a physician retracts a sepsis diagnosis.
	RemovePositive(ctx context.Context, visitID uuid.UUID) (int64, error)
}
