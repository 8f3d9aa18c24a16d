package visit

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	GetCurrentByPatient(ctx context.Context, patientID string) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	UpdateICULOS(ctx context.Context, id uuid.UUID, iculos float64) error
	ClearLocation(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error)
}
