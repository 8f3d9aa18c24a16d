package risk

import (
	"context"

	"github.com/google/uuid"
)

// Assembler produces the ordered feature vector for a visit from its
// latest observations. Returns ErrNoObservations when the visit is missing
// or has no vitals or no labs row. Read-only.
type Assembler interface {
	AssembleFeatures(ctx context.Context, visitID uuid.UUID) (*FeatureVector, error)
}

// ScoreRepository is the append-only risk score history.
type ScoreRepository interface {
	Append(ctx context.Context, s *RiskScore) error
	CurrentByVisit(ctx context.Context, visitID uuid.UUID) (*RiskScore, error)
	ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*RiskScore, error)
}

// Repository combines feature assembly with score persistence.
type Repository interface {
	Assembler
	ScoreRepository
}
