package diagnosis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores a physician's sepsis diagnosis for the visit. Only positive
// diagnoses exist as rows; the absence of sepsis is the absence of a record,
// so sepsis=false is rejected rather than stored.
func (s *Service) Record(ctx context.Context, visitID uuid.UUID, sepsis bool, diagnosedBy string) (*Diagnosis, error) {
	if diagnosedBy == "" {
		return nil, fmt.Errorf("%w: diagnosed_by is required", ErrInvalidDiagnosis)
	}
	if !sepsis {
		return nil, fmt.Errorf("%w: a negative diagnosis is not recorded; retract the existing diagnosis instead", ErrInvalidDiagnosis)
	}

	d := &Diagnosis{
		VisitID:           visitID,
		Sepsis:            true,
		DiagnosedBy:       diagnosedBy,
		DiagnosisDatetime: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Latest returns the visit's most recent diagnosis.
func (s *Service) Latest(ctx context.Context, visitID uuid.UUID) (*Diagnosis, error) {
	return s.repo.GetLatestByVisit(ctx, visitID)
}

// History returns all diagnoses for the visit, newest first.
func (s *Service) History(ctx context.Context, visitID uuid.UUID) ([]*Diagnosis, error) {
	return s.repo.ListByVisit(ctx, visitID)
}

// Retract deletes the visit's sepsis diagnoses. A subsequent lookup finds
// nothing rather than a negative-flagged record.
func (s *Service) Retract(ctx context.Context, visitID uuid.UUID) error {
	n, err := s.repo.RemovePositive(ctx, visitID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoDiagnosis
	}
	return nil
}
