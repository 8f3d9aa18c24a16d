package observation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ValidateVitals rejects measurement sets that are empty or physiologically
// impossible. All-nil rows carry no information and are not stored.
func ValidateVitals(v *Vitals) error {
	if v.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if v.Temp == nil && v.HR == nil && v.SBP == nil && v.DBP == nil &&
		v.MAP == nil && v.Resp == nil && v.O2Sat == nil {
		return fmt.Errorf("at least one vital sign is required")
	}
	for _, m := range []struct {
		name string
		val  *float64
	}{
		{"temp", v.Temp}, {"hr", v.HR}, {"sbp", v.SBP}, {"dbp", v.DBP},
		{"map", v.MAP}, {"resp", v.Resp}, {"o2sat", v.O2Sat},
	} {
		if m.val != nil && *m.val < 0 {
			return fmt.Errorf("%s must be non-negative", m.name)
		}
	}
	if v.O2Sat != nil && *v.O2Sat > 100 {
		return fmt.Errorf("o2sat must be a percentage in [0, 100]")
	}
	return nil
}

// ValidateLabs rejects result sets that are empty or contain negative
// values.
func ValidateLabs(l *Labs) error {
	if l.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if l.WBC == nil && l.Creatinine == nil && l.BilirubinTotal == nil &&
		l.BilirubinDir == nil && l.Platelets == nil && l.Lactate == nil {
		return fmt.Errorf("at least one lab value is required")
	}
	for _, m := range []struct {
		name string
		val  *float64
	}{
		{"wbc", l.WBC}, {"creatinine", l.Creatinine}, {"bilirubin_total", l.BilirubinTotal},
		{"bilirubin_direct", l.BilirubinDir}, {"platelets", l.Platelets}, {"lactate", l.Lactate},
	} {
		if m.val != nil && *m.val < 0 {
			return fmt.Errorf("%s must be non-negative", m.name)
		}
	}
	return nil
}

// RecordVitals appends a vitals row for the visit.
func (s *Service) RecordVitals(ctx context.Context, v *Vitals) error {
	if err := ValidateVitals(v); err != nil {
		return err
	}
	return s.repo.CreateVitals(ctx, v)
}

// RecordLabs appends a labs row for the visit.
func (s *Service) RecordLabs(ctx context.Context, l *Labs) error {
	if err := ValidateLabs(l); err != nil {
		return err
	}
	return s.repo.CreateLabs(ctx, l)
}

func (s *Service) LatestVitals(ctx context.Context, visitID uuid.UUID) (*Vitals, error) {
	return s.repo.LatestVitalsByVisit(ctx, visitID)
}

func (s *Service) LatestLabs(ctx context.Context, visitID uuid.UUID) (*Labs, error) {
	return s.repo.LatestLabsByVisit(ctx, visitID)
}

func (s *Service) VitalsHistory(ctx context.Context, visitID uuid.UUID) ([]*Vitals, error) {
	return s.repo.ListVitalsByVisit(ctx, visitID)
}

func (s *Service) LabsHistory(ctx context.Context, visitID uuid.UUID) ([]*Labs, error) {
	return s.repo.ListLabsByVisit(ctx, visitID)
}
