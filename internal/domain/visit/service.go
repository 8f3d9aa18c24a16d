package visit

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

// OpenVisit creates a new visit for a hospital stay. Satisfies
// patient.VisitLifecycle.
func (s *Service) OpenVisit(ctx context.Context, patientID, createdBy string, visitDate time.Time, hospAdmTime float64, location *string) (uuid.UUID, error) {
	if patientID == "" {
		return uuid.Nil, fmt.Errorf("patient_id is required")
	}
	if hospAdmTime < 0 {
		return uuid.Nil, fmt.Errorf("hosp_adm_time must be non-negative")
	}
	if visitDate.IsZero() {
		visitDate = s.now().UTC()
	}

	v := &Visit{
		PatientID:   patientID,
		VisitDate:   visitDate,
		HospAdmTime: hospAdmTime,
		Location:    location,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return uuid.Nil, err
	}
	return v.VisitID, nil
}

// GetVisit fetches a visit by id.
func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

// CurrentVisit returns the patient's most recent visit by visit date and
// refreshes its ICU length of stay (days elapsed since the visit started).
func (s *Service) CurrentVisit(ctx context.Context, patientID string) (*Visit, error) {
	v, err := s.repo.GetCurrentByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	iculos := s.now().Sub(v.VisitDate).Hours() / 24
	if iculos < 0 {
		iculos = 0
	}
	if err := s.repo.UpdateICULOS(ctx, v.VisitID, iculos); err != nil {
		return nil, fmt.Errorf("update iculos: %w", err)
	}
	v.ICULOS = iculos
	return v, nil
}

// UpdateVisit edits visit details and recomputes the ICU length of stay from
// the (possibly changed) visit date.
func (s *Service) UpdateVisit(ctx context.Context, v *Visit) error {
	if v.HospAdmTime < 0 {
		return fmt.Errorf("hosp_adm_time must be non-negative")
	}

	iculos := s.now().Sub(v.VisitDate).Hours() / 24
	if iculos < 0 {
		iculos = 0
	}
	v.ICULOS = iculos

	return s.repo.Update(ctx, v)
}

// ClearCurrentLocation empties the room assignment on the patient's current
// visit. Satisfies patient.VisitLifecycle; called on discharge.
func (s *Service) ClearCurrentLocation(ctx context.Context, patientID string) error {
	v, err := s.repo.GetCurrentByPatient(ctx, patientID)
	if err != nil {
		return fmt.Errorf("current visit not found: %w", err)
	}
	return s.repo.ClearLocation(ctx, v.VisitID)
}

// ListVisits returns a patient's visits, newest first.
func (s *Service) ListVisits(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
