package patient

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// VisitLifecycle is the slice of the visit service this package needs:
// opening a visit on registration/readmission and clearing the room when the
// patient leaves. Declared here to keep the dependency one-directional.
type VisitLifecycle interface {
	OpenVisit(ctx context.Context, patientID, createdBy string, visitDate time.Time, hospAdmTime float64, location *string) (uuid.UUID, error)
	ClearCurrentLocation(ctx context.Context, patientID string) error
}

type Service struct {
	repo   Repository
	visits VisitLifecycle
}

func NewService(repo Repository, visits VisitLifecycle) *Service {
	return &Service{repo: repo, visits: visits}
}

// Lookup fetches a patient by id. A miss is reported through the error so
// the shell can offer the new-patient form.
func (s *Service) Lookup(ctx context.Context, patientID string) (*Patient, error) {
	return s.repo.GetByID(ctx, patientID)
}

// Register creates a patient found missing on lookup, admitted, together
// with their first visit. Returns the new visit id.
func (s *Service) Register(ctx context.Context, p *Patient, createdBy string, visitDate time.Time, hospAdmTime float64, location *string) (uuid.UUID, error) {
	if p.PatientID == "" {
		return uuid.Nil, fmt.Errorf("patient_id is required")
	}
	if p.Firstname == "" || p.Lastname == "" {
		return uuid.Nil, fmt.Errorf("firstname and lastname are required")
	}
	if p.Age < 0 || p.Age > 120 {
		return uuid.Nil, fmt.Errorf("age must be between 0 and 120")
	}
	if !validGenders[p.Gender] {
		return uuid.Nil, fmt.Errorf("invalid gender: %s", p.Gender)
	}

	p.Status = StatusAdmitted
	if err := s.repo.Create(ctx, p); err != nil {
		return uuid.Nil, err
	}

	if visitDate.IsZero() {
		visitDate = time.Now().UTC()
	}
	visitID, err := s.visits.OpenVisit(ctx, p.PatientID, createdBy, visitDate, hospAdmTime, location)
	if err != nil {
		return uuid.Nil, fmt.Errorf("open initial visit: %w", err)
	}
	return visitID, nil
}

// UpdateDetails edits patient demographics.
func (s *Service) UpdateDetails(ctx context.Context, p *Patient) error {
	if p.Age < 0 || p.Age > 120 {
		return fmt.Errorf("age must be between 0 and 120")
	}
	if !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %s", p.Gender)
	}
	return s.repo.Update(ctx, p)
}

// Admit readmits a discharged patient and opens a fresh visit for the stay.
func (s *Service) Admit(ctx context.Context, patientID, createdBy string) (uuid.UUID, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("patient not found: %w", err)
	}
	if p.Status == StatusAdmitted {
		return uuid.Nil, fmt.Errorf("patient %s is already admitted", patientID)
	}

	if err := s.repo.UpdateStatus(ctx, patientID, StatusAdmitted); err != nil {
		return uuid.Nil, err
	}

	visitID, err := s.visits.OpenVisit(ctx, patientID, createdBy, time.Now().UTC(), 0, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("open visit: %w", err)
	}
	return visitID, nil
}

// Discharge marks the patient discharged and clears the current visit's
// location.
func (s *Service) Discharge(ctx context.Context, patientID string) error {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}
	if p.Status == StatusDischarged {
		return fmt.Errorf("patient %s is already discharged", patientID)
	}

	if err := s.repo.UpdateStatus(ctx, patientID, StatusDischarged); err != nil {
		return err
	}
	if err := s.visits.ClearCurrentLocation(ctx, patientID); err != nil {
		return fmt.Errorf("clear visit location: %w", err)
	}
	return nil
}

// Dashboard returns all admitted patients with scores, sorted by descending
// risk, together with band counts.
func (s *Service) Dashboard(ctx context.Context) ([]*AdmittedPatient, RiskBandCounts, error) {
	rows, err := s.repo.ListAdmittedWithScores(ctx)
	if err != nil {
		return nil, RiskBandCounts{}, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RiskScore > rows[j].RiskScore
	})

	var counts RiskBandCounts
	for _, row := range rows {
		switch {
		case row.RiskScore < 0.20:
			counts.Low++
		case row.RiskScore < 0.80:
			counts.Medium++
		default:
			counts.High++
		}
	}
	return rows, counts, nil
}
