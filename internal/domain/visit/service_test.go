package visit

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	visits map[uuid.UUID]*Visit
}

func newMockRepo() *mockRepo {
	return &mockRepo{visits: make(map[uuid.UUID]*Visit)}
}

func (m *mockRepo) Create(_ context.Context, v *Visit) error {
	v.VisitID = uuid.New()
	v.CreatedAt = time.Now()
	cp := *v
	m.visits[v.VisitID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockRepo) GetCurrentByPatient(_ context.Context, patientID string) (*Visit, error) {
	var latest *Visit
	for _, v := range m.visits {
		if v.PatientID != patientID {
			continue
		}
		if latest == nil || v.VisitDate.After(latest.VisitDate) {
			latest = v
		}
	}
	if latest == nil {
		return nil, errNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, v *Visit) error {
	if _, ok := m.visits[v.VisitID]; !ok {
		return errNotFound
	}
	cp := *v
	m.visits[v.VisitID] = &cp
	return nil
}

func (m *mockRepo) UpdateICULOS(_ context.Context, id uuid.UUID, iculos float64) error {
	v, ok := m.visits[id]
	if !ok {
		return errNotFound
	}
	v.ICULOS = iculos
	return nil
}

func (m *mockRepo) ClearLocation(_ context.Context, id uuid.UUID) error {
	v, ok := m.visits[id]
	if !ok {
		return errNotFound
	}
	v.Location = nil
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	var out []*Visit
	for _, v := range m.visits {
		if v.PatientID == patientID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }

func TestOpenVisit(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	loc := "ICU-3"
	id, err := svc.OpenVisit(context.Background(), "P001", "nurse1", time.Now(), 4.5, &loc)
	if err != nil {
		t.Fatalf("OpenVisit() error = %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected a visit id")
	}

	v, err := svc.GetVisit(context.Background(), id)
	if err != nil {
		t.Fatalf("GetVisit() error = %v", err)
	}
	if v.PatientID != "P001" || v.HospAdmTime != 4.5 {
		t.Errorf("unexpected visit: %+v", v)
	}
	if v.Location == nil || *v.Location != "ICU-3" {
		t.Errorf("location not stored: %+v", v.Location)
	}
}

func TestOpenVisit_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.OpenVisit(context.Background(), "", "nurse1", time.Now(), 1, nil); err == nil {
		t.Error("expected error for empty patient id")
	}
	if _, err := svc.OpenVisit(context.Background(), "P001", "nurse1", time.Now(), -2, nil); err == nil {
		t.Error("expected error for negative hosp_adm_time")
	}
}

func TestCurrentVisit_RecomputesICULOS(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Visit started 36 hours ago, stale iculos of 0.
	id, err := svc.OpenVisit(context.Background(), "P001", "nurse1", now.Add(-36*time.Hour), 2, nil)
	if err != nil {
		t.Fatalf("OpenVisit() error = %v", err)
	}

	v, err := svc.CurrentVisit(context.Background(), "P001")
	if err != nil {
		t.Fatalf("CurrentVisit() error = %v", err)
	}
	if math.Abs(v.ICULOS-1.5) > 1e-9 {
		t.Errorf("ICULOS = %v, want 1.5", v.ICULOS)
	}

	// Recomputed value is persisted, not just returned.
	stored, _ := repo.GetByID(context.Background(), id)
	if math.Abs(stored.ICULOS-1.5) > 1e-9 {
		t.Errorf("stored ICULOS = %v, want 1.5", stored.ICULOS)
	}
}

func TestCurrentVisit_PicksLatest(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	now := time.Now()

	if _, err := svc.OpenVisit(context.Background(), "P001", "nurse1", now.Add(-72*time.Hour), 1, nil); err != nil {
		t.Fatal(err)
	}
	loc := "ICU-1"
	latest, err := svc.OpenVisit(context.Background(), "P001", "nurse1", now.Add(-2*time.Hour), 1, &loc)
	if err != nil {
		t.Fatal(err)
	}

	v, err := svc.CurrentVisit(context.Background(), "P001")
	if err != nil {
		t.Fatalf("CurrentVisit() error = %v", err)
	}
	if v.VisitID != latest {
		t.Errorf("CurrentVisit() = %v, want %v", v.VisitID, latest)
	}
}

func TestClearCurrentLocation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	loc := "ICU-2"
	id, err := svc.OpenVisit(context.Background(), "P001", "nurse1", time.Now(), 1, &loc)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ClearCurrentLocation(context.Background(), "P001"); err != nil {
		t.Fatalf("ClearCurrentLocation() error = %v", err)
	}
	v, _ := repo.GetByID(context.Background(), id)
	if v.Location != nil {
		t.Errorf("location = %v, want nil", *v.Location)
	}

	if err := svc.ClearCurrentLocation(context.Background(), "NOPE"); err == nil {
		t.Error("expected error for patient with no visits")
	}
}

func TestUpdateVisit(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	id, err := svc.OpenVisit(context.Background(), "P001", "nurse1", now.Add(-24*time.Hour), 3, nil)
	if err != nil {
		t.Fatal(err)
	}

	v, _ := repo.GetByID(context.Background(), id)
	v.HospAdmTime = 6
	v.VisitDate = now.Add(-48 * time.Hour)
	if err := svc.UpdateVisit(context.Background(), v); err != nil {
		t.Fatalf("UpdateVisit() error = %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), id)
	if stored.HospAdmTime != 6 {
		t.Errorf("hosp_adm_time = %v, want 6", stored.HospAdmTime)
	}
	if math.Abs(stored.ICULOS-2) > 1e-9 {
		t.Errorf("ICULOS = %v, want 2 after visit date change", stored.ICULOS)
	}

	v.HospAdmTime = -1
	if err := svc.UpdateVisit(context.Background(), v); err == nil {
		t.Error("expected error for negative hosp_adm_time")
	}
}
