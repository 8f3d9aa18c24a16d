package observation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func f(v float64) *float64 { return &v }

func TestValidateVitals(t *testing.T) {
	ts := time.Now()
	tests := []struct {
		name    string
		vitals  Vitals
		wantErr bool
	}{
		{"valid full set", Vitals{Temp: f(37.2), HR: f(88), SBP: f(120), DBP: f(80), MAP: f(93), Resp: f(16), O2Sat: f(97), Timestamp: ts}, false},
		{"valid partial set", Vitals{HR: f(102), Timestamp: ts}, false},
		{"missing timestamp", Vitals{HR: f(88)}, true},
		{"all nil", Vitals{Timestamp: ts}, true},
		{"negative hr", Vitals{HR: f(-5), Timestamp: ts}, true},
		{"o2sat above 100", Vitals{O2Sat: f(110), Timestamp: ts}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVitals(&tt.vitals)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVitals() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabs(t *testing.T) {
	ts := time.Now()
	tests := []struct {
		name    string
		labs    Labs
		wantErr bool
	}{
		{"valid full set", Labs{WBC: f(11.2), Creatinine: f(1.1), BilirubinTotal: f(0.9), Platelets: f(240), Lactate: f(1.8), Timestamp: ts}, false},
		{"valid partial set", Labs{Lactate: f(3.4), Timestamp: ts}, false},
		{"missing timestamp", Labs{WBC: f(9)}, true},
		{"all nil", Labs{Timestamp: ts}, true},
		{"negative lactate", Labs{Lactate: f(-1), Timestamp: ts}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabs(&tt.labs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type mockRepo struct {
	vitals []*Vitals
	labs   []*Labs
}

func (m *mockRepo) CreateVitals(_ context.Context, v *Vitals) error {
	cp := *v
	m.vitals = append(m.vitals, &cp)
	return nil
}

func (m *mockRepo) CreateLabs(_ context.Context, l *Labs) error {
	cp := *l
	m.labs = append(m.labs, &cp)
	return nil
}

func (m *mockRepo) LatestVitalsByVisit(_ context.Context, visitID uuid.UUID) (*Vitals, error) {
	var latest *Vitals
	for _, v := range m.vitals {
		if v.VisitID != visitID {
			continue
		}
		if latest == nil || v.Timestamp.After(latest.Timestamp) {
			latest = v
		}
	}
	if latest == nil {
		return nil, errNoRows
	}
	return latest, nil
}

func (m *mockRepo) LatestLabsByVisit(_ context.Context, visitID uuid.UUID) (*Labs, error) {
	var latest *Labs
	for _, l := range m.labs {
		if l.VisitID != visitID {
			continue
		}
		if latest == nil || l.Timestamp.After(latest.Timestamp) {
			latest = l
		}
	}
	if latest == nil {
		return nil, errNoRows
	}
	return latest, nil
}

func (m *mockRepo) ListVitalsByVisit(_ context.Context, visitID uuid.UUID) ([]*Vitals, error) {
	var out []*Vitals
	for _, v := range m.vitals {
		if v.VisitID == visitID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockRepo) ListLabsByVisit(_ context.Context, visitID uuid.UUID) ([]*Labs, error) {
	var out []*Labs
	for _, l := range m.labs {
		if l.VisitID == visitID {
			out = append(out, l)
		}
	}
	return out, nil
}

var errNoRows = &noRowsError{}

type noRowsError struct{}

func (*noRowsError) Error() string { return "no rows" }

func TestRecordVitals_AppendOnly(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	visitID := uuid.New()
	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	first := &Vitals{VisitID: visitID, EnteredBy: "nurse1", HR: f(88), Timestamp: base}
	second := &Vitals{VisitID: visitID, EnteredBy: "nurse1", HR: f(112), Timestamp: base.Add(2 * time.Hour)}

	if err := svc.RecordVitals(context.Background(), first); err != nil {
		t.Fatalf("RecordVitals() error = %v", err)
	}
	if err := svc.RecordVitals(context.Background(), second); err != nil {
		t.Fatalf("RecordVitals() error = %v", err)
	}

	// Both rows survive; the second does not replace the first.
	history, err := svc.VitalsHistory(context.Background(), visitID)
	if err != nil {
		t.Fatalf("VitalsHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}

	latest, err := svc.LatestVitals(context.Background(), visitID)
	if err != nil {
		t.Fatalf("LatestVitals() error = %v", err)
	}
	if latest.HR == nil || *latest.HR != 112 {
		t.Errorf("latest HR = %v, want 112", latest.HR)
	}
}

func TestRecordLabs_RejectsInvalid(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	err := svc.RecordLabs(context.Background(), &Labs{VisitID: uuid.New(), Timestamp: time.Now()})
	if err == nil {
		t.Fatal("expected error for empty lab set")
	}
	if len(repo.labs) != 0 {
		t.Errorf("invalid labs were stored")
	}
}

func TestLatestVitals_NoneRecorded(t *testing.T) {
	svc := NewService(&mockRepo{})
	if _, err := svc.LatestVitals(context.Background(), uuid.New()); err == nil {
		t.Error("expected error when no vitals exist")
	}
}
