package risk

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sepsisdss/sepsisdss/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns the pgx-backed assembler and score store.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// featureQuery picks the single most recent vitals and labs rows per visit
// and joins visit and patient context. The LEFT JOINs keep the row alive
// when one observation type is missing so the timestamps can be inspected.
const featureQuery = `
WITH latest_vital AS (
    SELECT * FROM vitals WHERE visit_id = $1 ORDER BY timestamp DESC LIMIT 1
), latest_lab AS (
    SELECT * FROM labs WHERE visit_id = $1 ORDER BY timestamp DESC LIMIT 1
)
SELECT
    FLOOR(EXTRACT(EPOCH FROM (v.timestamp - vi.visit_date)) / 3600)::int,
    p.age, vi.iculos, p.gender, vi.hosp_adm_time,
    v.hr, v.map, v.o2sat, v.resp, v.sbp, v.dbp, v.temp,
    l.wbc, l.creatinine, l.bilirubin_total, l.platelets, l.lactate,
    v.timestamp, l.timestamp
FROM visits vi
JOIN patients p ON p.patient_id = vi.patient_id
LEFT JOIN latest_vital v ON v.visit_id = vi.visit_id
LEFT JOIN latest_lab l ON l.visit_id = vi.visit_id
WHERE vi.visit_id = $1`

func (r *repoPG) AssembleFeatures(ctx context.Context, visitID uuid.UUID) (*FeatureVector, error) {
	var (
		hourOfObs                                  *int
		age                                        int
		iculos, hospAdmTime                        float64
		gender                                     string
		hr, mapV, o2sat, resp, sbp, dbp, temp      *float64
		wbc, creatinine, bilirubin, plate, lactate *float64
		vitalsTS, labsTS                           *time.Time
	)

	err := r.conn(ctx).QueryRow(ctx, featureQuery, visitID).Scan(
		&hourOfObs, &age, &iculos, &gender, &hospAdmTime,
		&hr, &mapV, &o2sat, &resp, &sbp, &dbp, &temp,
		&wbc, &creatinine, &bilirubin, &plate, &lactate,
		&vitalsTS, &labsTS,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoObservations
	}
	if err != nil {
		return nil, err
	}
	if vitalsTS == nil || labsTS == nil {
		return nil, ErrNoObservations
	}

	return &FeatureVector{
		HourOfObservation: float64(*hourOfObs),
		PatientAge:        float64(age),
		ICULengthOfStay:   iculos,
		PatientGender:     gender,
		HoursSinceHospAdm: hospAdmTime,
		HeartRate:         orNaN(hr),
		MeanArterialPress: orNaN(mapV),
		OxygenSaturation:  orNaN(o2sat),
		RespiratoryRate:   orNaN(resp),
		SystolicBP:        orNaN(sbp),
		DiastolicBP:       orNaN(dbp),
		Temperature:       orNaN(temp),
		WBCCount:          orNaN(wbc),
		Creatinine:        orNaN(creatinine),
		TotalBilirubin:    orNaN(bilirubin),
		PlateletCount:     orNaN(plate),
		Lactate:           orNaN(lactate),
	}, nil
}

// orNaN surfaces a NULL measurement as NaN so the classifier's imputation
// handles it instead of the field being dropped.
func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func (r *repoPG) Append(ctx context.Context, s *RiskScore) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO risk_scores (visit_id, score, generated_at)
		VALUES ($1, $2, $3)`,
		s.VisitID, s.Score, s.GeneratedAt,
	)
	return err
}

func (r *repoPG) CurrentByVisit(ctx context.Context, visitID uuid.UUID) (*RiskScore, error) {
	var s RiskScore
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT visit_id, score, generated_at FROM risk_scores
		WHERE visit_id = $1 ORDER BY generated_at DESC LIMIT 1`,
		visitID).Scan(&s.VisitID, &s.Score, &s.GeneratedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*RiskScore, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT visit_id, score, generated_at FROM risk_scores
		WHERE visit_id = $1 ORDER BY generated_at DESC`,
		visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RiskScore
	for rows.Next() {
		var s RiskScore
		if err := rows.Scan(&s.VisitID, &s.Score, &s.GeneratedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
