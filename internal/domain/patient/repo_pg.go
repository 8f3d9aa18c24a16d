package patient

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sepsisdss/sepsisdss/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

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

const patientCols = `patient_id, firstname, lastname, age, gender, status, created_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (patient_id, firstname, lastname, age, gender, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.PatientID, p.Firstname, p.Lastname, p.Age, p.Gender, p.Status,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, patientID string) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE patient_id = $1`, patientID,
	).Scan(&p.PatientID, &p.Firstname, &p.Lastname, &p.Age, &p.Gender, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET firstname=$2, lastname=$3, age=$4, gender=$5
		WHERE patient_id = $1`,
		p.PatientID, p.Firstname, p.Lastname, p.Age, p.Gender,
	)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, patientID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET status = $2 WHERE patient_id = $1`,
		patientID, status,
	)
	return err
}

// ListAdmittedWithScores returns one row per admitted patient carrying the
// most recent risk score across their visits and whether the latest visit has
// a positive sepsis diagnosis. Patients with no score yet are omitted, which
// matches the dashboard's "needs vitals and labs first" behavior.
func (r *repoPG) ListAdmittedWithScores(ctx context.Context) ([]*AdmittedPatient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT ON (p.patient_id)
			p.patient_id, p.firstname, p.lastname, p.age, p.gender,
			v.location, r.score,
			COALESCE((
				SELECT d.sepsis FROM diagnosis d
				WHERE d.visit_id = v.visit_id
				ORDER BY d.diagnosis_datetime DESC LIMIT 1
			), FALSE) AS sepsis
		FROM patients p
		JOIN visits v ON p.patient_id = v.patient_id
		JOIN risk_scores r ON v.visit_id = r.visit_id
		WHERE p.status = 'admitted'
		ORDER BY p.patient_id, r.generated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*AdmittedPatient
	for rows.Next() {
		var ap AdmittedPatient
		if err := rows.Scan(&ap.PatientID, &ap.Firstname, &ap.Lastname, &ap.Age, &ap.Gender,
			&ap.Location, &ap.RiskScore, &ap.Sepsis); err != nil {
			return nil, err
		}
		result = append(result, &ap)
	}
	return result, rows.Err()
}
