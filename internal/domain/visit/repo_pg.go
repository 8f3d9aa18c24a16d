package visit

import (
	"context"

	"github.com/google/uuid"
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

const visitCols = `visit_id, patient_id, visit_date, hosp_adm_time, iculos, location, created_by, created_at`

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	v.VisitID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO visits (visit_id, patient_id, visit_date, hosp_adm_time, iculos, location, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.VisitID, v.PatientID, v.VisitDate, v.HospAdmTime, v.ICULOS, v.Location, v.CreatedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return scanVisit(r.conn(ctx).QueryRow(ctx,
		`SELECT `+visitCols+` FROM visits WHERE visit_id = $1`, id))
}

func (r *repoPG) GetCurrentByPatient(ctx context.Context, patientID string) (*Visit, error) {
	return scanVisit(r.conn(ctx).QueryRow(ctx,
		`SELECT `+visitCols+` FROM visits WHERE patient_id = $1 ORDER BY visit_date DESC LIMIT 1`,
		patientID))
}

func (r *repoPG) Update(ctx context.Context, v *Visit) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE visits SET visit_date=$2, hosp_adm_time=$3, iculos=$4, location=$5
		WHERE visit_id = $1`,
		v.VisitID, v.VisitDate, v.HospAdmTime, v.ICULOS, v.Location,
	)
	return err
}

func (r *repoPG) UpdateICULOS(ctx context.Context, id uuid.UUID, iculos float64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE visits SET iculos = $2 WHERE visit_id = $1`, id, iculos)
	return err
}

func (r *repoPG) ClearLocation(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE visits SET location = NULL WHERE visit_id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM visits WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+visitCols+` FROM visits WHERE patient_id = $1 ORDER BY visit_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.VisitID, &v.PatientID, &v.VisitDate, &v.HospAdmTime, &v.ICULOS,
			&v.Location, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, 0, err
		}
		visits = append(visits, &v)
	}
	return visits, total, rows.Err()
}

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.VisitID, &v.PatientID, &v.VisitDate, &v.HospAdmTime, &v.ICULOS,
		&v.Location, &v.CreatedBy, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
