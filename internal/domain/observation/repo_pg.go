package observation

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

const vitalsCols = `visit_id, entered_by, temp, hr, sbp, dbp, map, resp, o2sat, timestamp`

func (r *repoPG) CreateVitals(ctx context.Context, v *Vitals) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vitals (`+vitalsCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.VisitID, v.EnteredBy, v.Temp, v.HR, v.SBP, v.DBP, v.MAP, v.Resp, v.O2Sat, v.Timestamp,
	)
	return err
}

func (r *repoPG) LatestVitalsByVisit(ctx context.Context, visitID uuid.UUID) (*Vitals, error) {
	return scanVitals(r.conn(ctx).QueryRow(ctx,
		`SELECT `+vitalsCols+` FROM vitals WHERE visit_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		visitID))
}

func (r *repoPG) ListVitalsByVisit(ctx context.Context, visitID uuid.UUID) ([]*Vitals, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+vitalsCols+` FROM vitals WHERE visit_id = $1 ORDER BY timestamp DESC`,
		visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Vitals
	for rows.Next() {
		var v Vitals
		if err := rows.Scan(&v.VisitID, &v.EnteredBy, &v.Temp, &v.HR, &v.SBP, &v.DBP,
			&v.MAP, &v.Resp, &v.O2Sat, &v.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

const labsCols = `visit_id, entered_by, wbc, creatinine, bilirubin_total, bilirubin_direct, platelets, lactate, timestamp`

func (r *repoPG) CreateLabs(ctx context.Context, l *Labs) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO labs (`+labsCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.VisitID, l.EnteredBy, l.WBC, l.Creatinine, l.BilirubinTotal, l.BilirubinDir, l.Platelets, l.Lactate, l.Timestamp,
	)
	return err
}

func (r *repoPG) LatestLabsByVisit(ctx context.Context, visitID uuid.UUID) (*Labs, error) {
	return scanLabs(r.conn(ctx).QueryRow(ctx,
		`SELECT `+labsCols+` FROM labs WHERE visit_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		visitID))
}

func (r *repoPG) ListLabsByVisit(ctx context.Context, visitID uuid.UUID) ([]*Labs, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+labsCols+` FROM labs WHERE visit_id = $1 ORDER BY timestamp DESC`,
		visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Labs
	for rows.Next() {
		var l Labs
		if err := rows.Scan(&l.VisitID, &l.EnteredBy, &l.WBC, &l.Creatinine, &l.BilirubinTotal,
			&l.BilirubinDir, &l.Platelets, &l.Lactate, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func scanVitals(row pgx.Row) (*Vitals, error) {
	var v Vitals
	err := row.Scan(&v.VisitID, &v.EnteredBy, &v.Temp, &v.HR, &v.SBP, &v.DBP,
		&v.MAP, &v.Resp, &v.O2Sat, &v.Timestamp)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanLabs(row pgx.Row) (*Labs, error) {
	var l Labs
	err := row.Scan(&l.VisitID, &l.EnteredBy, &l.WBC, &l.Creatinine, &l.BilirubinTotal,
		&l.BilirubinDir, &l.Platelets, &l.Lactate, &l.Timestamp)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
