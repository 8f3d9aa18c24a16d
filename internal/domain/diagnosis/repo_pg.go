package diagnosis

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

const diagnosisCols = `visit_id, sepsis, diagnosed_by, diagnosis_datetime`

func (r *repoPG) Create(ctx context.Context, d *Diagnosis) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO diagnosis (`+diagnosisCols+`)
		VALUES ($1, $2, $3, $4)`,
		d.VisitID, d.Sepsis, d.DiagnosedBy, d.DiagnosisDatetime,
	)
	return err
}

func (r *repoPG) GetLatestByVisit(ctx context.Context, visitID uuid.UUID) (*Diagnosis, error) {
	var d Diagnosis
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+diagnosisCols+` FROM diagnosis WHERE visit_id = $1 ORDER BY diagnosis_datetime DESC LIMIT 1`,
		visitID).Scan(&d.VisitID, &d.Sepsis, &d.DiagnosedBy, &d.DiagnosisDatetime)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*Diagnosis, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+diagnosisCols+` FROM diagnosis WHERE visit_id = $1 ORDER BY diagnosis_datetime DESC`,
		visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Diagnosis
	for rows.Next() {
		var d Diagnosis
		if err := rows.Scan(&d.VisitID, &d.Sepsis, &d.DiagnosedBy, &d.DiagnosisDatetime); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *repoPG) RemovePositive(ctx context.Context, visitID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM diagnosis WHERE visit_id = $1 AND sepsis = TRUE`, visitID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
