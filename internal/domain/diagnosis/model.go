package diagnosis

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoDiagnosis signals that the visit has no sepsis diagnosis on record.
var ErrNoDiagnosis = errors.New("no sepsis diagnosis for visit")

// ErrInvalidDiagnosis marks a diagnosis rejected before anything was stored.
var ErrInvalidDiagnosis = errors.New("invalid diagnosis")

// Diagnosis records a physician's positive sepsis determination for a
// visit. Rows accumulate and the latest diagnosis_datetime wins when
// reading; there is no negative record, only absence.
type Diagnosis struct {
	VisitID           uuid.UUID `db:"visit_id" json:"visit_id"`
	Sepsis            bool      `db:"sepsis" json:"sepsis"`
	DiagnosedBy       string    `db:"diagnosed_by" json:"diagnosed_by"`
	DiagnosisDatetime time.Time `db:"diagnosis_datetime" json:"diagnosis_datetime"`
}
