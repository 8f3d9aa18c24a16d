package risk

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoObservations signals that a visit cannot be scored yet: it has no
// vitals or no labs (or does not exist). Callers skip scoring; this is not
// a failure.
var ErrNoObservations = errors.New("no observations available for visit")

// ErrInvalidSubmission marks a submission rejected before anything was
// stored, distinguishing caller mistakes from storage failures.
var ErrInvalidSubmission = errors.New("invalid observation submission")

// RiskScore is one appended probability in the visit's scoring history.
// Rows are never updated; the current score is the max generated_at.
type RiskScore struct {
	VisitID     uuid.UUID `db:"visit_id" json:"visit_id"`
	Score       float64   `db:"score" json:"score"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
}
