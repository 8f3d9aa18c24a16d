package observation

import (
	"time"

	"github.com/google/uuid"
)

// Vitals is one bedside measurement set. All measurements are optional; a
// nil field means the value was not taken at this timestamp.
type Vitals struct {
	VisitID   uuid.UUID `db:"visit_id" json:"visit_id"`
	EnteredBy string    `db:"entered_by" json:"entered_by"`
	Temp      *float64  `db:"temp" json:"temp,omitempty"`
	HR        *float64  `db:"hr" json:"hr,omitempty"`
	SBP       *float64  `db:"sbp" json:"sbp,omitempty"`
	DBP       *float64  `db:"dbp" json:"dbp,omitempty"`
	MAP       *float64  `db:"map" json:"map,omitempty"`
	Resp      *float64  `db:"resp" json:"resp,omitempty"`
	O2Sat     *float64  `db:"o2sat" json:"o2sat,omitempty"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// Labs is one laboratory result set for a visit.
type Labs struct {
	VisitID        uuid.UUID `db:"visit_id" json:"visit_id"`
	EnteredBy      string    `db:"entered_by" json:"entered_by"`
	WBC            *float64  `db:"wbc" json:"wbc,omitempty"`
	Creatinine     *float64  `db:"creatinine" json:"creatinine,omitempty"`
	BilirubinTotal *float64  `db:"bilirubin_total" json:"bilirubin_total,omitempty"`
	BilirubinDir   *float64  `db:"bilirubin_direct" json:"bilirubin_direct,omitempty"`
	Platelets      *float64  `db:"platelets" json:"platelets,omitempty"`
	Lactate        *float64  `db:"lactate" json:"lactate,omitempty"`
	Timestamp      time.Time `db:"timestamp" json:"timestamp"`
}
