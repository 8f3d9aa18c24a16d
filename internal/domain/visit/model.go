package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit maps to the visits table: one continuous hospital stay for a
// patient. HospAdmTime is hours since hospital arrival; ICULOS is the ICU
// length of stay in days, recomputed from visit_date whenever the visit is
// read for the dashboard.
type Visit struct {
	VisitID     uuid.UUID `db:"visit_id" json:"visit_id"`
	PatientID   string    `db:"patient_id" json:"patient_id"`
	VisitDate   time.Time `db:"visit_date" json:"visit_date"`
	HospAdmTime float64   `db:"hosp_adm_time" json:"hosp_adm_time"`
	ICULOS      float64   `db:"iculos" json:"iculos"`
	Location    *string   `db:"location" json:"location,omitempty"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
