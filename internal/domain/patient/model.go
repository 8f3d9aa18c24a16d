package patient

import "time"

// Patient lifecycle statuses.
const (
	StatusAdmitted   = "admitted"
	StatusDischarged = "discharged"
)

// Patient maps to the patients table. PatientID is the caller-supplied
// medical record number, not a server-generated key.
type Patient struct {
	PatientID string    `db:"patient_id" json:"patient_id"`
	Firstname string    `db:"firstname" json:"firstname"`
	Lastname  string    `db:"lastname" json:"lastname"`
	Age       int       `db:"age" json:"age"`
	Gender    string    `db:"gender" json:"gender"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// AdmittedPatient is one dashboard row: an admitted patient with their most
// recently generated risk score and sepsis diagnosis label.
type AdmittedPatient struct {
	PatientID string  `json:"patient_id"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Age       int     `json:"age"`
	Gender    string  `json:"gender"`
	Location  *string `json:"location,omitempty"`
	RiskScore float64 `json:"risk_score"`
	Sepsis    bool    `json:"sepsis"`
}

// RiskBandCounts summarizes the dashboard rows by risk band.
type RiskBandCounts struct {
	Low    int `json:"low"`    // score < 0.20
	Medium int `json:"medium"` // 0.20 <= score < 0.80
	High   int `json:"high"`   // score >= 0.80
}
