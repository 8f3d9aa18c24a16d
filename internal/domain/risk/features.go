package risk

import (
	"encoding/json"
	"math"

	"github.com/sepsisdss/sepsisdss/internal/platform/model"
)

// FeatureVector is the assembled input for one scoring run: the latest
// vitals and labs for a visit joined with patient and visit context. Field
// order matches model.FeatureNames and must not change. Missing
// measurements are NaN, never dropped.
type FeatureVector struct {
	HourOfObservation float64
	PatientAge        float64
	ICULengthOfStay   float64
	PatientGender     string
	HoursSinceHospAdm float64
	HeartRate         float64
	MeanArterialPress float64
	OxygenSaturation  float64
	RespiratoryRate   float64
	SystolicBP        float64
	DiastolicBP       float64
	Temperature       float64
	WBCCount          float64
	Creatinine        float64
	TotalBilirubin    float64
	PlateletCount     float64
	Lactate           float64
}

// MarshalJSON renders missing measurements as null; NaN is not valid JSON.
func (fv FeatureVector) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, model.NumFeatures)
	for _, f := range fv.Row() {
		if f.Name == "PatientGender" {
			out[f.Name] = f.Str
			continue
		}
		if math.IsNaN(f.Value) {
			out[f.Name] = nil
		} else {
			out[f.Name] = f.Value
		}
	}
	return json.Marshal(out)
}

// Row projects the vector into the classifier's ordered input row.
func (fv *FeatureVector) Row() model.FeatureRow {
	return model.FeatureRow{
		{Name: model.FeatureNames[0], Value: fv.HourOfObservation},
		{Name: model.FeatureNames[1], Value: fv.PatientAge},
		{Name: model.FeatureNames[2], Value: fv.ICULengthOfStay},
		{Name: model.FeatureNames[3], Str: fv.PatientGender},
		{Name: model.FeatureNames[4], Value: fv.HoursSinceHospAdm},
		{Name: model.FeatureNames[5], Value: fv.HeartRate},
		{Name: model.FeatureNames[6], Value: fv.MeanArterialPress},
		{Name: model.FeatureNames[7], Value: fv.OxygenSaturation},
		{Name: model.FeatureNames[8], Value: fv.RespiratoryRate},
		{Name: model.FeatureNames[9], Value: fv.SystolicBP},
		{Name: model.FeatureNames[10], Value: fv.DiastolicBP},
		{Name: model.FeatureNames[11], Value: fv.Temperature},
		{Name: model.FeatureNames[12], Value: fv.WBCCount},
		{Name: model.FeatureNames[13], Value: fv.Creatinine},
		{Name: model.FeatureNames[14], Value: fv.TotalBilirubin},
		{Name: model.FeatureNames[15], Value: fv.PlateletCount},
		{Name: model.FeatureNames[16], Value: fv.Lactate},
	}
}
