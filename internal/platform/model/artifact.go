package model

import (
	"context"
	"encoding/json"
	"math"

	"github.com/sepsisdss/sepsisdss/internal/platform/blobstore"
)

// artifact is the serialized form of the trained pipeline: a standardizer
// and logistic weights, with the categorical encoding the model was trained
// on. The structure is a persistence format, not something callers reason
// about.
type artifact struct {
	Version      string                        `json:"version"`
	ModelType    string                        `json:"model_type"`
	Features     []string                      `json:"features"`
	Categorical  map[string]map[string]float64 `json:"categorical"`
	Standardizer struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	} `json:"standardizer"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LogisticModel is the loaded classifier. It evaluates the artifact's
// preprocessing and logistic weights over a validated feature row.
type LogisticModel struct {
	art artifact
}

// Load fetches and deserializes a model artifact. Any load or validation
// failure is a *ScoringError per the error taxonomy: the artifact is
// unavailable, so nothing can be scored.
func Load(ctx context.Context, fetcher blobstore.Fetcher, location string) (*LogisticModel, error) {
	data, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, &ScoringError{Reason: "load model artifact", Err: err}
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, &ScoringError{Reason: "decode model artifact", Err: err}
	}

	if len(art.Features) != NumFeatures {
		return nil, scoringErrorf("artifact declares %d features, expected %d", len(art.Features), NumFeatures)
	}
	for i, name := range art.Features {
		if name != FeatureNames[i] {
			return nil, scoringErrorf("artifact feature %d is %q, expected %q", i, name, FeatureNames[i])
		}
	}
	if len(art.Coefficients) != NumFeatures ||
		len(art.Standardizer.Mean) != NumFeatures ||
		len(art.Standardizer.Scale) != NumFeatures {
		return nil, scoringErrorf("artifact weight arrays must all have %d entries", NumFeatures)
	}
	for i, s := range art.Standardizer.Scale {
		if s == 0 {
			return nil, scoringErrorf("artifact standardizer scale[%d] is zero", i)
		}
	}

	return &LogisticModel{art: art}, nil
}

// Version returns the artifact version string.
func (m *LogisticModel) Version() string { return m.art.Version }

// PredictProba scores a feature row and returns [p(negative), p(positive)].
// Categorical features are encoded with the artifact's category table;
// missing numeric values (NaN) are imputed to the training mean, matching
// the pipeline the artifact was exported from.
func (m *LogisticModel) PredictProba(row FeatureRow) ([]float64, error) {
	if err := validateRow(row, m.art.Features); err != nil {
		return nil, err
	}

	z := m.art.Intercept
	for i, f := range row {
		v := f.Value
		if cats, ok := m.art.Categorical[f.Name]; ok {
			enc, ok := cats[f.Str]
			if !ok {
				return nil, scoringErrorf("feature %q has unknown category %q", f.Name, f.Str)
			}
			v = enc
		} else if math.IsNaN(v) {
			v = m.art.Standardizer.Mean[i]
		}
		z += m.art.Coefficients[i] * (v - m.art.Standardizer.Mean[i]) / m.art.Standardizer.Scale[i]
	}

	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}
