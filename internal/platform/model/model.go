// Package model is the bounded adapter around the pretrained sepsis
// classifier. The classifier is an opaque, versioned artifact: this package
// loads it, validates feature rows against it, and returns class
// probabilities. It never trains or updates the artifact.
package model

import (
	"fmt"
	"math"
)

// NumFeatures is the arity of the feature vector the classifier accepts.
const NumFeatures = 17

// FeatureNames lists the model's input features in their documented order.
var FeatureNames = [NumFeatures]string{
	"HourOfObservation",
	"PatientAge",
	"ICULengthOfStay",
	"PatientGender",
	"TimeSinceHospitalAdmission",
	"HeartRate",
	"MeanArterialPressure",
	"OxygenSaturation",
	"RespiratoryRate",
	"SystolicBloodPressure",
	"DiastolicBloodPressure",
	"Temperature",
	"WhiteBloodCellCount",
	"CreatinineLevel",
	"TotalBilirubin",
	"PlateletCount",
	"LactateLevel",
}

// Feature is one named value in a feature row. Numeric features use Value,
// with NaN marking a missing reading; categorical features use Str.
type Feature struct {
	Name  string
	Value float64
	Str   string
}

// FeatureRow is an ordered feature vector presented to the classifier.
type FeatureRow []Feature

// Classifier scores a feature row, returning class probabilities
// [p(negative), p(positive)]. Implementations must be deterministic.
type Classifier interface {
	Version() string
	PredictProba(row FeatureRow) ([]float64, error)
}

// ScoringError reports a malformed feature vector or an unusable model
// artifact.
type ScoringError struct {
	Reason string
	Err    error
}

func (e *ScoringError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scoring error: %s", e.Reason)
}

func (e *ScoringError) Unwrap() error { return e.Err }

func scoringErrorf(format string, args ...interface{}) *ScoringError {
	return &ScoringError{Reason: fmt.Sprintf(format, args...)}
}

// validateRow checks arity and feature-name order against the model's
// expected features.
func validateRow(row FeatureRow, features []string) error {
	if len(row) != len(features) {
		return scoringErrorf("feature vector has %d fields, model expects %d", len(row), len(features))
	}
	for i, f := range row {
		if f.Name != features[i] {
			return scoringErrorf("feature %d is %q, model expects %q", i, f.Name, features[i])
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
