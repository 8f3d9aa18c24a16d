package risk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/sepsisdss/sepsisdss/internal/domain/observation"
	"github.com/sepsisdss/sepsisdss/internal/platform/db"
	"github.com/sepsisdss/sepsisdss/internal/platform/metrics"
	"github.com/sepsisdss/sepsisdss/internal/platform/model"
)

// Service runs the assemble → predict → append cycle and serves the score
// history.
type Service struct {
	repo   Assembler
	scores ScoreRepository
	obs    observation.Repository
	clf    model.Classifier
	withTx func(ctx context.Context) (context.Context, func(error) error, error)
	now    func() time.Time
	logger zerolog.Logger
}

func NewService(repo Repository, obs observation.Repository, clf model.Classifier, pool *pgxpool.Pool, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		scores: repo,
		obs:    obs,
		clf:    clf,
		withTx: func(ctx context.Context) (context.Context, func(error) error, error) {
			return db.WithTx(ctx, pool)
		},
		now:    time.Now,
		logger: logger,
	}
}

// AssembleFeatures builds the visit's feature vector from its latest
// observations. Read-only; returns ErrNoObservations when the visit cannot
// be scored.
func (s *Service) AssembleFeatures(ctx context.Context, visitID uuid.UUID) (*FeatureVector, error) {
	return s.repo.AssembleFeatures(ctx, visitID)
}

// Predict scores one feature vector and returns the sepsis-class
// probability.
func (s *Service) Predict(fv *FeatureVector) (float64, error) {
	probs, err := s.clf.PredictProba(fv.Row())
	if err != nil {
		return 0, err
	}
	if len(probs) != 2 {
		return 0, &model.ScoringError{Reason: fmt.Sprintf("classifier returned %d class probabilities, expected 2", len(probs))}
	}
	return probs[1], nil
}

// SubmitResult reports the outcome of one observation submission.
type SubmitResult struct {
	Scored bool       `json:"scored"`
	Score  *RiskScore `json:"score,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// SubmitObservations stores a vitals and/or labs set for the visit and, when
// both observation types now exist, runs one scoring cycle and appends the
// result. The observation inserts commit even when scoring is skipped or
// fails; a submission never loses clinical data over a model problem.
func (s *Service) SubmitObservations(ctx context.Context, visitID uuid.UUID, enteredBy string, vitals *observation.Vitals, labs *observation.Labs) (*SubmitResult, error) {
	if vitals == nil && labs == nil {
		return nil, fmt.Errorf("%w: at least one of vitals or labs is required", ErrInvalidSubmission)
	}

	submittedAt := s.now().UTC()
	if vitals != nil {
		vitals.VisitID = visitID
		vitals.EnteredBy = enteredBy
		if vitals.Timestamp.IsZero() {
			vitals.Timestamp = submittedAt
		}
		if err := observation.ValidateVitals(vitals); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
	}
	if labs != nil {
		labs.VisitID = visitID
		labs.EnteredBy = enteredBy
		if labs.Timestamp.IsZero() {
			labs.Timestamp = submittedAt
		}
		if err := observation.ValidateLabs(labs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
	}

	txCtx, done, err := s.withTx(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.submit(txCtx, visitID, submittedAt, vitals, labs)
	if err != nil {
		var scoringErr *model.ScoringError
		if errors.As(err, &scoringErr) {
			// Keep the observation rows; only scoring failed.
			if commitErr := done(nil); commitErr != nil {
				return nil, commitErr
			}
			metrics.RecordError()
			return nil, err
		}
		_ = done(err)
		return nil, err
	}
	if err := done(nil); err != nil {
		return nil, err
	}

	if result.Scored {
		metrics.RecordScore(result.Score.Score)
		s.logger.Info().
			Str("visit_id", visitID.String()).
			Float64("score", result.Score.Score).
			Msg("risk score generated")
	} else {
		metrics.RecordSkipped()
	}
	return result, nil
}

func (s *Service) submit(ctx context.Context, visitID uuid.UUID, submittedAt time.Time, vitals *observation.Vitals, labs *observation.Labs) (*SubmitResult, error) {
	if vitals != nil {
		if err := s.obs.CreateVitals(ctx, vitals); err != nil {
			return nil, fmt.Errorf("store vitals: %w", err)
		}
	}
	if labs != nil {
		if err := s.obs.CreateLabs(ctx, labs); err != nil {
			return nil, fmt.Errorf("store labs: %w", err)
		}
	}

	fv, err := s.repo.AssembleFeatures(ctx, visitID)
	if errors.Is(err, ErrNoObservations) {
		return &SubmitResult{Scored: false, Reason: "visit has no complete vitals and labs yet"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("assemble features: %w", err)
	}

	p, err := s.Predict(fv)
	if err != nil {
		return nil, err
	}

	score := &RiskScore{VisitID: visitID, Score: p, GeneratedAt: submittedAt}
	if err := s.scores.Append(ctx, score); err != nil {
		return nil, fmt.Errorf("append risk score: %w", err)
	}
	return &SubmitResult{Scored: true, Score: score}, nil
}

// CurrentScore returns the most recently generated score for the visit.
func (s *Service) CurrentScore(ctx context.Context, visitID uuid.UUID) (*RiskScore, error) {
	return s.scores.CurrentByVisit(ctx, visitID)
}

// History returns every score generated for the visit, newest first.
func (s *Service) History(ctx context.Context, visitID uuid.UUID) ([]*RiskScore, error) {
	return s.scores.ListByVisit(ctx, visitID)
}
