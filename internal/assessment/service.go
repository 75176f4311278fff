// Package assessment runs one prediction end to end: encode, infer,
// classify and derive the charts.
package assessment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Skufu/heartrisk/internal/charts"
	"github.com/Skufu/heartrisk/internal/model"
	"github.com/Skufu/heartrisk/internal/observability"
	"github.com/Skufu/heartrisk/internal/patient"
	"github.com/Skufu/heartrisk/internal/risk"
)

// Predictor is satisfied by *model.Predictor.
type Predictor interface {
	Predict(ctx context.Context, features [patient.NumFeatures]float64) (float64, error)
}

// Result is everything the presentation layer needs for one assessment.
type Result struct {
	Input      patient.Input   `json:"input"`
	Features   []float64       `json:"features"`
	Assessment risk.Assessment `json:"assessment"`
	Charts     charts.Set      `json:"charts"`
}

// Service is the process-wide application context. It is built once at
// startup and shared by all requests; it holds no per-request state.
type Service struct {
	predictor Predictor
	metrics   *observability.Metrics
	logger    *slog.Logger
	pinger    model.Pinger
}

var errNoModel = errors.New("no model loaded")

func NewService(predictor Predictor, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Service{predictor: predictor, metrics: metrics, logger: logger}
}

// NewFromClassifier wraps a loaded classifier. Classifiers that implement
// model.Pinger are also checked by CheckModel.
func NewFromClassifier(c model.Classifier, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if c == nil {
		return NewService(nil, metrics, logger)
	}
	svc := NewService(model.NewPredictor(c), metrics, logger)
	if p, ok := c.(model.Pinger); ok {
		svc.pinger = p
	}
	return svc
}

// CheckModel reports whether predictions can currently be served.
func (s *Service) CheckModel(ctx context.Context) error {
	if s.predictor == nil {
		return errNoModel
	}
	if s.pinger != nil {
		return s.pinger.Ping(ctx)
	}
	return nil
}

func (s *Service) Metrics() *observability.Metrics { return s.metrics }

// Assess validates in and runs a fresh prediction. Identical inputs are
// recomputed every time.
func (s *Service) Assess(ctx context.Context, in patient.Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		s.metrics.ObserveFailure(observability.ReasonValidation)
		return nil, err
	}
	if s.predictor == nil {
		s.metrics.ObserveFailure(observability.ReasonInference)
		return nil, &model.InferenceError{Err: errNoModel}
	}

	features := in.Vector()
	start := time.Now()
	probability, err := s.predictor.Predict(ctx, features)
	s.metrics.ObserveInference(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ObserveFailure(observability.ReasonInference)
		s.logger.ErrorContext(ctx, "prediction failed", "error", err)
		return nil, err
	}

	a := risk.NewAssessment(probability)
	s.metrics.ObserveAssessment(a.Band.Code())
	s.logger.InfoContext(ctx, "assessment completed",
		"assessment_id", a.ID.String(),
		"band", a.Band.Code(),
		"probability", probability,
	)

	return &Result{
		Input:      in,
		Features:   features[:],
		Assessment: a,
		Charts:     charts.Build(probability, in),
	}, nil
}
