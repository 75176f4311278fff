// Package model loads the pre-trained heart disease classifier and runs
// single-record inference against it.
package model

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Skufu/heartrisk/internal/patient"
)

// Classifier returns the class-1 (disease present) probability in [0,1]
// for a feature vector in patient.FeatureOrder.
type Classifier interface {
	PredictProba(ctx context.Context, features []float64) (float64, error)
}

// Pinger is implemented by classifiers that depend on something outside the
// process and can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backends accepted by Load.
const (
	BackendCatBoost = "catboost"
	BackendRemote   = "remote"
	BackendStub     = "stub"
)

// Options selects and configures a classifier backend.
type Options struct {
	Backend         string
	Path            string
	URL             string
	Timeout         time.Duration
	StubProbability float64
}

// Load builds the classifier once at startup. A remote backend must answer
// its health check before Load returns.
func Load(opts Options) (Classifier, error) {
	switch opts.Backend {
	case BackendCatBoost, "":
		m, err := LoadCatBoost(opts.Path)
		if err != nil {
			return nil, err
		}
		return m, nil
	case BackendRemote:
		r := NewRemote(opts.URL, opts.Timeout)
		ctx, cancel := context.WithTimeout(context.Background(), r.httpClient.Timeout)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			return nil, &ModelNotFoundError{Path: opts.URL, Err: err}
		}
		return r, nil
	case BackendStub:
		return Stub{Probability: opts.StubProbability}, nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", opts.Backend)
	}
}

// Stub answers every call with a fixed probability.
type Stub struct {
	Probability float64
	Err         error
}

func (s Stub) PredictProba(_ context.Context, _ []float64) (float64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Probability, nil
}

// Predictor adapts a Classifier to the encoded patient record and reports
// the probability in percent.
type Predictor struct {
	classifier Classifier
}

func NewPredictor(c Classifier) *Predictor {
	return &Predictor{classifier: c}
}

// Predict performs exactly one classifier call.
func (p *Predictor) Predict(ctx context.Context, features [patient.NumFeatures]float64) (float64, error) {
	proba, err := p.classifier.PredictProba(ctx, features[:])
	if err != nil {
		return 0, &InferenceError{Err: err}
	}
	if math.IsNaN(proba) || proba < 0 || proba > 1 {
		return 0, &InferenceError{Err: fmt.Errorf("probability %v outside [0,1]", proba)}
	}
	return proba * 100, nil
}
