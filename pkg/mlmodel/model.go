// Package mlmodel loads exported regression models and evaluates them in process.
//
// Artifacts are JSON documents produced from a scikit-learn style estimator. Two kinds
// are understood: "random_forest" (an ensemble of binary regression trees whose leaf
// values are averaged) and "linear" (coefficients plus intercept). A loaded Model is
// immutable, so a single instance can serve concurrent Predict calls without locking.
package mlmodel

import (
	"errors"
	"fmt"
)

// Kind identifies the estimator family stored in an artifact
type Kind string

const (
	KindRandomForest Kind = "random_forest"
	KindLinear       Kind = "linear"
)

var (
	// ErrFeatureCount is returned when a sample does not have the trained width
	ErrFeatureCount = errors.New("mlmodel: wrong number of features")
	// ErrInvalidArtifact is returned when an artifact fails structural checks
	ErrInvalidArtifact = errors.New("mlmodel: invalid artifact")
)

// Predictor scores one sample
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// Model is a loaded artifact
type Model interface {
	Predictor
	Info() Info
}

// Info describes a loaded model
type Info struct {
	Kind         Kind     `json:"kind"`
	Version      string   `json:"version"`
	NumFeatures  int      `json:"n_features"`
	FeatureNames []string `json:"feature_names,omitempty"`
	Trees        int      `json:"trees,omitempty"`
	MaxDepth     int      `json:"max_depth,omitempty"`
}

func checkWidth(features []float64, want int) error {
	if len(features) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(features), want)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArtifact, fmt.Sprintf(format, args...))
}
