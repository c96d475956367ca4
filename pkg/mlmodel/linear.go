package mlmodel

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linear computes coefficients·x + intercept
type Linear struct {
	info         Info
	coefficients []float64
	intercept    float64
}

func newLinear(info Info, coefficients []float64, intercept float64) (*Linear, error) {
	if len(coefficients) != info.NumFeatures {
		return nil, invalid("%d coefficients for %d features", len(coefficients), info.NumFeatures)
	}
	if !finite(intercept) {
		return nil, invalid("non-finite intercept %v", intercept)
	}
	for i, c := range coefficients {
		if !finite(c) {
			return nil, invalid("non-finite coefficient %v at index %d", c, i)
		}
	}
	return &Linear{info: info, coefficients: coefficients, intercept: intercept}, nil
}

// Predict evaluates the linear model
func (l *Linear) Predict(features []float64) (float64, error) {
	if err := checkWidth(features, l.info.NumFeatures); err != nil {
		return 0, err
	}
	return floats.Dot(l.coefficients, features) + l.intercept, nil
}

// Info describes the model
func (l *Linear) Info() Info {
	return l.info
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
