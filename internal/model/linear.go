package model

import "errors"

// LinearRegression is y = intercept + Σ coef_i * x_i
type LinearRegression struct {
	Intercept    float64
	Coefficients []float64
}

// NewLinearRegression builds a linear regressor
func NewLinearRegression(intercept float64, coef []float64) (*LinearRegression, error) {
	if len(coef) == 0 {
		return nil, errors.New("model: linear regression needs at least one coefficient")
	}
	return &LinearRegression{Intercept: intercept, Coefficients: append([]float64(nil), coef...)}, nil
}

func (m *LinearRegression) NumFeatures() int { return len(m.Coefficients) }

func (m *LinearRegression) Predict(x []float64) (float64, error) {
	if err := checkWidth(x, len(m.Coefficients)); err != nil {
		return 0, err
	}
	return m.margin(x), nil
}

func (m *LinearRegression) margin(x []float64) float64 {
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * x[i]
	}
	return y
}

// LogisticRegression is a binary classifier over a linear margin
type LogisticRegression struct {
	linear *LinearRegression
}

// NewLogisticRegression builds a logistic classifier
func NewLogisticRegression(intercept float64, coef []float64) (*LogisticRegression, error) {
	lin, err := NewLinearRegression(intercept, coef)
	if err != nil {
		return nil, err
	}
	return &LogisticRegression{linear: lin}, nil
}

func (m *LogisticRegression) NumFeatures() int { return m.linear.NumFeatures() }

func (m *LogisticRegression) PredictProba(x []float64) ([2]float64, error) {
	if err := checkWidth(x, m.linear.NumFeatures()); err != nil {
		return [2]float64{}, err
	}
	return binary(sigmoid(m.linear.margin(x))), nil
}
