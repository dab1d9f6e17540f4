package model

import (
	"fmt"
	"os"
)

// LoadRegressor reads a regressor artifact from disk
func LoadRegressor(path string) (Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: failed to read %s: %w", path, err)
	}
	return DecodeRegressor(data)
}

// LoadEnsemble reads a classifier package from disk
func LoadEnsemble(path string) ([]string, map[string]Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("model: failed to read %s: %w", path, err)
	}
	return DecodeEnsemble(data)
}
