package model

import (
	"errors"
	"fmt"
)

// Node is one entry of a flattened binary decision tree.
// Left < 0 marks a leaf whose output is Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a flattened decision tree rooted at node 0
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// validate requires children to come after their parent so evaluation always terminates
func (t Tree) validate(nFeatures int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Left < 0 {
			continue
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children (%d, %d)", i, n.Left, n.Right)
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, nFeatures)
		}
	}
	return nil
}

// eval walks to a leaf. CART trees send x <= threshold left; boosted trees send x < threshold left.
func (t Tree) eval(x []float64, strictLess bool) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		v := x[n.Feature]
		goLeft := v <= n.Threshold
		if strictLess {
			goLeft = v < n.Threshold
		}
		if goLeft {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func validateTrees(trees []Tree, nFeatures int) error {
	if nFeatures <= 0 {
		return errors.New("model: tree ensemble needs a positive feature count")
	}
	if len(trees) == 0 {
		return errors.New("model: tree ensemble has no trees")
	}
	for i, t := range trees {
		if err := t.validate(nFeatures); err != nil {
			return fmt.Errorf("model: tree %d: %w", i, err)
		}
	}
	return nil
}

// RandomForestRegressor averages the leaf values of its trees
type RandomForestRegressor struct {
	trees     []Tree
	nFeatures int
}

// NewRandomForestRegressor validates and wraps a forest
func NewRandomForestRegressor(trees []Tree, nFeatures int) (*RandomForestRegressor, error) {
	if err := validateTrees(trees, nFeatures); err != nil {
		return nil, err
	}
	return &RandomForestRegressor{trees: trees, nFeatures: nFeatures}, nil
}

func (m *RandomForestRegressor) NumFeatures() int { return m.nFeatures }

func (m *RandomForestRegressor) Predict(x []float64) (float64, error) {
	if err := checkWidth(x, m.nFeatures); err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range m.trees {
		sum += t.eval(x, false)
	}
	return sum / float64(len(m.trees)), nil
}

// GradientBoostedClassifier sums tree margins on top of a base margin and applies the logistic link
type GradientBoostedClassifier struct {
	baseMargin float64
	trees      []Tree
	nFeatures  int
}

// NewGradientBoostedClassifier validates and wraps a boosted ensemble
func NewGradientBoostedClassifier(baseMargin float64, trees []Tree, nFeatures int) (*GradientBoostedClassifier, error) {
	if err := validateTrees(trees, nFeatures); err != nil {
		return nil, err
	}
	return &GradientBoostedClassifier{baseMargin: baseMargin, trees: trees, nFeatures: nFeatures}, nil
}

func (m *GradientBoostedClassifier) NumFeatures() int { return m.nFeatures }

func (m *GradientBoostedClassifier) PredictProba(x []float64) ([2]float64, error) {
	if err := checkWidth(x, m.nFeatures); err != nil {
		return [2]float64{}, err
	}
	z := m.baseMargin
	for _, t := range m.trees {
		z += t.eval(x, true)
	}
	return binary(sigmoid(z)), nil
}
