// Package model provides fitted classifiers for the scoring pipeline.
// The Classifier interface is defined in scoring/ (parent package).
// This package provides DecisionTree (flattened CART arrays) and
// LogisticRegression (linear decision function).
package model

import (
	"fmt"
	"math"

	"github.com/inference-sim/churnscore/scoring"
)

// TypeDecisionTree is the artifact type name of DecisionTree.
const TypeDecisionTree = "decision_tree"

// leaf marks a node without children in ChildrenLeft/ChildrenRight.
const leaf = -1

// TreePayload is the serialized form of a DecisionTree: the flattened node
// arrays of a fitted CART tree. Value holds per-class weights for each node.
type TreePayload struct {
	NFeatures     int         `json:"n_features"`
	Classes       []string    `json:"classes"`
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// DecisionTree walks from the root, going left when x[feature] <= threshold,
// and returns the majority class of the leaf it reaches. Features are rounded
// to float32, the precision the tree was fitted in; thresholds stay float64
// midpoints between adjacent float32 values.
type DecisionTree struct {
	nFeatures int
	classes   scoring.LabelSet
	left      []int
	right     []int
	feature   []int
	threshold []float64
	leafClass []int
}

// NewDecisionTree validates node structure: indices in range, children after
// parents (so prediction always terminates), features in range, and a class
// weight vector on every leaf.
func NewDecisionTree(p TreePayload) (*DecisionTree, error) {
	classes, err := parseClasses(p.Classes)
	if err != nil {
		return nil, err
	}
	if p.NFeatures <= 0 {
		return nil, fmt.Errorf("decision tree: n_features must be positive, got %d", p.NFeatures)
	}
	n := len(p.ChildrenLeft)
	if n == 0 {
		return nil, fmt.Errorf("decision tree: no nodes")
	}
	if len(p.ChildrenRight) != n || len(p.Feature) != n || len(p.Threshold) != n || len(p.Value) != n {
		return nil, fmt.Errorf("decision tree: node arrays differ in length")
	}

	t := &DecisionTree{
		nFeatures: p.NFeatures,
		classes:   classes,
		left:      append([]int(nil), p.ChildrenLeft...),
		right:     append([]int(nil), p.ChildrenRight...),
		feature:   append([]int(nil), p.Feature...),
		threshold: make([]float64, n),
		leafClass: make([]int, n),
	}
	for i := 0; i < n; i++ {
		l, r := p.ChildrenLeft[i], p.ChildrenRight[i]
		if l == leaf || r == leaf {
			if l != r {
				return nil, fmt.Errorf("decision tree: node %d has exactly one child", i)
			}
			if len(p.Value[i]) != len(classes) {
				return nil, fmt.Errorf("decision tree: leaf %d has %d class weights, want %d", i, len(p.Value[i]), len(classes))
			}
			t.leafClass[i] = argmax(p.Value[i])
			continue
		}
		if l <= i || l >= n || r <= i || r >= n {
			return nil, fmt.Errorf("decision tree: node %d has children (%d, %d) out of order or range", i, l, r)
		}
		if f := p.Feature[i]; f < 0 || f >= p.NFeatures {
			return nil, fmt.Errorf("decision tree: node %d splits on feature %d, tree has %d", i, f, p.NFeatures)
		}
		th := p.Threshold[i]
		if math.IsNaN(th) || math.IsInf(th, 0) {
			return nil, fmt.Errorf("decision tree: node %d has non-finite threshold", i)
		}
		t.threshold[i] = th
		t.leafClass[i] = leaf
	}
	return t, nil
}

func (t *DecisionTree) Width() int                { return t.nFeatures }
func (t *DecisionTree) Classes() scoring.LabelSet { return t.classes }

// Depth returns the number of splits on the longest root-to-leaf path.
func (t *DecisionTree) Depth() int {
	depth := make([]int, len(t.left))
	max := 0
	for i := range t.left {
		if t.left[i] == leaf {
			if depth[i] > max {
				max = depth[i]
			}
			continue
		}
		depth[t.left[i]] = depth[i] + 1
		depth[t.right[i]] = depth[i] + 1
	}
	return max
}

func (t *DecisionTree) Predict(v scoring.NormalizedVector) (scoring.Label, error) {
	if len(v) != t.nFeatures {
		return "", &scoring.SchemaMismatchError{Stage: "model", Want: t.nFeatures, Got: len(v)}
	}
	node := 0
	for t.left[node] != leaf {
		if float64(float32(v[t.feature[node]])) <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.classes[t.leafClass[node]], nil
}

// argmax returns the first index of the largest weight.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// parseClasses maps serialized class names (e.g. "False"/"True") to labels,
// rejecting duplicates.
func parseClasses(names []string) (scoring.LabelSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("model: no classes")
	}
	out := make(scoring.LabelSet, len(names))
	for i, name := range names {
		l, err := scoring.ParseLabel(name)
		if err != nil {
			return nil, fmt.Errorf("model: class %d: %w", i, err)
		}
		if out[:i].Contains(l) {
			return nil, fmt.Errorf("model: duplicate class %q", l)
		}
		out[i] = l
	}
	return out, nil
}
