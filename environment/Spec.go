package environment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action, an observation, a discount, or a
// reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, discount, or reward in
// an environment
type Spec struct {
	Shape      *mat.VecDense
	Type       SpecType
	LowerBound *mat.VecDense
	UpperBound *mat.VecDense
	Cardinality
}

// NewSpec constructs a new environment specification.
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape *mat.VecDense, t SpecType, lowerBound,
	upperBound *mat.VecDense, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewBoundedSpec is a convenience wrapper around NewSpec for continuous
// specifications given as slices of bounds
func NewBoundedSpec(t SpecType, lower, upper []float64) Spec {
	if len(lower) != len(upper) {
		panic(fmt.Sprintf("lower bounds length %v must match upper "+
			"bounds length %v", len(lower), len(upper)))
	}
	n := len(lower)
	return NewSpec(mat.NewVecDense(n, nil), t,
		mat.NewVecDense(n, append([]float64(nil), lower...)),
		mat.NewVecDense(n, append([]float64(nil), upper...)),
		Continuous)
}

// Len returns the number of features the Spec describes
func (s Spec) Len() int {
	return s.Shape.Len()
}

// Bounded returns whether feature i has finite lower and upper bounds
func (s Spec) Bounded(i int) bool {
	lo, hi := s.LowerBound.AtVec(i), s.UpperBound.AtVec(i)
	return !math.IsInf(lo, 0) && !math.IsInf(hi, 0) && hi > lo
}

// Contains returns whether each feature of v lies within the Spec's
// bounds
func (s Spec) Contains(v mat.Vector) bool {
	if v.Len() != s.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < s.LowerBound.AtVec(i) ||
			v.AtVec(i) > s.UpperBound.AtVec(i) {
			return false
		}
	}
	return true
}
