package rotations

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Skew returns the skew-symmetric cross-product matrix S of v, so that
// S·x = v×x for every x.
func Skew(v r3.Vec) *r3.Mat {
	var m r3.Mat
	m.Skew(v)
	return &m
}

// WrapToPi limits the norm of a rotation vector to π.
//
// Vectors with norm ≤ π are returned unchanged. Longer vectors are rescaled
// to the equivalent angle in (−π, π]; when that angle is negative the result
// points against v, which describes the same rotation.
func WrapToPi(v r3.Vec) r3.Vec {
	a := r3.Norm(v)
	if a <= math.Pi {
		return v
	}
	a2 := a - 2*math.Pi*math.Floor((a+math.Pi)/(2*math.Pi))
	return r3.Scale(a2/a, v)
}
