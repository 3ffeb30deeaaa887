package rotations

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// QuatToRotMat converts q to its rotation matrix
//
//	R = (2w²−1)·I + 2w·skew(v) + 2·v·vᵀ
//
// q must already be a unit quaternion; it is not renormalised here.
func QuatToRotMat(q Quat) *r3.Mat {
	v := q.Vec()

	var s, outer r3.Mat
	s.Skew(v)
	outer.Outer(2, v, v)

	m := r3.Eye()
	m.Scale(2*q.W*q.W-1, m)
	s.Scale(2*q.W, &s)
	m.Add(m, &s)
	m.Add(m, &outer)
	return m
}

// QuatToRotVec is the logarithm map: it returns the rotation vector (axis
// times angle) of q. Vector parts shorter than SmallAngle use the
// first-order form 2·v.
func QuatToRotVec(q Quat) r3.Vec {
	v := q.Vec()
	s := r3.Norm(v)
	if s < SmallAngle {
		return r3.Scale(2, v)
	}
	a := 2 * math.Atan2(s, q.W)
	return r3.Scale(a/s, v)
}

// RotVecToQuat is the exponential map: it returns the unit quaternion
// rotating by |v| about v. Vectors shorter than SmallAngle are copied into
// the vector part directly. The result is always normalised.
func RotVecToQuat(v r3.Vec) Quat {
	a := r3.Norm(v)
	q := Quat{W: math.Cos(a / 2)}
	if a >= SmallAngle {
		v = r3.Scale(math.Sin(a/2)/a, v)
	}
	q.X, q.Y, q.Z = v.X, v.Y, v.Z
	return q.Normalize()
}
