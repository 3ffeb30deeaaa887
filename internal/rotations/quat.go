package rotations

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Numerical stability thresholds. These are the only branch conditions in
// the package.
const (
	// MinQuatNorm is the norm at or below which Normalize falls back to the
	// identity quaternion.
	MinQuatNorm = 1e-10
	// SmallAngle is the norm below which the exponential and logarithm maps
	// switch to their first-order forms instead of dividing by the norm.
	SmallAngle = 1e-10
	// MinCosPitch is the |cos(pitch)| at or below which RPYToEARInv reports
	// no usable Euler rate.
	MinCosPitch = 1e-10
)

// Quat is a rotation quaternion stored vector part first.
//
// A Quat is expected to have unit norm. Every function in this package that
// can produce a non-unit result renormalises before returning.
type Quat struct {
	X, Y, Z, W float64
}

// Identity returns the identity rotation (0, 0, 0, 1).
func Identity() Quat {
	return Quat{W: 1}
}

// Vec returns the vector part of q.
func (q Quat) Vec() r3.Vec {
	return r3.Vec{X: q.X, Y: q.Y, Z: q.Z}
}

// Norm returns the Euclidean norm of the four components.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q scaled to unit norm. A quaternion whose norm is at or
// below MinQuatNorm is replaced by the identity rather than amplified.
func (q Quat) Normalize() Quat {
	a := q.Norm()
	if a > MinQuatNorm {
		return Quat{X: q.X / a, Y: q.Y / a, Z: q.Z / a, W: q.W / a}
	}
	return Identity()
}

// Mul returns the composition q ⊗ p. Applied to a vector, the result rotates
// by p first and then by q.
func (q Quat) Mul(p Quat) Quat {
	return Quat{
		X: q.W*p.X + p.W*q.X + q.Y*p.Z - q.Z*p.Y,
		Y: q.W*p.Y + p.W*q.Y + q.Z*p.X - q.X*p.Z,
		Z: q.W*p.Z + p.W*q.Z + q.X*p.Y - q.Y*p.X,
		W: q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
	}
}

// Inverse returns the conjugate of q, which is its inverse for unit q.
func (q Quat) Inverse() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Rotate applies the rotation q to v. It equals QuatToRotMat(q).MulVec(v)
// without building the matrix.
func (q Quat) Rotate(v r3.Vec) r3.Vec {
	u := q.Vec()
	t := r3.Scale(2, r3.Cross(u, v))
	return r3.Add(r3.Add(v, r3.Scale(q.W, t)), r3.Cross(u, t))
}

// Vector4 returns q as the column (x, y, z, w).
func (q Quat) Vector4() *mat.VecDense {
	return mat.NewVecDense(4, []float64{q.X, q.Y, q.Z, q.W})
}

// QuatFromVector4 reads a quaternion from a 4-vector laid out (x, y, z, w).
// The result is not normalised. It panics with mat.ErrShape if v does not
// have length 4.
func QuatFromVector4(v mat.Vector) Quat {
	if v.Len() != 4 {
		panic(mat.ErrShape)
	}
	return Quat{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2), W: v.AtVec(3)}
}

// Number returns q as a gonum quaternion (real part first).
func (q Quat) Number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// FromNumber converts a gonum quaternion to a Quat.
func FromNumber(n quat.Number) Quat {
	return Quat{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}

// String formats q as (x, y, z, w).
func (q Quat) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", q.X, q.Y, q.Z, q.W)
}

// LeftMul returns the 4×4 matrix L with L·p = q ⊗ p for p as a 4-vector.
func LeftMul(q Quat) *mat.Dense {
	return mulMatrix(q, 1)
}

// RightMul returns the 4×4 matrix R with R·p = p ⊗ q for p as a 4-vector.
func RightMul(q Quat) *mat.Dense {
	return mulMatrix(q, -1)
}

// mulMatrix builds w·I₄ with sign·skew(v) added to the top-left block, the
// negated quaternion in the last row and the quaternion in the last column.
func mulMatrix(q Quat, sign float64) *mat.Dense {
	var s r3.Mat
	s.Skew(q.Vec())

	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		m.Set(i, i, q.W)
		for j := 0; j < 3; j++ {
			m.Set(i, j, m.At(i, j)+sign*s.At(i, j))
		}
	}
	m.SetRow(3, []float64{-q.X, -q.Y, -q.Z, -q.W})
	m.SetCol(3, []float64{q.X, q.Y, q.Z, q.W})
	return m
}
