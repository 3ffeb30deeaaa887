// Package manifold provides the composite estimator state and its chart.
//
// A State aggregates N scalars, M Euclidean 3-vectors and L unit
// quaternions. Its tangent space is flat with dimension N+3M+3L, laid out
// scalars first, then the vector blocks, then one rotation vector per
// quaternion. Boxplus retracts a tangent perturbation onto the manifold and
// Boxminus maps the difference of two states back to the tangent space.
//
// The block counts are fixed at compile time by the Dims type parameter, so
// only states with the same layout can be combined.
package manifold

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/manifold/internal/rotations"
)

// Dims fixes the block layout of a State. Implementations are normally
// empty structs:
//
//	type imuDims struct{}
//
//	func (imuDims) Blocks() (int, int, int) { return 1, 2, 1 }
type Dims interface {
	// Blocks returns the number of scalar, vector and rotation blocks.
	Blocks() (scalars, vectors, rotations int)
}

// State is a point on the product manifold ℝᴺ × (ℝ³)ᴹ × SO(3)ᴸ.
//
// A State owns its blocks. Assigning a *State shares it; use Clone for an
// independent copy. The zero value is the identity element.
type State[D Dims] struct {
	scalars []float64
	vectors []r3.Vec
	quats   []rotations.Quat
}

// New returns a State of layout D at the identity element.
func New[D Dims]() *State[D] {
	s := &State[D]{}
	s.alloc()
	return s
}

// alloc sizes the blocks to the layout of D at the identity element if
// they are not sized yet.
func (s *State[D]) alloc() {
	n, m, l := s.Layout()
	if len(s.scalars) == n && len(s.vectors) == m && len(s.quats) == l {
		return
	}
	s.scalars = make([]float64, n)
	s.vectors = make([]r3.Vec, m)
	s.quats = make([]rotations.Quat, l)
	for i := range s.quats {
		s.quats[i] = rotations.Identity()
	}
}

// Reset sets all scalars and vectors to zero and all rotations to the
// identity.
func (s *State[D]) Reset() {
	s.alloc()
	for i := range s.scalars {
		s.scalars[i] = 0
	}
	for i := range s.vectors {
		s.vectors[i] = r3.Vec{}
	}
	for i := range s.quats {
		s.quats[i] = rotations.Identity()
	}
}

// Layout returns the scalar, vector and rotation block counts.
func (s *State[D]) Layout() (scalars, vectors, rotations int) {
	var d D
	return d.Blocks()
}

// Dim returns the tangent-space dimension N + 3M + 3L.
func (s *State[D]) Dim() int {
	n, m, l := s.Layout()
	return n + 3*(m+l)
}

// VectorOffset returns the tangent index of the first component of vector
// block i.
func (s *State[D]) VectorOffset(i int) int {
	n, m, _ := s.Layout()
	checkIndex("vector", i, m)
	return n + 3*i
}

// RotationOffset returns the tangent index of the first component of
// rotation block i.
func (s *State[D]) RotationOffset(i int) int {
	n, m, l := s.Layout()
	checkIndex("rotation", i, l)
	return n + 3*m + 3*i
}

// Scalar returns scalar block i.
func (s *State[D]) Scalar(i int) float64 {
	s.alloc()
	checkIndex("scalar", i, len(s.scalars))
	return s.scalars[i]
}

// SetScalar sets scalar block i.
func (s *State[D]) SetScalar(i int, v float64) {
	s.alloc()
	checkIndex("scalar", i, len(s.scalars))
	s.scalars[i] = v
}

// Vector returns vector block i.
func (s *State[D]) Vector(i int) r3.Vec {
	s.alloc()
	checkIndex("vector", i, len(s.vectors))
	return s.vectors[i]
}

// SetVector sets vector block i.
func (s *State[D]) SetVector(i int, v r3.Vec) {
	s.alloc()
	checkIndex("vector", i, len(s.vectors))
	s.vectors[i] = v
}

// Quat returns rotation block i.
func (s *State[D]) Quat(i int) rotations.Quat {
	s.alloc()
	checkIndex("rotation", i, len(s.quats))
	return s.quats[i]
}

// SetQuat sets rotation block i to q, normalised.
func (s *State[D]) SetQuat(i int, q rotations.Quat) {
	s.alloc()
	checkIndex("rotation", i, len(s.quats))
	s.quats[i] = q.Normalize()
}

// Clone returns an independent copy of s.
func (s *State[D]) Clone() *State[D] {
	s.alloc()
	return &State[D]{
		scalars: append([]float64(nil), s.scalars...),
		vectors: append([]r3.Vec(nil), s.vectors...),
		quats:   append([]rotations.Quat(nil), s.quats...),
	}
}

// Boxminus returns the tangent vector s ⊟ other.
func (s *State[D]) Boxminus(other *State[D]) *mat.VecDense {
	dst := mat.NewVecDense(s.Dim(), nil)
	s.BoxminusInto(dst, other)
	return dst
}

// BoxminusInto stores s ⊟ other in dst without allocating. Scalar and
// vector blocks are subtracted; rotation block i is the rotation vector of
// s.q_i ⊗ other.q_i⁻¹, the rotation taking other to s.
//
// An empty dst is resized; otherwise dst must have length Dim or
// BoxminusInto panics with mat.ErrShape.
func (s *State[D]) BoxminusInto(dst *mat.VecDense, other *State[D]) {
	if dst.IsEmpty() {
		dst.ReuseAsVec(s.Dim())
	}
	if dst.Len() != s.Dim() {
		panic(mat.ErrShape)
	}
	s.alloc()
	other.alloc()

	k := 0
	for i := range s.scalars {
		dst.SetVec(k, s.scalars[i]-other.scalars[i])
		k++
	}
	for i := range s.vectors {
		setBlock(dst, k, r3.Sub(s.vectors[i], other.vectors[i]))
		k += 3
	}
	for i := range s.quats {
		setBlock(dst, k, rotations.QuatToRotVec(s.quats[i].Mul(other.quats[i].Inverse())))
		k += 3
	}
}

// Boxplus returns the new state s ⊞ delta.
func (s *State[D]) Boxplus(delta mat.Vector) *State[D] {
	dst := New[D]()
	s.BoxplusInto(dst, delta)
	return dst
}

// BoxplusInto stores s ⊞ delta in dst without allocating; dst may be s.
// Scalar and vector blocks are added; rotation block i becomes
// exp(δ_i) ⊗ s.q_i, a perturbation applied on the left.
//
// It panics with mat.ErrShape if delta does not have length Dim.
func (s *State[D]) BoxplusInto(dst *State[D], delta mat.Vector) {
	if delta.Len() != s.Dim() {
		panic(mat.ErrShape)
	}
	s.alloc()
	dst.alloc()

	k := 0
	for i := range s.scalars {
		dst.scalars[i] = s.scalars[i] + delta.AtVec(k)
		k++
	}
	for i := range s.vectors {
		dst.vectors[i] = r3.Add(s.vectors[i], block(delta, k))
		k += 3
	}
	for i := range s.quats {
		dst.quats[i] = rotations.RotVecToQuat(block(delta, k)).Mul(s.quats[i]).Normalize()
		k += 3
	}
}

// ApproxEqual reports whether every component of s ⊟ other is within tol.
// Rotation blocks are measured on the short arc, so q and −q are equal.
func (s *State[D]) ApproxEqual(other *State[D], tol float64) bool {
	d := s.Boxminus(other)
	n, m, l := s.Layout()
	for i := 0; i < l; i++ {
		k := n + 3*m + 3*i
		setBlock(d, k, rotations.WrapToPi(block(d, k)))
	}
	return mat.Norm(d, math.Inf(1)) <= tol
}

// String formats the blocks for diagnostics.
func (s *State[D]) String() string {
	s.alloc()
	var b strings.Builder
	b.WriteString("State{")
	fmt.Fprintf(&b, "scalars: %v", s.scalars)
	fmt.Fprintf(&b, ", vectors: %v", s.vectors)
	fmt.Fprintf(&b, ", rotations: %v}", s.quats)
	return b.String()
}

func block(v mat.Vector, k int) r3.Vec {
	return r3.Vec{X: v.AtVec(k), Y: v.AtVec(k + 1), Z: v.AtVec(k + 2)}
}

func setBlock(dst *mat.VecDense, k int, v r3.Vec) {
	dst.SetVec(k, v.X)
	dst.SetVec(k+1, v.Y)
	dst.SetVec(k+2, v.Z)
}

func checkIndex(kind string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("manifold: %s index %d out of range [0,%d)", kind, i, n))
	}
}
