package rotations

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

var approx = cmpopts.EquateApprox(0, tol)

func randomVec(rnd *rand.Rand, scale float64) r3.Vec {
	return r3.Vec{
		X: scale * (2*rnd.Float64() - 1),
		Y: scale * (2*rnd.Float64() - 1),
		Z: scale * (2*rnd.Float64() - 1),
	}
}

func randomQuat(rnd *rand.Rand) Quat {
	return Quat{
		X: rnd.NormFloat64(),
		Y: rnd.NormFloat64(),
		Z: rnd.NormFloat64(),
		W: rnd.NormFloat64(),
	}.Normalize()
}

// sameRotation reports whether p and q are equal up to the q/−q double cover.
func sameRotation(p, q Quat, tol float64) bool {
	d := p.X*q.X + p.Y*q.Y + p.Z*q.Z + p.W*q.W
	return scalar.EqualWithinAbs(math.Abs(d), 1, tol)
}

func TestSkew(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		v := randomVec(rnd, 5)
		x := randomVec(rnd, 5)
		got := Skew(v).MulVec(x)
		if diff := cmp.Diff(r3.Cross(v, x), got, approx); diff != "" {
			t.Fatalf("Skew(%v)·%v mismatch (-want +got):\n%s", v, x, diff)
		}
	}

	s := Skew(r3.Vec{X: 1, Y: 2, Z: 3})
	var sum r3.Mat
	sum.Add(s, s.T())
	if !mat.EqualApprox(&sum, r3.NewMat(nil), 0) {
		t.Errorf("Skew is not antisymmetric: S+Sᵀ = %v", mat.Formatted(&sum))
	}
}

func TestWrapToPi(t *testing.T) {
	tests := []struct {
		name string
		in   r3.Vec
		want r3.Vec
	}{
		{"zero", r3.Vec{}, r3.Vec{}},
		{"inside", r3.Vec{X: 0.1, Y: -0.2, Z: 0.3}, r3.Vec{X: 0.1, Y: -0.2, Z: 0.3}},
		{"exactly pi", r3.Vec{Z: math.Pi}, r3.Vec{Z: math.Pi}},
		{"one and a half turns", r3.Vec{X: 1.5 * math.Pi}, r3.Vec{X: -0.5 * math.Pi}},
		{"two and a half turns", r3.Vec{Y: 2.5 * math.Pi}, r3.Vec{Y: 0.5 * math.Pi}},
		{"negative axis", r3.Vec{Z: -1.25 * math.Pi}, r3.Vec{Z: 0.75 * math.Pi}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapToPi(tt.in)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("WrapToPi(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestWrapToPiKeepsAxis(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		v := randomVec(rnd, 12)
		w := WrapToPi(v)
		if n := r3.Norm(w); n > math.Pi+1e-12 {
			t.Fatalf("WrapToPi(%v) has norm %v > π", v, n)
		}
		if r3.Norm(w) < 1e-9 {
			continue
		}
		if c := math.Abs(r3.Cos(v, w)); !scalar.EqualWithinAbs(c, 1, 1e-12) {
			t.Fatalf("WrapToPi(%v) = %v is not along the input axis (|cos| = %v)", v, w, c)
		}
		if !sameRotation(RotVecToQuat(v), RotVecToQuat(w), 1e-9) {
			t.Fatalf("WrapToPi(%v) = %v changed the rotation", v, w)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Quat
		want Quat
	}{
		{"identity", Identity(), Identity()},
		{"unit", Quat{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5}, Quat{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5}},
		{"scaled", Quat{Z: 3, W: 4}, Quat{Z: 0.6, W: 0.8}},
		{"zero", Quat{}, Identity()},
		{"below threshold", Quat{X: 1e-11, W: -1e-12}, Identity()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Normalize(), approx); diff != "" {
				t.Errorf("Normalize(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestMulMatchesHamiltonProduct(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		q := randomQuat(rnd)
		p := randomQuat(rnd)
		want := FromNumber(quat.Mul(q.Number(), p.Number()))
		if diff := cmp.Diff(want, q.Mul(p), approx); diff != "" {
			t.Fatalf("%v ⊗ %v mismatch (-want +got):\n%s", q, p, diff)
		}
	}
}

func TestInverse(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		q := randomQuat(rnd)
		if diff := cmp.Diff(Identity(), q.Mul(q.Inverse()), approx); diff != "" {
			t.Fatalf("q ⊗ q⁻¹ for %v (-want +got):\n%s", q, diff)
		}
		if diff := cmp.Diff(Identity(), q.Inverse().Mul(q), approx); diff != "" {
			t.Fatalf("q⁻¹ ⊗ q for %v (-want +got):\n%s", q, diff)
		}
	}
}

func TestLeftRightMul(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		q := randomQuat(rnd)
		p := randomQuat(rnd)

		var left, right mat.VecDense
		left.MulVec(LeftMul(q), p.Vector4())
		right.MulVec(RightMul(q), p.Vector4())

		if diff := cmp.Diff(q.Mul(p), QuatFromVector4(&left), approx); diff != "" {
			t.Fatalf("LeftMul(%v)·%v (-want +got):\n%s", q, p, diff)
		}
		if diff := cmp.Diff(p.Mul(q), QuatFromVector4(&right), approx); diff != "" {
			t.Fatalf("RightMul(%v)·%v (-want +got):\n%s", q, p, diff)
		}
	}
}

func TestLeftMulLayout(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	want := mat.NewDense(4, 4, []float64{
		4, -3, 2, 1,
		3, 4, -1, 2,
		-2, 1, 4, 3,
		-1, -2, -3, 4,
	})
	if got := LeftMul(q); !mat.Equal(got, want) {
		t.Errorf("LeftMul(%v) =\n%v\nwant\n%v", q, mat.Formatted(got), mat.Formatted(want))
	}

	want = mat.NewDense(4, 4, []float64{
		4, 3, -2, 1,
		-3, 4, 1, 2,
		2, -1, 4, 3,
		-1, -2, -3, 4,
	})
	if got := RightMul(q); !mat.Equal(got, want) {
		t.Errorf("RightMul(%v) =\n%v\nwant\n%v", q, mat.Formatted(got), mat.Formatted(want))
	}
}

func TestQuatFromVector4Shape(t *testing.T) {
	defer func() {
		if r := recover(); r != mat.ErrShape {
			t.Errorf("expected mat.ErrShape panic, got %v", r)
		}
	}()
	QuatFromVector4(mat.NewVecDense(3, nil))
}
