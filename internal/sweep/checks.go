package sweep

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/manifold/internal/manifold"
	"github.com/banshee-data/manifold/internal/rotations"
)

// nearPi excludes rotation angles whose wrapped representative is
// ambiguous between +π and −π about the same axis.
const nearPi = 1e-6

type check struct {
	name   string
	xLabel string
	run    func(rnd *rand.Rand, cfg Config, record func(x, err float64))
}

var checks = []check{
	{"rotvec_roundtrip", "angle (rad)", rotVecRoundTrip},
	{"rotvec_wrap", "angle (rad)", rotVecWrap},
	{"rotmat_orthonormal", "angle (rad)", rotMatOrthonormal},
	{"ypr_roundtrip", "pitch (rad)", eulerRoundTrip(rotations.YPRToQuat, rotations.QuatToYPR)},
	{"rpy_roundtrip", "pitch (rad)", eulerRoundTrip(rotations.RPYToQuat, rotations.QuatToRPY)},
	{"ear_inverse", "pitch (rad)", earInverse},
	{"state_chart", "sample", stateChart},
}

// CheckNames returns the names of all checks in run order.
func CheckNames() []string {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.name
	}
	return names
}

func lookup(name string) (check, bool) {
	for _, c := range checks {
		if c.name == name {
			return c, true
		}
	}
	return check{}, false
}

// grid returns the i-th of n evenly spaced points on [lo, hi].
func grid(i, n int, lo, hi float64) float64 {
	if n == 1 {
		return (lo + hi) / 2
	}
	return lo + (hi-lo)*float64(i)/float64(n-1)
}

func randomAxis(rnd *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rnd.NormFloat64(), Y: rnd.NormFloat64(), Z: rnd.NormFloat64()}
		if n := r3.Norm(v); n > 1e-6 {
			return r3.Scale(1/n, v)
		}
	}
}

func randomAngle(rnd *rand.Rand) float64 {
	return math.Pi * (2*rnd.Float64() - 1)
}

func rotVecRoundTrip(rnd *rand.Rand, cfg Config, record func(x, err float64)) {
	for i := 0; i < cfg.Samples; i++ {
		angle := grid(i, cfg.Samples, 0, math.Pi-nearPi)
		v := r3.Scale(angle, randomAxis(rnd))
		got := rotations.QuatToRotVec(rotations.RotVecToQuat(v))
		record(angle, r3.Norm(r3.Sub(got, v)))
	}
}

func rotVecWrap(rnd *rand.Rand, cfg Config, record func(x, err float64)) {
	for i := 0; i < cfg.Samples; i++ {
		angle := grid(i, cfg.Samples, 0, cfg.MaxAngle)
		v := r3.Scale(angle, randomAxis(rnd))
		want := rotations.WrapToPi(v)
		if math.Abs(r3.Norm(want)-math.Pi) < nearPi {
			continue
		}
		got := rotations.WrapToPi(rotations.QuatToRotVec(rotations.RotVecToQuat(v)))
		record(angle, r3.Norm(r3.Sub(got, want)))
	}
}

func rotMatOrthonormal(rnd *rand.Rand, cfg Config, record func(x, err float64)) {
	var rtr r3.Mat
	for i := 0; i < cfg.Samples; i++ {
		angle := grid(i, cfg.Samples, 0, 2*math.Pi)
		R := rotations.QuatToRotMat(rotations.RotVecToQuat(r3.Scale(angle, randomAxis(rnd))))
		rtr.Mul(R.T(), R)
		rtr.Sub(&rtr, r3.Eye())
		record(angle, math.Max(mat.Norm(&rtr, math.Inf(1)), math.Abs(R.Det()-1)))
	}
}

// eulerRoundTrip sweeps pitch up to the configured margin from gimbal lock
// with random first and last angles. Both conventions keep pitch in Y.
func eulerRoundTrip(to func(r3.Vec) rotations.Quat, from func(rotations.Quat) r3.Vec) func(*rand.Rand, Config, func(x, err float64)) {
	return func(rnd *rand.Rand, cfg Config, record func(x, err float64)) {
		limit := math.Pi/2 - cfg.PitchMargin
		for i := 0; i < cfg.Samples; i++ {
			angles := r3.Vec{X: randomAngle(rnd), Y: grid(i, cfg.Samples, -limit, limit), Z: randomAngle(rnd)}
			got := from(to(angles))
			record(angles.Y, r3.Norm(r3.Sub(got, angles)))
		}
	}
}

func earInverse(rnd *rand.Rand, cfg Config, record func(x, err float64)) {
	limit := math.Pi/2 - cfg.PitchMargin
	var prod r3.Mat
	for i := 0; i < cfg.Samples; i++ {
		rpy := r3.Vec{X: randomAngle(rnd), Y: grid(i, cfg.Samples, -limit, limit), Z: randomAngle(rnd)}
		prod.Mul(rotations.RPYToEARInv(rpy), rotations.RPYToEAR(rpy))
		prod.Sub(&prod, r3.Eye())
		record(rpy.Y, mat.Norm(&prod, math.Inf(1)))
	}
}

// chartDims is a small mixed layout exercising every block kind.
type chartDims struct{}

func (chartDims) Blocks() (int, int, int) { return 2, 2, 2 }

func randomState(rnd *rand.Rand) *manifold.State[chartDims] {
	s := manifold.New[chartDims]()
	for i := 0; i < 2; i++ {
		s.SetScalar(i, rnd.NormFloat64())
		s.SetVector(i, r3.Vec{X: rnd.NormFloat64(), Y: rnd.NormFloat64(), Z: rnd.NormFloat64()})
		s.SetQuat(i, rotations.RotVecToQuat(r3.Scale(randomAngle(rnd), randomAxis(rnd))))
	}
	return s
}

// stateChart measures the three chart identities
//
//	(s ⊞ d) ⊟ s = d,  s ⊟ (s ⊞ d) = −d,  o ⊞ (s ⊟ o) = s
//
// for tangent perturbations whose rotation blocks stay inside the ball of
// radius π.
func stateChart(rnd *rand.Rand, cfg Config, record func(x, err float64)) {
	moved := manifold.New[chartDims]()
	dim := moved.Dim()
	d := mat.NewVecDense(dim, nil)
	diff := mat.NewVecDense(dim, nil)

	for i := 0; i < cfg.Samples; i++ {
		s := randomState(rnd)
		other := randomState(rnd)
		for k := 0; k < dim; k++ {
			d.SetVec(k, 2*rnd.Float64()-1)
		}

		s.BoxplusInto(moved, d)

		moved.BoxminusInto(diff, s)
		diff.SubVec(diff, d)
		worst := mat.Norm(diff, math.Inf(1))

		s.BoxminusInto(diff, moved)
		diff.AddVec(diff, d)
		worst = math.Max(worst, mat.Norm(diff, math.Inf(1)))

		s.BoxminusInto(diff, other)
		other.BoxplusInto(moved, diff)
		moved.BoxminusInto(diff, s)
		worst = math.Max(worst, mat.Norm(diff, math.Inf(1)))

		record(float64(i), worst)
	}
}
