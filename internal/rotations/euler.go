package rotations

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Both Euler conventions below are alias (passive) and singular at
// pitch = ±π/2. They are different sequences and must not be mixed.

// QuatToYPR returns the yaw-pitch-roll angles (X = yaw, Y = pitch, Z = roll)
// of q. The pitch is in [−π/2, π/2]; near gimbal lock the yaw/roll split is
// not unique.
func QuatToYPR(q Quat) r3.Vec {
	return r3.Vec{
		X: math.Atan2(2*(-q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y)),
		Y: math.Asin(clampUnit(2 * (-q.W*q.Y - q.X*q.Z))),
		Z: math.Atan2(2*(-q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z)),
	}
}

// YPRToQuat is the inverse of QuatToYPR.
func YPRToQuat(ypr r3.Vec) Quat {
	sy, cy := math.Sincos(ypr.X / 2)
	sp, cp := math.Sincos(ypr.Y / 2)
	sr, cr := math.Sincos(ypr.Z / 2)
	return Quat{
		X: cy*sp*sr - cp*cr*sy,
		Y: -cy*sp*cr - cp*sr*sy,
		Z: -cy*cp*sr + sp*cr*sy,
		W: cy*cp*cr + sp*sr*sy,
	}
}

// QuatToRPY returns the roll-pitch-yaw angles (X = roll, Y = pitch,
// Z = yaw) of q. The pitch is in [−π/2, π/2].
func QuatToRPY(q Quat) r3.Vec {
	return r3.Vec{
		X: math.Atan2(2*(-q.Z*q.Y-q.W*q.X), q.Z*q.Z+q.W*q.W-q.X*q.X-q.Y*q.Y),
		Y: math.Asin(clampUnit(2 * (q.X*q.Z - q.W*q.Y))),
		Z: math.Atan2(-2*q.X*q.Y-2*q.W*q.Z, q.X*q.X+q.W*q.W-q.Z*q.Z-q.Y*q.Y),
	}
}

// RPYToQuat is the inverse of QuatToRPY.
func RPYToQuat(rpy r3.Vec) Quat {
	sr, cr := math.Sincos(rpy.X / 2)
	sp, cp := math.Sincos(rpy.Y / 2)
	sy, cy := math.Sincos(rpy.Z / 2)
	return Quat{
		X: -cy*cp*sr - sp*cr*sy,
		Y: -cy*sp*cr + cp*sr*sy,
		Z: -cy*sp*sr - cp*cr*sy,
		W: cy*cp*cr - sp*sr*sy,
	}
}

// RPYToEAR returns the Euler-angle-rate matrix E of the roll-pitch-yaw
// convention at rpy. E maps roll-pitch-yaw rates to the angular velocity ω
// of the alias rotation: ω = E·d(rpy)/dt. E depends on pitch and yaw only.
func RPYToEAR(rpy r3.Vec) *r3.Mat {
	sp, cp := math.Sincos(rpy.Y)
	sy, cy := math.Sincos(rpy.Z)
	return r3.NewMat([]float64{
		cp * cy, sy, 0,
		-cp * sy, cy, 0,
		sp, 0, 1,
	})
}

// RPYToEARInv returns E⁻¹, so that d(rpy)/dt = E⁻¹·ω.
//
// When |cos(pitch)| ≤ MinCosPitch the rates are undefined and the zero
// matrix is returned. Callers must treat a zero result near pitch = ±π/2 as
// an unusable update, not as a zero-rate reading.
func RPYToEARInv(rpy r3.Vec) *r3.Mat {
	cp := math.Cos(rpy.Y)
	if math.Abs(cp) <= MinCosPitch {
		return r3.NewMat(nil)
	}
	tp := math.Tan(rpy.Y)
	sy, cy := math.Sincos(rpy.Z)
	return r3.NewMat([]float64{
		cy / cp, -sy / cp, 0,
		sy, cy, 0,
		-cy * tp, sy * tp, 1,
	})
}

// clampUnit coerces x to [−1, 1] so asin never sees a rounding overshoot.
func clampUnit(x float64) float64 {
	if x >= 1 {
		return 1
	}
	if x <= -1 {
		return -1
	}
	return x
}
