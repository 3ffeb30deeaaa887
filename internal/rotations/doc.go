// Package rotations owns the rotation algebra of the state estimator.
//
// Responsibilities: the skew operator, rotation-vector wrapping, unit
// quaternion algebra, and conversions between quaternions, rotation
// matrices, rotation vectors and two Euler-angle conventions.
// Key types: Quat. Vectors and matrices are gonum types (r3.Vec, r3.Mat,
// mat.VecDense, mat.Dense).
//
// Conventions: quaternions are stored (x, y, z, w), vector part first, and
// describe alibi rotations, so QuatToRotMat(q) maps body-frame vectors into
// the reference frame. Rotation vectors are alibi and canonically wrapped to
// (−π, π]. Both Euler conventions (YPR and RPY) are alias.
//
// Every function is total: degenerate inputs resolve to documented fallback
// values (identity quaternion, zero rate matrix, first-order small-angle
// forms) under the 1e-10 thresholds below. Nothing here logs, blocks or
// returns an error.
package rotations
