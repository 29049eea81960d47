package ahrstest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/tracktum/ahrs-engine/ahrs"
)

// AssertUnitNorm asserts that q's norm is within 1e-5 of unity.
func AssertUnitNorm(t *testing.T, q ahrs.Quaternion, msgAndArgs ...interface{}) {
	t.Helper()
	require.InDelta(t, 1.0, q.Norm(), 1e-5, msgAndArgs...)
}

// AssertOrthonormal asserts that each row of r has unit norm and every
// pair of distinct rows is orthogonal, to within tol, checked via
// gonum's mat.Dot rather than hand-rolled 3x3 loops.
func AssertOrthonormal(t *testing.T, r ahrs.RotationMatrix, tol float64) {
	t.Helper()
	rows := make([]*mat.VecDense, 3)
	for i := 0; i < 3; i++ {
		rows[i] = mat.NewVecDense(3, r[i][:])
	}
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			dot := mat.Dot(rows[i], rows[j])
			want := 0.0
			if i == j {
				want = 1.0
			}
			require.InDelta(t, want, dot, tol, "row %d . row %d", i, j)
		}
	}
}

// GonumQuat converts an ahrs.Quaternion to gonum's quat.Number, for
// cross-checking against a gonum-composed reference rotation.
func GonumQuat(q ahrs.Quaternion) quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// AssertQuatClose asserts that q and want agree to within tol on every
// component, allowing for the sign ambiguity of unit quaternions (q
// and -q represent the same rotation).
func AssertQuatClose(t *testing.T, q ahrs.Quaternion, want quat.Number, tol float64) {
	t.Helper()
	got := GonumQuat(q)
	direct := componentDiff(got, want)
	flipped := componentDiff(negate(got), want)
	require.True(t, direct <= tol || flipped <= tol,
		"quaternion mismatch: got %+v, want %+v (diff %.6f / %.6f)", got, want, direct, flipped)
}

func componentDiff(a, b quat.Number) float64 {
	d := func(x, y float64) float64 {
		if x > y {
			return x - y
		}
		return y - x
	}
	return d(a.Real, b.Real) + d(a.Imag, b.Imag) + d(a.Jmag, b.Jmag) + d(a.Kmag, b.Kmag)
}

func negate(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// EulerToGonumQuat builds a gonum quat.Number from roll/pitch/yaw given
// in decidegrees, an independent reference construction; ahrsctl
// selftest compares the pure-roll scenario's final quaternion to it.
func EulerToGonumQuat(rollDecideg, pitchDecideg, yawDecideg float64) quat.Number {
	const toRad = 3.141592653589793 / 1800.0
	roll := rollDecideg * toRad * 0.5
	pitch := pitchDecideg * toRad * 0.5
	yaw := -yawDecideg * toRad * 0.5

	cr, sr := cosSin(roll)
	cp, sp := cosSin(pitch)
	cy, sy := cosSin(yaw)

	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

func cosSin(x float64) (float64, float64) {
	return math.Cos(x), math.Sin(x)
}
