package ahrs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracktum/ahrs-engine/ahrs"
)

func TestEulerFromRotationMatrixYawNormalized(t *testing.T) {
	q := ahrs.FromEuler(0, 0, -100)
	r := ahrs.ComputeRotationMatrix(ahrs.ProductsOf(q))
	_, _, yaw := ahrs.EulerFromRotationMatrix(r)
	require.GreaterOrEqual(t, yaw, 0.0)
	require.Less(t, yaw, 3600.0)
}

func TestThrottleAngleCorrectionGating(t *testing.T) {
	level := ahrs.ComputeRotationMatrix(ahrs.ProductsOf(ahrs.Identity))
	require.Equal(t, 0.0, ahrs.ThrottleAngleCorrection(level, 1800.0/3.14159, 1000), "no tilt, no correction")

	tilted := ahrs.ComputeRotationMatrix(ahrs.ProductsOf(ahrs.FromEuler(300, 0, 0)))
	require.Greater(t, ahrs.ThrottleAngleCorrection(tilted, 1800.0/3.14159, 1000), 0.0)

	inverted := ahrs.ComputeRotationMatrix(ahrs.ProductsOf(ahrs.FromEuler(1800, 0, 0)))
	require.Equal(t, 0.0, ahrs.ThrottleAngleCorrection(inverted, 1800.0/3.14159, 1000))
}

func TestThrottleAngleCorrectionClampsTo900(t *testing.T) {
	// 80 degrees of roll keeps R[2][2] above the zero-gate while an
	// oversized scale pushes the scaled angle past 900 decidegrees, so
	// the output saturates at correctionValue*sin(90 degrees).
	r := ahrs.ComputeRotationMatrix(ahrs.ProductsOf(ahrs.FromEuler(800, 0, 0)))
	got := ahrs.ThrottleAngleCorrection(r, 1000, 1000)
	require.InDelta(t, 1000, got, 1.0)
}

func TestCanSetHeadFreeZeroBankGate(t *testing.T) {
	require.True(t, ahrs.CanSetHeadFreeZero(449, 0))
	require.False(t, ahrs.CanSetHeadFreeZero(451, 0))
	require.False(t, ahrs.CanSetHeadFreeZero(0, 451))
}

func TestHeadFreeOffsetIsUnitYawRotation(t *testing.T) {
	q := ahrs.HeadFreeOffsetFromYaw(900)
	require.InDelta(t, 1.0, q.Norm(), 1e-9)
	require.InDelta(t, 0.0, q.X, 1e-9)
	require.InDelta(t, 0.0, q.Y, 1e-9)
}

func TestAngleModeReferenceIsUnitAndRemovesYaw(t *testing.T) {
	q := ahrs.FromEuler(100, 200, 900)
	_, _, yaw := ahrs.EulerFromRotationMatrix(ahrs.ComputeRotationMatrix(ahrs.ProductsOf(q)))

	qPA := ahrs.AngleModeReference(q, yaw)
	norm := qPA.W*qPA.W + qPA.X*qPA.X + qPA.Y*qPA.Y + qPA.Z*qPA.Z
	require.InDelta(t, 1.0, norm, 1e-6)
}
