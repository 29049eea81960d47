package motor_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracktum/ahrs-engine/motor"
)

func norm32(q motor.Quaternion) float64 {
	return math.Sqrt(float64(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z))
}

func TestNewStateIdentityOffsetsForZeroMount(t *testing.T) {
	var zero [motor.Count]float64
	s := motor.NewState(zero, zero, zero)
	for i := 0; i < motor.Count; i++ {
		require.InDelta(t, 1.0, s.QPM[i].W, 1e-6)
		require.InDelta(t, 0.0, s.QPM[i].X, 1e-6)
		require.InDelta(t, 0.0, s.QPM[i].Y, 1e-6)
		require.InDelta(t, 0.0, s.QPM[i].Z, 1e-6)
	}
}

func TestUpdateNormInvariant(t *testing.T) {
	var mount [motor.Count]float64
	for i := range mount {
		mount[i] = float64(i) * 5
	}
	s := motor.NewState(mount, mount, mount)

	q := motor.FromEuler(100, -50, 300)
	translation, _ := motor.ThrustTranslation(0.2, -0.3, false, true)

	s.Update(q, true, translation, true)

	for i := 0; i < motor.Count; i++ {
		require.InDelta(t, 1.0, norm32(s.QM[i]), 1e-4)
		require.InDelta(t, 1.0, norm32(s.QLM[i]), 1e-4)
		require.InDelta(t, 1.0, norm32(s.QTM[i]), 1e-4)
	}
}

func TestLatchFreezesBetweenCaptures(t *testing.T) {
	var zero [motor.Count]float64
	s := motor.NewState(zero, zero, zero)

	q1 := motor.FromEuler(100, 0, 0)
	s.Update(q1, true, motor.Identity32, true)
	latched := s.QLM[0]

	// A large orientation change with capture=false must leave both the
	// latch and the last captured QM untouched.
	q2 := motor.FromEuler(900, 0, 0)
	s.Update(q2, false, motor.Identity32, true)

	require.Equal(t, latched, s.QLM[0])
	require.Equal(t, latched, s.QM[0])

	// A fresh capture with q2 must now update both.
	s.Update(q2, true, motor.Identity32, true)
	require.NotEqual(t, latched, s.QLM[0])
	require.Equal(t, s.QM[0], s.QLM[0])
}

func TestFrozenOutputsWhenNotLive(t *testing.T) {
	var zero [motor.Count]float64
	s := motor.NewState(zero, zero, zero)

	q := motor.FromEuler(300, 0, 0)
	s.Update(q, true, motor.Identity32, true)
	thrust := s.Thrust[0]

	s.Update(motor.FromEuler(0, 300, 0), true, motor.Identity32, false)
	require.Equal(t, thrust, s.Thrust[0])
}

func TestThrustTranslationIdentityWhenInactive(t *testing.T) {
	offset, fix := motor.ThrustTranslation(0.5, 0.5, false, false)
	require.Equal(t, motor.Identity32, offset)
	require.Equal(t, float32(1), fix)
}

func TestThrustTranslationFlipsPitchWhenInverted(t *testing.T) {
	upright, _ := motor.ThrustTranslation(0, 0.4, false, true)
	inverted, _ := motor.ThrustTranslation(0, 0.4, true, true)
	require.InDelta(t, upright.Y, -inverted.Y, 1e-4)
}
