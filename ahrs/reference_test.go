package ahrs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracktum/ahrs-engine/ahrs"
)

func TestAccelStrengthBoundaries(t *testing.T) {
	require.Equal(t, 0.0, ahrs.AccelStrength(ahrs.AccelReading{X: 0.5, Y: 0.5, Z: 0, OneGReciprocal: 1})) // |a|^2 == 0.5 exactly
	require.InDelta(t, 1.0, ahrs.AccelStrength(ahrs.AccelReading{X: 0, Y: 0, Z: 1, OneGReciprocal: 1}), 1e-9)
	require.Equal(t, 0.0, ahrs.AccelStrength(ahrs.AccelReading{X: 0, Y: 0, Z: 1.3, OneGReciprocal: 1}))
	require.Equal(t, 0.0, ahrs.AccelStrength(ahrs.AccelReading{X: 0, Y: 0, Z: 0, OneGReciprocal: 1}))
}

func TestAccelStrengthMidRange(t *testing.T) {
	lower := ahrs.AccelStrength(ahrs.AccelReading{X: 0, Y: 0, Z: 0.9, OneGReciprocal: 1})
	upper := ahrs.AccelStrength(ahrs.AccelReading{X: 0, Y: 0, Z: 1.2, OneGReciprocal: 1})
	require.Greater(t, lower, 0.0)
	require.Less(t, lower, 1.0)
	require.Greater(t, upper, 0.0)
	require.Less(t, upper, 1.0)
}

func TestUseMagRequiresAllCapabilities(t *testing.T) {
	m := ahrs.MagReading{X: 1, Y: 0, Z: 0}
	_, _, _, ok := ahrs.UseMag(ahrs.MagCapabilities{HaveCompass: true, CompassHealthy: true}, m)
	require.True(t, ok)

	_, _, _, ok = ahrs.UseMag(ahrs.MagCapabilities{HaveCompass: false, CompassHealthy: true}, m)
	require.False(t, ok)

	_, _, _, ok = ahrs.UseMag(ahrs.MagCapabilities{HaveCompass: true, CompassHealthy: false}, m)
	require.False(t, ok)

	_, _, _, ok = ahrs.UseMag(ahrs.MagCapabilities{HaveCompass: true, CompassHealthy: true, GPSRescueDisableMag: true}, m)
	require.False(t, ok)
}

func TestUseMagRejectsDegenerateVector(t *testing.T) {
	_, _, _, ok := ahrs.UseMag(ahrs.MagCapabilities{HaveCompass: true, CompassHealthy: true}, ahrs.MagReading{X: 0.05, Y: 0, Z: 0})
	require.False(t, ok)
}

func TestUseCOGRequiresMagUnused(t *testing.T) {
	g := ahrs.GPSReading{HaveGPS: true, Fix: true, NumSatellites: 6, GroundSpeedCmS: 600, GroundCourseDecideg: 900}
	_, ok := ahrs.UseCOG(true, g)
	require.False(t, ok, "COG must never be used while the magnetometer is")

	_, ok = ahrs.UseCOG(false, g)
	require.True(t, ok)
}

func TestUseCOGThresholds(t *testing.T) {
	base := ahrs.GPSReading{HaveGPS: true, Fix: true, NumSatellites: 5, GroundSpeedCmS: 500, GroundCourseDecideg: 0}
	_, ok := ahrs.UseCOG(false, base)
	require.True(t, ok)

	tooFewSats := base
	tooFewSats.NumSatellites = 4
	_, ok = ahrs.UseCOG(false, tooFewSats)
	require.False(t, ok)

	tooSlow := base
	tooSlow.GroundSpeedCmS = 499
	_, ok = ahrs.UseCOG(false, tooSlow)
	require.False(t, ok)
}
