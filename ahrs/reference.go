package ahrs

import "math"

// AccelReading is a raw three-axis accelerometer sample together with
// the sensor's reciprocal of 1G, as exposed by the sensor driver.
type AccelReading struct {
	X, Y, Z        float64
	OneGReciprocal float64
}

// AccelStrength returns the soft-rejection weight in [0,1] for a's
// magnitude: readings near 1G are trusted fully, readings far from 1G
// (vibration, hard maneuvering) are rejected, with a linear taper in
// between. This scalar multiplies both the proportional and integral
// contributions of the accelerometer error term.
func AccelStrength(a AccelReading) float64 {
	magSq := (a.X*a.X + a.Y*a.Y + a.Z*a.Z) * a.OneGReciprocal * a.OneGReciprocal

	if magSq <= AccelTrustBandLowGSquared || magSq >= AccelTrustBandHighGSquared {
		return 0
	}
	if magSq > 1.0 {
		return scaleRange(magSq, 1.0, AccelTrustBandHighGSquared, 1.0, 0.0)
	}
	return scaleRange(magSq, AccelTrustBandLowGSquared, 1.0, 0.0, 1.0)
}

func scaleRange(x, inMin, inMax, outMin, outMax float64) float64 {
	return outMin + (x-inMin)*(outMax-outMin)/(inMax-inMin)
}

// NormalizedAccel returns a normalized by its own norm, and whether the
// vector was usable (norm-squared above the degeneracy floor).
func NormalizedAccel(a AccelReading) (x, y, z float64, ok bool) {
	magSq := a.X*a.X + a.Y*a.Y + a.Z*a.Z
	if magSq <= degenerateVectorSquaredFloor {
		return 0, 0, 0, false
	}
	r := FastInvSqrt(magSq)
	return a.X * r, a.Y * r, a.Z * r, true
}

// MagReading is a raw three-axis magnetometer sample.
type MagReading struct {
	X, Y, Z float64
}

// MagCapabilities reports whether a magnetometer reference is eligible
// for use this tick, independent of the vector's own magnitude.
type MagCapabilities struct {
	HaveCompass         bool
	CompassHealthy      bool
	GPSRescueDisableMag bool
}

// UseMag reports whether the magnetometer reading m should be used as
// a heading reference this tick, and returns it normalized when it
// should.
func UseMag(caps MagCapabilities, m MagReading) (x, y, z float64, ok bool) {
	if !caps.HaveCompass || !caps.CompassHealthy || caps.GPSRescueDisableMag {
		return 0, 0, 0, false
	}
	return NormalizedMag(m)
}

// NormalizedMag normalizes m, reporting false if its squared norm is
// at or below the degeneracy floor.
func NormalizedMag(m MagReading) (x, y, z float64, ok bool) {
	magSq := m.X*m.X + m.Y*m.Y + m.Z*m.Z
	if magSq <= degenerateVectorSquaredFloor {
		return 0, 0, 0, false
	}
	r := FastInvSqrt(magSq)
	return m.X * r, m.Y * r, m.Z * r, true
}

// GPSReading is the subset of GPS solution state the evaluator needs.
type GPSReading struct {
	HaveGPS             bool
	Fix                 bool
	NumSatellites       int
	GroundSpeedCmS      float64
	GroundCourseDecideg float64
}

// UseCOG reports whether GPS course over ground should correct heading
// this tick (only ever considered when the magnetometer is not in
// use), and the course in radians wrapped to (-pi, pi].
func UseCOG(useMag bool, g GPSReading) (cogRad float64, ok bool) {
	if useMag || !g.HaveGPS || !g.Fix {
		return 0, false
	}
	if g.NumSatellites < GPSMinSatellites || g.GroundSpeedCmS < GPSMinGroundSpeedCmS {
		return 0, false
	}
	rad := g.GroundCourseDecideg * math.Pi / 1800.0
	for rad > math.Pi {
		rad -= 2 * math.Pi
	}
	for rad < -math.Pi {
		rad += 2 * math.Pi
	}
	return rad, true
}
