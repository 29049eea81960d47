// Package engine bundles the ahrs quaternion/Mahony/scheduler math and
// the motor tilt-rotor pipeline into a single AHRS engine value: no
// package-level mutable state, an explicit constructor, and accessors
// as methods on the value. The engine never touches hardware directly;
// every sensor, flight-mode and mixer dependency is a small capability
// interface supplied at construction.
package engine

// Sensors exposes the gyro/accelerometer/magnetometer driver layer.
// Angular rates are degrees/second; the accelerometer and magnetometer
// vectors are raw sensor units.
type Sensors interface {
	GyroAverageDegS() [3]float64
	AccAverageRaw() [3]float64
	AccOneGReciprocal() float64
	AccUpdatedAtLeastOnce() bool
	// HasAccelerometer reports whether an accelerometer is configured
	// at all; when false, IsUpright short-circuits to true regardless
	// of attitude.
	HasAccelerometer() bool
	MagnetometerVectorRaw() [3]float64
	HaveCompass() bool
	CompassHealthy() bool
}

// GPS exposes the GPS solution state the reference evaluator needs.
type GPS interface {
	HaveGPS() bool
	Fix() bool
	NumSatellites() int
	GroundSpeedCmS() float64
	GroundCourseDecideg() float64
	GPSRescueDisableMag() bool
}

// FlightModes reports the flight-mode predicates, injected instead of
// queried from a global mode mask.
type FlightModes interface {
	AngleMode() bool
	HorizonMode() bool
	SetLynchMode() bool
	LynchTranslate() bool
	HeadFree() bool
}

// Armed reports the arming-state predicate, owned by the external
// arming state machine.
type Armed interface {
	Armed() bool
}

// Sticks exposes normalized [-1,1] stick deflection, owned by the
// external stick-input layer.
type Sticks interface {
	Deflection(axis Axis) float64
}

// Axis selects a stick/attitude axis.
type Axis int

const (
	AxisRoll Axis = iota
	AxisPitch
)

// Mixer receives the throttle-angle correction the derived-output
// layer computes each tick.
type Mixer interface {
	SetThrottleAngleCorrection(decideg int)
}

// Debug channel indices for the per-motor and quaternion publishes.
const (
	DebugLynch = iota
	DebugLynchAngle
	DebugQuat
)

// DebugSink is the best-effort, non-blocking debug-channel publisher.
// A nil DebugSink is valid: the engine simply skips publication.
type DebugSink interface {
	DebugSet(channel, index int, value int)
}
