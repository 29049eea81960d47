package ahrs

import "math"

// MotorCount is the fixed capacity of the per-motor tilt-rotor arrays
// used by the Lynch control mode.
const MotorCount = 6

// Tuning constants shared bit-exact with every port of this engine.
const (
	SpinRateLimitDegPerSec       = 20.0
	AttitudeResetQuietTimeUs     = 250000
	AttitudeResetActiveTimeUs    = 500000
	AttitudeResetGyroLimitDegS   = 15.0
	AttitudeResetKpGain          = 25.0
	DisarmedKpMultiplier         = 10.0
	GPSMinGroundSpeedCmS         = 500
	GPSMinSatellites             = 5
	AccelTrustBandLowGSquared    = 0.5
	AccelTrustBandHighGSquared   = 1.69
	HeadFreeMaxBankDecideg       = 450
	degenerateVectorSquaredFloor = 0.01
)

// Config is the runtime, read-only-after-construction configuration
// record consumed by the engine. It is populated once by the flight
// controller's settings layer or, for this repository, a YAML file
// (see the config package).
type Config struct {
	DCMKp float64 `yaml:"dcm_kp"`
	DCMKi float64 `yaml:"dcm_ki"`

	SmallAngleDeg float64 `yaml:"small_angle"`

	LevelRecoveryEnabled      bool    `yaml:"level_recovery"`
	LevelRecoveryTimeMs       float64 `yaml:"level_recovery_time"`
	LevelRecoveryCoef         float64 `yaml:"level_recovery_coef"`
	LevelRecoveryThresholdDPS float64 `yaml:"level_recovery_threshold"`

	MotorRollDeg  [MotorCount]float64 `yaml:"roll"`
	MotorPitchDeg [MotorCount]float64 `yaml:"pitch"`
	MotorYawDeg   [MotorCount]float64 `yaml:"yaw"`

	DebugMotor int `yaml:"debug_motor"`

	// ThrottleCorrectionAngleDecideg is the throttle-angle-correction
	// reference angle, in decidegrees (900 = 90 degrees, the original
	// firmware's default).
	ThrottleCorrectionAngleDecideg float64 `yaml:"throttle_correction_angle"`
	ThrottleCorrectionValue        float64 `yaml:"throttle_correction_value"`
}

// DefaultConfig returns the stock tuning defaults.
func DefaultConfig() Config {
	c := Config{
		DCMKp:                          0.25,
		DCMKi:                          0.0007,
		SmallAngleDeg:                  180,
		LevelRecoveryEnabled:           true,
		LevelRecoveryTimeMs:            2500,
		LevelRecoveryCoef:              5,
		LevelRecoveryThresholdDPS:      1900,
		DebugMotor:                     1,
		ThrottleCorrectionAngleDecideg: 900,
		ThrottleCorrectionValue:        0,
	}
	return c
}

// RuntimeConfig holds values derived once from a Config by Configure,
// mirroring the firmware's one-shot configure pass. The per-motor
// mount offsets are NOT cached here: the motor package recomputes them
// in float32 (see motor.NewState), since that pipeline runs in its own
// narrower-precision numeric domain.
type RuntimeConfig struct {
	Config

	SmallAngleCosZ     float64
	ThrottleAngleScale float64
}

// Configure derives cached runtime values from cfg: the small-angle
// cosine threshold and the throttle-angle scale factor.
func Configure(cfg Config) RuntimeConfig {
	rc := RuntimeConfig{Config: cfg}
	rc.SmallAngleCosZ = math.Cos(cfg.SmallAngleDeg * math.Pi / 180.0)

	angle := cfg.ThrottleCorrectionAngleDecideg
	if angle == 0 {
		angle = 900
	}
	rc.ThrottleAngleScale = (1800.0 / math.Pi) * (900.0 / angle)
	return rc
}
