package engine

import "github.com/tracktum/ahrs-engine/ahrs"

// GetCosTiltAngle returns R[2][2], the cosine of the tilt angle from
// horizontal.
func (e *Engine) GetCosTiltAngle() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.r[2][2]
}

// GetQuaternion returns the current orientation quaternion.
func (e *Engine) GetQuaternion() ahrs.Quaternion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.q
}

// GetAttitude returns the primary Euler attitude in decidegrees.
func (e *Engine) GetAttitude() (rollDecideg, pitchDecideg, yawDecideg float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attitudeRollDecideg, e.attitudePitchDecideg, e.attitudeYawDecideg
}

// GetMotorThrust returns the latched thrust component for motor i
// (0-based, i in [0, motor.Count)).
func (e *Engine) GetMotorThrust(i int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.motors.Thrust[i])
}

// GetMotorPitch returns the latched pitch component, in decidegrees,
// for motor i.
func (e *Engine) GetMotorPitch(i int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.motors.Pitch[i])
}

// GetMotorRoll returns the latched roll component, in decidegrees, for
// motor i.
func (e *Engine) GetMotorRoll(i int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.motors.Roll[i])
}

// GetTranslationThrustFix returns the thrust-correction factor derived
// alongside the live thrust-translation offset.
func (e *Engine) GetTranslationThrustFix() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.translationThrustFix
}

// GetAngleAngle returns the stabilized angle-mode Euler value, in
// decidegrees, for axis (ROLL or PITCH).
func (e *Engine) GetAngleAngle(axis Axis) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if axis == AxisRoll {
		return e.angleRollDecideg
	}
	return e.anglePitchDecideg
}

// IsUpright reports whether the airframe is within its configured
// small-angle threshold of level. It is unconditionally true when no
// accelerometer is configured at all; otherwise it requires attitude
// to have been established at least once and R[2][2] to exceed the
// cached small-angle cosine.
func (e *Engine) IsUpright() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sensors.HasAccelerometer() {
		return true
	}
	return e.attitudeEstablished && e.r[2][2] > e.cfg.SmallAngleCosZ
}

// IsLevelRecoveryActive reports whether the post-crash Kp-boost
// envelope is currently open.
func (e *Engine) IsLevelRecoveryActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scheduler.Recover.Active
}

// SetHeadFreeOffset captures the current yaw as the head-free zero
// reference, the pilot-facing direction stick input is de-rotated by.
// It is rejected (returning false, leaving the offset unchanged) when
// the current bank exceeds 45 degrees on either axis.
func (e *Engine) SetHeadFreeOffset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !ahrs.CanSetHeadFreeZero(e.attitudeRollDecideg, e.attitudePitchDecideg) {
		return false
	}
	e.headfreeOffset = ahrs.HeadFreeOffsetFromYaw(e.attitudeYawDecideg)
	return true
}
