package ahrs

import "math"

const radToDecideg = 1800.0 / math.Pi

// EulerFromRotationMatrix extracts roll/pitch/yaw, in decidegrees,
// from a direction cosine matrix. Yaw is normalized to [0, 3600).
func EulerFromRotationMatrix(r RotationMatrix) (rollDecideg, pitchDecideg, yawDecideg float64) {
	roll := (math.Pi/2 - math.Acos(clamp(r[2][1], -1, 1))) * radToDecideg
	pitch := (math.Pi/2 - math.Acos(clamp(-r[2][0], -1, 1))) * radToDecideg
	yaw := -math.Atan2(r[1][0], r[0][0]) * radToDecideg
	if yaw < 0 {
		yaw += 3600
	}
	return roll, pitch, yaw
}

// EulerFromQuaternion extracts roll/pitch/yaw from q by synthesizing
// its rotation matrix and applying the same decomposition as
// EulerFromRotationMatrix. Used for the head-free composed
// orientation.
func EulerFromQuaternion(q Quaternion) (rollDecideg, pitchDecideg, yawDecideg float64) {
	return EulerFromRotationMatrix(ComputeRotationMatrix(ProductsOf(q)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ThrottleAngleCorrection returns the throttle-compensation scalar the
// engine publishes to the mixer: zero once the airframe tilts past
// horizontal (R[2][2] <= 0.015), otherwise correctionValue*sin(angle)
// with angle the tilt scaled and clamped to 900 decidegrees.
func ThrottleAngleCorrection(r RotationMatrix, throttleAngleScale, correctionValue float64) float64 {
	if r[2][2] <= 0.015 {
		return 0
	}
	angle := math.Acos(clamp(r[2][2], -1, 1)) * throttleAngleScale
	if angle > 900 {
		angle = 900
	}
	return correctionValue * math.Sin(angle*math.Pi/1800.0)
}

// CanSetHeadFreeZero reports whether a head-free zero request is
// accepted at the given bank: only within +/-45 degrees on both axes.
func CanSetHeadFreeZero(rollDecideg, pitchDecideg float64) bool {
	return math.Abs(rollDecideg) < HeadFreeMaxBankDecideg && math.Abs(pitchDecideg) < HeadFreeMaxBankDecideg
}

// HeadFreeOffsetFromYaw builds the head-free zero offset quaternion: a
// pure yaw rotation capturing the airframe's current heading so stick
// directions can be de-rotated by it on subsequent ticks.
func HeadFreeOffsetFromYaw(yawDecideg float64) Quaternion {
	halfYawRad := (yawDecideg * math.Pi / 1800.0) / 2
	return Quaternion{W: math.Cos(halfYawRad), X: 0, Y: 0, Z: math.Sin(halfYawRad)}
}

// AngleModeReference captures the conjugate of q with yaw removed, the
// reference used to derive the stabilized angle-mode Euler pair.
func AngleModeReference(q Quaternion, yawDecideg float64) ProductCache {
	conj := q.Conjugate()
	qp := ProductsOf(conj)
	return RemoveYaw(qp, yawDecideg)
}

// AngleModeEuler derives the stabilized angle-mode roll/pitch pair from
// q composed with the angle-mode reference qPA.
func AngleModeEuler(q Quaternion, qPA ProductCache) (pitchDecideg, rollDecideg float64) {
	qa := MulWithProducts(q, qPA, 1)
	roll, pitch, _ := EulerFromQuaternion(qa)
	return pitch, roll
}
