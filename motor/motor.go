package motor

import "github.com/chewxy/math32"

// Count is the fixed capacity of the per-motor arrays. The mixer
// indexes motors 0..Count-1 directly, so this is part of the wire
// contract, not a tunable.
const Count = 6

// State is the per-motor tilt-rotor quaternion pipeline: for each of
// Count motors it tracks the configured mount offset, the orientation
// captured on mode entry, its latch, and the live translation-modulated
// orientation, plus the scalar outputs derived from it.
type State struct {
	QPM [Count]Quaternion // configured mount offset, fixed at construction
	QM  [Count]Quaternion // q * QPM, captured on mode entry
	QLM [Count]Quaternion // latched copy of QM
	QTM [Count]Quaternion // QLM * thrust translation, live

	Thrust [Count]float32
	Pitch  [Count]float32
	Roll   [Count]float32
}

// NewState builds a State with every motor's configured mount offset
// derived from roll/pitch/yaw given in degrees (the unit of
// ahrs.Config's MotorRollDeg/MotorPitchDeg/MotorYawDeg fields, which
// callers pass in directly), converted to decidegrees for FromEuler.
func NewState(rollDeg, pitchDeg, yawDeg [Count]float64) State {
	var s State
	for i := 0; i < Count; i++ {
		s.QPM[i] = FromEuler(
			float32(rollDeg[i])*10,
			float32(pitchDeg[i])*10,
			float32(yawDeg[i])*10,
		)
		s.QM[i] = Identity32
		s.QLM[i] = Identity32
		s.QTM[i] = Identity32
	}
	return s
}

// Update advances the per-motor pipeline for one tick.
//
// q is the current core orientation (already narrowed to float32 at
// the ahrs/motor boundary). capture is true on the tick the mount
// offsets should be recomposed: entry into angle mode, every tick
// while the set-lynch mode switch is held, or the very first tick.
// translation is the live thrust-translation offset (identity outside
// a translate mode). liveOutputs is true while angle mode or a
// translate mode is active, the only time the scalar outputs are
// refreshed rather than held at their last captured values.
func (s *State) Update(q Quaternion, capture bool, translation Quaternion, liveOutputs bool) {
	for i := 0; i < Count; i++ {
		if capture {
			s.QM[i] = Mul(q, s.QPM[i])
			s.QLM[i] = s.QM[i]
		}
		s.QTM[i] = Mul(s.QLM[i], translation)

		if liveOutputs {
			qtm := s.QTM[i]
			s.Thrust[i] = 1 - 2*(qtm.X*qtm.X+qtm.Y*qtm.Y)
			s.Pitch[i], s.Roll[i] = eulerPitchRoll(qtm)
		}
	}
}

// eulerPitchRoll extracts the roll/pitch decidegree pair from a motor
// orientation quaternion using the same acos decomposition as the core
// ahrs package's primary Euler extraction, applied to qtm's own
// rotation matrix rather than the airframe's R.
func eulerPitchRoll(q Quaternion) (pitchDecideg, rollDecideg float32) {
	qp := ProductsOf(q)
	r21 := 2 * (qp.YZ + qp.WX)
	r20 := 2 * (qp.XZ - qp.WY)

	roll := (math32.Pi/2 - math32.Acos(clamp32(r21, -1, 1))) * (1800.0 / math32.Pi)
	pitch := (math32.Pi/2 - math32.Acos(clamp32(-r20, -1, 1))) * (1800.0 / math32.Pi)
	return pitch, roll
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ThrustTranslation derives the thrust-translation offset quaternion
// and its matching thrust-correction factor from stick deflection
// while a translate mode is active. rollStick/pitchStick are in
// [-1,1]; inverted is true when the airframe is upside down
// (R[2][2] < 0), which flips the pitch sign. When active is false the
// offset is identity and the fix is 1.
func ThrustTranslation(rollStick, pitchStick float32, inverted, active bool) (offset Quaternion, fix float32) {
	if !active {
		return Identity32, 1
	}

	rollDecideg := -rollStick * 450
	pitchDecideg := -pitchStick * 450
	if inverted {
		pitchDecideg = -pitchDecideg
	}

	offset = FromEuler(rollDecideg, pitchDecideg, 0)
	fix = 1 / (math32.Cos(rollDecideg/10*math32.Pi/180) * math32.Cos(pitchDecideg/10*math32.Pi/180))
	return offset, fix
}
