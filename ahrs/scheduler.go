package ahrs

// TimeUs is a monotonic microsecond timestamp, as supplied by the
// external clock collaborator.
type TimeUs = int64

// AttitudeResetState is the post-disarm "attitude reset" mini state
// machine. It only transitions while disarmed; while armed its timers
// are left untouched (and so pick back up from wherever they were the
// next time the craft disarms).
type AttitudeResetState struct {
	LastArmed      bool
	GyroQuietEndUs TimeUs
	ResetEndUs     TimeUs
	ResetCompleted bool
}

// LevelRecoveryState is the post-crash Kp-boost envelope.
type LevelRecoveryState struct {
	PreviousCrashTimeUs TimeUs
	Active              bool
	Strength            int // 0..1000
}

// Scheduler bundles the two pieces of per-tick Kp-scheduling state.
type Scheduler struct {
	Reset   AttitudeResetState
	Recover LevelRecoveryState
}

// stepAttitudeReset advances the reset state machine for one tick and
// reports whether the reset-active window is open right now. The
// quiet-timer-elapses-into-active-window transition is evaluated in the
// same tick it becomes eligible, so a sample taken exactly at the quiet
// timer's deadline already observes the reset-active Kp.
func stepAttitudeReset(s *AttitudeResetState, now TimeUs, armed bool, useAcc float64, gyro [3]float64) (active bool) {
	if armed {
		s.LastArmed = true
		return false
	}

	if s.LastArmed {
		s.GyroQuietEndUs = now + AttitudeResetQuietTimeUs
		s.ResetEndUs = 0
		s.ResetCompleted = false
	} else if s.ResetEndUs > 0 || s.GyroQuietEndUs > 0 || s.ResetCompleted {
		jiggling := absf(gyro[0]) > AttitudeResetGyroLimitDegS ||
			absf(gyro[1]) > AttitudeResetGyroLimitDegS ||
			absf(gyro[2]) > AttitudeResetGyroLimitDegS ||
			useAcc == 0
		if jiggling {
			s.GyroQuietEndUs = now + AttitudeResetQuietTimeUs
			s.ResetEndUs = 0
		}
	}

	if s.GyroQuietEndUs > 0 && now >= s.GyroQuietEndUs {
		s.ResetEndUs = now + AttitudeResetActiveTimeUs
		s.GyroQuietEndUs = 0
	}

	if s.ResetEndUs > 0 {
		if now >= s.ResetEndUs {
			s.ResetEndUs = 0
			s.ResetCompleted = true
		} else {
			active = true
		}
	}

	s.LastArmed = armed
	return active
}

// stepLevelRecovery advances the post-crash recovery envelope for one
// tick given the current gyro reading in deg/s.
func stepLevelRecovery(s *LevelRecoveryState, cfg Config, now TimeUs, armed bool, gyroDegS [3]float64) {
	for _, g := range gyroDegS {
		if absf(g) > cfg.LevelRecoveryThresholdDPS {
			s.PreviousCrashTimeUs = now
			break
		}
	}

	elapsedUs := now - s.PreviousCrashTimeUs
	windowUs := TimeUs(cfg.LevelRecoveryTimeMs * 1000)
	if elapsedUs < windowUs {
		s.Active = true
		strength := int((float64(windowUs) - float64(elapsedUs)) / cfg.LevelRecoveryTimeMs)
		strength *= 2
		if strength > 1000 {
			strength = 1000
		}
		s.Strength = strength
	} else {
		s.Active = false
		s.Strength = 0
	}

	if !armed {
		s.Active = false
		s.Strength = 0
	}
}

// Kp computes the scheduled proportional gain for one tick. gyroDegS is
// the gyro average in degrees/second (used for both the reset-jiggle
// test and the level-recovery threshold test); useAcc is the
// accelerometer strength computed by the reference evaluator.
//
// If level recovery is active this tick, its value overwrites whatever
// the disarmed-boost / attitude-reset branch computed, even if attitude
// reset was also active. Last write wins; do not reorder these
// branches.
func (s *Scheduler) Kp(cfg Config, now TimeUs, armed bool, useAcc float64, gyroDegS [3]float64) float64 {
	resetActive := stepAttitudeReset(&s.Reset, now, armed, useAcc, gyroDegS)

	if cfg.LevelRecoveryEnabled {
		stepLevelRecovery(&s.Recover, cfg, now, armed, gyroDegS)
	}

	var kp float64
	if resetActive {
		kp = AttitudeResetKpGain
	} else {
		kp = cfg.DCMKp
		if !armed {
			kp *= DisarmedKpMultiplier
		}
	}

	if s.Recover.Active {
		kp = cfg.DCMKp * (1.0 + cfg.LevelRecoveryCoef*float64(s.Recover.Strength)/1000.0)
	}

	return kp
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
