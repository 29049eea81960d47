package ahrs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracktum/ahrs-engine/ahrs"
)

func defaultCfgNoRecovery() ahrs.Config {
	cfg := ahrs.DefaultConfig()
	cfg.LevelRecoveryEnabled = false
	return cfg
}

func TestDisarmedBoost(t *testing.T) {
	var s ahrs.Scheduler
	cfg := defaultCfgNoRecovery()
	kp := s.Kp(cfg, 0, false, 1, [3]float64{0, 0, 0})
	require.InDelta(t, cfg.DCMKp*ahrs.DisarmedKpMultiplier, kp, 1e-9)
}

func TestArmedUsesBaseKp(t *testing.T) {
	var s ahrs.Scheduler
	cfg := defaultCfgNoRecovery()
	kp := s.Kp(cfg, 0, true, 1, [3]float64{0, 0, 0})
	require.InDelta(t, cfg.DCMKp, kp, 1e-9)
}

// Disarm reset cycle: quiet timer, then the reset-active Kp window,
// then back to the disarmed boost.
func TestScenarioDisarmResetCycle(t *testing.T) {
	var s ahrs.Scheduler
	cfg := defaultCfgNoRecovery()

	// armed, then disarm at t=0.
	s.Kp(cfg, -1, true, 1, [3]float64{0, 0, 0})
	kp := s.Kp(cfg, 0, false, 1, [3]float64{0, 0, 0})
	require.InDelta(t, cfg.DCMKp*ahrs.DisarmedKpMultiplier, kp, 1e-9, "boost holds until the quiet timer elapses")

	// Quiet timer elapses cleanly at 250ms; reset-active window opens.
	kp = s.Kp(cfg, ahrs.AttitudeResetQuietTimeUs, false, 1, [3]float64{0, 0, 0})
	require.InDelta(t, ahrs.AttitudeResetKpGain, kp, 1e-9)

	// Still inside the 500ms active window.
	kp = s.Kp(cfg, ahrs.AttitudeResetQuietTimeUs+ahrs.AttitudeResetActiveTimeUs-1, false, 1, [3]float64{0, 0, 0})
	require.InDelta(t, ahrs.AttitudeResetKpGain, kp, 1e-9)

	// Window closes; boost resumes.
	kp = s.Kp(cfg, ahrs.AttitudeResetQuietTimeUs+ahrs.AttitudeResetActiveTimeUs, false, 1, [3]float64{0, 0, 0})
	require.InDelta(t, cfg.DCMKp*ahrs.DisarmedKpMultiplier, kp, 1e-9)
}

// A gyro spike during the quiet window restarts it.
func TestScenarioQuietRestartOnJiggle(t *testing.T) {
	var s ahrs.Scheduler
	cfg := defaultCfgNoRecovery()

	s.Kp(cfg, -1, true, 1, [3]float64{0, 0, 0})
	s.Kp(cfg, 0, false, 1, [3]float64{0, 0, 0})

	// Jiggle at 200ms, before the 250ms quiet timer would elapse.
	s.Kp(cfg, 200000, false, 1, [3]float64{20, 0, 0})

	// At the original elapse time (250ms) the window must NOT have
	// opened, since the quiet timer restarted at 200ms.
	kp := s.Kp(cfg, ahrs.AttitudeResetQuietTimeUs, false, 1, [3]float64{0, 0, 0})
	require.InDelta(t, cfg.DCMKp*ahrs.DisarmedKpMultiplier, kp, 1e-9)

	// It should open 250ms after the restart instead.
	kp = s.Kp(cfg, 200000+ahrs.AttitudeResetQuietTimeUs, false, 1, [3]float64{0, 0, 0})
	require.InDelta(t, ahrs.AttitudeResetKpGain, kp, 1e-9)
}

func TestLevelRecoveryBoostsAndDecaysOnDisarm(t *testing.T) {
	var s ahrs.Scheduler
	cfg := ahrs.DefaultConfig()

	kp := s.Kp(cfg, 0, true, 1, [3]float64{cfg.LevelRecoveryThresholdDPS + 1, 0, 0})
	require.Greater(t, kp, cfg.DCMKp)
	require.True(t, s.Recover.Active)

	s.Kp(cfg, 1000, false, 1, [3]float64{0, 0, 0})
	require.False(t, s.Recover.Active)
	require.Equal(t, 0, s.Recover.Strength)
}
