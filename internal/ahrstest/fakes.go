// Package ahrstest bundles test fakes for the engine's capability
// interfaces plus gonum-backed cross-checks for the quaternion and
// rotation-matrix invariants, shared by ahrs/engine/motor tests.
package ahrstest

import "github.com/tracktum/ahrs-engine/engine"

// Sensors is a mutable fake of engine.Sensors.
type Sensors struct {
	GyroDegS        [3]float64
	AccRaw          [3]float64
	OneGReciprocal  float64
	UpdatedOnce     bool
	HasAccel        bool
	MagRaw          [3]float64
	HaveCompassV    bool
	CompassHealthyV bool
}

// NewSensors returns a Sensors fake reporting a level, stationary
// 1G accelerometer reading and no magnetometer, matching a typical
// test's starting point.
func NewSensors() *Sensors {
	return &Sensors{
		AccRaw:         [3]float64{0, 0, 1},
		OneGReciprocal: 1,
		UpdatedOnce:    true,
		HasAccel:       true,
	}
}

func (s *Sensors) GyroAverageDegS() [3]float64       { return s.GyroDegS }
func (s *Sensors) AccAverageRaw() [3]float64         { return s.AccRaw }
func (s *Sensors) AccOneGReciprocal() float64        { return s.OneGReciprocal }
func (s *Sensors) AccUpdatedAtLeastOnce() bool       { return s.UpdatedOnce }
func (s *Sensors) HasAccelerometer() bool            { return s.HasAccel }
func (s *Sensors) MagnetometerVectorRaw() [3]float64 { return s.MagRaw }
func (s *Sensors) HaveCompass() bool                 { return s.HaveCompassV }
func (s *Sensors) CompassHealthy() bool              { return s.CompassHealthyV }

// GPS is a mutable fake of engine.GPS.
type GPS struct {
	HaveGPSV      bool
	FixV          bool
	NumSat        int
	SpeedCmS      float64
	CourseDecideg float64
	DisableMagV   bool
}

func (g *GPS) HaveGPS() bool                { return g.HaveGPSV }
func (g *GPS) Fix() bool                    { return g.FixV }
func (g *GPS) NumSatellites() int           { return g.NumSat }
func (g *GPS) GroundSpeedCmS() float64      { return g.SpeedCmS }
func (g *GPS) GroundCourseDecideg() float64 { return g.CourseDecideg }
func (g *GPS) GPSRescueDisableMag() bool    { return g.DisableMagV }

// Modes is a mutable fake of engine.FlightModes.
type Modes struct {
	Angle     bool
	Horizon   bool
	SetLynch  bool
	Translate bool
	Headfree  bool
}

func (m *Modes) AngleMode() bool      { return m.Angle }
func (m *Modes) HorizonMode() bool    { return m.Horizon }
func (m *Modes) SetLynchMode() bool   { return m.SetLynch }
func (m *Modes) LynchTranslate() bool { return m.Translate }
func (m *Modes) HeadFree() bool       { return m.Headfree }

// Armed is a mutable fake of engine.Armed.
type Armed struct{ Value bool }

func (a *Armed) Armed() bool { return a.Value }

// Sticks is a mutable fake of engine.Sticks.
type Sticks struct{ Roll, Pitch float64 }

func (s *Sticks) Deflection(axis engine.Axis) float64 {
	if axis == engine.AxisRoll {
		return s.Roll
	}
	return s.Pitch
}

// Mixer is a recording fake of engine.Mixer.
type Mixer struct{ LastCorrection int }

func (m *Mixer) SetThrottleAngleCorrection(v int) { m.LastCorrection = v }

// Debug is a recording fake of engine.DebugSink.
type Debug struct {
	Calls []DebugCall
}

// DebugCall records one DebugSet invocation.
type DebugCall struct {
	Channel, Index, Value int
}

func (d *Debug) DebugSet(channel, index, value int) {
	d.Calls = append(d.Calls, DebugCall{channel, index, value})
}
