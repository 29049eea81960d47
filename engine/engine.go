package engine

import (
	"math"
	"sync"

	"github.com/tracktum/ahrs-engine/ahrs"
	"github.com/tracktum/ahrs-engine/motor"
)

// Engine is the single AHRS engine value: it owns the
// quaternion/Mahony/scheduler state from package ahrs plus the
// per-motor pipeline from package motor, and exposes a tick method and
// read accessors instead of package-level globals. All state is
// guarded by one mutex so an optional simulator setter (simulator.go)
// can inject attitude or a synthetic dt without tearing a
// concurrent read; on real hardware nothing but the single control
// thread ever calls these methods, so the lock is never contended.
type Engine struct {
	mu sync.Mutex

	cfg ahrs.RuntimeConfig

	q  ahrs.Quaternion
	qp ahrs.ProductCache
	r  ahrs.RotationMatrix

	integrator ahrs.Integrator
	scheduler  ahrs.Scheduler

	motors motor.State

	attitudeEstablished bool
	usedCOGOnce         bool

	headfreeOffset ahrs.Quaternion
	headfree       ahrs.Quaternion

	qPA ahrs.ProductCache

	attitudeRollDecideg  float64
	attitudePitchDecideg float64
	attitudeYawDecideg   float64

	angleRollDecideg  float64
	anglePitchDecideg float64

	translationThrustFix    float64
	throttleAngleCorrection float64

	firstTick     bool
	prevAngleMode bool

	lastTickUs     int64
	haveLastTick   bool
	overrideDT     float64
	haveOverrideDT bool

	sensors Sensors
	gps     GPS
	modes   FlightModes
	armed   Armed
	sticks  Sticks
	mixer   Mixer
	debug   DebugSink
}

// Options bundles the external collaborators an Engine is constructed
// with. Mixer and Debug may be nil: the engine simply skips
// publication when they are.
type Options struct {
	Sensors Sensors
	GPS     GPS
	Modes   FlightModes
	Armed   Armed
	Sticks  Sticks
	Mixer   Mixer
	Debug   DebugSink
}

// New builds an Engine from a populated Config, deriving the cached
// runtime values (ahrs.Configure) and the per-motor mount offsets, and
// initializes q/qP/R and the angle-mode reference to identity.
func New(cfg ahrs.Config, opts Options) *Engine {
	e := &Engine{
		cfg:            ahrs.Configure(cfg),
		q:              ahrs.Identity,
		qp:             ahrs.ProductsOf(ahrs.Identity),
		r:              ahrs.ComputeRotationMatrix(ahrs.ProductsOf(ahrs.Identity)),
		qPA:            ahrs.ProductsOf(ahrs.Identity),
		headfreeOffset: ahrs.Identity,
		headfree:       ahrs.Identity,
		firstTick:      true,
		sensors:        opts.Sensors,
		gps:            opts.GPS,
		modes:          opts.Modes,
		armed:          opts.Armed,
		sticks:         opts.Sticks,
		mixer:          opts.Mixer,
		debug:          opts.Debug,
	}
	e.motors = motor.NewState(cfg.MotorRollDeg, cfg.MotorPitchDeg, cfg.MotorYawDeg)
	return e
}

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }

// Tick runs one control-loop iteration: it reads the sensor averages,
// evaluates the reference sources, schedules Kp (including level
// recovery), runs the Mahony update, derives Euler/per-motor/head-free
// outputs, and publishes the throttle-angle correction to the mixer.
// This ordering is fixed and must not be changed.
//
// nowUs is the monotonic microsecond tick timestamp; dt is derived
// from the delta against the previous call, or taken from a pending
// SetHasNewData override when one was injected by the simulator
// harness. The very first call only establishes the timestamp baseline
// and performs no integration. If the accelerometer has never
// delivered a sample, the tick short-circuits and the last known
// attitude is preserved.
func (e *Engine) Tick(nowUs int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var dt float64
	switch {
	case e.haveOverrideDT:
		dt = e.overrideDT
		e.haveOverrideDT = false
		e.lastTickUs = nowUs
		e.haveLastTick = true
	case !e.haveLastTick:
		e.lastTickUs = nowUs
		e.haveLastTick = true
		return
	default:
		dt = float64(nowUs-e.lastTickUs) / 1e6
		e.lastTickUs = nowUs
	}

	if !e.sensors.HasAccelerometer() || !e.sensors.AccUpdatedAtLeastOnce() {
		return
	}

	armed := e.armed.Armed()
	gyroDegS := e.sensors.GyroAverageDegS()

	accRaw := e.sensors.AccAverageRaw()
	oneGRecip := e.sensors.AccOneGReciprocal()
	accReading := ahrs.AccelReading{X: accRaw[0], Y: accRaw[1], Z: accRaw[2], OneGReciprocal: oneGRecip}
	useAcc := ahrs.AccelStrength(accReading)
	ax, ay, az, accOk := ahrs.NormalizedAccel(accReading)
	if !accOk {
		useAcc = 0
	}

	magRaw := e.sensors.MagnetometerVectorRaw()
	mx, my, mz, useMag := ahrs.UseMag(ahrs.MagCapabilities{
		HaveCompass:         e.sensors.HaveCompass(),
		CompassHealthy:      e.sensors.CompassHealthy(),
		GPSRescueDisableMag: e.gps.GPSRescueDisableMag(),
	}, ahrs.MagReading{X: magRaw[0], Y: magRaw[1], Z: magRaw[2]})

	cogRad, useCOG := ahrs.UseCOG(useMag, ahrs.GPSReading{
		HaveGPS:             e.gps.HaveGPS(),
		Fix:                 e.gps.Fix(),
		NumSatellites:       e.gps.NumSatellites(),
		GroundSpeedCmS:      e.gps.GroundSpeedCmS(),
		GroundCourseDecideg: e.gps.GroundCourseDecideg(),
	})

	if useCOG && !e.usedCOGOnce {
		rollNow, pitchNow, _ := ahrs.EulerFromRotationMatrix(e.r)
		e.q = ahrs.FromEuler(rollNow, pitchNow, e.gps.GroundCourseDecideg())
		e.qp = ahrs.ProductsOf(e.q)
		e.r = ahrs.ComputeRotationMatrix(e.qp)
		e.usedCOGOnce = true
		useCOG = false
	}

	kp := e.scheduler.Kp(e.cfg.Config, nowUs, armed, useAcc, gyroDegS)

	result := ahrs.Update(e.q, e.r, e.integrator, ahrs.MahonyInputs{
		DT:               dt,
		GX:               degToRad(gyroDegS[0]),
		GY:               degToRad(gyroDegS[1]),
		GZ:               degToRad(gyroDegS[2]),
		UseAcc:           useAcc,
		AX:               ax,
		AY:               ay,
		AZ:               az,
		UseMag:           useMag,
		MX:               mx,
		MY:               my,
		MZ:               mz,
		UseCOG:           useCOG,
		CourseOverGround: cogRad,
		Kp:               kp,
		Ki:               e.cfg.DCMKi,
	})
	e.q = result.Q
	e.qp = result.QP
	e.r = result.R
	e.integrator = result.Integrator
	e.attitudeEstablished = true

	e.updateDerivedOutputs(armed)

	gateOpen := e.cfg.ThrottleCorrectionValue != 0 && armed && (e.modes.AngleMode() || e.modes.HorizonMode())
	if gateOpen {
		e.throttleAngleCorrection = ahrs.ThrottleAngleCorrection(e.r, e.cfg.ThrottleAngleScale, e.cfg.ThrottleCorrectionValue)
	} else {
		e.throttleAngleCorrection = 0
	}
	if e.mixer != nil {
		e.mixer.SetThrottleAngleCorrection(int(e.throttleAngleCorrection))
	}

	e.firstTick = false
}

// updateDerivedOutputs runs the derived-output step of the tick:
// primary Euler extraction (head-free or R-based), the per-motor
// pipeline, and the angle-mode reference/Euler pair. The debug-channel
// publish ordering is part of the contract: DebugQuat right after the
// primary Euler write, DebugLynch/DebugLynchAngle after the per-motor
// pipeline runs.
func (e *Engine) updateDerivedOutputs(armed bool) {
	headfreeActive := e.modes.HeadFree()
	if headfreeActive {
		e.headfree = ahrs.Mul(e.headfreeOffset, e.q)
		e.attitudeRollDecideg, e.attitudePitchDecideg, e.attitudeYawDecideg = ahrs.EulerFromQuaternion(e.headfree)
	} else {
		e.attitudeRollDecideg, e.attitudePitchDecideg, e.attitudeYawDecideg = ahrs.EulerFromRotationMatrix(e.r)
	}

	if e.debug != nil {
		e.debug.DebugSet(DebugQuat, 0, int(e.q.W*1000))
		e.debug.DebugSet(DebugQuat, 1, int(e.q.X*1000))
		e.debug.DebugSet(DebugQuat, 2, int(e.q.Y*1000))
		e.debug.DebugSet(DebugQuat, 3, int(e.q.Z*1000))
	}

	angleMode := e.modes.AngleMode()
	lynchHeld := e.modes.SetLynchMode()
	lynchTranslate := e.modes.LynchTranslate()

	capture := e.firstTick || (angleMode && !e.prevAngleMode) || lynchHeld

	var translation motor.Quaternion
	var fix float32
	if lynchTranslate {
		rollStick := e.sticks.Deflection(AxisRoll)
		pitchStick := e.sticks.Deflection(AxisPitch)
		translation, fix = motor.ThrustTranslation(float32(rollStick), float32(pitchStick), e.r[2][2] < 0, true)
	} else {
		translation, fix = motor.ThrustTranslation(0, 0, false, false)
	}
	e.translationThrustFix = float64(fix)

	liveOutputs := angleMode || lynchTranslate
	e.motors.Update(motor.FromQuaternion64(e.q.W, e.q.X, e.q.Y, e.q.Z), capture, translation, liveOutputs)

	if e.debug != nil {
		idx := e.cfg.DebugMotor - 1
		if idx >= 0 && idx < motor.Count {
			e.debug.DebugSet(DebugLynch, 0, int(e.motors.Thrust[idx]*1000))
			e.debug.DebugSet(DebugLynchAngle, 0, int(e.motors.Pitch[idx]))
			e.debug.DebugSet(DebugLynchAngle, 1, int(e.motors.Roll[idx]))
		}
	}

	stickDeflected := false
	if lynchHeld {
		stickDeflected = math.Abs(e.sticks.Deflection(AxisRoll)) > 0.1 || math.Abs(e.sticks.Deflection(AxisPitch)) > 0.1
	}
	if (angleMode && !e.prevAngleMode) || (lynchHeld && stickDeflected) {
		e.qPA = ahrs.AngleModeReference(e.q, e.attitudeYawDecideg)
	}
	e.anglePitchDecideg, e.angleRollDecideg = ahrs.AngleModeEuler(e.q, e.qPA)

	e.prevAngleMode = angleMode
}

// TransformEarthToBodyHeadfree rotates a desired earth-frame vector
// into body frame through the head-free composition, for the external
// stick-input/PID layer to consume while head-free mode is active.
func (e *Engine) TransformEarthToBodyHeadfree(earth [3]float64) [3]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ahrs.RotateVector(e.headfree.Conjugate(), earth)
}
