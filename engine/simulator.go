package engine

import "github.com/tracktum/ahrs-engine/ahrs"

// The setters in this file exist solely to drive tests, never the real
// sensor pipeline. Each takes the engine's critical section so a concurrent
// Tick cannot observe a torn orientation.

// SetAttitudeQuat overwrites the orientation directly with (w,x,y,z),
// normalizing it, and refreshes the product cache and rotation matrix.
func (e *Engine) SetAttitudeQuat(w, x, y, z float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.q = ahrs.Quaternion{W: w, X: x, Y: y, Z: z}.Normalized()
	e.qp = ahrs.ProductsOf(e.q)
	e.r = ahrs.ComputeRotationMatrix(e.qp)
	e.attitudeEstablished = true
}

// SetAttitudeRPY overwrites the orientation from roll/pitch/yaw given
// in decidegrees, using the same construction as FromEuler.
func (e *Engine) SetAttitudeRPY(rollDecideg, pitchDecideg, yawDecideg float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.q = ahrs.FromEuler(rollDecideg, pitchDecideg, yawDecideg)
	e.qp = ahrs.ProductsOf(e.q)
	e.r = ahrs.ComputeRotationMatrix(e.qp)
	e.attitudeEstablished = true
}

// SetHasNewData injects a synthetic tick period (in microseconds) for
// the next Tick call, bypassing the normal now_us-delta derivation.
// Used by tests that want an exact, reproducible dt per step.
func (e *Engine) SetHasNewData(dtUs int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.overrideDT = float64(dtUs) / 1e6
	e.haveOverrideDT = true
}
