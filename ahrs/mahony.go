package ahrs

import "math"

// Integrator is the Mahony filter's persistent integral feedback term,
// retained across ticks and reset only when Ki is zero.
type Integrator struct {
	X, Y, Z float64
}

// MahonyInputs bundles a single tick's worth of Mahony filter inputs.
// AX/AY/AZ and MX/MY/MZ are expected already normalized (or zeroed with
// their Use flag false) by the reference-source evaluator.
type MahonyInputs struct {
	DT               float64 // seconds
	GX, GY, GZ       float64 // body rates, rad/s
	UseAcc           float64 // strength in [0,1]
	AX, AY, AZ       float64
	UseMag           bool
	MX, MY, MZ       float64
	UseCOG           bool
	CourseOverGround float64 // radians, wrapped to (-pi, pi]
	Kp               float64
	Ki               float64
}

// MahonyResult is the updated orientation state produced by Update.
type MahonyResult struct {
	Q          Quaternion
	QP         ProductCache
	R          RotationMatrix
	Integrator Integrator
}

// Update runs one Mahony complementary-filter step: it builds the
// body-frame error vector from whichever references are available,
// applies spin-rate-gated integral feedback and proportional
// correction, integrates the corrected rate into q, and refreshes the
// rotation matrix. The caller supplies the orientation and integrator
// state carried from the previous tick; spin-rate gating and the Ki==0
// anti-windup reset are evaluated fresh every call.
func Update(q Quaternion, r RotationMatrix, integ Integrator, in MahonyInputs) MahonyResult {
	spinRate := math.Sqrt(in.GX*in.GX + in.GY*in.GY + in.GZ*in.GZ)

	var ex, ey, ez float64

	if in.UseCOG {
		cog := in.CourseOverGround
		ezEF := -math.Sin(cog)*r[0][0] - math.Cos(cog)*r[1][0]
		ex += r[2][0] * ezEF
		ey += r[2][1] * ezEF
		ez += r[2][2] * ezEF
	}

	if in.UseMag {
		magSq := in.MX*in.MX + in.MY*in.MY + in.MZ*in.MZ
		if magSq > degenerateVectorSquaredFloor {
			hx := r[0][0]*in.MX + r[0][1]*in.MY + r[0][2]*in.MZ
			hy := r[1][0]*in.MX + r[1][1]*in.MY + r[1][2]*in.MZ
			bx := math.Sqrt(hx*hx + hy*hy)
			ezEF := -(hy * bx)
			ex += r[2][0] * ezEF
			ey += r[2][1] * ezEF
			ez += r[2][2] * ezEF
		}
	}

	accUsable := in.UseAcc > 0
	if accUsable {
		accSq := in.AX*in.AX + in.AY*in.AY + in.AZ*in.AZ
		if accSq > degenerateVectorSquaredFloor {
			ex += (in.AY*r[2][2] - in.AZ*r[2][1]) * in.UseAcc
			ey += (in.AZ*r[2][0] - in.AX*r[2][2]) * in.UseAcc
			ez += (in.AX*r[2][1] - in.AY*r[2][0]) * in.UseAcc
		}
	}

	if in.Ki > 0 {
		if spinRate < degToRad(SpinRateLimitDegPerSec) {
			integ.X += in.Ki * ex * in.DT * in.UseAcc
			integ.Y += in.Ki * ey * in.DT * in.UseAcc
			integ.Z += in.Ki * ez * in.DT * in.UseAcc
		}
	} else {
		integ = Integrator{}
	}

	gx := in.GX + in.Kp*ex*in.UseAcc + integ.X
	gy := in.GY + in.Kp*ey*in.UseAcc + integ.Y
	gz := in.GZ + in.Kp*ez*in.UseAcc + integ.Z

	gx *= 0.5 * in.DT
	gy *= 0.5 * in.DT
	gz *= 0.5 * in.DT

	w, x, y, z := q.W, q.X, q.Y, q.Z
	newQ := Quaternion{
		W: w + (-x*gx - y*gy - z*gz),
		X: x + (w*gx + y*gz - z*gy),
		Y: y + (w*gy - x*gz + z*gx),
		Z: z + (w*gz + x*gy - y*gx),
	}
	newQ = newQ.Normalized()
	newQP := ProductsOf(newQ)

	return MahonyResult{
		Q:          newQ,
		QP:         newQP,
		R:          ComputeRotationMatrix(newQP),
		Integrator: integ,
	}
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}
