// Package ahrs implements the quaternion kernel, reference-source
// evaluator, Mahony complementary filter and gain scheduler used to
// track a multirotor's orientation. It is deliberately free of I/O,
// logging and hardware access: callers own a Config and drive the pure
// functions here once per control tick.
package ahrs

import "math"

// Quaternion is a unit (w, x, y, z) rotation from the sensor body frame
// to the local earth frame. The zero value is not a valid orientation;
// use Identity.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the no-rotation quaternion.
var Identity = Quaternion{W: 1}

// ProductCache holds the ten pairwise products of a quaternion's
// components plus a copy of the source components. It shadows a
// Quaternion and must be refreshed with ProductsOf after any write to
// the quaternion it was derived from.
type ProductCache struct {
	W, X, Y, Z     float64
	WW, WX, WY, WZ float64
	XX, XY, XZ     float64
	YY, YZ         float64
	ZZ             float64
}

// RotationMatrix is a row-major 3x3 direction cosine matrix.
type RotationMatrix [3][3]float64

// FastInvSqrt returns 1/sqrt(x). Ports of this engine have historically
// used a bit-hack approximation; on modern hardware math.Sqrt is both
// faster and exact, so it is used directly here.
func FastInvSqrt(x float64) float64 {
	return 1 / math.Sqrt(x)
}

// Norm returns the Euclidean norm of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalized returns q scaled to unit norm.
func (q Quaternion) Normalized() Quaternion {
	r := FastInvSqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	return Quaternion{W: q.W * r, X: q.X * r, Y: q.Y * r, Z: q.Z * r}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Mul computes the Hamilton product q1*q2 using the reduced 8-multiply
// (Karatsuba-style) grouping, then normalizes the result. This form is
// algebraically equivalent to the direct 16-multiply expansion and is
// kept because every downstream port of this engine uses it; the
// normalization makes the result safe to feed straight back into state.
func Mul(q1, q2 Quaternion) Quaternion {
	a := (q1.W + q1.X) * (q2.W + q2.X)
	b := (q1.Z - q1.Y) * (q2.Y - q2.Z)
	c := (q1.W - q1.X) * (q2.Y + q2.Z)
	d := (q1.Y + q1.Z) * (q2.W - q2.X)
	e := (q1.X + q1.Z) * (q2.X + q2.Y)
	f := (q1.X - q1.Z) * (q2.X - q2.Y)
	g := (q1.W + q1.Y) * (q2.W - q2.Z)
	h := (q1.W - q1.Y) * (q2.W + q2.Z)

	result := Quaternion{
		W: b + (-e-f+g+h)/2.0,
		X: a - (+e+f+g+h)/2.0,
		Y: c + (+e-f+g-h)/2.0,
		Z: d + (+e-f-g+h)/2.0,
	}
	return result.Normalized()
}

// MulWithProducts computes the Hamilton product of q1 with the
// quaternion represented by qp2's product cache. order selects operand
// order: order==1 computes q1*qp2, order==2 computes qp2*q1. The
// result is normalized.
func MulWithProducts(q1 Quaternion, qp2 ProductCache, order int) Quaternion {
	var a, b, c, d, e, f, g, h float64
	if order == 1 {
		a = (q1.W + q1.X) * (qp2.W + qp2.X)
		b = (q1.Z - q1.Y) * (qp2.Y - qp2.Z)
		c = (q1.W - q1.X) * (qp2.Y + qp2.Z)
		d = (q1.Y + q1.Z) * (qp2.W - qp2.X)
		e = (q1.X + q1.Z) * (qp2.X + qp2.Y)
		f = (q1.X - q1.Z) * (qp2.X - qp2.Y)
		g = (q1.W + q1.Y) * (qp2.W - qp2.Z)
		h = (q1.W - q1.Y) * (qp2.W + qp2.Z)
	} else {
		a = (qp2.W + qp2.X) * (q1.W + q1.X)
		b = (qp2.Z - qp2.Y) * (q1.Y - q1.Z)
		c = (qp2.W - qp2.X) * (q1.Y + q1.Z)
		d = (qp2.Y + qp2.Z) * (q1.W - q1.X)
		e = (qp2.X + qp2.Z) * (q1.X + q1.Y)
		f = (qp2.X - qp2.Z) * (q1.X - q1.Y)
		g = (qp2.W + qp2.Y) * (q1.W - q1.Z)
		h = (qp2.W - qp2.Y) * (q1.W + q1.Z)
	}

	result := Quaternion{
		W: b + (-e-f+g+h)/2.0,
		X: a - (+e+f+g+h)/2.0,
		Y: c + (+e-f+g-h)/2.0,
		Z: d + (+e-f-g+h)/2.0,
	}
	return result.Normalized()
}

// ProductsOf computes the ten pairwise products of q's components plus
// a copy of the components themselves.
func ProductsOf(q Quaternion) ProductCache {
	return ProductCache{
		W: q.W, X: q.X, Y: q.Y, Z: q.Z,
		WW: q.W * q.W, WX: q.W * q.X, WY: q.W * q.Y, WZ: q.W * q.Z,
		XX: q.X * q.X, XY: q.X * q.Y, XZ: q.X * q.Z,
		YY: q.Y * q.Y, YZ: q.Y * q.Z,
		ZZ: q.Z * q.Z,
	}
}

// RotateVector rotates v by q (v' = q*v*q^-1), computed by applying
// q's rotation matrix from ComputeRotationMatrix; used to transform a
// desired earth-frame vector into body frame through the head-free
// composition.
func RotateVector(q Quaternion, v [3]float64) [3]float64 {
	qp := ProductsOf(q)
	r := ComputeRotationMatrix(qp)
	return [3]float64{
		r[0][0]*v[0] + r[0][1]*v[1] + r[0][2]*v[2],
		r[1][0]*v[0] + r[1][1]*v[1] + r[1][2]*v[2],
		r[2][0]*v[0] + r[2][1]*v[1] + r[2][2]*v[2],
	}
}

// ComputeRotationMatrix synthesizes the direction cosine matrix from a
// quaternion's product cache. Sign convention matches the sensor frame
// to earth frame rotation used throughout this engine.
func ComputeRotationMatrix(qp ProductCache) RotationMatrix {
	var r RotationMatrix
	r[0][0] = 1.0 - 2.0*qp.YY - 2.0*qp.ZZ
	r[0][1] = 2.0 * (qp.XY - qp.WZ)
	r[0][2] = 2.0 * (qp.XZ + qp.WY)

	r[1][0] = 2.0 * (qp.XY + qp.WZ)
	r[1][1] = 1.0 - 2.0*qp.XX - 2.0*qp.ZZ
	r[1][2] = 2.0 * (qp.YZ - qp.WX)

	r[2][0] = 2.0 * (qp.XZ - qp.WY)
	r[2][1] = 2.0 * (qp.YZ + qp.WX)
	r[2][2] = 1.0 - 2.0*qp.XX - 2.0*qp.YY
	return r
}

// wrapDecidegrees folds a decidegree angle into (-1800, 1800].
func wrapDecidegrees(v float64) float64 {
	if v > 1800 {
		return v - 3600
	}
	return v
}

// FromEuler builds a unit quaternion from roll/pitch/yaw given in
// decidegrees, wrapping each axis into (-1800, 1800] first and negating
// yaw before use, per the standard ZYX half-angle construction.
func FromEuler(rollDecideg, pitchDecideg, yawDecideg float64) Quaternion {
	roll := wrapDecidegrees(rollDecideg)
	pitch := wrapDecidegrees(pitchDecideg)
	yaw := wrapDecidegrees(yawDecideg)

	cosRoll := math.Cos(decidegToRad(roll) * 0.5)
	sinRoll := math.Sin(decidegToRad(roll) * 0.5)
	cosPitch := math.Cos(decidegToRad(pitch) * 0.5)
	sinPitch := math.Sin(decidegToRad(pitch) * 0.5)
	cosYaw := math.Cos(decidegToRad(-yaw) * 0.5)
	sinYaw := math.Sin(decidegToRad(-yaw) * 0.5)

	q := Quaternion{
		W: cosRoll*cosPitch*cosYaw + sinRoll*sinPitch*sinYaw,
		X: sinRoll*cosPitch*cosYaw - cosRoll*sinPitch*sinYaw,
		Y: cosRoll*sinPitch*cosYaw + sinRoll*cosPitch*sinYaw,
		Z: cosRoll*cosPitch*sinYaw - sinRoll*sinPitch*cosYaw,
	}
	return q.Normalized()
}

func decidegToRad(d float64) float64 {
	return d * math.Pi / 1800.0
}

// ComputeMotorOffset builds the product cache representing a per-motor
// mount orientation offset from roll/pitch/yaw given in decidegrees.
// It deliberately mirrors the original firmware routine's field
// coverage: it populates W, X, Y, Z and the six cross products
// (XY, XZ, YZ, WX, WY, WZ) but not the squared diagonal terms
// (WW, XX, YY, ZZ). Callers must not read the diagonal terms of a
// cache produced this way without refreshing them via ProductsOf.
func ComputeMotorOffset(rollDecideg, pitchDecideg, yawDecideg float64) ProductCache {
	roll := wrapDecidegrees(rollDecideg)
	pitch := wrapDecidegrees(pitchDecideg)
	yaw := wrapDecidegrees(yawDecideg)

	cosRoll := math.Cos(decidegToRad(roll) * 0.5)
	sinRoll := math.Sin(decidegToRad(roll) * 0.5)
	cosPitch := math.Cos(decidegToRad(pitch) * 0.5)
	sinPitch := math.Sin(decidegToRad(pitch) * 0.5)
	cosYaw := math.Cos(decidegToRad(-yaw) * 0.5)
	sinYaw := math.Sin(decidegToRad(-yaw) * 0.5)

	q0 := cosRoll*cosPitch*cosYaw + sinRoll*sinPitch*sinYaw
	q1 := sinRoll*cosPitch*cosYaw - cosRoll*sinPitch*sinYaw
	q2 := cosRoll*sinPitch*cosYaw + sinRoll*cosPitch*sinYaw
	q3 := cosRoll*cosPitch*sinYaw - sinRoll*sinPitch*cosYaw

	r := FastInvSqrt(q0*q0 + q1*q1 + q2*q2 + q3*q3)
	q0 *= r
	q1 *= r
	q2 *= r
	q3 *= r

	return ProductCache{
		W: q0, X: q1, Y: q2, Z: q3,
		XY: q1 * q2, XZ: q1 * q3, YZ: q2 * q3,
		WX: q0 * q1, WY: q0 * q2, WZ: q0 * q3,
	}
}

// RemoveYaw rotates a product cache's orientation so that its yaw
// component (given in decidegrees) is factored out, preserving roll and
// pitch. The result's W, X, Y, Z and the six cross products are
// refreshed and renormalized; the squared diagonal terms are left
// stale, matching ComputeMotorOffset.
func RemoveYaw(qp ProductCache, yawDecideg float64) ProductCache {
	yaw := wrapDecidegrees(yawDecideg)
	cosYaw := math.Cos(decidegToRad(-yaw) * 0.5)
	sinYaw := math.Sin(decidegToRad(-yaw) * 0.5)

	// Roll and pitch are held at zero: this is a pure yaw-removal
	// rotation, built with the same ZYX half-angle form as FromEuler.
	const cosRoll, sinRoll = 1, 0
	const cosPitch, sinPitch = 1, 0

	q0 := cosRoll*cosPitch*cosYaw + sinRoll*sinPitch*sinYaw
	q1 := sinRoll*cosPitch*cosYaw - cosRoll*sinPitch*sinYaw
	q2 := cosRoll*sinPitch*cosYaw + sinRoll*cosPitch*sinYaw
	q3 := cosRoll*cosPitch*sinYaw - sinRoll*sinPitch*cosYaw

	r := FastInvSqrt(q0*q0 + q1*q1 + q2*q2 + q3*q3)
	q0 *= r
	q1 *= r
	q2 *= r
	q3 *= r

	a := (qp.W + qp.X) * (q0 + q1)
	b := (qp.Z - qp.Y) * (q2 - q3)
	c := (qp.W - qp.X) * (q2 + q3)
	d := (qp.Y + qp.Z) * (q0 - q1)
	e := (qp.X + qp.Z) * (q1 + q2)
	f := (qp.X - qp.Z) * (q1 - q2)
	g := (qp.W + qp.Y) * (q0 - q3)
	h := (qp.W - qp.Y) * (q0 + q3)

	w := b + (-e-f+g+h)/2.0
	x := a - (+e+f+g+h)/2.0
	y := c + (+e-f+g-h)/2.0
	z := d + (+e-f-g+h)/2.0

	rn := FastInvSqrt(w*w + x*x + y*y + z*z)
	w *= rn
	x *= rn
	y *= rn
	z *= rn

	return ProductCache{
		W: w, X: x, Y: y, Z: z,
		XY: x * y, XZ: x * z, YZ: y * z,
		WX: w * x, WY: w * y, WZ: w * z,
	}
}

// QuaternionFromRPYProducts builds the product-cache representation of
// an orientation from roll/pitch/yaw given in decidegrees, in the form
// of a GPS course-over-ground reinitialization; the engine's own GPS
// reinit calls FromEuler and does not use this function. It mirrors the
// original firmware's partial-field behavior: it
// populates the squared diagonal terms (XX, YY, ZZ) and the six cross
// products but not W, X, Y, Z or WW. Callers that need the quaternion
// components themselves must not rely on this cache for them.
func QuaternionFromRPYProducts(rollDecideg, pitchDecideg, yawDecideg float64) ProductCache {
	roll := wrapDecidegrees(rollDecideg)
	pitch := wrapDecidegrees(pitchDecideg)
	yaw := wrapDecidegrees(yawDecideg)

	cosRoll := math.Cos(decidegToRad(roll) * 0.5)
	sinRoll := math.Sin(decidegToRad(roll) * 0.5)
	cosPitch := math.Cos(decidegToRad(pitch) * 0.5)
	sinPitch := math.Sin(decidegToRad(pitch) * 0.5)
	cosYaw := math.Cos(decidegToRad(-yaw) * 0.5)
	sinYaw := math.Sin(decidegToRad(-yaw) * 0.5)

	q0 := cosRoll*cosPitch*cosYaw + sinRoll*sinPitch*sinYaw
	q1 := sinRoll*cosPitch*cosYaw - cosRoll*sinPitch*sinYaw
	q2 := cosRoll*sinPitch*cosYaw + sinRoll*cosPitch*sinYaw
	q3 := cosRoll*cosPitch*sinYaw - sinRoll*sinPitch*cosYaw

	return ProductCache{
		XX: q1 * q1, YY: q2 * q2, ZZ: q3 * q3,
		XY: q1 * q2, XZ: q1 * q3, YZ: q2 * q3,
		WX: q0 * q1, WY: q0 * q2, WZ: q0 * q3,
	}
}
