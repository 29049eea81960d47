// Package motor implements the per-motor tilt-rotor quaternion
// pipeline used by the Lynch control mode. It runs in float32 to
// match microcontroller-native single precision, using
// github.com/chewxy/math32 for its trig and square-root primitives
// rather than silently upconverting to float64 the way the core ahrs
// package does.
package motor

import "github.com/chewxy/math32"

// Quaternion is a (w, x, y, z) rotation in float32.
type Quaternion struct {
	W, X, Y, Z float32
}

// Identity32 is the no-rotation quaternion.
var Identity32 = Quaternion{W: 1}

// ProductCache holds the ten pairwise products of a quaternion's
// components plus a copy of the source components, mirroring
// ahrs.ProductCache at float32 precision.
type ProductCache struct {
	W, X, Y, Z     float32
	WW, WX, WY, WZ float32
	XX, XY, XZ     float32
	YY, YZ         float32
	ZZ             float32
}

func invSqrt(x float32) float32 {
	return 1 / math32.Sqrt(x)
}

// Normalized returns q scaled to unit norm.
func (q Quaternion) Normalized() Quaternion {
	r := invSqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	return Quaternion{W: q.W * r, X: q.X * r, Y: q.Y * r, Z: q.Z * r}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Mul computes the Hamilton product q1*q2 with the same reduced
// 8-multiply grouping as ahrs.Mul, then normalizes.
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

// FromEuler builds a unit quaternion from roll/pitch/yaw given in
// decidegrees, with the same wrap-and-negate-yaw convention as
// ahrs.FromEuler, at float32 precision.
func FromEuler(rollDecideg, pitchDecideg, yawDecideg float32) Quaternion {
	roll := wrapDecidegrees(rollDecideg)
	pitch := wrapDecidegrees(pitchDecideg)
	yaw := wrapDecidegrees(yawDecideg)

	cosRoll := math32.Cos(decidegToRad(roll) * 0.5)
	sinRoll := math32.Sin(decidegToRad(roll) * 0.5)
	cosPitch := math32.Cos(decidegToRad(pitch) * 0.5)
	sinPitch := math32.Sin(decidegToRad(pitch) * 0.5)
	cosYaw := math32.Cos(decidegToRad(-yaw) * 0.5)
	sinYaw := math32.Sin(decidegToRad(-yaw) * 0.5)

	q := Quaternion{
		W: cosRoll*cosPitch*cosYaw + sinRoll*sinPitch*sinYaw,
		X: sinRoll*cosPitch*cosYaw - cosRoll*sinPitch*sinYaw,
		Y: cosRoll*sinPitch*cosYaw + sinRoll*cosPitch*sinYaw,
		Z: cosRoll*cosPitch*sinYaw - sinRoll*sinPitch*cosYaw,
	}
	return q.Normalized()
}

func wrapDecidegrees(v float32) float32 {
	if v > 1800 {
		return v - 3600
	}
	return v
}

func decidegToRad(d float32) float32 {
	return d * math32.Pi / 1800.0
}

// FromQuaternion64 narrows a float64 (w,x,y,z) tuple down to the
// motor package's float32 quaternion, the boundary crossing at which
// the engine's double-precision orientation estimate hands off to the
// per-motor float32 pipeline.
func FromQuaternion64(w, x, y, z float64) Quaternion {
	return Quaternion{W: float32(w), X: float32(x), Y: float32(y), Z: float32(z)}
}
