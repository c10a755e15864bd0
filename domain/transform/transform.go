package transform

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/num/quat"
)

// normTolerance is the allowed deviation of a squared quaternion norm from 1.
const normTolerance = 2.220446049250313e-16 // DBL_EPSILON

// gimbalTolerance bounds how close |sin(pitch)| may get to 1 before the
// decomposition switches to the gimbal-lock branch.
const gimbalTolerance = 1e-12

// Vector3 is a translation in meters.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Quaternion is a rotation stored as (x, y, z, w).
type Quaternion struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
	W float64 `json:"w" yaml:"w"`
}

// Identity is the zero rotation.
var Identity = Quaternion{W: 1}

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromNumber(n quat.Number) Quaternion {
	return Quaternion{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}

// Length2 returns the squared norm.
func (q Quaternion) Length2() float64 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
}

// IsZero reports whether q has zero length and cannot be normalized.
func (q Quaternion) IsZero() bool {
	return q.Length2() == 0
}

// IsNormalized reports whether the squared norm is within DBL_EPSILON of 1.
func (q Quaternion) IsNormalized() bool {
	l2 := q.Length2()
	return l2 <= 1+normTolerance && l2 >= 1-normTolerance
}

// Normalized returns q scaled to unit length. A zero quaternion is returned unchanged.
func (q Quaternion) Normalized() Quaternion {
	if q.IsZero() {
		return q
	}
	n := q.number()
	return fromNumber(quat.Scale(1/quat.Abs(n), n))
}

// Mul returns the Hamilton product q*r.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return fromNumber(quat.Mul(q.number(), r.number()))
}

// String implements fmt.Stringer.
func (q Quaternion) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", q.X, q.Y, q.Z, q.W)
}

// QuaternionFromRPY composes roll about X, pitch about Y and yaw about Z
// (radians) into q = qz(yaw) * qy(pitch) * qx(roll).
func QuaternionFromRPY(roll, pitch, yaw float64) Quaternion {
	qx := quat.Number{Real: math.Cos(roll / 2), Imag: math.Sin(roll / 2)}
	qy := quat.Number{Real: math.Cos(pitch / 2), Jmag: math.Sin(pitch / 2)}
	qz := quat.Number{Real: math.Cos(yaw / 2), Kmag: math.Sin(yaw / 2)}
	return fromNumber(quat.Mul(quat.Mul(qz, qy), qx))
}

// RPY decomposes q into roll, pitch and yaw in radians. Pitch is in
// [-pi/2, pi/2]; roll and yaw are in (-pi, pi]. At gimbal lock yaw is
// reported as 0 and the whole rotation about the locked axis goes into roll.
func (q Quaternion) RPY() (roll, pitch, yaw float64) {
	d := q.Length2()
	if d == 0 {
		return 0, 0, 0
	}
	s := 2 / d
	xs, ys, zs := q.X*s, q.Y*s, q.Z*s
	wx, wy, wz := q.W*xs, q.W*ys, q.W*zs
	xx, xy, xz := q.X*xs, q.X*ys, q.X*zs
	yy, yz, zz := q.Y*ys, q.Y*zs, q.Z*zs

	m00 := 1 - (yy + zz)
	m10 := xy + wz
	m11 := 1 - (xx + zz)
	m12 := yz - wx
	m20 := xz - wy
	m21 := yz + wx
	m22 := 1 - (xx + yy)

	if math.Abs(m20) >= 1-gimbalTolerance {
		roll = math.Atan2(-m12, m11)
		if m20 < 0 {
			return roll, math.Pi / 2, 0
		}
		return roll, -math.Pi / 2, 0
	}
	pitch = -math.Asin(m20)
	roll = math.Atan2(m21, m22)
	yaw = math.Atan2(m10, m00)
	return roll, pitch, yaw
}

// Transform is a stamped rigid-body pose of ChildFrameID relative to FrameID.
type Transform struct {
	Translation  Vector3    `json:"translation"`
	Rotation     Quaternion `json:"rotation"`
	Stamp        time.Time  `json:"stamp"`
	FrameID      string     `json:"frame_id"`
	ChildFrameID string     `json:"child_frame_id"`
}

// NewTransformFromEuler builds a transform from a translation and yaw, pitch,
// roll in radians, the argument order of the command line.
func NewTransformFromEuler(x, y, z, yaw, pitch, roll float64, stamp time.Time, frameID, childFrameID string) Transform {
	return Transform{
		Translation:  Vector3{X: x, Y: y, Z: z},
		Rotation:     QuaternionFromRPY(roll, pitch, yaw),
		Stamp:        stamp,
		FrameID:      frameID,
		ChildFrameID: childFrameID,
	}
}

// NewTransformFromQuaternion builds a transform from a translation and a rotation quaternion.
func NewTransformFromQuaternion(x, y, z, qx, qy, qz, qw float64, stamp time.Time, frameID, childFrameID string) Transform {
	return Transform{
		Translation:  Vector3{X: x, Y: y, Z: z},
		Rotation:     Quaternion{X: qx, Y: qy, Z: qz, W: qw},
		Stamp:        stamp,
		FrameID:      frameID,
		ChildFrameID: childFrameID,
	}
}

// Euler returns the rotation as roll, pitch and yaw in radians.
func (t Transform) Euler() EulerAngles {
	r, p, y := t.Rotation.RPY()
	return EulerAngles{Roll: r, Pitch: p, Yaw: y}
}
