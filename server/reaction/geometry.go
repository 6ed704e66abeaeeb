package reaction

import "math"

// Vec3 は3次元ベクトル。Z軸が上方向。
type Vec3 struct {
	X, Y, Z float64
}

// UpVector はワールドの上方向
var UpVector = Vec3{Z: 1}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize は単位ベクトルを返す。長さが0に近い場合はゼロベクトルを返す。
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-9 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Quat は回転を表すクォータニオン
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat は無回転
var IdentityQuat = Quat{W: 1}

// QuatFromAxisAngle は単位軸axis周りにangle(rad)回転するクォータニオンを返す
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// Mul はq*rを返す。rを適用した後にqを適用する回転になる。
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Rotate はベクトルvを回転させる
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l < 1e-9 || math.IsNaN(l) {
		return IdentityQuat
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotator はクォータニオンをオイラー角(度)に変換する
func (q Quat) Rotator() Rotator {
	const singularity = 0.4999995
	test := q.Z*q.X - q.W*q.Y
	yaw := radToDeg(math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z)))

	switch {
	case test < -singularity:
		return Rotator{
			Pitch: -90,
			Yaw:   yaw,
			Roll:  NormalizeAxis(-yaw - 2*radToDeg(math.Atan2(q.X, q.W))),
		}
	case test > singularity:
		return Rotator{
			Pitch: 90,
			Yaw:   yaw,
			Roll:  NormalizeAxis(yaw - 2*radToDeg(math.Atan2(q.X, q.W))),
		}
	default:
		return Rotator{
			Pitch: radToDeg(math.Asin(2 * test)),
			Yaw:   yaw,
			Roll:  radToDeg(math.Atan2(-2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))),
		}
	}
}

// Rotator はpitch/yaw/rollを度で保持する
type Rotator struct {
	Pitch, Yaw, Roll float64
}

// Quat はRotatorをクォータニオンに変換する
func (r Rotator) Quat() Quat {
	sp, cp := math.Sincos(degToRad(r.Pitch) / 2)
	sy, cy := math.Sincos(degToRad(r.Yaw) / 2)
	sr, cr := math.Sincos(degToRad(r.Roll) / 2)
	return Quat{
		X: cr*sp*sy - sr*cp*cy,
		Y: -cr*sp*cy - sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
		W: cr*cp*cy + sr*sp*sy,
	}
}

// Transform は位置と姿勢の組
type Transform struct {
	Location Vec3
	Rotation Quat
}

// NormalizeAxis は角度(度)を(-180, 180]に正規化する
func NormalizeAxis(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if angle > 180 {
		angle -= 360
	}
	return angle
}

// ExponentialDecayAngle はcurrentからtargetへ最短方向に指数減衰で近づけた角度を返す。
// lambdaが大きいほど速く収束する。
func ExponentialDecayAngle(current, target, dt, lambda float64) float64 {
	delta := NormalizeAxis(target - current)
	return NormalizeAxis(current + delta*(1-math.Exp(-dt*lambda)))
}

const alignEpsilon = 1e-6

// AlignmentRotation はup方向をnormal方向に重ねる回転を返す。
// 平行ならidentity、反平行ならupに直交する軸周りの180度回転になる。
// どちらかがゼロベクトルならidentityを返す。
func AlignmentRotation(up, normal Vec3) Quat {
	u := up.Normalize()
	n := normal.Normalize()
	if u.IsZero() || n.IsZero() {
		return IdentityQuat
	}
	d := clampFloat(u.Dot(n), -1, 1)
	if d >= 1-alignEpsilon {
		return IdentityQuat
	}
	if d <= -1+alignEpsilon {
		return QuatFromAxisAngle(orthogonal(u), math.Pi)
	}
	axis := u.Cross(n).Normalize()
	return QuatFromAxisAngle(axis, math.Acos(d))
}

// SurfaceAlignedRotation はorientationにAlignmentRotation(up, normal)を合成した姿勢を返す
func SurfaceAlignedRotation(up, normal Vec3, orientation Quat) Quat {
	return AlignmentRotation(up, normal).Mul(orientation)
}

func orthogonal(u Vec3) Vec3 {
	pick := Vec3{X: 1}
	if math.Abs(u.X) > 0.9 {
		pick = Vec3{Y: 1}
	}
	return u.Cross(pick).Normalize()
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func radToDeg(r float64) float64 { return r * 180 / math.Pi }
func degToRad(d float64) float64 { return d * math.Pi / 180 }
