package reaction

import "math"

// 空中時の速度しきい値
const (
	speedModerate = 175.0
	speedFast     = 350.0
	speedFaster   = 650.0
	speedTerminal = 800.0
)

// 速度ダメージの入力範囲と出力範囲
const (
	velocityDamageMinSpeed = 650.0
	velocityDamageMaxSpeed = 2000.0
	velocityDamageMax      = 100.0
)

// ClassifySpeed は空中時の速さから速度カテゴリを返す。
// NaNなどどの範囲にも入らない値は空タグを返す。
func ClassifySpeed(speed float64) Tag {
	switch {
	case speed < speedModerate:
		return VelocitySlow
	case speed >= speedModerate && speed < speedFast:
		return VelocityModerate
	case speed >= speedFast && speed < speedFaster:
		return VelocityFast
	case speed >= speedFaster && speed < speedTerminal:
		return VelocityFaster
	case speed >= speedTerminal:
		return VelocityTerminal
	default:
		return ""
	}
}

// ClassifyGait は接地時の歩行段階から速度カテゴリを返す
func ClassifyGait(gait Tag) Tag {
	if gait == GaitWalking {
		return VelocitySlow
	}
	return VelocityFast
}

// ClassifyVelocity は移動モードに応じて速度カテゴリを返す
func ClassifyVelocity(velocity Vec3, mode, gait Tag) Tag {
	if mode == ModeInAir {
		return ClassifySpeed(velocity.Len())
	}
	return ClassifyGait(gait)
}

// ShouldReceiveVelocityDamage は速さがダメージしきい値以上かを返す
func ShouldReceiveVelocityDamage(speed float64) bool {
	return speed >= velocityDamageMinSpeed
}

// VelocityDamage は速さ[650, 2000]をダメージ[0, 100]に線形変換する。範囲外はクランプ。
func VelocityDamage(speed float64) float64 {
	return mapRangeClamped(speed, velocityDamageMinSpeed, velocityDamageMaxSpeed, 0, velocityDamageMax)
}

func mapRangeClamped(v, inLo, inHi, outLo, outHi float64) float64 {
	t := clampFloat((v-inLo)/(inHi-inLo), 0, 1)
	if math.IsNaN(t) {
		t = 0
	}
	return outLo + (outHi-outLo)*t
}
