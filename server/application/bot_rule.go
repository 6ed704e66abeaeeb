package application

import (
	"math"
	"math/rand/v2"

	"flinch/server/reaction"
)

const (
	botNoiseAngle float64 = 0.52 // ±30度 (π/6 ≈ 0.52 rad)
	rushChance    float64 = 0.02 // 毎tick 2% の確率で全力突進
)

// RuleBotController はルールベースのボットAIです。
// 相手に突進してぶつかり、近づいたら攻撃します。ボットごとに異なる個性パラメータを持ちます。
type RuleBotController struct {
	CloseRange float64 // 攻撃を始める距離
	MidRange   float64 // ストレイフを始める距離
	StrafeSign float64 // +1: 反時計回り, -1: 時計回り
}

// NewRuleBotController はランダムな個性を持つボットAIを生成します。
func NewRuleBotController() *RuleBotController {
	strafeSign := 1.0
	if rand.Float64() < 0.5 {
		strafeSign = -1.0
	}
	return &RuleBotController{
		CloseRange: 90 + rand.Float64()*60,   // 90〜150
		MidRange:   300 + rand.Float64()*300, // 300〜600
		StrafeSign: strafeSign,
	}
}

func (r *RuleBotController) Decide(self *Actor, allActors []*Actor) BotAction {
	if !self.IsAlive() {
		return BotAction{}
	}

	nearest := r.findNearestEnemy(self, allActors)
	if nearest == nil {
		return BotAction{}
	}

	to := nearest.Location().Sub(self.Location())
	to.Z = 0
	dist := to.Len()
	if dist < 0.001 {
		return BotAction{}
	}
	n := to.Scale(1 / dist)

	// ランダム突進: 一定確率で距離に関係なく全力で接近
	if rand.Float64() < rushChance {
		return BotAction{MoveDirection: addNoise(n), Gait: reaction.GaitSprinting}
	}

	switch {
	case dist < r.CloseRange:
		// 近距離: 向き合って攻撃
		return BotAction{MoveDirection: n, Gait: reaction.GaitWalking, Attack: true}
	case dist < r.MidRange:
		// 中距離: 横移動（ストレイフ方向はボットごとに異なる）
		dir := reaction.Vec3{X: -n.Y * r.StrafeSign, Y: n.X * r.StrafeSign}
		return BotAction{MoveDirection: addNoise(dir), Gait: reaction.GaitRunning}
	default:
		// 遠距離: 突進
		return BotAction{MoveDirection: addNoise(n), Gait: reaction.GaitSprinting}
	}
}

// findNearestEnemy は最寄りの生存敵を探します。
func (r *RuleBotController) findNearestEnemy(self *Actor, allActors []*Actor) *Actor {
	var nearest *Actor
	nearestDistSq := math.MaxFloat64

	for _, other := range allActors {
		if other.SessionID == self.SessionID || !other.IsAlive() {
			continue
		}
		d := other.Location().Sub(self.Location())
		distSq := d.X*d.X + d.Y*d.Y
		if distSq < nearestDistSq {
			nearestDistSq = distSq
			nearest = other
		}
	}
	return nearest
}

// addNoise は移動方向に ±30度 のランダムノイズを加えます。
func addNoise(dir reaction.Vec3) reaction.Vec3 {
	noise := (rand.Float64()*2 - 1) * botNoiseAngle
	return reaction.QuatFromAxisAngle(reaction.UpVector, noise).Rotate(dir)
}
