package application

import (
	"context"
	"log/slog"
	"math"
	"time"

	"flinch/server/domain"
	"flinch/server/reaction"
)

// ActorState はアクターの状態と種別をビットマスクで表現します。
// bit 0-3: 状態フラグ, bit 4-7: 種別フラグ
type ActorState uint8

const (
	StateAlive ActorState = 0x01
	StateDown  ActorState = 0x02
	KindPlayer ActorState = 0x00
	KindBot    ActorState = 0x10
)

const (
	ActorRadius     = 34.0
	ActorHalfHeight = 88.0
	ActorMass       = 80.0
	MaxHP           = 100.0

	// DownDuration はHPが0になってから起き上がるまでの時間
	DownDuration = 3 * time.Second

	knockbackScale = 0.5
	knockbackDecay = 8.0 // 1秒あたりの減衰率
)

// 歩行段階ごとの移動速度 (cm/s)
var gaitSpeed = map[reaction.Tag]float64{
	reaction.GaitWalking:   200,
	reaction.GaitRunning:   450,
	reaction.GaitSprinting: 700,
}

// Actor はフィールド上のキャラクターを表す構造体です。
// reaction.Movement, reaction.Mesh, reaction.Collider を実装します。
type Actor struct {
	SessionID domain.SessionID
	HP        float64
	State     ActorState

	location  reaction.Vec3
	rotation  reaction.Quat
	velocity  reaction.Vec3
	knockback reaction.Vec3

	mode   reaction.Tag
	action reaction.Tag
	gait   reaction.Tag

	locked    bool
	smoothing reaction.SmoothingMode

	clip          reaction.Clip
	clipRemaining time.Duration
	physicalMode  reaction.Tag
	physicalBone  string

	downRemaining  time.Duration
	attackCooldown time.Duration
}

// NewActor は指定位置に生存状態のアクターを生成します。
func NewActor(sessionID domain.SessionID, location reaction.Vec3, kind ActorState) *Actor {
	return &Actor{
		SessionID: sessionID,
		HP:        MaxHP,
		State:     StateAlive | kind,
		location:  location,
		rotation:  reaction.IdentityQuat,
		mode:      reaction.ModeGrounded,
		gait:      reaction.GaitRunning,
	}
}

// ID はリアクション上のキャラクターID。セッションIDと同じ値を使う。
func (a *Actor) ID() reaction.ActorID {
	return reaction.ActorID(a.SessionID)
}

// IsAlive はアクターが生存しているかを返します。
func (a *Actor) IsAlive() bool {
	return a.State&StateAlive != 0
}

// IsBot はボットかを返します。
func (a *Actor) IsBot() bool {
	return a.State&KindBot != 0
}

func (a *Actor) Location() reaction.Vec3      { return a.location }
func (a *Actor) Rotation() reaction.Quat      { return a.rotation }
func (a *Actor) Velocity() reaction.Vec3      { return a.velocity.Add(a.knockback) }
func (a *Actor) CapsuleHalfHeight() float64   { return ActorHalfHeight }
func (a *Actor) LocomotionMode() reaction.Tag { return a.mode }
func (a *Actor) DesiredGait() reaction.Tag    { return a.gait }
func (a *Actor) Mass() float64                { return ActorMass }

func (a *Actor) LocomotionAction() reaction.Tag {
	return a.action
}

func (a *Actor) SetLocomotionAction(action reaction.Tag) {
	a.action = action
}

func (a *Actor) SetMovementModeLocked(locked bool) {
	a.locked = locked
	if locked {
		a.velocity = reaction.Vec3{}
	}
}

// Locked は移動入力を受け付けない状態かを返す
func (a *Actor) Locked() bool { return a.locked }

func (a *Actor) SetNetworkSmoothing(mode reaction.SmoothingMode) {
	a.smoothing = mode
}

// FlushServerMoves はサーバー上では保留中の移動がないため何もしない
func (a *Actor) FlushServerMoves() {}

func (a *Actor) MoveUpdatedComponent(rotation reaction.Rotator, _ bool) {
	a.rotation = rotation.Quat()
}

func (a *Actor) PlayClip(clip reaction.Clip, playRate float64) {
	if playRate <= 0 {
		playRate = 1
	}
	a.clip = clip
	a.clipRemaining = time.Duration(float64(clip.Length) / playRate)
}

// IsPlayingRootMotion はキネマティック移動のみを扱うため常にfalse
func (a *Actor) IsPlayingRootMotion() bool { return false }

func (a *Actor) SetPhysicalAnimationMode(mode reaction.Tag, bone string) {
	a.physicalMode = mode
	a.physicalBone = bone
}

func (a *Actor) AddImpulseBelow(impulse reaction.Vec3, _ string) {
	impulse.Z = 0
	a.knockback = a.knockback.Add(impulse.Scale(knockbackScale))
}

// OnImpactCollision はキャラクター以外として衝突を受けた場合の反応。ノックバックだけを加える。
func (a *Actor) OnImpactCollision(ctx context.Context, hit reaction.HitRecord) {
	slog.DebugContext(ctx, "actor impact collision", "sessionID", a.SessionID, "origin", hit.Origin.Actor)
	a.AddImpulseBelow(hit.Impactor.Impulse.Scale(1000), hit.Impactor.Bone)
}

// Face は移動方向へヨーを向ける
func (a *Actor) Face(dir reaction.Vec3) {
	if dir.X == 0 && dir.Y == 0 {
		return
	}
	yaw := math.Atan2(dir.Y, dir.X) * 180 / math.Pi
	a.rotation = reaction.Rotator{Yaw: yaw}.Quat()
}

// Steer は入力方向と歩行段階から速度を決める。ロック中やダウン中は停止する。
func (a *Actor) Steer(dir reaction.Vec3, gait reaction.Tag) {
	if gait.IsValid() {
		a.gait = gait
	}
	if a.locked || !a.IsAlive() {
		a.velocity = reaction.Vec3{}
		return
	}
	dir.Z = 0
	if dir.IsZero() {
		a.velocity = reaction.Vec3{}
		return
	}
	dir = dir.Normalize()
	a.velocity = dir.Scale(gaitSpeed[a.gait])
	a.Face(dir)
}

// Advance は位置とタイマーを進める。クリップ再生が終わったらヒットリアクションを解除する。
func (a *Actor) Advance(dt time.Duration, halfExtent float64) {
	sec := dt.Seconds()
	a.location = a.location.Add(a.Velocity().Scale(sec))
	a.location.X = clampFloat(a.location.X, -halfExtent, halfExtent)
	a.location.Y = clampFloat(a.location.Y, -halfExtent, halfExtent)
	a.knockback = a.knockback.Scale(math.Exp(-knockbackDecay * sec))
	if a.knockback.Len() < 1 {
		a.knockback = reaction.Vec3{}
	}

	if a.attackCooldown > 0 {
		a.attackCooldown -= dt
	}
	if !a.TickClip(dt) && a.action == reaction.ActionHitReaction {
		a.action = reaction.ActionNone
	}
}

// TickClip はクリップの残り時間を進め、終わればヒットリアクションを解除する。
// 再生中でなければ何もせずfalseを返す。
func (a *Actor) TickClip(dt time.Duration) bool {
	if a.clipRemaining <= 0 {
		return false
	}
	a.clipRemaining -= dt
	if a.clipRemaining <= 0 && a.action == reaction.ActionHitReaction {
		a.action = reaction.ActionNone
	}
	return true
}

// ClipPlaying はクリップの残り時間があるか
func (a *Actor) ClipPlaying() bool { return a.clipRemaining > 0 }

// Damage はダメージを与え、HPが0になったらダウン状態に遷移します。ダウンした場合trueを返す。
func (a *Actor) Damage(damage float64) bool {
	if !a.IsAlive() || damage <= 0 {
		return false
	}
	a.HP -= damage
	if a.HP > 0 {
		return false
	}
	a.HP = 0
	a.State = (a.State &^ 0x0F) | StateDown // 状態フラグのみ変更、種別フラグは維持
	a.action = reaction.ActionRagdolling
	a.velocity = reaction.Vec3{}
	a.downRemaining = DownDuration
	return true
}

// TickDown はダウンタイマーを進め、起き上がったらtrueを返す
func (a *Actor) TickDown(dt time.Duration) bool {
	if a.State&StateDown == 0 {
		return false
	}
	a.downRemaining -= dt
	if a.downRemaining > 0 {
		return false
	}
	a.HP = MaxHP
	a.State = (a.State &^ 0x0F) | StateAlive
	a.action = reaction.ActionNone
	return true
}

// Snapshot はブロードキャスト用の状態を返す
func (a *Actor) Snapshot() domain.ActorSnapshot {
	return domain.ActorSnapshot{
		SessionID: a.SessionID,
		Position:  domain.NewPosition(reaction.Transform{Location: a.location, Rotation: a.rotation}),
		Velocity:  a.Velocity(),
		Mode:      a.mode,
		Action:    a.action,
		Gait:      a.gait,
	}
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
