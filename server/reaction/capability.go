package reaction

import "context"

//go:generate go tool mockgen -destination=./mocks/capability_mock.go -package=mocks . Movement,Mesh,EffectPlayer,Sweeper,Capabilities,Collider,BumpReceiver,Replicator

// SmoothingMode は移動のネットワーク補間モード
type SmoothingMode uint8

const (
	SmoothingExponential SmoothingMode = iota
	SmoothingDisabled
)

// Movement はキャラクターの移動コンポーネントが提供する操作です。
type Movement interface {
	Location() Vec3
	Rotation() Quat
	Velocity() Vec3
	CapsuleHalfHeight() float64
	LocomotionMode() Tag
	LocomotionAction() Tag
	SetLocomotionAction(action Tag)
	DesiredGait() Tag
	SetMovementModeLocked(locked bool)
	SetNetworkSmoothing(mode SmoothingMode)
	FlushServerMoves()
	// MoveUpdatedComponent は位置を変えずに姿勢だけを更新する
	MoveUpdatedComponent(rotation Rotator, teleport bool)
}

// Mesh はアニメーション再生と物理アニメーションの操作です。
type Mesh interface {
	PlayClip(clip Clip, playRate float64)
	IsPlayingRootMotion() bool
	SetPhysicalAnimationMode(mode Tag, bone string)
	AddImpulseBelow(impulse Vec3, bone string)
}

// EffectPlayer は音とパーティクルを指定のトランスフォームで再生します。
type EffectPlayer interface {
	PlaySound(ctx context.Context, audio AudioHandle, at Transform)
	SpawnParticle(ctx context.Context, particle ParticleHandle, at Transform)
}

// ObjectType はスイープ対象の衝突チャネル
type ObjectType uint8

const (
	ObjectPawn ObjectType = iota + 1
	ObjectWorldStatic
	ObjectWorldDynamic
	ObjectPhysicsBody
)

// SweepQuery はカプセルスイープの条件
type SweepQuery struct {
	Start       Vec3
	End         Vec3
	Radius      float64
	HalfHeight  float64
	ObjectTypes []ObjectType
	Ignore      []ActorID
}

// SweepHit はスイープの1ヒット
type SweepHit struct {
	Actor        ActorID
	Location     Vec3
	ImpactPoint  Vec3
	ImpactNormal Vec3
	Bone         string
	Distance     float64
	Rotation     Quat
}

// Sweeper は物理エンジンのカプセルスイープ。SweepMultiはスイープ順でヒットを返す。
type Sweeper interface {
	SweepMulti(ctx context.Context, q SweepQuery) []SweepHit
	SweepSingle(ctx context.Context, q SweepQuery) (SweepHit, bool)
}

// Collider は衝突に反応できるアクター
type Collider interface {
	Mass() float64
	Velocity() Vec3
	OnImpactCollision(ctx context.Context, hit HitRecord)
}

// BumpReceiver はぶつかりリアクションを受け取れるキャラクター
type BumpReceiver interface {
	BumpReaction(ctx context.Context, hit HitRecord, gait, side, form Tag)
}

// CapabilityKind はアクターが持つ反応能力の種類
type CapabilityKind uint8

const (
	CapabilityNone CapabilityKind = iota
	CapabilityCollisionReactive
	CapabilityCharacterReactive
)

func (k CapabilityKind) String() string {
	switch k {
	case CapabilityCollisionReactive:
		return "collision_reactive"
	case CapabilityCharacterReactive:
		return "character_reactive"
	default:
		return "none"
	}
}

// Capability は解決済みの反応能力。Kindに応じてColliderとBumpが設定される。
type Capability struct {
	Kind     CapabilityKind
	Collider Collider
	Bump     BumpReceiver
}

// Dispatch はKindに応じた通知を送る。何も送らなかった場合はfalseを返す。
func (c Capability) Dispatch(ctx context.Context, hit HitRecord, gait, side, form Tag) bool {
	switch c.Kind {
	case CapabilityCharacterReactive:
		if c.Bump != nil {
			c.Bump.BumpReaction(ctx, hit, gait, side, form)
			return true
		}
		if c.Collider != nil {
			c.Collider.OnImpactCollision(ctx, hit)
			return true
		}
	case CapabilityCollisionReactive:
		if c.Collider != nil {
			c.Collider.OnImpactCollision(ctx, hit)
			return true
		}
	}
	return false
}

// Capabilities はアクターIDから反応能力を解決する
type Capabilities interface {
	Resolve(actor ActorID) Capability
}

// Catalog は読み取り専用のリアクション候補集。locationは現状未使用で空文字列を渡す。
type Catalog interface {
	Candidates(cat Category, location Tag) []Candidate
}

// EffectResolver は候補に音やパーティクルがない場合に衝突から補う
type EffectResolver interface {
	Audio(hit HitRecord) AudioHandle
	Particle(hit HitRecord) ParticleHandle
}

// Replicator はリアクションイベントのネットワーク送信を担う。
// 送信は呼び出し側をブロックせず、チャネルごとに順序通り届くこと。
type Replicator interface {
	ServerCall(ctx context.Context, req Request) error
	Multicast(ctx context.Context, start Start) error
	ForceNetUpdate(ctx context.Context, character ActorID)
}
