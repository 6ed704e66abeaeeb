package reaction

import "github.com/google/uuid"

// ActorID はシミュレーション内のアクターを一意に識別する
type ActorID uuid.UUID

func (id ActorID) String() string {
	return uuid.UUID(id).String()
}

func (id ActorID) IsEmpty() bool {
	return id == ActorID{}
}

// HitSide は衝突の片側の情報
type HitSide struct {
	Actor        ActorID
	Location     Vec3
	ImpactPoint  Vec3
	ImpactNormal Vec3
	Bone         string
	Mass         float64
	Velocity     Vec3
	Impulse      Vec3
	Rotation     Quat // アクターのルート姿勢
}

// HitRecord は衝突の両側(impactor/origin)をまとめた記録。
// Velocityが空の場合、受け手が自身の移動状態から分類する。
type HitRecord struct {
	Impactor   HitSide
	Origin     HitSide
	ImpactType Tag
	Velocity   Tag
	Side       Tag
	Form       Tag
}

// AttackHitRecord は攻撃によるHitRecord
type AttackHitRecord struct {
	Hit            HitRecord
	BaseDamage     float64
	Strength       Tag
	StrengthScalar float64
}
