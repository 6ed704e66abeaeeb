package reaction

import "slices"

// Settings はリアクションの調整値
type Settings struct {
	CharacterBumpMinimumVelocity     float64
	ObstacleBumpMinimumVelocity      float64
	BumpDetectionRadius              float64
	MaxBumpDetectionDistance         float64
	MaxSlideToCoverDetectionDistance float64
	BumpObjectTypes                  []ObjectType

	// 0以下なら目標ヨーへ即座に合わせる
	RotationInterpolationSpeed float64
	RotationOffset             float64

	NonInterruptibleActions []Tag
	LatencyHiding           LatencyHidingPolicy

	Debug bool
}

// DefaultSettings は既定の調整値を返す
func DefaultSettings() Settings {
	return Settings{
		CharacterBumpMinimumVelocity:     100,
		ObstacleBumpMinimumVelocity:      200,
		BumpDetectionRadius:              30,
		MaxBumpDetectionDistance:         0.1,
		MaxSlideToCoverDetectionDistance: 0.2,
		BumpObjectTypes:                  []ObjectType{ObjectPawn, ObjectWorldDynamic, ObjectPhysicsBody},
		RotationInterpolationSpeed:       10,
		NonInterruptibleActions:          []Tag{ActionMantling, ActionRagdolling},
		LatencyHiding:                    NewLatencyHidingPolicy(CategoryAttack, CategorySyncedAttack),
	}
}

// Interruptible は移動アクションがリアクションで中断可能かを返す
func (s Settings) Interruptible(action Tag) bool {
	return !slices.Contains(s.NonInterruptibleActions, action)
}

// minimumTraceVelocity は障害物検出を始める速さ
func (s Settings) minimumTraceVelocity() float64 {
	return min(s.CharacterBumpMinimumVelocity, s.ObstacleBumpMinimumVelocity)
}

// LatencyHidingPolicy はSimulatedProxyがサーバー往復を待たずにローカル適用するカテゴリの集合
type LatencyHidingPolicy map[Category]bool

func NewLatencyHidingPolicy(cats ...Category) LatencyHidingPolicy {
	p := make(LatencyHidingPolicy, len(cats))
	for _, c := range cats {
		p[c] = true
	}
	return p
}

func (p LatencyHidingPolicy) Enabled(cat Category) bool {
	return p[cat]
}
