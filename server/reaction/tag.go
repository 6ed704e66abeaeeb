package reaction

import "strings"

// Tag は "Impact.Velocity.Fast" のようにドットで区切られた階層ラベルです。
type Tag string

// IsValid は空でないタグかを返す
func (t Tag) IsValid() bool {
	return t != ""
}

// Matches はtがqueryと一致するか、queryの子孫タグであるかを返す
//
//	Tag("Impact.Side.Left").Matches("Impact.Side") == true
func (t Tag) Matches(query Tag) bool {
	if !query.IsValid() {
		return false
	}
	if t == query {
		return true
	}
	return strings.HasPrefix(string(t), string(query)+".")
}

func (t Tag) String() string {
	return string(t)
}

// 衝突速度カテゴリ
const (
	VelocitySlow     Tag = "Impact.Velocity.Slow"
	VelocityModerate Tag = "Impact.Velocity.Moderate"
	VelocityFast     Tag = "Impact.Velocity.Fast"
	VelocityFaster   Tag = "Impact.Velocity.Faster"
	VelocityTerminal Tag = "Impact.Velocity.TerminalVelocity"
)

// 攻撃強度
const (
	StrengthLight  Tag = "Action.Strength.Light"
	StrengthMedium Tag = "Action.Strength.Medium"
	StrengthHeavy  Tag = "Action.Strength.Heavy"
)

// 衝突面
const (
	SideFront Tag = "Impact.Side.Front"
	SideBack  Tag = "Impact.Side.Back"
	SideLeft  Tag = "Impact.Side.Left"
	SideRight Tag = "Impact.Side.Right"
)

// 衝突形状
const (
	FormBlunt Tag = "Impact.Form.Blunt"
	FormSharp Tag = "Impact.Form.Sharp"
)

// 移動モード
const (
	ModeGrounded Tag = "Locomotion.Mode.Grounded"
	ModeInAir    Tag = "Locomotion.Mode.InAir"
)

// 歩行速度段階
const (
	GaitWalking   Tag = "Gait.Walking"
	GaitRunning   Tag = "Gait.Running"
	GaitSprinting Tag = "Gait.Sprinting"
)

// 移動アクション。空文字列はアクションなし。
const (
	ActionNone        Tag = ""
	ActionHitReaction Tag = "Locomotion.Action.HitReaction"
	ActionSliding     Tag = "Locomotion.Action.Sliding"
	ActionMantling    Tag = "Locomotion.Action.Mantling"
	ActionRolling     Tag = "Locomotion.Action.Rolling"
	ActionRagdolling  Tag = "Locomotion.Action.Ragdolling"
	ActionGettingUp   Tag = "Locomotion.Action.GettingUp"
)

// 物理アニメーションモード
const (
	PhysicalAnimationNone Tag = ""
	PhysicalAnimationHit  Tag = "PhysicalAnimation.Hit"
)

// TagSet は順序を持たないタグの集合です。
type TagSet []Tag

// NewTagSet は空タグを除いたTagSetを生成する
func NewTagSet(tags ...Tag) TagSet {
	set := make(TagSet, 0, len(tags))
	for _, t := range tags {
		if t.IsValid() {
			set = append(set, t)
		}
	}
	return set
}

// Has はsetがqueryに一致するタグ、またはその子孫タグを含むかを返す
func (s TagSet) Has(query Tag) bool {
	for _, t := range s {
		if t.Matches(query) {
			return true
		}
	}
	return false
}

// HasAll はquery内のすべてのタグをsetが満たすかを返す。queryが空なら常にtrue。
func (s TagSet) HasAll(query TagSet) bool {
	for _, q := range query {
		if !s.Has(q) {
			return false
		}
	}
	return true
}
