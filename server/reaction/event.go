package reaction

import "fmt"

// Category はリアクションの種類。選択履歴とカタログはカテゴリごとに分かれる。
type Category uint8

const (
	CategoryImpact Category = iota + 1
	CategoryBump
	CategoryAttack
	CategorySyncedAttack
	CategoryFall
	CategoryGetUp
	CategoryResponse
	CategoryAnticipation
	CategoryDefensive
	CategoryCrowdNavigation
	CategoryClutchImpactPoint
	CategoryBraceForImpact
)

var categoryNames = map[Category]string{
	CategoryImpact:            "impact",
	CategoryBump:              "bump",
	CategoryAttack:            "attack",
	CategorySyncedAttack:      "synced_attack",
	CategoryFall:              "fall",
	CategoryGetUp:             "get_up",
	CategoryResponse:          "response",
	CategoryAnticipation:      "anticipation",
	CategoryDefensive:         "defensive",
	CategoryCrowdNavigation:   "crowd_navigation",
	CategoryClutchImpactPoint: "clutch_impact_point",
	CategoryBraceForImpact:    "brace_for_impact",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// IsValid は定義済みカテゴリかを返す
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory は名前からCategoryを引く
func ParseCategory(name string) (Category, bool) {
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// AttackParams は攻撃由来のリアクションに付随する値。Strengthが空なら攻撃由来ではない。
type AttackParams struct {
	BaseDamage     float64
	Strength       Tag
	StrengthScalar float64
}

// Request はリアクション開始の要求。まだ候補は選ばれていない。
type Request struct {
	Category    Category
	Character   ActorID
	Hit         HitRecord
	Attack      AttackParams
	Gait        Tag
	SyncedIndex int
}

// Start は選択済みのリアクション開始イベント。権威側で確定し全員に配信される。
// Seqは権威側がキャラクターごとに採番する。0はローカル適用のみを表す。
type Start struct {
	Category  Category
	Seq       uint32
	Character ActorID
	Hit       HitRecord
	Candidate Candidate
	State     State
}
