package application

import (
	"strings"
	"time"

	"flinch/server/reaction"
)

// Catalog はカテゴリごとの候補リストを持つ読み取り専用のカタログです。
type Catalog map[reaction.Category][]reaction.Candidate

func (c Catalog) Candidates(cat reaction.Category, _ reaction.Tag) []reaction.Candidate {
	return c[cat]
}

var (
	severities = []reaction.Tag{
		reaction.VelocitySlow,
		reaction.VelocityModerate,
		reaction.VelocityFast,
		reaction.VelocityFaster,
		reaction.VelocityTerminal,
	}
	strengths = []reaction.Tag{reaction.StrengthLight, reaction.StrengthMedium, reaction.StrengthHeavy}
	sides     = []reaction.Tag{reaction.SideFront, reaction.SideBack, reaction.SideLeft, reaction.SideRight}
	forms     = []reaction.Tag{reaction.FormBlunt, reaction.FormSharp}
)

// DefaultCatalog は全組み合わせにクリップを2本ずつ持つカタログを返す。
// 同じ組み合わせに複数あるので連続選択で同じクリップが続かない。
func DefaultCatalog() Catalog {
	c := Catalog{}
	for _, sev := range severities {
		for _, side := range sides {
			for _, form := range forms {
				c.add(reaction.CategoryImpact, 900*time.Millisecond, sev, side, form)
				c.add(reaction.CategoryBump, 600*time.Millisecond, sev, side, form)
			}
		}
		c.add(reaction.CategoryFall, 1500*time.Millisecond, sev)
		c.add(reaction.CategoryGetUp, 1200*time.Millisecond, sev)
		c.add(reaction.CategoryBraceForImpact, 400*time.Millisecond, sev)
	}
	for _, str := range strengths {
		for _, side := range sides {
			for _, form := range forms {
				c.add(reaction.CategoryAttack, 800*time.Millisecond, str, side, form)
			}
		}
	}
	c[reaction.CategorySyncedAttack] = []reaction.Candidate{
		{Clip: reaction.Clip{Name: "synced_takedown_front", Length: 2 * time.Second}, PlayRate: 1},
		{Clip: reaction.Clip{Name: "synced_takedown_back", Length: 2 * time.Second}, PlayRate: 1},
	}
	return c
}

// add は同じタグで末尾_a/_bのクリップを2本登録する
func (c Catalog) add(cat reaction.Category, length time.Duration, tags ...reaction.Tag) {
	name := clipName(cat, tags)
	for _, variant := range []string{"a", "b"} {
		c[cat] = append(c[cat], reaction.Candidate{
			Tags:     reaction.NewTagSet(tags...),
			Clip:     reaction.Clip{Name: name + "_" + variant, Length: length},
			PlayRate: 1,
		})
	}
}

// clipName は impact_fast_front_blunt のような名前を作る
func clipName(cat reaction.Category, tags []reaction.Tag) string {
	parts := []string{cat.String()}
	for _, t := range tags {
		parts = append(parts, leaf(t, ""))
	}
	return strings.Join(parts, "_")
}
