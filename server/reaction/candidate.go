package reaction

import "time"

// Clip は再生可能なアニメーションクリップへの参照。Nameが空なら無効。
type Clip struct {
	Name   string
	Length time.Duration
}

func (c Clip) IsValid() bool {
	return c.Name != ""
}

// AudioHandle はサウンドアセットへの参照
type AudioHandle string

func (h AudioHandle) IsValid() bool { return h != "" }

// ParticleHandle はパーティクルアセットへの参照
type ParticleHandle string

func (h ParticleHandle) IsValid() bool { return h != "" }

// Candidate はリアクション候補。タグ集合とクリップ、任意のエフェクトを持つ。
type Candidate struct {
	Tags     TagSet
	Clip     Clip
	PlayRate float64
	Audio    AudioHandle
	Particle ParticleHandle
}

// IsValid はクリップが有効かを返す
func (c Candidate) IsValid() bool {
	return c.Clip.IsValid()
}

// Same は選択履歴上で同一の候補かを返す。クリップ名で比較する。
func (c Candidate) Same(o Candidate) bool {
	return c.Clip.Name == o.Clip.Name
}

// Query は候補を絞り込む3つ組のタグ
type Query struct {
	Severity Tag // 速度カテゴリまたは攻撃強度
	Side     Tag
	Form     Tag
}

// Tags はクエリを集合として返す
func (q Query) Tags() TagSet {
	return NewTagSet(q.Severity, q.Side, q.Form)
}

// Filter はpoolのうちクエリの全タグを持つ候補を順序を保って返す。
// poolが空、または一致する候補がなければErrInvalidCandidateを返す。
func Filter(pool []Candidate, q Query) ([]Candidate, error) {
	if len(pool) == 0 {
		return nil, ErrInvalidCandidate
	}
	query := q.Tags()
	matches := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Tags.HasAll(query) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return nil, ErrInvalidCandidate
	}
	return matches, nil
}
