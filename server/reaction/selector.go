package reaction

import "math/rand/v2"

// SelectionHistory はカテゴリごとの直前の選択クリップ名
type SelectionHistory map[Category]string

// Selector は直前と同じ候補を避けながらリアクションを選ぶ。
// キャラクターごとに1つ保持し、複数のgoroutineから同時に呼ばないこと。
type Selector struct {
	rng     *rand.Rand
	history SelectionHistory
}

// NewSelector はSelectorを生成する。rngがnilなら時刻シードの乱数を使う。
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{
		rng:     rng,
		history: make(SelectionHistory),
	}
}

// Last はカテゴリの直前の選択を返す
func (s *Selector) Last(cat Category) (string, bool) {
	name, ok := s.history[cat]
	return name, ok
}

// Select はPickで選んだ候補をそのまま履歴に記録する
func (s *Selector) Select(cat Category, pool []Candidate, q Query) (Candidate, error) {
	c, err := s.Pick(cat, pool, q)
	if err != nil {
		return Candidate{}, err
	}
	s.Commit(cat, c)
	return c, nil
}

// Pick はpoolからqに一致する候補を1つ選ぶ。履歴は変えない。
//
//  1. poolが空、または先頭が無効ならErrInvalidCandidate
//  2. 一致なし、または一致の先頭が無効ならErrInvalidCandidate
//  3. 一致が1件ならそれを返す
//  4. 複数なら直前の選択を1件だけ除き、シャッフルして一様に選ぶ
func (s *Selector) Pick(cat Category, pool []Candidate, q Query) (Candidate, error) {
	if err := checkPool(pool); err != nil {
		return Candidate{}, err
	}
	matches, err := Filter(pool, q)
	if err != nil {
		return Candidate{}, err
	}
	if !matches[0].IsValid() {
		return Candidate{}, ErrInvalidCandidate
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	if last, ok := s.history[cat]; ok {
		for i, c := range matches {
			if c.Clip.Name == last {
				matches = append(matches[:i], matches[i+1:]...)
				break
			}
		}
	}
	s.rng.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})
	return matches[s.rng.IntN(len(matches))], nil
}

// Commit は開始が確定した候補を履歴に記録する
func (s *Selector) Commit(cat Category, c Candidate) {
	if !c.IsValid() {
		return
	}
	s.history[cat] = c.Clip.Name
}

// checkPool はカタログ全体が使えない状態を弾く
func checkPool(pool []Candidate) error {
	if len(pool) == 0 || !pool[0].IsValid() {
		return ErrInvalidCandidate
	}
	return nil
}
