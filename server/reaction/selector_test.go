package reaction_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"flinch/server/reaction"

	"pgregory.net/rapid"
)

var fastRightBlunt = reaction.Query{
	Severity: reaction.VelocityFast,
	Side:     reaction.SideRight,
	Form:     reaction.FormBlunt,
}

func TestSelector_InvalidFirstEntry(t *testing.T) {
	s := reaction.NewSelector(seededRand())
	pool := []reaction.Candidate{
		{Tags: reaction.NewTagSet(reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt)},
		candidate("a", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
	}
	_, err := s.Select(reaction.CategoryImpact, pool, fastRightBlunt)
	if !errors.Is(err, reaction.ErrInvalidCandidate) {
		t.Fatalf("err = %v, want ErrInvalidCandidate", err)
	}
	if _, ok := s.Last(reaction.CategoryImpact); ok {
		t.Error("history should stay empty")
	}
}

func TestSelector_PickLeavesHistoryUntilCommit(t *testing.T) {
	s := reaction.NewSelector(seededRand())
	pool := []reaction.Candidate{
		candidate("a", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
		candidate("b", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
	}
	picked, err := s.Pick(reaction.CategoryImpact, pool, fastRightBlunt)
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if _, ok := s.Last(reaction.CategoryImpact); ok {
		t.Fatal("Pick must not record history")
	}

	s.Commit(reaction.CategoryImpact, picked)
	if last, _ := s.Last(reaction.CategoryImpact); last != picked.Clip.Name {
		t.Fatalf("last = %q, want %q", last, picked.Clip.Name)
	}
	next, err := s.Pick(reaction.CategoryImpact, pool, fastRightBlunt)
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if next.Same(picked) {
		t.Errorf("picked %q twice in a row", next.Clip.Name)
	}

	s.Commit(reaction.CategoryImpact, reaction.Candidate{})
	if last, _ := s.Last(reaction.CategoryImpact); last != picked.Clip.Name {
		t.Errorf("invalid commit overwrote history with %q", last)
	}
}

func TestSelector_InvalidFirstMatch(t *testing.T) {
	s := reaction.NewSelector(seededRand())
	pool := []reaction.Candidate{
		candidate("other", reaction.VelocitySlow),
		{Tags: reaction.NewTagSet(reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt)},
		candidate("a", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
	}
	_, err := s.Select(reaction.CategoryImpact, pool, fastRightBlunt)
	if !errors.Is(err, reaction.ErrInvalidCandidate) {
		t.Fatalf("err = %v, want ErrInvalidCandidate", err)
	}
}

func TestSelector_SingleMatchRepeats(t *testing.T) {
	s := reaction.NewSelector(seededRand())
	pool := []reaction.Candidate{
		candidate("only", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
		candidate("slow", reaction.VelocitySlow, reaction.SideRight, reaction.FormBlunt),
	}
	for range 3 {
		got, err := s.Select(reaction.CategoryImpact, pool, fastRightBlunt)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if got.Clip.Name != "only" {
			t.Fatalf("got %s, want only", got.Clip.Name)
		}
	}
	if last, _ := s.Last(reaction.CategoryImpact); last != "only" {
		t.Errorf("last = %q, want only", last)
	}
}

func TestSelector_HistoryPerCategory(t *testing.T) {
	s := reaction.NewSelector(seededRand())
	impact := []reaction.Candidate{candidate("impact", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt)}
	attack := []reaction.Candidate{candidate("attack", reaction.StrengthHeavy, reaction.SideRight, reaction.FormBlunt)}

	if _, err := s.Select(reaction.CategoryImpact, impact, fastRightBlunt); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select(reaction.CategoryAttack, attack, reaction.Query{Severity: reaction.StrengthHeavy, Side: reaction.SideRight, Form: reaction.FormBlunt}); err != nil {
		t.Fatal(err)
	}
	if last, _ := s.Last(reaction.CategoryImpact); last != "impact" {
		t.Errorf("impact last = %q", last)
	}
	if last, _ := s.Last(reaction.CategoryAttack); last != "attack" {
		t.Errorf("attack last = %q", last)
	}
}

// 2件以上一致する場合、直前と同じ候補は選ばれない
func TestSelector_NeverRepeatsWhenAlternativeExists(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		matching := rapid.IntRange(2, 8).Draw(t, "matching")
		others := rapid.IntRange(0, 4).Draw(t, "others")
		var pool []reaction.Candidate
		for i := range matching {
			pool = append(pool, candidate(fmt.Sprintf("match-%d", i), reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt))
		}
		for i := range others {
			pool = append(pool, candidate(fmt.Sprintf("other-%d", i), reaction.VelocitySlow, reaction.SideLeft, reaction.FormSharp))
		}
		seed := rapid.Uint64().Draw(t, "seed")
		s := reaction.NewSelector(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

		prev, err := s.Select(reaction.CategoryImpact, pool, fastRightBlunt)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		rounds := rapid.IntRange(1, 20).Draw(t, "rounds")
		for range rounds {
			next, err := s.Select(reaction.CategoryImpact, pool, fastRightBlunt)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if next.Clip.Name == prev.Clip.Name {
				t.Fatalf("repeated %s", next.Clip.Name)
			}
			if !next.Tags.HasAll(fastRightBlunt.Tags()) {
				t.Fatalf("picked non-matching %s", next.Clip.Name)
			}
			prev = next
		}
	})
}

func TestSelector_DoesNotMutatePool(t *testing.T) {
	s := reaction.NewSelector(seededRand())
	pool := []reaction.Candidate{
		candidate("a", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
		candidate("b", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
		candidate("c", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
	}
	for range 10 {
		if _, err := s.Select(reaction.CategoryImpact, pool, fastRightBlunt); err != nil {
			t.Fatal(err)
		}
	}
	for i, want := range []string{"a", "b", "c"} {
		if pool[i].Clip.Name != want {
			t.Fatalf("pool[%d] = %s, want %s", i, pool[i].Clip.Name, want)
		}
	}
}
