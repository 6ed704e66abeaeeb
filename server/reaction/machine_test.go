package reaction_test

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"flinch/server/reaction"
	"flinch/server/reaction/mocks"

	"go.uber.org/mock/gomock"
)

func startFor(name string) reaction.Start {
	c := candidate(name, reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt)
	return reaction.Start{
		Category:  reaction.CategoryImpact,
		Hit:       impactHit(reaction.VelocityFast),
		Candidate: c,
		State:     reaction.State{Clip: c.Clip, PlayRate: 1, TargetYaw: 90},
	}
}

func TestMachine_StartLocksAndAppliesEffects(t *testing.T) {
	ctx := context.Background()
	char := newFakeCharacter()
	m := reaction.NewMachine(newActorID(), char, char, nil, reaction.DefaultSettings(), true)

	if err := m.Start(ctx, startFor("a")); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if m.Phase() != reaction.PhaseActive {
		t.Errorf("phase = %v, want active", m.Phase())
	}
	if !slices.Equal(char.lockCalls, []bool{true}) {
		t.Errorf("lockCalls = %v, want [true]", char.lockCalls)
	}
	if !slices.Equal(char.smoothing, []reaction.SmoothingMode{reaction.SmoothingDisabled}) {
		t.Errorf("smoothing = %v, want [disabled]", char.smoothing)
	}
	if char.flushes != 0 {
		t.Errorf("authority should not flush moves")
	}
	if char.action != reaction.ActionHitReaction {
		t.Errorf("action = %q, want hit reaction", char.action)
	}
	if len(char.played) != 1 || char.played[0].Name != "a" {
		t.Errorf("played = %v", char.played)
	}
	want := []physicalCall{
		{mode: reaction.PhysicalAnimationHit, bone: "spine_02"},
		{mode: reaction.PhysicalAnimationNone, bone: "pelvis"},
	}
	if !slices.Equal(char.physical, want) {
		t.Errorf("physical = %v, want %v", char.physical, want)
	}
	if len(char.impulses) != 1 || !nearVec(char.impulses[0], reaction.Vec3{X: 500}) {
		t.Errorf("impulses = %v, want [{500 0 0}]", char.impulses)
	}
}

func TestMachine_ProxyFlushesMoves(t *testing.T) {
	char := newFakeCharacter()
	m := reaction.NewMachine(newActorID(), char, char, nil, reaction.DefaultSettings(), false)

	if err := m.Start(context.Background(), startFor("a")); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if char.flushes != 1 {
		t.Errorf("flushes = %d, want 1", char.flushes)
	}
	if len(char.smoothing) != 0 {
		t.Errorf("proxy should not touch smoothing: %v", char.smoothing)
	}
}

func TestMachine_OverwriteWhileActiveKeepsLock(t *testing.T) {
	ctx := context.Background()
	char := newFakeCharacter()
	m := reaction.NewMachine(newActorID(), char, char, nil, reaction.DefaultSettings(), true)

	var changes [][2]reaction.State
	m.OnStateChanged(func(prev, next reaction.State) {
		changes = append(changes, [2]reaction.State{prev, next})
	})

	if err := m.Start(ctx, startFor("a")); err != nil {
		t.Fatal(err)
	}
	if m.Tick(ctx, 1.0/60) {
		t.Fatal("should stay active")
	}
	if err := m.Start(ctx, startFor("b")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	if !slices.Equal(char.lockCalls, []bool{true}) {
		t.Errorf("lockCalls = %v, want a single lock", char.lockCalls)
	}
	if m.State().Clip.Name != "b" {
		t.Errorf("state clip = %q, want b", m.State().Clip.Name)
	}
	if len(changes) != 2 || changes[1][0].Clip.Name != "a" || changes[1][1].Clip.Name != "b" {
		t.Errorf("changes = %+v", changes)
	}
}

func TestMachine_InvalidClipWhileActiveRejected(t *testing.T) {
	ctx := context.Background()
	char := newFakeCharacter()
	m := reaction.NewMachine(newActorID(), char, char, nil, reaction.DefaultSettings(), true)
	if err := m.Start(ctx, startFor("a")); err != nil {
		t.Fatal(err)
	}

	err := m.Start(ctx, reaction.Start{Hit: impactHit(reaction.VelocityFast)})
	if !errors.Is(err, reaction.ErrInvalidCandidate) {
		t.Fatalf("err = %v, want ErrInvalidCandidate", err)
	}
	if m.State().Clip.Name != "a" || m.Phase() != reaction.PhaseActive {
		t.Errorf("state changed: %+v %v", m.State(), m.Phase())
	}
	if len(char.played) != 1 {
		t.Errorf("played = %v", char.played)
	}
}

func TestMachine_NonInterruptibleActionDisallowsStart(t *testing.T) {
	char := newFakeCharacter()
	char.action = reaction.ActionMantling
	m := reaction.NewMachine(newActorID(), char, char, nil, reaction.DefaultSettings(), true)

	err := m.Start(context.Background(), startFor("a"))
	if !errors.Is(err, reaction.ErrDisallowedStart) {
		t.Fatalf("err = %v, want ErrDisallowedStart", err)
	}
	if m.Phase() != reaction.PhaseIdle || len(char.lockCalls) != 0 || len(char.played) != 0 {
		t.Errorf("mutated on disallowed start: phase=%v locks=%v played=%v", m.Phase(), char.lockCalls, char.played)
	}
	if m.State() != (reaction.State{}) {
		t.Errorf("state = %+v, want zero", m.State())
	}
}

func TestMachine_TickStopsWhenActionChanges(t *testing.T) {
	ctx := context.Background()
	char := newFakeCharacter()
	m := reaction.NewMachine(newActorID(), char, char, nil, reaction.DefaultSettings(), true)
	ended := 0
	m.OnEnded(func(context.Context) { ended++ })

	if err := m.Start(ctx, startFor("a")); err != nil {
		t.Fatal(err)
	}
	char.action = reaction.ActionNone

	if !m.Tick(ctx, 1.0/60) {
		t.Fatal("Tick should report stop")
	}
	if m.Phase() != reaction.PhaseIdle {
		t.Errorf("phase = %v, want idle", m.Phase())
	}
	if !slices.Equal(char.lockCalls, []bool{true, false}) {
		t.Errorf("lockCalls = %v", char.lockCalls)
	}
	if char.smoothing[len(char.smoothing)-1] != reaction.SmoothingExponential {
		t.Errorf("smoothing not restored: %v", char.smoothing)
	}
	if ended != 1 {
		t.Errorf("ended = %d, want 1", ended)
	}
	if m.Tick(ctx, 1.0/60) {
		t.Error("idle Tick should be a no-op")
	}
}

func TestMachine_TickDecaysYawKeepingPitchRoll(t *testing.T) {
	ctx := context.Background()
	char := newFakeCharacter()
	m := reaction.NewMachine(newActorID(), char, char, nil, reaction.DefaultSettings(), true)
	if err := m.Start(ctx, startFor("a")); err != nil {
		t.Fatal(err)
	}

	m.Tick(ctx, 1.0/60)
	if len(char.moves) != 1 {
		t.Fatalf("moves = %v", char.moves)
	}
	got := char.moves[0]
	if got.Yaw <= 0 || got.Yaw >= 90 {
		t.Errorf("yaw = %v, want between 0 and 90", got.Yaw)
	}
	if math.Abs(got.Pitch) > eps || math.Abs(got.Roll) > eps {
		t.Errorf("pitch/roll changed: %+v", got)
	}
	if char.teleports[0] {
		t.Error("interpolated move should not teleport")
	}
}

func TestMachine_TickSnapsYawWithoutInterpolation(t *testing.T) {
	ctx := context.Background()
	char := newFakeCharacter()
	settings := reaction.DefaultSettings()
	settings.RotationInterpolationSpeed = 0
	m := reaction.NewMachine(newActorID(), char, char, nil, settings, true)
	if err := m.Start(ctx, startFor("a")); err != nil {
		t.Fatal(err)
	}

	m.Tick(ctx, 1.0/60)
	if len(char.moves) != 1 || math.Abs(char.moves[0].Yaw-90) > eps || !char.teleports[0] {
		t.Fatalf("moves = %v teleports = %v", char.moves, char.teleports)
	}
}

func TestMachine_EffectsOnlyWhenValid(t *testing.T) {
	ctrl := gomock.NewController(t)
	effects := mocks.NewMockEffectPlayer(ctrl)
	char := newFakeCharacter()
	m := reaction.NewMachine(newActorID(), char, char, effects, reaction.DefaultSettings(), true)

	st := startFor("a")
	st.Candidate.Audio = "sfx/impact"
	effects.EXPECT().PlaySound(gomock.Any(), reaction.AudioHandle("sfx/impact"), gomock.Any()).
		Do(func(_ context.Context, _ reaction.AudioHandle, at reaction.Transform) {
			if !nearVec(at.Location, st.Hit.Impactor.ImpactPoint) {
				t.Errorf("effect location = %+v", at.Location)
			}
		})

	if err := m.Start(context.Background(), st); err != nil {
		t.Fatal(err)
	}
}
