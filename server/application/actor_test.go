package application

import (
	"testing"
	"time"

	"flinch/server/domain"
	"flinch/server/reaction"
)

func TestActor_AdvanceEndsHitReactionWhenClipFinishes(t *testing.T) {
	a := NewActor(domain.NewSessionID(), reaction.Vec3{}, KindPlayer)
	a.PlayClip(reaction.Clip{Name: "c", Length: 100 * time.Millisecond}, 2)
	a.SetLocomotionAction(reaction.ActionHitReaction)

	a.Advance(40*time.Millisecond, 1000)
	if a.LocomotionAction() != reaction.ActionHitReaction {
		t.Fatal("action cleared too early")
	}
	a.Advance(20*time.Millisecond, 1000)
	if a.LocomotionAction() != reaction.ActionNone {
		t.Errorf("action = %q, want none after clip at play rate 2", a.LocomotionAction())
	}
}

func TestActor_SteerRespectsLock(t *testing.T) {
	a := NewActor(domain.NewSessionID(), reaction.Vec3{}, KindPlayer)

	a.Steer(reaction.Vec3{X: 1}, reaction.GaitSprinting)
	if got := a.Velocity().Len(); got != gaitSpeed[reaction.GaitSprinting] {
		t.Errorf("speed = %f, want %f", got, gaitSpeed[reaction.GaitSprinting])
	}

	a.SetMovementModeLocked(true)
	a.Steer(reaction.Vec3{X: 1}, "")
	if !a.Velocity().IsZero() {
		t.Errorf("locked actor moves: %+v", a.Velocity())
	}
	if a.DesiredGait() != reaction.GaitSprinting {
		t.Errorf("gait = %q, want kept", a.DesiredGait())
	}
}

func TestActor_AdvanceClampsToField(t *testing.T) {
	a := NewActor(domain.NewSessionID(), reaction.Vec3{X: 990}, KindPlayer)
	a.Steer(reaction.Vec3{X: 1}, reaction.GaitSprinting)
	a.Advance(time.Second, 1000)
	if a.Location().X != 1000 {
		t.Errorf("X = %f, want clamped to 1000", a.Location().X)
	}
}

func TestActor_DamageAndRecover(t *testing.T) {
	a := NewActor(domain.NewSessionID(), reaction.Vec3{}, KindBot)

	if a.Damage(30) {
		t.Fatal("should not be down after 30 damage")
	}
	if a.HP != 70 {
		t.Errorf("HP = %f, want 70", a.HP)
	}
	if !a.Damage(100) {
		t.Fatal("should be down")
	}
	if a.IsAlive() || !a.IsBot() {
		t.Error("down actor should keep its kind flag and not be alive")
	}
	if a.LocomotionAction() != reaction.ActionRagdolling {
		t.Errorf("action = %q, want ragdolling", a.LocomotionAction())
	}
	if a.Damage(10) {
		t.Error("damage while down should be ignored")
	}

	if a.TickDown(DownDuration / 2) {
		t.Fatal("recovered too early")
	}
	if !a.TickDown(DownDuration / 2) {
		t.Fatal("should recover after DownDuration")
	}
	if a.HP != MaxHP || !a.IsAlive() || a.LocomotionAction() != reaction.ActionNone {
		t.Errorf("unexpected state after recovery: HP=%f action=%q", a.HP, a.LocomotionAction())
	}
}
