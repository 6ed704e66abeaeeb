package reaction_test

import (
	"context"
	"math/rand/v2"
	"time"

	"flinch/server/reaction"

	"github.com/google/uuid"
)

type physicalCall struct {
	mode reaction.Tag
	bone string
}

// fakeCharacter はMovementとMeshを記録付きで実装する
type fakeCharacter struct {
	location   reaction.Vec3
	velocity   reaction.Vec3
	rotation   reaction.Quat
	halfHeight float64
	mode       reaction.Tag
	action     reaction.Tag
	gait       reaction.Tag
	rootMotion bool

	lockCalls []bool
	smoothing []reaction.SmoothingMode
	flushes   int
	played    []reaction.Clip
	physical  []physicalCall
	impulses  []reaction.Vec3
	moves     []reaction.Rotator
	teleports []bool
}

func newFakeCharacter() *fakeCharacter {
	return &fakeCharacter{
		rotation:   reaction.IdentityQuat,
		halfHeight: 90,
		mode:       reaction.ModeGrounded,
		gait:       reaction.GaitRunning,
	}
}

func (f *fakeCharacter) Location() reaction.Vec3        { return f.location }
func (f *fakeCharacter) Rotation() reaction.Quat        { return f.rotation }
func (f *fakeCharacter) Velocity() reaction.Vec3        { return f.velocity }
func (f *fakeCharacter) CapsuleHalfHeight() float64     { return f.halfHeight }
func (f *fakeCharacter) LocomotionMode() reaction.Tag   { return f.mode }
func (f *fakeCharacter) LocomotionAction() reaction.Tag { return f.action }
func (f *fakeCharacter) DesiredGait() reaction.Tag      { return f.gait }
func (f *fakeCharacter) FlushServerMoves()              { f.flushes++ }
func (f *fakeCharacter) IsPlayingRootMotion() bool      { return f.rootMotion }

func (f *fakeCharacter) SetLocomotionAction(action reaction.Tag) { f.action = action }

func (f *fakeCharacter) SetMovementModeLocked(locked bool) {
	f.lockCalls = append(f.lockCalls, locked)
}

func (f *fakeCharacter) SetNetworkSmoothing(mode reaction.SmoothingMode) {
	f.smoothing = append(f.smoothing, mode)
}

func (f *fakeCharacter) MoveUpdatedComponent(rotation reaction.Rotator, teleport bool) {
	f.moves = append(f.moves, rotation)
	f.teleports = append(f.teleports, teleport)
	f.rotation = rotation.Quat()
}

func (f *fakeCharacter) PlayClip(clip reaction.Clip, _ float64) {
	f.played = append(f.played, clip)
}

func (f *fakeCharacter) SetPhysicalAnimationMode(mode reaction.Tag, bone string) {
	f.physical = append(f.physical, physicalCall{mode: mode, bone: bone})
}

func (f *fakeCharacter) AddImpulseBelow(impulse reaction.Vec3, _ string) {
	f.impulses = append(f.impulses, impulse)
}

func (f *fakeCharacter) locked() bool {
	return len(f.lockCalls) > 0 && f.lockCalls[len(f.lockCalls)-1]
}

type staticCatalog map[reaction.Category][]reaction.Candidate

func (c staticCatalog) Candidates(cat reaction.Category, _ reaction.Tag) []reaction.Candidate {
	return c[cat]
}

// nopReplicator は何もしないReplicator
type nopReplicator struct{}

func (nopReplicator) ServerCall(context.Context, reaction.Request) error { return nil }
func (nopReplicator) Multicast(context.Context, reaction.Start) error    { return nil }
func (nopReplicator) ForceNetUpdate(context.Context, reaction.ActorID)   {}

func candidate(name string, tags ...reaction.Tag) reaction.Candidate {
	return reaction.Candidate{
		Tags:     reaction.NewTagSet(tags...),
		Clip:     reaction.Clip{Name: name, Length: 500 * time.Millisecond},
		PlayRate: 1,
	}
}

func newActorID() reaction.ActorID {
	return reaction.ActorID(uuid.New())
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func testCatalog() staticCatalog {
	return staticCatalog{
		reaction.CategoryImpact: {
			candidate("impact-slow", reaction.VelocitySlow, reaction.SideRight, reaction.FormBlunt),
			candidate("impact-fast", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
			candidate("impact-faster-a", reaction.VelocityFaster, reaction.SideRight, reaction.FormBlunt),
			candidate("impact-faster-b", reaction.VelocityFaster, reaction.SideRight, reaction.FormBlunt),
		},
		reaction.CategoryBump: {
			candidate("bump-fast", reaction.VelocityFast, reaction.SideRight, reaction.FormBlunt),
		},
		reaction.CategoryAttack: {
			candidate("attack-light", reaction.StrengthLight, reaction.SideFront, reaction.FormSharp),
			candidate("attack-heavy", reaction.StrengthHeavy, reaction.SideFront, reaction.FormSharp),
		},
		reaction.CategorySyncedAttack: {
			candidate("synced-0"),
			candidate("synced-1"),
		},
	}
}

func impactHit(velocity reaction.Tag) reaction.HitRecord {
	return reaction.HitRecord{
		Impactor: reaction.HitSide{
			ImpactPoint:  reaction.Vec3{X: 10},
			ImpactNormal: reaction.Vec3{X: -1},
			Bone:         "spine_02",
			Impulse:      reaction.Vec3{X: 0.5},
			Rotation:     reaction.IdentityQuat,
		},
		Velocity: velocity,
		Side:     reaction.SideRight,
		Form:     reaction.FormBlunt,
	}
}
