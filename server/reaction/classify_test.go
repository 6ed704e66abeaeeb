package reaction_test

import (
	"math"
	"testing"

	"flinch/server/reaction"
)

func TestClassifySpeed_Boundaries(t *testing.T) {
	tests := []struct {
		speed float64
		want  reaction.Tag
	}{
		{0, reaction.VelocitySlow},
		{174.9, reaction.VelocitySlow},
		{175.0, reaction.VelocityModerate},
		{349.9, reaction.VelocityModerate},
		{350.0, reaction.VelocityFast},
		{649.9, reaction.VelocityFast},
		{650.0, reaction.VelocityFaster},
		{799.9, reaction.VelocityFaster},
		{800.0, reaction.VelocityTerminal},
		{5000, reaction.VelocityTerminal},
	}
	for _, tt := range tests {
		if got := reaction.ClassifySpeed(tt.speed); got != tt.want {
			t.Errorf("ClassifySpeed(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestClassifySpeed_NaNIsUnclassified(t *testing.T) {
	if got := reaction.ClassifySpeed(math.NaN()); got.IsValid() {
		t.Fatalf("ClassifySpeed(NaN) = %q, want empty", got)
	}
}

func TestClassifyVelocity_Grounded(t *testing.T) {
	v := reaction.Vec3{X: 1000}
	if got := reaction.ClassifyVelocity(v, reaction.ModeGrounded, reaction.GaitWalking); got != reaction.VelocitySlow {
		t.Errorf("walking = %q, want Slow", got)
	}
	for _, gait := range []reaction.Tag{reaction.GaitRunning, reaction.GaitSprinting, ""} {
		if got := reaction.ClassifyVelocity(v, reaction.ModeGrounded, gait); got != reaction.VelocityFast {
			t.Errorf("gait %q = %q, want Fast", gait, got)
		}
	}
}

func TestClassifyVelocity_InAirUsesSpeed(t *testing.T) {
	v := reaction.Vec3{X: 400, Y: 300, Z: -500} // |v| = 707.1
	if got := reaction.ClassifyVelocity(v, reaction.ModeInAir, reaction.GaitWalking); got != reaction.VelocityFaster {
		t.Errorf("got %q, want Faster", got)
	}
}

func TestVelocityDamage(t *testing.T) {
	tests := []struct {
		speed float64
		want  float64
	}{
		{325, 0},
		{650, 0},
		{1325, 50},
		{2000, 100},
		{9000, 100},
	}
	for _, tt := range tests {
		if got := reaction.VelocityDamage(tt.speed); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("VelocityDamage(%v) = %v, want %v", tt.speed, got, tt.want)
		}
	}
	if reaction.ShouldReceiveVelocityDamage(325) {
		t.Error("325 should not receive damage")
	}
	if !reaction.ShouldReceiveVelocityDamage(650) {
		t.Error("650 should receive damage")
	}
}
