package config

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"flinch/server/reaction"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr() != "localhost:9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr())
	}
	if cfg.ServerURL() != "ws://localhost:9090/ws" {
		t.Errorf("ServerURL = %q", cfg.ServerURL())
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.TickRate != 60 || cfg.IdleTimeout != 30*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	s := cfg.Reaction.Settings()
	want := reaction.DefaultSettings()
	if s.CharacterBumpMinimumVelocity != want.CharacterBumpMinimumVelocity || s.MaxBumpDetectionDistance != want.MaxBumpDetectionDistance {
		t.Errorf("settings = %+v", s)
	}
	if !s.LatencyHiding.Enabled(reaction.CategoryAttack) || !s.LatencyHiding.Enabled(reaction.CategorySyncedAttack) {
		t.Error("attack categories should hide latency by default")
	}
	if s.LatencyHiding.Enabled(reaction.CategoryBump) {
		t.Error("bump should not hide latency by default")
	}
	if _, ok := cfg.Reaction.Validator().(reaction.PermissiveValidator); !ok {
		t.Errorf("validator = %T, want permissive", cfg.Reaction.Validator())
	}
}

func TestLoad_ReactionOverrides(t *testing.T) {
	t.Setenv("REACTION_ROTATION_OFFSET", "90")
	t.Setenv("REACTION_LATENCY_HIDING", "bump,impact")
	t.Setenv("REACTION_VALIDATE_REQUESTS", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s := cfg.Reaction.Settings()
	if s.RotationOffset != 90 {
		t.Errorf("RotationOffset = %f, want 90", s.RotationOffset)
	}
	if !s.LatencyHiding.Enabled(reaction.CategoryBump) || s.LatencyHiding.Enabled(reaction.CategoryAttack) {
		t.Errorf("latency hiding = %v", s.LatencyHiding)
	}
	if _, ok := cfg.Reaction.Validator().(reaction.SanityValidator); !ok {
		t.Errorf("validator = %T, want sanity", cfg.Reaction.Validator())
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		invalid bool
	}{
		{"not an int", "PORT", "not-an-int", false},
		{"port out of range", "PORT", "70000", true},
		{"zero tick rate", "TICK_RATE", "0", true},
		{"unknown category", "REACTION_LATENCY_HIDING", "attack,teleport", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !tt.invalid && !strings.Contains(err.Error(), "parse env:") {
				t.Errorf("expected parse env prefix, got %v", err)
			}
		})
	}
}
