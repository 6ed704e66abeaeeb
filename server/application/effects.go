package application

import (
	"context"
	"log/slog"
	"strings"

	"flinch/server/reaction"
)

// LogEffectPlayer はサーバー上で再生される音とパーティクルをログに残すだけのEffectPlayerです。
type LogEffectPlayer struct{}

func (LogEffectPlayer) PlaySound(ctx context.Context, audio reaction.AudioHandle, at reaction.Transform) {
	slog.DebugContext(ctx, "play sound", "audio", audio, "at", at.Location)
}

func (LogEffectPlayer) SpawnParticle(ctx context.Context, particle reaction.ParticleHandle, at reaction.Transform) {
	slog.DebugContext(ctx, "spawn particle", "particle", particle, "at", at.Location)
}

// SurfaceEffects は衝突の形状と速度カテゴリから音とパーティクルを決める
type SurfaceEffects struct{}

func (SurfaceEffects) Audio(hit reaction.HitRecord) reaction.AudioHandle {
	if !hit.Velocity.IsValid() {
		return ""
	}
	return reaction.AudioHandle("sfx/impact_" + leaf(hit.Form, "blunt") + "_" + leaf(hit.Velocity, ""))
}

func (SurfaceEffects) Particle(hit reaction.HitRecord) reaction.ParticleHandle {
	if hit.Form == reaction.FormSharp {
		return "fx/spark"
	}
	return "fx/dust"
}

// leaf は階層タグの末尾要素を小文字で返す
func leaf(t reaction.Tag, fallback string) string {
	s := string(t)
	if s == "" {
		return fallback
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}
