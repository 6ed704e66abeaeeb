package telemetry_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"flinch/server/telemetry"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), "", "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Enabled() {
		t.Error("provider should be disabled without an endpoint")
	}
	base := slog.DiscardHandler
	if got := p.Handler(base); got != base {
		t.Errorf("Handler() = %T, want the base handler", got)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// 到達しないアドレス。送信が失敗してもShutdownはタイムアウト内で戻る
	p, err := telemetry.Setup(context.Background(), "http://192.0.2.1:4317", "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Enabled() {
		t.Fatal("provider should be enabled")
	}
	if p.Handler(slog.DiscardHandler) == slog.DiscardHandler {
		t.Error("Handler() should wrap the base handler")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}
