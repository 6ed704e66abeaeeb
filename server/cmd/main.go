package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flinch/server"
	"flinch/server/application"
	"flinch/server/config"
	"flinch/server/domain"
	"flinch/server/handler"
	"flinch/server/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	slog.SetDefault(slog.New(base))

	tel, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		slog.ErrorContext(ctx, "failed to setup telemetry", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			slog.Error("telemetry shutdown failed", "err", err)
		}
	}()
	slog.SetDefault(slog.New(tel.Handler(base)))

	// PubSub初期化
	pubsub := domain.NewSimplePubSub()
	roomManager := domain.NewSimpleRoomManager(domain.DefaultRoomID)

	app := application.NewReactionApplication(application.Options{
		Settings:   cfg.Reaction.Settings(),
		Validator:  cfg.Reaction.Validator(),
		HalfExtent: cfg.FieldHalfExtent,
		Props:      cfg.FieldProps,
	})
	for range cfg.BotCount {
		id, err := app.AddBot(ctx, application.NewRuleBotController())
		if err != nil {
			slog.ErrorContext(ctx, "failed to add bot", "err", err)
			os.Exit(1)
		}
		slog.DebugContext(ctx, "bot added", "sessionID", id)
	}

	// RoomのRunより前にボットを入れておく
	room := domain.NewRoom(domain.DefaultRoomID, pubsub, app, cfg.TickRate)
	go func() {
		if err := room.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "room error", "err", err)
		}
	}()

	h := server.Route(pubsub, roomManager, room, handler.NewTokenVerifier(cfg.JWTSecret),
		domain.WithPingInterval(cfg.PingInterval),
		domain.WithIdleTimeout(cfg.IdleTimeout),
	)
	s := server.NewServer(cfg.ListenAddr(), h)

	go func() {
		if err := s.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "err", err)
			stop()
		}
	}()
	slog.InfoContext(ctx, "server listening", "addr", s.Addr(), "tickRate", cfg.TickRate, "bots", cfg.BotCount)

	<-ctx.Done()
	slog.InfoContext(ctx, "shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "graceful shutdown failed", "err", err)
		if err := s.Close(); err != nil {
			slog.ErrorContext(ctx, "forced close failed", "err", err)
		}
	}
	slog.InfoContext(ctx, "server shutdown complete")
}
