package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	adapterwebsocket "flinch/server/adapter/websocket"
	"flinch/server/application"
	"flinch/server/client"
	"flinch/server/config"
	"flinch/server/handler"
	"flinch/server/telemetry"
)

const (
	reconnectDelay = 2 * time.Second
	tokenTTL       = time.Hour
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	base := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	slog.SetDefault(slog.New(base))

	tel, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName+"-bot")
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

	serverURL := cfg.ServerURL()
	slog.InfoContext(ctx, "starting bots", "count", cfg.BotCount, "server", serverURL)

	verifier := handler.NewTokenVerifier(cfg.JWTSecret)
	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.BotCount {
		b := &bot{
			id:        i,
			serverURL: serverURL,
			verifier:  verifier,
			cfg:       cfg,
			logger:    slog.With("botID", i),
		}
		g.Go(func() error {
			b.run(ctx)
			return nil
		})
	}

	_ = g.Wait()
	slog.Info("all bots stopped")
}

type bot struct {
	id        int
	serverURL string
	verifier  *handler.TokenVerifier
	cfg       config.Config
	logger    *slog.Logger
}

// run は切断されたら再接続を繰り返す
func (b *bot) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := b.session(ctx)
		if err != nil && ctx.Err() == nil {
			b.logger.WarnContext(ctx, "bot session ended, reconnecting", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
		}
	}
}

func (b *bot) dialOptions() (*websocket.DialOptions, error) {
	if b.verifier == nil {
		return nil, nil
	}
	token, err := b.verifier.Issue(fmt.Sprintf("bot-%d", b.id), tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	return &websocket.DialOptions{HTTPHeader: header}, nil
}

// session は1接続分のボット。受信はチャネル経由でtickループに渡し、ワールドはtickループだけが触る。
func (b *bot) session(ctx context.Context) error {
	opts, err := b.dialOptions()
	if err != nil {
		return err
	}
	conn, _, err := websocket.Dial(ctx, b.serverURL, opts)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()
	transport := adapterwebsocket.NewTransportFrom(conn)

	b.logger.InfoContext(ctx, "connected")

	world := client.NewWorld(b.cfg.Reaction.Settings(), uint64(time.Now().UnixNano()))
	controller := application.NewRuleBotController()
	inbox := make(chan []byte, 256)

	g, ctx := errgroup.WithContext(ctx)

	// 受信ループ
	g.Go(func() error {
		defer close(inbox)
		for {
			data, err := transport.Read(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("read: %w", err)
			}
			select {
			case inbox <- data:
			case <-ctx.Done():
				return nil
			}
		}
	})

	// 判断・送信ループ
	g.Go(func() error {
		interval := time.Second / time.Duration(b.cfg.TickRate)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				_ = transport.Close(int32(websocket.StatusNormalClosure), "shutdown")
				return nil
			case data, ok := <-inbox:
				if !ok {
					return nil
				}
				if err := world.HandleMessage(ctx, data); err != nil {
					b.logger.DebugContext(ctx, "message dropped", "err", err)
				}
			case <-ticker.C:
				world.Tick(ctx, interval)
				if _, err := world.Step(ctx, controller); err != nil {
					b.logger.DebugContext(ctx, "step skipped", "err", err)
				}
			}
			for _, msg := range world.Drain() {
				if err := transport.Write(ctx, msg); err != nil {
					return fmt.Errorf("write: %w", err)
				}
			}
		}
	})

	return g.Wait()
}

