package domain

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Heartbeat はセッションへpingを定期送信し、pongが途絶えたら切断理由を返す。
// 1セッションにつき1つのgoroutineでRunする。
type Heartbeat struct {
	session  *Session
	writeCh  chan<- []byte
	interval time.Duration
	timeout  time.Duration

	sent    atomic.Int64
	dropped atomic.Int64
}

// NewHeartbeat はHeartbeatを生成する。timeoutが0以下ならpong切れを判定しない。
func NewHeartbeat(session *Session, writeCh chan<- []byte, interval, timeout time.Duration) *Heartbeat {
	return &Heartbeat{
		session:  session,
		writeCh:  writeCh,
		interval: interval,
		timeout:  timeout,
	}
}

// Run はinterval間隔でpingを書き込みキューに積む。
// pongがtimeoutを越えて届かなければIdlePongを返す。ctxが終わればIdleNone。
func (h *Heartbeat) Run(ctx context.Context) IdleReason {
	id := h.session.ID()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	slog.DebugContext(ctx, "heartbeat started", "sessionID", id, "interval", h.interval, "timeout", h.timeout)

	for {
		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "heartbeat stopped", "sessionID", id, "sent", h.sent.Load(), "dropped", h.dropped.Load())
			return IdleNone
		case <-ticker.C:
			if h.timeout > 0 && h.session.IsPongIdle(h.timeout) {
				slog.InfoContext(ctx, "heartbeat lost", "sessionID", id, "reason", IdlePong, "sent", h.sent.Load(), "dropped", h.dropped.Load())
				return IdlePong
			}
			select {
			case h.writeCh <- EncodePingMessage(id):
				h.sent.Add(1)
			default:
				h.dropped.Add(1)
				slog.WarnContext(ctx, "ping dropped on full write queue", "sessionID", id, "interval", h.interval)
			}
		}
	}
}

// Sent は書き込みキューに積んだpingの数
func (h *Heartbeat) Sent() int64 { return h.sent.Load() }

// Dropped はキューが満杯で捨てたpingの数
func (h *Heartbeat) Dropped() int64 { return h.dropped.Load() }
