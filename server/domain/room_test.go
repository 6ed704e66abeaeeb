package domain_test

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "flinch/server/domain"
)

// recordingApplication は受信メッセージを記録し、tickごとに固定のデータを返す
type recordingApplication struct {
	mu       sync.Mutex
	received []domain.SessionID
	ticks    int
	dt       time.Duration
}

func (a *recordingApplication) HandleMessage(_ context.Context, sessionID domain.SessionID, _ []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.received = append(a.received, sessionID)
	return nil
}

func (a *recordingApplication) Tick(_ context.Context, dt time.Duration) [][]byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ticks++
	a.dt = dt
	return [][]byte{[]byte("tick")}
}

func (a *recordingApplication) receivedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.received)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRoom_BroadcastsTickToJoinedSessions(t *testing.T) {
	ps := domain.NewSimplePubSub()
	app := &recordingApplication{}
	room := domain.NewRoom(domain.NewRoomID(), ps, app, 120)

	sessionID := domain.NewSessionID()
	sessionTopic := domain.SessionTopic(sessionID)
	sessionCh := ps.Subscribe(sessionTopic)
	defer ps.Unsubscribe(sessionTopic, sessionCh)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = room.Run(ctx)
		close(done)
	}()

	// Roomの購読開始を待ってからjoinを送る
	join := domain.EncodeJoinMessage(sessionID, 1, room.ID)
	waitFor(t, func() bool {
		ps.Publish(ctx, domain.RoomTopic(room.ID), domain.Message{SessionID: sessionID, Data: join})
		return app.receivedCount() > 0
	})

	select {
	case msg := <-sessionCh:
		if string(msg.Data) != "tick" {
			t.Fatalf("data = %q, want tick", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for tick broadcast")
	}

	n := app.receivedCount()
	ps.Publish(ctx, domain.RoomTopic(room.ID), domain.Message{SessionID: sessionID, Data: domain.EncodeLeaveMessage(sessionID)})
	waitFor(t, func() bool { return app.receivedCount() > n })

	cancel()
	<-done

	if got := room.Sessions(); got != 0 {
		t.Errorf("Sessions() = %d, want 0 after leave", got)
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.ticks == 0 || app.dt <= 0 {
		t.Errorf("ticks = %d dt = %v, want positive", app.ticks, app.dt)
	}
}

func TestRoom_EnqueueSendTo(t *testing.T) {
	ps := domain.NewSimplePubSub()
	room := domain.NewRoom(domain.NewRoomID(), ps, &recordingApplication{}, 0)

	sessionID := domain.NewSessionID()
	sessionTopic := domain.SessionTopic(sessionID)
	sessionCh := ps.Subscribe(sessionTopic)
	defer ps.Unsubscribe(sessionTopic, sessionCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := room.EnqueueSendTo(ctx, sessionID, []byte("direct")); err != nil {
		t.Fatalf("EnqueueSendTo failed: %v", err)
	}
	go func() { _ = room.Run(ctx) }()

	select {
	case msg := <-sessionCh:
		if string(msg.Data) != "direct" {
			t.Fatalf("data = %q, want direct", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for direct send")
	}
}
