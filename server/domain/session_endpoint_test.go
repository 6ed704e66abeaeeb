package domain_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	domain "flinch/server/domain"
	"flinch/server/domain/mocks"
	"go.uber.org/mock/gomock"
)

// 初期化時にリソースが正しくセットアップされることを確認
func TestNewSessionEndpoint_InitializesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := domain.NewSession()
	tr := mocks.NewMockTransport(ctrl)
	c := domain.NewConnection(s.ID(), tr)
	ps := mocks.NewMockPubSub(ctrl)
	rm := mocks.NewMockRoomManager(ctrl)

	se, err := domain.NewSessionEndpoint(s, c, ps, rm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if se == nil {
		t.Fatalf("endpoint is nil")
	}
	if !se.RoomID().IsEmpty() {
		t.Errorf("RoomID = %v, want empty before join", se.RoomID())
	}
}

func TestNewSessionEndpoint_RequiresDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := domain.NewSession()
	c := domain.NewConnection(s.ID(), mocks.NewMockTransport(ctrl))
	ps := mocks.NewMockPubSub(ctrl)
	rm := mocks.NewMockRoomManager(ctrl)

	if _, err := domain.NewSessionEndpoint(nil, c, ps, rm); !errors.Is(err, domain.ErrInitializationFailed) {
		t.Errorf("nil session: got %v", err)
	}
	if _, err := domain.NewSessionEndpoint(s, nil, ps, rm); !errors.Is(err, domain.ErrInitializationFailed) {
		t.Errorf("nil connection: got %v", err)
	}
	if _, err := domain.NewSessionEndpoint(s, c, nil, rm); !errors.Is(err, domain.ErrInitializationFailed) {
		t.Errorf("nil pubsub: got %v", err)
	}
	if _, err := domain.NewSessionEndpoint(s, c, ps, nil); !errors.Is(err, domain.ErrInitializationFailed) {
		t.Errorf("nil room manager: got %v", err)
	}
}

// pipeTransport はテスト用のチャネルベースTransport
type pipeTransport struct {
	reads  chan []byte
	writes chan []byte

	once   sync.Once
	closed chan struct{}
}

func newPipeTransport() *pipeTransport {
	return &pipeTransport{
		reads:  make(chan []byte, 16),
		writes: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (p *pipeTransport) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.closed:
		return nil, io.EOF
	case data, ok := <-p.reads:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	}
}

func (p *pipeTransport) Write(ctx context.Context, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.writes <- data:
		return nil
	}
}

func (p *pipeTransport) Close(int32, string) error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func receive(t *testing.T, ch <-chan domain.Message) domain.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for room message")
		return domain.Message{}
	}
}

func controlSubType(t *testing.T, data []byte) domain.ControlSubType {
	t.Helper()
	ph, err := domain.ParsePayloadHeader(data[domain.HeaderSize:])
	if err != nil {
		t.Fatalf("ParsePayloadHeader failed: %v", err)
	}
	if ph.DataType != domain.DataTypeControl {
		t.Fatalf("DataType = %d, want control", ph.DataType)
	}
	return domain.ControlSubType(ph.SubType)
}

func TestSessionEndpoint_RunForwardsToRoomAndLeavesOnDisconnect(t *testing.T) {
	session := domain.NewSession()
	tr := newPipeTransport()
	ps := domain.NewSimplePubSub()
	rm := domain.NewSimpleRoomManager(domain.DefaultRoomID)

	roomTopic := domain.RoomTopic(domain.DefaultRoomID)
	roomCh := ps.Subscribe(roomTopic)
	defer ps.Unsubscribe(roomTopic, roomCh)

	se, err := domain.NewSessionEndpoint(session, domain.NewConnection(session.ID(), tr), ps, rm, domain.WithPingInterval(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- se.Run() }()

	// 最初にセッションIDが通知される
	select {
	case data := <-tr.writes:
		if got := controlSubType(t, data); got != domain.ControlSubTypeAssign {
			t.Fatalf("first message subtype = %d, want assign", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for assign")
	}

	tr.reads <- domain.EncodeJoinMessage(session.ID(), 1, domain.RoomID{})
	join := receive(t, roomCh)
	if join.SessionID != session.ID() || controlSubType(t, join.Data) != domain.ControlSubTypeJoin {
		t.Fatalf("unexpected join message %+v", join)
	}

	// 別セッションのIDを名乗るメッセージは転送されない
	tr.reads <- domain.EncodeMessage(domain.NewSessionID(), 2, domain.DataTypeReaction, uint8(domain.ReactionSubTypeRequest), nil)
	request := domain.EncodeMessage(session.ID(), 3, domain.DataTypeReaction, uint8(domain.ReactionSubTypeRequest), []byte{1})
	tr.reads <- request
	forwarded := receive(t, roomCh)
	header, err := domain.ParseHeader(forwarded.Data)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if header.Seq != 3 {
		t.Fatalf("forwarded seq = %d, want 3", header.Seq)
	}

	// ルーム宛のブロードキャストはクライアントに書き込まれる
	ps.Publish(context.Background(), domain.SessionTopic(session.ID()), domain.Message{Data: []byte("snapshot")})
	select {
	case data := <-tr.writes:
		if string(data) != "snapshot" {
			t.Fatalf("written = %q, want snapshot", data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded broadcast")
	}

	close(tr.reads)
	leave := receive(t, roomCh)
	if controlSubType(t, leave.Data) != domain.ControlSubTypeLeave {
		t.Fatalf("expected leave on disconnect")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after disconnect")
	}
	if !session.IsClosed() {
		t.Error("session should be closed")
	}
	if !se.RoomID().IsEmpty() {
		t.Error("room should be cleared after leave")
	}
}

func TestSessionEndpoint_ForceCloseIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := domain.NewSession()
	tr := mocks.NewMockTransport(ctrl)
	tr.EXPECT().Close(int32(1000), "").Return(nil).Times(1)

	se, err := domain.NewSessionEndpoint(s, domain.NewConnection(s.ID(), tr), mocks.NewMockPubSub(ctrl), mocks.NewMockRoomManager(ctrl))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	se.ForceClose()
	se.ForceClose()
	if !s.IsClosed() {
		t.Error("session should be closed")
	}
}
