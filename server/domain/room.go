package domain

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

var ErrRoomBusy = errors.New("room send channel is full")

// DefaultTickRate はRoomのtick頻度
const DefaultTickRate = 60

type Room struct {
	ID       RoomID
	sessions map[SessionID]struct{}
	joined   atomic.Int32

	pubsub      PubSub
	application Application // 外部からアプリケーションロジックを注入できる

	sendCh chan roomSend

	tickInterval time.Duration
}

type roomSendKind uint8

const (
	roomSendBroadcast roomSendKind = iota + 1
	roomSendTo
)

type roomSend struct {
	kind      roomSendKind
	sessionID SessionID
	data      []byte
}

func NewRoom(id RoomID, pubsub PubSub, application Application, tickRate int) *Room {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Room{
		ID:           id,
		sessions:     make(map[SessionID]struct{}),
		pubsub:       pubsub,
		application:  application,
		sendCh:       make(chan roomSend, 1024),
		tickInterval: time.Second / time.Duration(tickRate),
	}
}

func (r *Room) Broadcast(ctx context.Context, data []byte) {
	for sessionID := range r.sessions {
		r.pubsub.Publish(ctx, SessionTopic(sessionID), Message{Data: data})
	}
}

func (r *Room) SendTo(ctx context.Context, sessionID SessionID, data []byte) {
	r.pubsub.Publish(ctx, SessionTopic(sessionID), Message{Data: data})
}

// Sessions はルームに参加中のセッション数を返す。Run以外のgoroutineから呼んでよい。
func (r *Room) Sessions() int {
	return int(r.joined.Load())
}

func (r *Room) EnqueueBroadcast(ctx context.Context, data []byte) error {
	return r.enqueueSend(ctx, roomSend{kind: roomSendBroadcast, data: data})
}

func (r *Room) EnqueueSendTo(ctx context.Context, sessionID SessionID, data []byte) error {
	return r.enqueueSend(ctx, roomSend{kind: roomSendTo, sessionID: sessionID, data: data})
}

func (r *Room) enqueueSend(ctx context.Context, msg roomSend) error {
	select {
	case <-ctx.Done():
		return nil
	case r.sendCh <- msg:
		return nil
	default:
		return ErrRoomBusy
	}
}

func (r *Room) Run(ctx context.Context) error {
	// room宛のメッセージを購読
	roomTopic := RoomTopic(r.ID)
	msgCh := r.pubsub.Subscribe(roomTopic)
	defer r.pubsub.Unsubscribe(roomTopic, msgCh)

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			r.step(ctx, msgCh, dt)
		}
	}
}

// step は1tick分の処理。受信 → 送信キュー → ApplicationのTick の順に行う。
func (r *Room) step(ctx context.Context, msgCh <-chan Message, dt time.Duration) {
	// 受信メッセージを処理
RECEIVE_LOOP:
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				break RECEIVE_LOOP
			}
			r.handleMessage(ctx, msg)
		default:
			break RECEIVE_LOOP
		}
	}
	// 送信するデータがあれば送信する このデータは１フレーム前のデータになる
SEND_LOOP:
	for {
		select {
		case msg := <-r.sendCh:
			r.handleSendMessage(ctx, msg)
		default:
			break SEND_LOOP
		}
	}
	// ApplicationのTick()の戻り値をブロードキャスト
	for _, data := range r.application.Tick(ctx, dt) {
		r.Broadcast(ctx, data)
	}
}

// handleMessage はjoin/leaveでセッション一覧を更新してからアプリケーションに渡します。
func (r *Room) handleMessage(ctx context.Context, msg Message) {
	if len(msg.Data) >= HeaderSize+PayloadHeaderSize {
		payloadHeader, err := ParsePayloadHeader(msg.Data[HeaderSize:])
		if err == nil && payloadHeader.DataType == DataTypeControl {
			switch ControlSubType(payloadHeader.SubType) {
			case ControlSubTypeJoin:
				r.sessions[msg.SessionID] = struct{}{}
			case ControlSubTypeLeave:
				delete(r.sessions, msg.SessionID)
			}
			r.joined.Store(int32(len(r.sessions)))
		}
	}
	// アプリケーションロジックが担当する
	if err := r.application.HandleMessage(ctx, msg.SessionID, msg.Data); err != nil {
		slog.WarnContext(ctx, "room handle message failed", "roomID", r.ID, "sessionID", msg.SessionID, "err", err)
	}
}

func (r *Room) handleSendMessage(ctx context.Context, msg roomSend) {
	switch msg.kind {
	case roomSendBroadcast:
		r.Broadcast(ctx, msg.data)
	case roomSendTo:
		r.SendTo(ctx, msg.sessionID, msg.data)
	default:
	}
}
