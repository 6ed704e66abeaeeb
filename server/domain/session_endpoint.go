package domain

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrSessionAlreadyAttached はセッションに既に接続が紐付けられている場合に返されるエラーです。
	ErrSessionAlreadyAttached = errors.New("session already has an attached connection")
	// ErrSessionNotAttached はセッションに接続が紐付けられていない場合に返されるエラーです。
	ErrSessionNotAttached = errors.New("session has no attached connection")
	// ErrBackpressure は書き込みチャネルが満杯の場合に返されるエラーです。
	ErrBackpressure = errors.New("write channel is full, apply backpressure")
	// ErrInitializationFailed はセッションエンドポイントの初期化に失敗した場合に返されるエラーです。
	ErrInitializationFailed = errors.New("failed to initialize session endpoint")
)

const (
	DefaultPingInterval = 5 * time.Second
	DefaultIdleTimeout  = 30 * time.Second
)

// EndpointOption はSessionEndpointの設定を変更する
type EndpointOption func(*SessionEndpoint)

// WithPingInterval はping送信間隔を設定します。
func WithPingInterval(d time.Duration) EndpointOption {
	return func(se *SessionEndpoint) { se.pingInterval = d }
}

// WithIdleTimeout はアイドル判定のタイムアウトを設定します。0以下で無効。
func WithIdleTimeout(d time.Duration) EndpointOption {
	return func(se *SessionEndpoint) { se.idleTimeout = d }
}

type SessionEndpoint struct {
	ctx    context.Context
	cancel context.CancelFunc

	session     *Session
	connection  *Connection
	pubsub      PubSub
	roomManager RoomManager
	roomMu      sync.Mutex
	roomID      RoomID // 実行時にRoomManagerから取得

	ctrlCh  chan endpointEvent // 制御用チャネル
	writeCh chan []byte        // 書き込み用チャネル

	pingInterval time.Duration
	idleTimeout  time.Duration

	// lifecycle
	closed atomic.Bool
}

func NewSessionEndpoint(session *Session, connection *Connection, pubsub PubSub, roomManager RoomManager, opts ...EndpointOption) (*SessionEndpoint, error) {
	if session == nil {
		return nil, ErrInitializationFailed
	}
	if connection == nil {
		return nil, ErrInitializationFailed
	}
	if pubsub == nil {
		return nil, ErrInitializationFailed
	}
	if roomManager == nil {
		return nil, ErrInitializationFailed
	}
	ctx, cancel := context.WithCancel(context.Background())
	se := &SessionEndpoint{
		ctx:         ctx,
		cancel:      cancel,
		session:     session,
		connection:  connection,
		pubsub:      pubsub,
		roomManager: roomManager,
		ctrlCh:      make(chan endpointEvent, 16),
		writeCh:     make(chan []byte, 1024),

		pingInterval: DefaultPingInterval,
		idleTimeout:  DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(se)
	}
	return se, nil
}

func (se *SessionEndpoint) Run() error {
	// 自分宛のメッセージを購読
	sessionTopic := SessionTopic(se.session.ID())
	msgCh := se.pubsub.Subscribe(sessionTopic)
	defer se.pubsub.Unsubscribe(sessionTopic, msgCh)

	eg, ctx := errgroup.WithContext(se.ctx)
	eg.Go(func() error {
		se.ownerLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.readLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.writeLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.subscribeLoop(ctx, msgCh)
		return nil
	})
	if se.pingInterval > 0 {
		heartbeat := NewHeartbeat(se.session, se.writeCh, se.pingInterval, se.idleTimeout)
		eg.Go(func() error {
			if reason := heartbeat.Run(ctx); reason != IdleNone {
				se.sendCtrlEvent(ctx, endpointEvent{kind: evIdle, reason: reason})
			}
			return nil
		})
	}

	// セッションID通知を送信
	assignMsg := EncodeAssignMessage(se.session.ID())
	if err := se.Send(assignMsg); err != nil {
		return err
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	return nil
}

func (se *SessionEndpoint) Send(data []byte) error {
	select {
	case se.writeCh <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (se *SessionEndpoint) Close(ctx context.Context) {
	se.sendCtrlEvent(ctx, endpointEvent{kind: evClose, err: nil})
}

func (se *SessionEndpoint) ForceClose() {
	se.close()
}

// ownerLoop は論理セッションの状態を監視し、必要に応じて接続の管理を行います。
func (se *SessionEndpoint) ownerLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-se.ctrlCh:
			se.handleControlEvent(ctx, ev)
		case <-ticker.C:
			ok, reason := se.session.IsIdle(se.idleTimeout)
			if ok {
				slog.InfoContext(ctx, "session idle", "sessionID", se.session.ID(), "reason", reason)
				se.closeWith(ctx, reason)
			}
		}
	}
}

func (se *SessionEndpoint) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			data, err := se.connection.Read(ctx)
			if err != nil {
				se.sendCtrlEvent(ctx, endpointEvent{kind: evReadError, err: err})
				return
			}
			se.session.TouchRead()
			se.handleData(ctx, data)
		}
	}
}

func (se *SessionEndpoint) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-se.writeCh:
			err := se.connection.Write(ctx, data)
			if err != nil {
				se.sendCtrlEvent(ctx, endpointEvent{kind: evWriteError, err: err})
				return
			}
			se.session.TouchWrite()
		}
	}
}

// subscribeLoop はpubsubからのメッセージをwriteChに転送します。
func (se *SessionEndpoint) subscribeLoop(ctx context.Context, msgCh <-chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			select {
			case se.writeCh <- msg.Data:
				// 送信成功
			default:
				slog.WarnContext(ctx, "subscribeLoop: writeCh full, message dropped", "sessionID", se.session.ID())
			}
		}
	}
}

func (se *SessionEndpoint) close() {
	se.closeWith(context.Background(), IdleNone)
}

// closeWith はルームから抜けてから接続を閉じる。2回目以降は何もしない。
func (se *SessionEndpoint) closeWith(ctx context.Context, reason IdleReason) {
	if !se.closed.CompareAndSwap(false, true) {
		return
	}
	if roomID := se.swapRoom(RoomID{}); !roomID.IsEmpty() {
		se.pubsub.Publish(ctx, RoomTopic(roomID), Message{
			SessionID: se.session.ID(),
			Data:      EncodeLeaveMessage(se.session.ID()),
		})
	}
	se.cancel()
	se.session.Close(reason)
	se.connection.Close()
}

func (se *SessionEndpoint) handleData(ctx context.Context, data []byte) {
	header, err := ParseHeader(data)
	if err != nil {
		slog.WarnContext(ctx, "failed to parse header", "err", err)
		return
	}
	expectedBytes := se.session.ID().Bytes()
	if header.SessionID != expectedBytes {
		slog.WarnContext(ctx, "session ID mismatch", "expected", se.session.ID(), "got", SessionIDFromBytes(header.SessionID))
		return
	}
	payloadHeader, err := ParsePayloadHeader(data[HeaderSize:])
	if err != nil {
		slog.WarnContext(ctx, "failed to parse payload header", "err", err)
		return
	}

	switch payloadHeader.DataType {
	case DataTypeControl:
		se.handleControlMessage(ctx, ControlSubType(payloadHeader.SubType), data)
		return
	case DataTypeInput, DataTypeReaction:
		// データメッセージをroom topicに転送
		roomID := se.currentRoom()
		if roomID.IsEmpty() {
			slog.WarnContext(ctx, "received data message before joining a room", "sessionID", se.session.ID())
			return
		}
		se.pubsub.Publish(ctx, RoomTopic(roomID), Message{
			SessionID: se.session.ID(),
			Data:      data,
		})
	default:
		slog.WarnContext(ctx, "unknown data type", "dataType", payloadHeader.DataType)
	}
}

func (se *SessionEndpoint) handleControlMessage(ctx context.Context, subType ControlSubType, data []byte) {
	switch subType {
	case ControlSubTypeJoin:
		payload, err := ParseJoinPayload(data[HeaderSize+PayloadHeaderSize:])
		if err != nil {
			slog.WarnContext(ctx, "failed to parse join message", "err", err)
			return
		}
		roomID := payload.RoomID
		// RoomIDが空の場合、RoomManagerからデフォルトルームを取得
		if roomID.IsEmpty() {
			defaultRoomID, err := se.roomManager.GetRoom(ctx, se.session.ID())
			if err != nil {
				slog.ErrorContext(ctx, "failed to get default room", "err", err)
				return
			}
			roomID = defaultRoomID
			slog.DebugContext(ctx, "auto-assigned room", "sessionID", se.session.ID(), "roomID", roomID)
		}
		se.swapRoom(roomID)
		slog.InfoContext(ctx, "session joined room", "sessionID", se.session.ID(), "roomID", roomID)
		// room topicにJoinメッセージをpublish（Room.handleMessageでsessions追加）
		se.pubsub.Publish(ctx, RoomTopic(roomID), Message{SessionID: se.session.ID(), Data: data})
	case ControlSubTypeLeave:
		roomID := se.swapRoom(RoomID{})
		if roomID.IsEmpty() {
			slog.WarnContext(ctx, "session not in any room, cannot leave", "sessionID", se.session.ID())
			return
		}
		// room topicにLeaveメッセージをpublish（Room.handleMessageでsessions削除）
		se.pubsub.Publish(ctx, RoomTopic(roomID), Message{SessionID: se.session.ID(), Data: data})
		slog.InfoContext(ctx, "session left room", "sessionID", se.session.ID(), "roomID", roomID)
	case ControlSubTypePong:
		se.sendCtrlEvent(ctx, endpointEvent{kind: evPong})
	default:
		slog.DebugContext(ctx, "ignored control message", "sessionID", se.session.ID(), "subType", subType)
	}
}

// handleControlEvent は制御チャネルからのイベントを処理し論理セッションの状態を更新する唯一の関数です。
func (se *SessionEndpoint) handleControlEvent(ctx context.Context, ev endpointEvent) {
	switch ev.kind {
	case evClose:
		se.closeWith(ctx, IdleNone)
	case evPong:
		se.session.TouchPong()
	case evIdle:
		slog.InfoContext(ctx, "heartbeat timed out", "sessionID", se.session.ID(), "room", se.currentRoom(), "reason", ev.reason)
		se.closeWith(ctx, ev.reason)
	case evReadError, evWriteError:
		slog.InfoContext(ctx, "connection lost", "sessionID", se.session.ID(), "err", ev.err)
		se.closeWith(ctx, IdleNone)

	default:
		slog.WarnContext(ctx, "unknown endpoint event kind", "kind", ev.kind)
	}
}

// RoomID は参加中のルームIDを返す。未参加なら空。
func (se *SessionEndpoint) RoomID() RoomID {
	return se.currentRoom()
}

func (se *SessionEndpoint) currentRoom() RoomID {
	se.roomMu.Lock()
	defer se.roomMu.Unlock()
	return se.roomID
}

// swapRoom は参加ルームを差し替えて以前の値を返す
func (se *SessionEndpoint) swapRoom(id RoomID) RoomID {
	se.roomMu.Lock()
	defer se.roomMu.Unlock()
	prev := se.roomID
	se.roomID = id
	return prev
}

func (se *SessionEndpoint) sendCtrlEvent(ctx context.Context, ev endpointEvent) {
	select {
	case se.ctrlCh <- ev:
	case <-ctx.Done():
	}
}
