package domain

import (
	"context"
	"errors"
	"sync"
)

//go:generate go tool mockgen -destination=./mocks/room_manager_mock.go -package=mocks . RoomManager

// ErrRoomNotFound は指定したルームが存在しない場合に返されるエラーです。
var ErrRoomNotFound = errors.New("room not found")

// RoomManager はセッションの参加先ルームを決定します。
type RoomManager interface {
	GetRoom(ctx context.Context, sessionID SessionID) (RoomID, error)
}

// SimpleRoomManager は全セッションをデフォルトルームに割り当てます。
type SimpleRoomManager struct {
	mu          sync.RWMutex
	defaultRoom RoomID
	assigned    map[SessionID]RoomID
}

func NewSimpleRoomManager(defaultRoom RoomID) *SimpleRoomManager {
	return &SimpleRoomManager{
		defaultRoom: defaultRoom,
		assigned:    make(map[SessionID]RoomID),
	}
}

func (m *SimpleRoomManager) GetRoom(_ context.Context, sessionID SessionID) (RoomID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.assigned[sessionID]; ok {
		return id, nil
	}
	if m.defaultRoom.IsEmpty() {
		return RoomID{}, ErrRoomNotFound
	}
	m.assigned[sessionID] = m.defaultRoom
	return m.defaultRoom, nil
}

// Release はセッションの割り当てを解除します。
func (m *SimpleRoomManager) Release(sessionID SessionID) {
	m.mu.Lock()
	delete(m.assigned, sessionID)
	m.mu.Unlock()
}
