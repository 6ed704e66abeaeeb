package domain

import "github.com/google/uuid"

// SessionID はセッションを一意に識別するID (UUID)
type SessionID uuid.UUID

func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// SessionIDFromBytes はヘッダーの16バイトからSessionIDを復元する
func SessionIDFromBytes(b [16]byte) SessionID {
	return SessionID(b)
}

func (id SessionID) Bytes() [16]byte {
	return id
}

func (id SessionID) String() string {
	return uuid.UUID(id).String()
}

func (id SessionID) IsEmpty() bool {
	return id == SessionID{}
}

// RoomID はルームを一意に識別するID (UUID)
type RoomID uuid.UUID

// DefaultRoomID は参加先を指定しなかったセッションが入るルーム
var DefaultRoomID = RoomID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("flinch/rooms/default")))

func NewRoomID() RoomID {
	return RoomID(uuid.New())
}

// ParseRoomID は文字列表現のUUIDからRoomIDを作る
func ParseRoomID(s string) (RoomID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RoomID{}, err
	}
	return RoomID(id), nil
}

func (id RoomID) String() string {
	return uuid.UUID(id).String()
}

func (id RoomID) IsEmpty() bool {
	return id == RoomID{}
}
