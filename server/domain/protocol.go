package domain

import (
	"encoding/binary"
	"errors"
	"math"
	"time"

	"flinch/server/reaction"
)

// バイトオーダー: リトルエンディアン
var byteOrder = binary.LittleEndian

const (
	HeaderSize        = 25
	PayloadHeaderSize = 2
	JoinPayloadSize   = 16
)

// Header はメッセージヘッダー (25バイト)
//
//	version    u8      (1)
//	sessionID  [16]byte (16)
//	seq        u16     (2)
//	length     u16     (2)  - ペイロード長
//	timestamp  u32     (4)
type Header struct {
	Version   uint8
	SessionID [16]byte
	Seq       uint16
	Length    uint16
	Timestamp uint32
}

// DataType はメッセージの種別
type DataType uint8

const (
	DataTypeInput    DataType = 1
	DataTypeControl  DataType = 4
	DataTypeActor    DataType = 5
	DataTypeReaction DataType = 6
)

// ActorSubType はactorメッセージのサブタイプ
type ActorSubType uint8

const (
	ActorSubTypeSpawn   ActorSubType = 1
	ActorSubTypeUpdate  ActorSubType = 2
	ActorSubTypeDespawn ActorSubType = 3
)

// ControlSubType はcontrolメッセージのサブタイプ
type ControlSubType uint8

const (
	ControlSubTypeJoin   ControlSubType = 1
	ControlSubTypeLeave  ControlSubType = 2
	ControlSubTypeKick   ControlSubType = 3
	ControlSubTypePing   ControlSubType = 4
	ControlSubTypePong   ControlSubType = 5
	ControlSubTypeError  ControlSubType = 6
	ControlSubTypeAssign ControlSubType = 7
)

// ReactionSubType はreactionメッセージのサブタイプ
type ReactionSubType uint8

const (
	ReactionSubTypeRequest ReactionSubType = 1 // クライアント → サーバー
	ReactionSubTypeStart   ReactionSubType = 2 // サーバー → 全員
	ReactionSubTypeState   ReactionSubType = 3 // サーバー → 全員 (状態の再送)
)

// PayloadHeader はペイロードヘッダー (2バイト)
//
//	datatype  u8 (1)
//	subtype   u8 (1)
type PayloadHeader struct {
	DataType DataType
	SubType  uint8
}

var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidPayloadSize = errors.New("invalid payload size")
)

// ParseHeader はバイト列からHeaderをパースする
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, ErrInvalidHeaderSize
	}

	var sessionID [16]byte
	copy(sessionID[:], data[1:17])

	return &Header{
		Version:   data[0],
		SessionID: sessionID,
		Seq:       byteOrder.Uint16(data[17:19]),
		Length:    byteOrder.Uint16(data[19:21]),
		Timestamp: byteOrder.Uint32(data[21:25]),
	}, nil
}

// Encode はHeaderをバイト列にエンコードする
func (h *Header) Encode() []byte {
	data := make([]byte, HeaderSize)
	data[0] = h.Version
	copy(data[1:17], h.SessionID[:])
	byteOrder.PutUint16(data[17:19], h.Seq)
	byteOrder.PutUint16(data[19:21], h.Length)
	byteOrder.PutUint32(data[21:25], h.Timestamp)
	return data
}

// ParsePayloadHeader はバイト列からPayloadHeaderをパースする
func ParsePayloadHeader(data []byte) (*PayloadHeader, error) {
	if len(data) < PayloadHeaderSize {
		return nil, ErrInvalidPayloadSize
	}

	return &PayloadHeader{
		DataType: DataType(data[0]),
		SubType:  data[1],
	}, nil
}

// Encode はPayloadHeaderをバイト列にエンコードする
func (p *PayloadHeader) Encode() []byte {
	data := make([]byte, PayloadHeaderSize)
	data[0] = byte(p.DataType)
	data[1] = byte(p.SubType)
	return data
}

// EncodeMessage はヘッダーとペイロードヘッダーを付けてメッセージをエンコードする
func EncodeMessage(sessionID SessionID, seq uint16, dataType DataType, subType uint8, payload []byte) []byte {
	header := Header{
		Version:   1,
		SessionID: sessionID.Bytes(),
		Seq:       seq,
		Length:    uint16(PayloadHeaderSize + len(payload)),
		Timestamp: uint32(time.Now().UnixMilli() & 0xFFFFFFFF),
	}
	payloadHeader := PayloadHeader{
		DataType: dataType,
		SubType:  subType,
	}

	data := make([]byte, HeaderSize+PayloadHeaderSize+len(payload))
	copy(data[:HeaderSize], header.Encode())
	copy(data[HeaderSize:], payloadHeader.Encode())
	copy(data[HeaderSize+PayloadHeaderSize:], payload)
	return data
}

// EncodeAssignMessage はセッションID通知メッセージをエンコードする
// クライアントに自分のセッションIDを通知するために使用
func EncodeAssignMessage(sessionID SessionID) []byte {
	return EncodeMessage(sessionID, 0, DataTypeControl, uint8(ControlSubTypeAssign), nil)
}

// EncodeJoinMessage はルーム参加メッセージをエンコードする。roomIDが空ならデフォルトルーム。
func EncodeJoinMessage(sessionID SessionID, seq uint16, roomID RoomID) []byte {
	payload := JoinPayload{RoomID: roomID}
	return EncodeMessage(sessionID, seq, DataTypeControl, uint8(ControlSubTypeJoin), payload.Encode())
}

// EncodeLeaveMessage はルーム離脱メッセージをエンコードする
// 異常切断時にclose()からRoom離脱を通知するために使用
func EncodeLeaveMessage(sessionID SessionID) []byte {
	return EncodeMessage(sessionID, 0, DataTypeControl, uint8(ControlSubTypeLeave), nil)
}

// EncodePingMessage はPingメッセージをエンコードする
// クライアントに死活確認のpingを送信するために使用
func EncodePingMessage(sessionID SessionID) []byte {
	return EncodeMessage(sessionID, 0, DataTypeControl, uint8(ControlSubTypePing), nil)
}

// EncodePongMessage はPongメッセージをエンコードする
func EncodePongMessage(sessionID SessionID, seq uint16) []byte {
	return EncodeMessage(sessionID, seq, DataTypeControl, uint8(ControlSubTypePong), nil)
}

// EncodeDespawnMessage はキャラ削除メッセージをエンコードする
// 削除対象はヘッダーのsessionIDで特定
func EncodeDespawnMessage(sessionID SessionID) []byte {
	return EncodeMessage(sessionID, 0, DataTypeActor, uint8(ActorSubTypeDespawn), nil)
}

// JoinPayload はルーム参加メッセージのペイロード (16バイト)
//
//	roomID  [16]byte  - ルームID (UUID)
type JoinPayload struct {
	RoomID RoomID
}

var ErrInvalidJoinPayloadSize = errors.New("invalid join payload size")

// ParseJoinPayload はバイト列からJoinPayloadをパースする
func ParseJoinPayload(data []byte) (*JoinPayload, error) {
	if len(data) < JoinPayloadSize {
		return nil, ErrInvalidJoinPayloadSize
	}

	var roomID RoomID
	copy(roomID[:], data[:JoinPayloadSize])

	return &JoinPayload{
		RoomID: roomID,
	}, nil
}

// Encode はJoinPayloadをバイト列にエンコードする
func (j *JoinPayload) Encode() []byte {
	return j.RoomID[:]
}

// サイズ定数
const (
	PositionSize     = 28 // 7 * 4 bytes (7 float32)
	InputPayloadSize = 4
)

// Position は位置・姿勢データ (28バイト)
//
//	x, y, z      float32 (12) - 位置
//	qx, qy, qz, qw float32 (16) - quaternion
type Position struct {
	X, Y, Z        float32 // 位置
	QX, QY, QZ, QW float32 // quaternion
}

// NewPosition はTransformからPositionを作る
func NewPosition(t reaction.Transform) Position {
	return Position{
		X:  float32(t.Location.X),
		Y:  float32(t.Location.Y),
		Z:  float32(t.Location.Z),
		QX: float32(t.Rotation.X),
		QY: float32(t.Rotation.Y),
		QZ: float32(t.Rotation.Z),
		QW: float32(t.Rotation.W),
	}
}

// Transform はPositionをTransformに戻す
func (p Position) Transform() reaction.Transform {
	return reaction.Transform{
		Location: reaction.Vec3{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)},
		Rotation: reaction.Quat{X: float64(p.QX), Y: float64(p.QY), Z: float64(p.QZ), W: float64(p.QW)},
	}
}

// InputPayload はユーザー入力 (4バイト)
//
//	keyMask uint32 (4) - キー入力ビットマスク
type InputPayload struct {
	KeyMask uint32
}

// エラー定義
var (
	ErrInvalidPositionSize     = errors.New("invalid position size")
	ErrInvalidInputPayloadSize = errors.New("invalid input payload size")
)

// ParsePosition はバイト列からPositionをパースする
func ParsePosition(data []byte) (*Position, error) {
	if len(data) < PositionSize {
		return nil, ErrInvalidPositionSize
	}

	return &Position{
		X:  math.Float32frombits(byteOrder.Uint32(data[0:4])),
		Y:  math.Float32frombits(byteOrder.Uint32(data[4:8])),
		Z:  math.Float32frombits(byteOrder.Uint32(data[8:12])),
		QX: math.Float32frombits(byteOrder.Uint32(data[12:16])),
		QY: math.Float32frombits(byteOrder.Uint32(data[16:20])),
		QZ: math.Float32frombits(byteOrder.Uint32(data[20:24])),
		QW: math.Float32frombits(byteOrder.Uint32(data[24:28])),
	}, nil
}

// Encode はPositionをバイト列にエンコードする
func (p *Position) Encode() []byte {
	data := make([]byte, PositionSize)
	byteOrder.PutUint32(data[0:4], math.Float32bits(p.X))
	byteOrder.PutUint32(data[4:8], math.Float32bits(p.Y))
	byteOrder.PutUint32(data[8:12], math.Float32bits(p.Z))
	byteOrder.PutUint32(data[12:16], math.Float32bits(p.QX))
	byteOrder.PutUint32(data[16:20], math.Float32bits(p.QY))
	byteOrder.PutUint32(data[20:24], math.Float32bits(p.QZ))
	byteOrder.PutUint32(data[24:28], math.Float32bits(p.QW))
	return data
}

// ParseInputPayload はバイト列からInputPayloadをパースする
func ParseInputPayload(data []byte) (*InputPayload, error) {
	if len(data) < InputPayloadSize {
		return nil, ErrInvalidInputPayloadSize
	}

	return &InputPayload{
		KeyMask: byteOrder.Uint32(data[0:4]),
	}, nil
}

// Encode はInputPayloadをバイト列にエンコードする
func (i *InputPayload) Encode() []byte {
	data := make([]byte, InputPayloadSize)
	byteOrder.PutUint32(data[0:4], i.KeyMask)
	return data
}
