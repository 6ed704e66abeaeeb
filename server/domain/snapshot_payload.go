package domain

import "flinch/server/reaction"

// ActorSnapshot は1キャラ分の状態
//
//	sessionID [16]byte
//	position  Position (28)
//	velocity  3 * f32 (12)
//	mode      tag
//	action    tag
//	gait      tag
type ActorSnapshot struct {
	SessionID SessionID
	Position  Position
	Velocity  reaction.Vec3
	Mode      reaction.Tag
	Action    reaction.Tag
	Gait      reaction.Tag
}

// SnapshotPayload はルーム内全キャラの状態 (DataTypeActor / ActorSubTypeUpdate)
//
//	count  u16
//	actors []ActorSnapshot
type SnapshotPayload struct {
	Actors []ActorSnapshot
}

// ParseSnapshotPayload はバイト列からSnapshotPayloadをパースする
func ParseSnapshotPayload(data []byte) (*SnapshotPayload, error) {
	r := newPayloadReader(data)
	n := int(r.u16())
	actors := make([]ActorSnapshot, 0, n)
	for range n {
		var a ActorSnapshot
		a.SessionID = SessionID(r.id())
		pos, err := ParsePosition(r.take(PositionSize))
		if err != nil {
			return nil, err
		}
		a.Position = *pos
		a.Velocity = r.vec()
		a.Mode = r.tag()
		a.Action = r.tag()
		a.Gait = r.tag()
		if r.err != nil {
			return nil, r.err
		}
		actors = append(actors, a)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &SnapshotPayload{Actors: actors}, nil
}

// Encode はSnapshotPayloadをバイト列にエンコードする
func (p *SnapshotPayload) Encode() []byte {
	w := &payloadWriter{}
	w.u16(uint16(len(p.Actors)))
	for _, a := range p.Actors {
		w.id(a.SessionID.Bytes())
		w.buf = append(w.buf, a.Position.Encode()...)
		w.vec(a.Velocity)
		w.tag(a.Mode)
		w.tag(a.Action)
		w.tag(a.Gait)
	}
	return w.bytes()
}
