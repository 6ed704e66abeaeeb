package application

import (
	"context"
	"log/slog"

	"flinch/server/domain"
	"flinch/server/reaction"
)

// Outbox は1tick分の送信メッセージを溜める
type Outbox struct {
	seq  uint16
	msgs [][]byte
}

func (o *Outbox) push(sessionID domain.SessionID, dataType domain.DataType, subType uint8, payload []byte) {
	o.seq++
	o.msgs = append(o.msgs, domain.EncodeMessage(sessionID, o.seq, dataType, subType, payload))
}

// Drain は溜まったメッセージを取り出して空にする
func (o *Outbox) Drain() [][]byte {
	msgs := o.msgs
	o.msgs = nil
	return msgs
}

// StateLookup はキャラクターの現在のリアクション状態を返す
type StateLookup func(character reaction.ActorID) (reaction.State, bool)

// RoomReplicator はルーム全体へのブロードキャストで複製するAuthority側のReplicatorです。
type RoomReplicator struct {
	outbox *Outbox
	states StateLookup
}

func NewRoomReplicator(outbox *Outbox, states StateLookup) *RoomReplicator {
	return &RoomReplicator{outbox: outbox, states: states}
}

// ServerCall はAuthority自身からは発生しない
func (r *RoomReplicator) ServerCall(ctx context.Context, req reaction.Request) error {
	slog.WarnContext(ctx, "server call on authority", "character", req.Character, "category", req.Category)
	return reaction.ErrRoleMismatch
}

func (r *RoomReplicator) Multicast(_ context.Context, start reaction.Start) error {
	payload := &domain.ReactionStartPayload{Start: start}
	r.outbox.push(domain.SessionID(start.Character), domain.DataTypeReaction, uint8(domain.ReactionSubTypeStart), payload.Encode())
	return nil
}

func (r *RoomReplicator) ForceNetUpdate(ctx context.Context, character reaction.ActorID) {
	state, ok := r.states(character)
	if !ok {
		slog.DebugContext(ctx, "net update for unknown character", "character", character)
		return
	}
	payload := &domain.ReactionStatePayload{Character: character, State: state}
	r.outbox.push(domain.SessionID(character), domain.DataTypeReaction, uint8(domain.ReactionSubTypeState), payload.Encode())
}
