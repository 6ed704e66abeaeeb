package client

import (
	"context"

	"flinch/server/domain"
	"flinch/server/reaction"
)

// wireReplicator は自キャラの要求をサーバーへのリクエストメッセージとして積む
type wireReplicator struct {
	world *World
}

func (r wireReplicator) ServerCall(_ context.Context, req reaction.Request) error {
	payload := &domain.ReactionRequestPayload{Request: req}
	r.world.enqueue(domain.DataTypeReaction, uint8(domain.ReactionSubTypeRequest), payload.Encode())
	return nil
}

// Multicast はクライアントからは行わない
func (wireReplicator) Multicast(context.Context, reaction.Start) error {
	return reaction.ErrRoleMismatch
}

func (wireReplicator) ForceNetUpdate(context.Context, reaction.ActorID) {}
