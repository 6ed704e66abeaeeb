package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"flinch/server/application"
	"flinch/server/domain"
	"flinch/server/reaction"
)

// ErrNotAssigned はセッションIDの通知前に自キャラを操作しようとした場合に返されるエラーです。
var ErrNotAssigned = errors.New("session not assigned yet")

// World はサーバーから受け取った状態をクライアント側で保持する。
// 自キャラはAutonomousProxy、他キャラはSimulatedProxyのリアクションを持つ。
// 単一のgoroutineから使うこと。
type World struct {
	self       domain.SessionID
	field      *application.Field
	components map[domain.SessionID]*reaction.Component
	catalog    reaction.Catalog
	settings   reaction.Settings
	rng        *rand.Rand

	seq     uint16
	pending [][]byte
}

// NewWorld はクライアント側のワールドを作る
func NewWorld(settings reaction.Settings, seed uint64) *World {
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	return &World{
		field:      application.NewField(0, rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))),
		components: make(map[domain.SessionID]*reaction.Component),
		catalog:    application.DefaultCatalog(),
		settings:   settings,
		rng:        rng,
	}
}

// Self は通知された自分のセッションID
func (w *World) Self() domain.SessionID { return w.self }

// Actor はキャラクターの写しを返す
func (w *World) Actor(id domain.SessionID) (*application.Actor, bool) {
	return w.field.GetActor(id)
}

// Component はキャラクターのリアクションを返す
func (w *World) Component(id domain.SessionID) (*reaction.Component, bool) {
	c, ok := w.components[id]
	return c, ok
}

// Actors はセッションID順のキャラクター一覧
func (w *World) Actors() []*application.Actor {
	actors := w.field.GetAllActors()
	slices.SortFunc(actors, func(a, b *application.Actor) int {
		ida, idb := a.SessionID.Bytes(), b.SessionID.Bytes()
		return bytes.Compare(ida[:], idb[:])
	})
	return actors
}

// Drain は送信待ちのメッセージを取り出す
func (w *World) Drain() [][]byte {
	msgs := w.pending
	w.pending = nil
	return msgs
}

func (w *World) enqueue(dataType domain.DataType, subType uint8, payload []byte) {
	w.seq++
	w.pending = append(w.pending, domain.EncodeMessage(w.self, w.seq, dataType, subType, payload))
}

// SendInput はキー入力を送信キューに積む
func (w *World) SendInput(keyMask uint32) error {
	if w.self.IsEmpty() {
		return ErrNotAssigned
	}
	input := &domain.InputPayload{KeyMask: keyMask}
	w.enqueue(domain.DataTypeInput, 0, input.Encode())
	return nil
}

// HandleMessage はサーバーからのメッセージを反映する
func (w *World) HandleMessage(ctx context.Context, data []byte) error {
	header, err := domain.ParseHeader(data)
	if err != nil {
		return err
	}
	payloadHeader, err := domain.ParsePayloadHeader(data[domain.HeaderSize:])
	if err != nil {
		return err
	}
	payload := data[domain.HeaderSize+domain.PayloadHeaderSize:]
	sessionID := domain.SessionIDFromBytes(header.SessionID)

	switch payloadHeader.DataType {
	case domain.DataTypeControl:
		w.handleControl(ctx, sessionID, domain.ControlSubType(payloadHeader.SubType))
		return nil
	case domain.DataTypeActor:
		return w.handleActor(ctx, sessionID, domain.ActorSubType(payloadHeader.SubType), payload)
	case domain.DataTypeReaction:
		return w.handleReaction(ctx, domain.ReactionSubType(payloadHeader.SubType), payload)
	default:
		slog.DebugContext(ctx, "unknown data type", "dataType", payloadHeader.DataType)
		return nil
	}
}

func (w *World) handleControl(ctx context.Context, sessionID domain.SessionID, subType domain.ControlSubType) {
	switch subType {
	case domain.ControlSubTypeAssign:
		w.self = sessionID
		slog.InfoContext(ctx, "session assigned", "sessionID", sessionID)
		w.seq++
		w.pending = append(w.pending, domain.EncodeJoinMessage(w.self, w.seq, domain.RoomID{}))
	case domain.ControlSubTypePing:
		w.seq++
		w.pending = append(w.pending, domain.EncodePongMessage(w.self, w.seq))
	default:
		slog.DebugContext(ctx, "control ignored", "subType", subType)
	}
}

func (w *World) handleActor(ctx context.Context, sessionID domain.SessionID, subType domain.ActorSubType, payload []byte) error {
	switch subType {
	case domain.ActorSubTypeUpdate:
		snapshot, err := domain.ParseSnapshotPayload(payload)
		if err != nil {
			return fmt.Errorf("parse snapshot: %w", err)
		}
		for _, s := range snapshot.Actors {
			if err := w.sync(ctx, s); err != nil {
				return err
			}
		}
	case domain.ActorSubTypeDespawn:
		w.field.Remove(sessionID)
		delete(w.components, sessionID)
		slog.DebugContext(ctx, "actor despawned", "sessionID", sessionID)
	}
	return nil
}

// sync はスナップショットを写しに反映し、初めて見るキャラならリアクションを用意する
func (w *World) sync(ctx context.Context, s domain.ActorSnapshot) error {
	if actor, ok := w.field.GetActor(s.SessionID); ok {
		// 予測再生はサーバーの開始が届くまでクリップの残り時間だけ保つ
		if c := w.components[s.SessionID]; c != nil && c.Machine().Phase() == reaction.PhaseActive &&
			actor.ClipPlaying() && s.Action == reaction.ActionNone {
			s.Action = actor.LocomotionAction()
		}
		actor.Sync(s)
		return nil
	}

	actor := application.NewMirrorActor(s)
	local := reaction.RoleSimulatedProxy
	if s.SessionID == w.self {
		local = reaction.RoleAutonomousProxy
	}
	component, err := reaction.NewComponent(reaction.Deps{
		Character:    actor.ID(),
		Movement:     actor,
		Mesh:         actor,
		Effects:      application.LogEffectPlayer{},
		Resolver:     application.SurfaceEffects{},
		Sweeper:      w.field,
		Capabilities: w.field,
		Catalog:      w.catalog,
		Replicator:   wireReplicator{world: w},
		LocalRole:    local,
		RemoteRole:   reaction.RoleAuthority,
		Settings:     w.settings,
		Rand:         rand.New(rand.NewPCG(w.rng.Uint64(), w.rng.Uint64())),
	})
	if err != nil {
		return err
	}
	w.field.Place(actor)
	w.field.Attach(actor.ID(), component)
	w.components[s.SessionID] = component
	slog.DebugContext(ctx, "actor mirrored", "sessionID", s.SessionID, "role", local)
	return nil
}

func (w *World) handleReaction(ctx context.Context, subType domain.ReactionSubType, payload []byte) error {
	switch subType {
	case domain.ReactionSubTypeStart:
		p, err := domain.ParseReactionStartPayload(payload)
		if err != nil {
			return fmt.Errorf("parse reaction start: %w", err)
		}
		component, ok := w.components[domain.SessionID(p.Start.Character)]
		if !ok {
			slog.DebugContext(ctx, "reaction start for unknown character", "character", p.Start.Character)
			return nil
		}
		return component.Router().HandleMulticast(ctx, p.Start)
	case domain.ReactionSubTypeState:
		p, err := domain.ParseReactionStatePayload(payload)
		if err != nil {
			return fmt.Errorf("parse reaction state: %w", err)
		}
		if component, ok := w.components[domain.SessionID(p.Character)]; ok {
			component.Machine().SetState(p.State)
		}
		return nil
	default:
		slog.DebugContext(ctx, "reaction subtype ignored", "subType", subType)
		return nil
	}
}

// PredictAttack は自キャラの攻撃を相手の写しで先行再生する。
// 相手がいなければfalse。レイテンシ隠蔽の対象外カテゴリなら再生されない。
func (w *World) PredictAttack(ctx context.Context) bool {
	self, ok := w.field.GetActor(w.self)
	if !ok {
		return false
	}
	target, hit, ok := application.AimAttack(self, w.Actors())
	if !ok {
		return false
	}
	component, ok := w.components[target.SessionID]
	if !ok {
		return false
	}
	if err := component.AttackReaction(ctx, hit); err != nil {
		slog.DebugContext(ctx, "attack not predicted", "target", target.SessionID, "err", err)
		return false
	}
	return true
}

// Tick は写しのクリップとリアクションを進める
func (w *World) Tick(ctx context.Context, dt time.Duration) {
	for _, actor := range w.Actors() {
		actor.TickClip(dt)
		if component, ok := w.components[actor.SessionID]; ok {
			component.Tick(ctx, dt.Seconds())
		}
	}
}
