package application

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"flinch/server/domain"
	"flinch/server/reaction"
)

const actorBone = "spine_01"

// Field はアクターと障害物を管理し、スイープとアクターの反応能力解決を提供します。
// reaction.Sweeper と reaction.Capabilities を実装します。
type Field struct {
	HalfExtent float64
	Actors     map[domain.SessionID]*Actor
	Props      map[reaction.ActorID]*Prop

	receivers map[reaction.ActorID]reaction.BumpReceiver
	rng       *rand.Rand
}

// NewField は一辺 2*halfExtent の正方形フィールドを作成します。
func NewField(halfExtent float64, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Field{
		HalfExtent: halfExtent,
		Actors:     make(map[domain.SessionID]*Actor),
		Props:      make(map[reaction.ActorID]*Prop),
		receivers:  make(map[reaction.ActorID]reaction.BumpReceiver),
		rng:        rng,
	}
}

// Spawn はランダムな位置にアクターを生成します。
func (f *Field) Spawn(sessionID domain.SessionID, kind ActorState) *Actor {
	location := reaction.Vec3{
		X: (f.rng.Float64()*2 - 1) * f.HalfExtent,
		Y: (f.rng.Float64()*2 - 1) * f.HalfExtent,
		Z: ActorHalfHeight,
	}
	actor := NewActor(sessionID, location, kind)
	f.Actors[sessionID] = actor
	return actor
}

// AddProp は障害物を配置します。
func (f *Field) AddProp(p *Prop) {
	f.Props[p.ID] = p
}

// Attach はアクターにぶつかりリアクションの受け取り先を登録します。
func (f *Field) Attach(id reaction.ActorID, receiver reaction.BumpReceiver) {
	f.receivers[id] = receiver
}

// Remove はアクターをフィールドから削除します。
func (f *Field) Remove(sessionID domain.SessionID) {
	delete(f.receivers, reaction.ActorID(sessionID))
	delete(f.Actors, sessionID)
}

// GetAllActors は全アクターのスライスを返します。順序は不定。
func (f *Field) GetAllActors() []*Actor {
	actors := make([]*Actor, 0, len(f.Actors))
	for _, actor := range f.Actors {
		actors = append(actors, actor)
	}
	return actors
}

// GetActor は指定されたセッションIDのアクターを取得します。
func (f *Field) GetActor(sessionID domain.SessionID) (*Actor, bool) {
	actor, ok := f.Actors[sessionID]
	return actor, ok
}

// Resolve はアクターIDから反応能力を解決します。
func (f *Field) Resolve(id reaction.ActorID) reaction.Capability {
	if actor, ok := f.Actors[domain.SessionID(id)]; ok {
		if receiver, ok := f.receivers[id]; ok {
			return reaction.Capability{Kind: reaction.CapabilityCharacterReactive, Collider: actor, Bump: receiver}
		}
		return reaction.Capability{Kind: reaction.CapabilityCollisionReactive, Collider: actor}
	}
	if prop, ok := f.Props[id]; ok {
		return reaction.Capability{Kind: reaction.CapabilityCollisionReactive, Collider: prop}
	}
	return reaction.Capability{}
}

// sweepTarget はスイープ対象の共通表現
type sweepTarget struct {
	id         reaction.ActorID
	objectType reaction.ObjectType
	location   reaction.Vec3
	rotation   reaction.Quat
	radius     float64
	halfHeight float64
	bone       string
}

func (f *Field) targets() []sweepTarget {
	targets := make([]sweepTarget, 0, len(f.Actors)+len(f.Props))
	for _, a := range f.Actors {
		targets = append(targets, sweepTarget{
			id:         a.ID(),
			objectType: reaction.ObjectPawn,
			location:   a.location,
			rotation:   a.rotation,
			radius:     ActorRadius,
			halfHeight: ActorHalfHeight,
			bone:       actorBone,
		})
	}
	for _, p := range f.Props {
		targets = append(targets, sweepTarget{
			id:         p.ID,
			objectType: p.Type,
			location:   p.location,
			rotation:   reaction.IdentityQuat,
			radius:     p.Radius,
			halfHeight: p.HalfHeight,
		})
	}
	return targets
}

// SweepMulti は始点から終点へ垂直カプセルを動かし、接触した対象を距離順に返します。
func (f *Field) SweepMulti(ctx context.Context, q reaction.SweepQuery) []reaction.SweepHit {
	var hits []reaction.SweepHit
	for _, t := range f.targets() {
		if slices.Contains(q.Ignore, t.id) {
			continue
		}
		if len(q.ObjectTypes) > 0 && !slices.Contains(q.ObjectTypes, t.objectType) {
			continue
		}
		if hit, ok := sweepCapsule(q, t); ok {
			hits = append(hits, hit)
		}
	}
	slices.SortFunc(hits, func(a, b reaction.SweepHit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	if len(hits) > 0 {
		slog.DebugContext(ctx, "sweep hits", "count", len(hits))
	}
	return hits
}

// SweepSingle は最も近い接触を返します。
func (f *Field) SweepSingle(ctx context.Context, q reaction.SweepQuery) (reaction.SweepHit, bool) {
	hits := f.SweepMulti(ctx, q)
	if len(hits) == 0 {
		return reaction.SweepHit{}, false
	}
	return hits[0], true
}

// sweepCapsule は水平面で線分と円の距離を、鉛直方向で高さの重なりを判定する
func sweepCapsule(q reaction.SweepQuery, t sweepTarget) (reaction.SweepHit, bool) {
	if math.Abs(q.Start.Z-t.location.Z) > q.HalfHeight+t.halfHeight {
		return reaction.SweepHit{}, false
	}

	d := q.End.Sub(q.Start)
	d.Z = 0
	center := reaction.Vec3{X: t.location.X, Y: t.location.Y, Z: q.Start.Z}

	along := 0.0
	if l2 := d.Dot(d); l2 > 0 {
		along = clampFloat(center.Sub(q.Start).Dot(d)/l2, 0, 1)
	}
	closest := q.Start.Add(d.Scale(along))
	offset := closest.Sub(center)
	offset.Z = 0
	if offset.Len() > q.Radius+t.radius {
		return reaction.SweepHit{}, false
	}

	normal := offset.Normalize()
	if normal.IsZero() {
		normal = d.Scale(-1).Normalize()
	}
	if normal.IsZero() {
		normal = reaction.Vec3{X: 1}
	}
	return reaction.SweepHit{
		Actor:        t.id,
		Location:     closest,
		ImpactPoint:  center.Add(normal.Scale(t.radius)),
		ImpactNormal: normal,
		Bone:         t.bone,
		Distance:     along * d.Len(),
		Rotation:     t.rotation,
	}, true
}
