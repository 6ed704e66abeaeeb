package application

import (
	"context"
	"log/slog"
	"math"
	"time"

	"flinch/server/reaction"
	"github.com/google/uuid"
)

// Prop は衝突に反応する物理オブジェクト（箱や樽）です。reaction.Collider を実装します。
type Prop struct {
	ID         reaction.ActorID
	Type       reaction.ObjectType
	Radius     float64
	HalfHeight float64
	mass       float64

	location reaction.Vec3
	velocity reaction.Vec3
	hits     int
}

// NewProp は接地した物理オブジェクトを生成する。locationのZは無視し高さの中心に置く。
func NewProp(location reaction.Vec3, radius, halfHeight, mass float64) *Prop {
	location.Z = halfHeight
	return &Prop{
		ID:         reaction.ActorID(uuid.New()),
		Type:       reaction.ObjectPhysicsBody,
		Radius:     radius,
		HalfHeight: halfHeight,
		mass:       mass,
		location:   location,
	}
}

func (p *Prop) Mass() float64           { return p.mass }
func (p *Prop) Velocity() reaction.Vec3 { return p.velocity }
func (p *Prop) Location() reaction.Vec3 { return p.location }
func (p *Prop) Hits() int               { return p.hits }

// OnImpactCollision はぶつかった相手の衝撃で押し出される
func (p *Prop) OnImpactCollision(ctx context.Context, hit reaction.HitRecord) {
	p.hits++
	push := hit.Impactor.Impulse.Scale(1000)
	push.Z = 0
	p.velocity = p.velocity.Add(push)
	slog.DebugContext(ctx, "prop pushed", "prop", p.ID, "origin", hit.Origin.Actor, "velocity", p.velocity.Len())
}

// Advance は摩擦で減速しながら移動する
func (p *Prop) Advance(dt time.Duration, halfExtent float64) {
	sec := dt.Seconds()
	p.location = p.location.Add(p.velocity.Scale(sec))
	p.location.X = clampFloat(p.location.X, -halfExtent, halfExtent)
	p.location.Y = clampFloat(p.location.Y, -halfExtent, halfExtent)
	p.velocity = p.velocity.Scale(math.Exp(-4 * sec))
	if p.velocity.Len() < 1 {
		p.velocity = reaction.Vec3{}
	}
}
