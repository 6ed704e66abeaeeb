package application

import (
	"flinch/server/domain"
	"flinch/server/reaction"
)

// NewMirrorActor はスナップショットからクライアント側の写しを作る
func NewMirrorActor(s domain.ActorSnapshot) *Actor {
	a := NewActor(s.SessionID, reaction.Vec3{}, KindPlayer)
	a.Sync(s)
	return a
}

// Sync はサーバーのスナップショットで位置と移動状態を上書きする。
// ノックバックはサーバー側の速度に含まれているので捨てる。
func (a *Actor) Sync(s domain.ActorSnapshot) {
	t := s.Position.Transform()
	a.location = t.Location
	a.rotation = t.Rotation
	a.velocity = s.Velocity
	a.knockback = reaction.Vec3{}
	a.mode = s.Mode
	a.action = s.Action
	if s.Gait.IsValid() {
		a.gait = s.Gait
	}
	kind := a.State & 0xF0
	if s.Action == reaction.ActionRagdolling {
		a.State = kind | StateDown
	} else {
		a.State = kind | StateAlive
	}
}

// Place は既存のアクターをフィールドに置く
func (f *Field) Place(a *Actor) {
	f.Actors[a.SessionID] = a
}
