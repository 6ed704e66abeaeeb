package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"flinch/server/application"
	"flinch/server/domain"
	"flinch/server/reaction"
)

const frame = 16 * time.Millisecond

// deliver はサーバーから届いたメッセージをすべてワールドに反映する
func deliver(t *testing.T, w *World, msgs [][]byte) {
	t.Helper()
	for _, msg := range msgs {
		if err := w.HandleMessage(context.Background(), msg); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
	}
}

// upload はクライアントの送信キューをサーバーアプリケーションに渡す
func upload(t *testing.T, w *World, app *application.ReactionApplication) {
	t.Helper()
	for _, msg := range w.Drain() {
		if err := app.HandleMessage(context.Background(), w.Self(), msg); err != nil {
			t.Fatalf("server HandleMessage failed: %v", err)
		}
	}
}

func kindOf(t *testing.T, msg []byte) (domain.DataType, uint8) {
	t.Helper()
	ph, err := domain.ParsePayloadHeader(msg[domain.HeaderSize:])
	if err != nil {
		t.Fatalf("ParsePayloadHeader failed: %v", err)
	}
	return ph.DataType, ph.SubType
}

func snapshotMessage(actors ...domain.ActorSnapshot) []byte {
	p := &domain.SnapshotPayload{Actors: actors}
	return domain.EncodeMessage(domain.SessionID{}, 1, domain.DataTypeActor, uint8(domain.ActorSubTypeUpdate), p.Encode())
}

func standing(id domain.SessionID, at reaction.Vec3) domain.ActorSnapshot {
	return domain.ActorSnapshot{
		SessionID: id,
		Position:  domain.NewPosition(reaction.Transform{Location: at, Rotation: reaction.IdentityQuat}),
		Mode:      reaction.ModeGrounded,
		Action:    reaction.ActionNone,
		Gait:      reaction.GaitRunning,
	}
}

func TestWorld_AssignJoinsAndAnswersPing(t *testing.T) {
	w := NewWorld(reaction.DefaultSettings(), 1)
	self := domain.NewSessionID()

	if err := w.SendInput(0); !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("SendInput before assign err = %v, want ErrNotAssigned", err)
	}

	deliver(t, w, [][]byte{domain.EncodeAssignMessage(self), domain.EncodePingMessage(self)})

	if w.Self() != self {
		t.Fatalf("Self() = %v, want %v", w.Self(), self)
	}
	msgs := w.Drain()
	if len(msgs) != 2 {
		t.Fatalf("pending = %d, want join and pong", len(msgs))
	}
	if dt, st := kindOf(t, msgs[0]); dt != domain.DataTypeControl || domain.ControlSubType(st) != domain.ControlSubTypeJoin {
		t.Errorf("first message = %d/%d, want join", dt, st)
	}
	if dt, st := kindOf(t, msgs[1]); dt != domain.DataTypeControl || domain.ControlSubType(st) != domain.ControlSubTypePong {
		t.Errorf("second message = %d/%d, want pong", dt, st)
	}
	if len(w.Drain()) != 0 {
		t.Error("Drain should empty the queue")
	}
}

func TestWorld_SnapshotAssignsRoles(t *testing.T) {
	w := NewWorld(reaction.DefaultSettings(), 1)
	self, other := domain.NewSessionID(), domain.NewSessionID()
	deliver(t, w, [][]byte{
		domain.EncodeAssignMessage(self),
		snapshotMessage(standing(self, reaction.Vec3{Z: 88}), standing(other, reaction.Vec3{X: 500, Z: 88})),
	})

	tests := []struct {
		id   domain.SessionID
		want reaction.Role
	}{
		{self, reaction.RoleAutonomousProxy},
		{other, reaction.RoleSimulatedProxy},
	}
	for _, tt := range tests {
		c, ok := w.Component(tt.id)
		if !ok {
			t.Fatalf("component for %v missing", tt.id)
		}
		if c.Router().LocalRole() != tt.want || c.Router().RemoteRole() != reaction.RoleAuthority {
			t.Errorf("roles = %v/%v, want %v/authority", c.Router().LocalRole(), c.Router().RemoteRole(), tt.want)
		}
	}

	// 位置の更新は既存の写しに反映される
	deliver(t, w, [][]byte{snapshotMessage(standing(other, reaction.Vec3{X: 400, Z: 88}))})
	actor, _ := w.Actor(other)
	if actor.Location().X != 400 {
		t.Errorf("other X = %f, want 400", actor.Location().X)
	}

	deliver(t, w, [][]byte{domain.EncodeDespawnMessage(other)})
	if _, ok := w.Actor(other); ok {
		t.Error("despawned actor still mirrored")
	}
	if _, ok := w.Component(other); ok {
		t.Error("despawned component still present")
	}
}

func TestWorld_PredictAttackPlaysLocallyWithoutSending(t *testing.T) {
	w := NewWorld(reaction.DefaultSettings(), 1)
	self, other := domain.NewSessionID(), domain.NewSessionID()
	deliver(t, w, [][]byte{
		domain.EncodeAssignMessage(self),
		snapshotMessage(standing(self, reaction.Vec3{Z: 88}), standing(other, reaction.Vec3{X: 100, Z: 88})),
	})
	w.Drain()

	if !w.PredictAttack(context.Background()) {
		t.Fatal("attack should be predicted on the target mirror")
	}
	target, _ := w.Component(other)
	if target.Machine().Phase() != reaction.PhaseActive {
		t.Errorf("target phase = %v, want active", target.Machine().Phase())
	}
	if msgs := w.Drain(); len(msgs) != 0 {
		t.Errorf("prediction sent %d messages, want none", len(msgs))
	}

	// サーバーの開始が届く前のスナップショットでは予測を取り消さない
	deliver(t, w, [][]byte{snapshotMessage(standing(self, reaction.Vec3{Z: 88}), standing(other, reaction.Vec3{X: 100, Z: 88}))})
	w.Tick(context.Background(), frame)
	if target.Machine().Phase() != reaction.PhaseActive {
		t.Fatal("prediction dropped by a stale snapshot")
	}

	// クリップが終われば同じスナップショットでも解除される
	for range 120 {
		deliver(t, w, [][]byte{snapshotMessage(standing(other, reaction.Vec3{X: 100, Z: 88}))})
		w.Tick(context.Background(), frame)
	}
	mirror, _ := w.Actor(other)
	if target.Machine().Phase() != reaction.PhaseIdle || mirror.Locked() {
		t.Errorf("phase = %v locked = %v, want idle and unlocked", target.Machine().Phase(), mirror.Locked())
	}
}

func TestWorld_PredictAttackRespectsPolicy(t *testing.T) {
	settings := reaction.DefaultSettings()
	settings.LatencyHiding = reaction.NewLatencyHidingPolicy()
	w := NewWorld(settings, 1)
	self, other := domain.NewSessionID(), domain.NewSessionID()
	deliver(t, w, [][]byte{
		domain.EncodeAssignMessage(self),
		snapshotMessage(standing(self, reaction.Vec3{Z: 88}), standing(other, reaction.Vec3{X: 100, Z: 88})),
	})

	if w.PredictAttack(context.Background()) {
		t.Fatal("attack must not be predicted when latency hiding is disabled")
	}
	target, _ := w.Component(other)
	if target.Machine().Phase() == reaction.PhaseActive {
		t.Error("target should stay idle")
	}
}

func TestWorld_RoundTripWithServer(t *testing.T) {
	ctx := context.Background()
	app := application.NewReactionApplication(application.Options{
		Settings:   reaction.DefaultSettings(),
		HalfExtent: 1000,
		Seed:       7,
	})
	w := NewWorld(reaction.DefaultSettings(), 7)
	self := domain.NewSessionID()

	deliver(t, w, [][]byte{domain.EncodeAssignMessage(self)})
	upload(t, w, app)
	deliver(t, w, app.Tick(ctx, frame))

	c, ok := w.Component(self)
	if !ok {
		t.Fatal("own character not mirrored after join")
	}

	// 自キャラの要求はサーバーへ送られ、配信が届くまで再生しない
	err := c.React(ctx, reaction.Request{
		Category: reaction.CategoryImpact,
		Hit: reaction.HitRecord{
			Impactor: reaction.HitSide{
				Actor:        reaction.ActorID(self),
				ImpactNormal: reaction.Vec3{X: 1},
				Rotation:     reaction.IdentityQuat,
			},
			Velocity: reaction.VelocityModerate,
			Side:     reaction.SideLeft,
			Form:     reaction.FormBlunt,
		},
	})
	if err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if c.Machine().Phase() == reaction.PhaseActive {
		t.Fatal("autonomous proxy must wait for the server")
	}

	upload(t, w, app)
	deliver(t, w, app.Tick(ctx, frame))

	if c.Machine().Phase() != reaction.PhaseActive {
		t.Fatalf("phase = %v, want active after multicast", c.Machine().Phase())
	}
	mirror, _ := w.Actor(self)
	if mirror.LocomotionAction() != reaction.ActionHitReaction {
		t.Errorf("mirror action = %q, want hit reaction", mirror.LocomotionAction())
	}
	if got := c.Machine().State().Clip; !got.IsValid() {
		t.Errorf("state clip = %+v", got)
	}

	// クリップ長を越えて進めると双方とも解除される
	for range 120 {
		deliver(t, w, app.Tick(ctx, frame))
		w.Tick(ctx, frame)
	}
	if c.Machine().Phase() != reaction.PhaseIdle {
		t.Errorf("client phase = %v, want idle after the clip", c.Machine().Phase())
	}
	if mirror.Locked() {
		t.Errorf("mirror still locked, action = %q", mirror.LocomotionAction())
	}
	server, ok := app.Field().GetActor(self)
	if !ok {
		t.Fatal("server actor missing")
	}
	if server.Locked() || server.LocomotionAction() == reaction.ActionHitReaction {
		t.Errorf("server locked = %v action = %q, want released", server.Locked(), server.LocomotionAction())
	}
}

func TestKeyMask(t *testing.T) {
	tests := []struct {
		name   string
		action application.BotAction
		want   uint32
	}{
		{"idle", application.BotAction{}, 0},
		{"sprint forward", application.BotAction{MoveDirection: reaction.Vec3{X: 1}, Gait: reaction.GaitSprinting}, application.KeyForward | application.KeySprint},
		{"walk back left", application.BotAction{MoveDirection: reaction.Vec3{X: -0.7, Y: 0.7}, Gait: reaction.GaitWalking}, application.KeyBack | application.KeyLeft | application.KeyWalk},
		{"attack right", application.BotAction{MoveDirection: reaction.Vec3{Y: -1}, Gait: reaction.GaitRunning, Attack: true}, application.KeyRight | application.KeyAttack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyMask(tt.action); got != tt.want {
				t.Errorf("KeyMask() = %b, want %b", got, tt.want)
			}
		})
	}
}
