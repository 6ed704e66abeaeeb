package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"flinch/server/domain"
	"flinch/server/reaction"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("flinch/server/application")

var (
	// ErrForeignCharacter は他人のキャラクターに対するリアクション要求を受け取った場合に返されるエラーです。
	ErrForeignCharacter = errors.New("reaction request for a character not owned by the session")
	// ErrUnknownCharacter はルームにいないキャラクターを指定された場合に返されるエラーです。
	ErrUnknownCharacter = errors.New("unknown character")
)

// 入力キーのビットマスク
const (
	KeyForward uint32 = 1 << iota
	KeyBack
	KeyLeft
	KeyRight
	KeySprint
	KeyWalk
	KeyAttack
)

// 衝突の種類
const (
	ImpactTypeAttack reaction.Tag = "Impact.Type.Attack"
	ImpactTypeGetUp  reaction.Tag = "Impact.Type.GetUp"
)

const (
	AttackRange    = 150.0
	AttackCooldown = 500 * time.Millisecond
	attackImpulse  = 300.0
	attackScalar   = 1.0
)

// 攻撃強度ごとの基礎ダメージ
var attackDamage = map[reaction.Tag]float64{
	reaction.StrengthLight:  10,
	reaction.StrengthMedium: 15,
	reaction.StrengthHeavy:  25,
}

// Options はReactionApplicationの設定
type Options struct {
	Settings   reaction.Settings
	Catalog    reaction.Catalog   // nilならDefaultCatalog
	Validator  reaction.Validator // nilなら全て受け入れる
	HalfExtent float64
	Props      int
	Seed       uint64 // 0ならランダム
}

// InputEvent は1つの入力イベントを表す
type InputEvent struct {
	SessionID domain.SessionID
	Header    *domain.Header
	Input     *domain.InputPayload
}

// ReactionApplication はキャラクターの移動と衝突リアクションを権威として処理するApplication
type ReactionApplication struct {
	opts  Options
	field *Field
	rng   *rand.Rand

	components    map[domain.SessionID]*reaction.Component
	bots          map[domain.SessionID]*BotInstance
	keys          map[domain.SessionID]uint32
	pendingInputs []InputEvent
	pendingDamage map[domain.SessionID]float64

	outbox     *Outbox
	replicator *RoomReplicator
}

func NewReactionApplication(opts Options) *ReactionApplication {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.HalfExtent <= 0 {
		opts.HalfExtent = 2000
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	app := &ReactionApplication{
		opts:          opts,
		field:         NewField(opts.HalfExtent, rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))),
		rng:           rng,
		components:    make(map[domain.SessionID]*reaction.Component),
		bots:          make(map[domain.SessionID]*BotInstance),
		keys:          make(map[domain.SessionID]uint32),
		pendingInputs: make([]InputEvent, 0),
		pendingDamage: make(map[domain.SessionID]float64),
		outbox:        &Outbox{},
	}
	app.replicator = NewRoomReplicator(app.outbox, app.state)
	for range opts.Props {
		location := reaction.Vec3{
			X: (rng.Float64()*2 - 1) * opts.HalfExtent,
			Y: (rng.Float64()*2 - 1) * opts.HalfExtent,
		}
		app.field.AddProp(NewProp(location, 40, 60, 30))
	}
	return app
}

// Field はフィールドを返す
func (app *ReactionApplication) Field() *Field { return app.field }

// Component は指定セッションのキャラクターのリアクションコンポーネントを返す
func (app *ReactionApplication) Component(sessionID domain.SessionID) (*reaction.Component, bool) {
	c, ok := app.components[sessionID]
	return c, ok
}

func (app *ReactionApplication) HandleMessage(ctx context.Context, sessionID domain.SessionID, data []byte) error {
	// 1. Headerをパース
	header, err := domain.ParseHeader(data)
	if err != nil {
		return err
	}

	// 2. PayloadHeaderをパース
	payloadData := data[domain.HeaderSize:]
	payloadHeader, err := domain.ParsePayloadHeader(payloadData)
	if err != nil {
		return err
	}

	// 3. 各DataTypeごとに処理
	payload := payloadData[domain.PayloadHeaderSize:]
	switch payloadHeader.DataType {
	case domain.DataTypeInput:
		return app.handleInput(ctx, sessionID, header, payload)
	case domain.DataTypeControl:
		return app.handleControl(ctx, sessionID, payloadHeader.SubType)
	case domain.DataTypeReaction:
		return app.handleReaction(ctx, sessionID, header, payloadHeader.SubType, payload)
	default:
		slog.WarnContext(ctx, "unknown data type", "dataType", payloadHeader.DataType)
		return nil
	}
}

func (app *ReactionApplication) handleInput(ctx context.Context, sessionID domain.SessionID, header *domain.Header, data []byte) error {
	input, err := domain.ParseInputPayload(data)
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "handleInput",
		"sessionID", sessionID,
		"seq", header.Seq,
		"keyMask", input.KeyMask,
	)

	app.pendingInputs = append(app.pendingInputs, InputEvent{
		SessionID: sessionID,
		Header:    header,
		Input:     input,
	})
	return nil
}

func (app *ReactionApplication) handleControl(ctx context.Context, sessionID domain.SessionID, subType uint8) error {
	switch domain.ControlSubType(subType) {
	case domain.ControlSubTypeJoin:
		slog.DebugContext(ctx, "handleControl:join", "sessionID", sessionID)
		_, err := app.spawn(ctx, sessionID, KindPlayer)
		return err
	case domain.ControlSubTypeLeave:
		slog.DebugContext(ctx, "handleControl:leave", "sessionID", sessionID)
		app.despawn(ctx, sessionID)
	default:
		slog.DebugContext(ctx, "handleControl:ignored", "sessionID", sessionID, "subType", subType)
	}
	return nil
}

func (app *ReactionApplication) handleReaction(ctx context.Context, sessionID domain.SessionID, header *domain.Header, subType uint8, data []byte) error {
	if domain.ReactionSubType(subType) != domain.ReactionSubTypeRequest {
		slog.WarnContext(ctx, "unexpected reaction subtype from client", "sessionID", sessionID, "subType", subType)
		return nil
	}
	payload, err := domain.ParseReactionRequestPayload(data)
	if err != nil {
		return fmt.Errorf("parse reaction request: %w", err)
	}
	req := payload.Request
	// クライアントが要求できるのは自分のキャラクターだけ
	if req.Character != reaction.ActorID(sessionID) {
		slog.WarnContext(ctx, "reaction request for foreign character", "sessionID", sessionID, "character", req.Character)
		return ErrForeignCharacter
	}
	component, ok := app.components[sessionID]
	if !ok {
		return ErrUnknownCharacter
	}
	slog.DebugContext(ctx, "handleReaction:request",
		"sessionID", sessionID,
		"seq", header.Seq,
		"category", req.Category,
	)

	ctx, span := tracer.Start(ctx, "reaction.ServerCall", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.String("reaction.category", req.Category.String()),
		attribute.Int64("reaction.seq", int64(header.Seq)),
	))
	defer span.End()
	if err := component.Router().HandleServerCall(ctx, req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "server call rejected")
		return err
	}
	return nil
}

// AddBot はサーバー側で動くボットを参加させます。
func (app *ReactionApplication) AddBot(ctx context.Context, controller BotController) (domain.SessionID, error) {
	sessionID := domain.SessionID(uuid.New())
	if _, err := app.spawn(ctx, sessionID, KindBot); err != nil {
		return domain.SessionID{}, err
	}
	app.bots[sessionID] = &BotInstance{SessionID: sessionID, Controller: controller}
	return sessionID, nil
}

func (app *ReactionApplication) spawn(ctx context.Context, sessionID domain.SessionID, kind ActorState) (*reaction.Component, error) {
	if c, ok := app.components[sessionID]; ok {
		return c, nil
	}
	actor := app.field.Spawn(sessionID, kind)
	remote := reaction.RoleAutonomousProxy
	if kind == KindBot {
		remote = reaction.RoleSimulatedProxy
	}
	component, err := reaction.NewComponent(reaction.Deps{
		Character:    actor.ID(),
		Movement:     actor,
		Mesh:         actor,
		Effects:      LogEffectPlayer{},
		Resolver:     SurfaceEffects{},
		Sweeper:      app.field,
		Capabilities: app.field,
		Catalog:      app.opts.Catalog,
		Replicator:   app.replicator,
		Validator:    app.opts.Validator,
		LocalRole:    reaction.RoleAuthority,
		RemoteRole:   remote,
		Settings:     app.opts.Settings,
		Rand:         rand.New(rand.NewPCG(app.rng.Uint64(), app.rng.Uint64())),
		OnStateChanged: func(_, next reaction.State) {
			app.queueDamage(sessionID, next)
		},
	})
	if err != nil {
		app.field.Remove(sessionID)
		return nil, err
	}
	app.field.Attach(actor.ID(), component)
	app.components[sessionID] = component
	slog.InfoContext(ctx, "actor spawned", "sessionID", sessionID, "bot", kind == KindBot, "location", actor.Location())
	return component, nil
}

func (app *ReactionApplication) despawn(ctx context.Context, sessionID domain.SessionID) {
	if _, ok := app.components[sessionID]; !ok {
		return
	}
	app.field.Remove(sessionID)
	delete(app.components, sessionID)
	delete(app.bots, sessionID)
	delete(app.keys, sessionID)
	delete(app.pendingDamage, sessionID)
	app.outbox.msgs = append(app.outbox.msgs, domain.EncodeDespawnMessage(sessionID))
	slog.InfoContext(ctx, "actor despawned", "sessionID", sessionID)
}

// queueDamage は新しいリアクション状態からダメージを積む。適用はtickの最後に行う。
func (app *ReactionApplication) queueDamage(sessionID domain.SessionID, next reaction.State) {
	damage := next.BaseDamage
	if reaction.ShouldReceiveVelocityDamage(next.ImpactVelocity) {
		damage += reaction.VelocityDamage(next.ImpactVelocity)
	}
	if damage > 0 {
		app.pendingDamage[sessionID] += damage
	}
}

func (app *ReactionApplication) state(character reaction.ActorID) (reaction.State, bool) {
	c, ok := app.components[domain.SessionID(character)]
	if !ok {
		return reaction.State{}, false
	}
	return c.Machine().State(), true
}

func (app *ReactionApplication) Tick(ctx context.Context, dt time.Duration) [][]byte {
	ctx, span := tracer.Start(ctx, "application.Tick", trace.WithAttributes(
		attribute.Int("actors", len(app.components)),
	))
	defer span.End()

	// 1. 入力を反映（最後に受け取ったキー状態を押しっぱなしとして扱う）
	for _, ev := range app.pendingInputs {
		if _, ok := app.components[ev.SessionID]; ok {
			app.keys[ev.SessionID] = ev.Input.KeyMask
		}
	}
	app.pendingInputs = app.pendingInputs[:0]

	actors := app.sortedActors()

	// 2. 意思決定と移動
	for _, actor := range actors {
		if bot, ok := app.bots[actor.SessionID]; ok {
			action := bot.Controller.Decide(actor, actors)
			actor.Steer(action.MoveDirection, action.Gait)
			if action.Attack {
				app.tryAttack(ctx, actor, actors)
			}
			continue
		}
		mask := app.keys[actor.SessionID]
		dir, gait := inputDirection(mask)
		actor.Steer(dir, gait)
		if mask&KeyAttack != 0 {
			app.tryAttack(ctx, actor, actors)
		}
	}
	for _, actor := range actors {
		actor.Advance(dt, app.opts.HalfExtent)
		if actor.TickDown(dt) {
			app.getUp(ctx, actor)
		}
	}
	for _, prop := range app.field.Props {
		prop.Advance(dt, app.opts.HalfExtent)
	}

	// 3. リアクション（障害物検出とステートマシン）
	for _, actor := range actors {
		if component, ok := app.components[actor.SessionID]; ok {
			component.Tick(ctx, dt.Seconds())
		}
	}

	// 4. ダメージ
	for sessionID, damage := range app.pendingDamage {
		if actor, ok := app.field.GetActor(sessionID); ok && actor.Damage(damage) {
			slog.InfoContext(ctx, "actor down", "sessionID", sessionID)
		}
		delete(app.pendingDamage, sessionID)
	}

	// 5. スナップショット
	snapshot := &domain.SnapshotPayload{Actors: make([]domain.ActorSnapshot, 0, len(actors))}
	for _, actor := range app.sortedActors() {
		snapshot.Actors = append(snapshot.Actors, actor.Snapshot())
	}
	app.outbox.push(domain.SessionID{}, domain.DataTypeActor, uint8(domain.ActorSubTypeUpdate), snapshot.Encode())

	return app.outbox.Drain()
}

// sortedActors はセッションID順のアクター一覧。tick内の処理順を固定する。
func (app *ReactionApplication) sortedActors() []*Actor {
	actors := app.field.GetAllActors()
	slices.SortFunc(actors, func(a, b *Actor) int {
		ida, idb := a.SessionID.Bytes(), b.SessionID.Bytes()
		return bytes.Compare(ida[:], idb[:])
	})
	return actors
}

// tryAttack は正面の最寄りの相手に攻撃リアクションを発生させる
func (app *ReactionApplication) tryAttack(ctx context.Context, attacker *Actor, actors []*Actor) {
	if attacker.attackCooldown > 0 || attacker.Locked() || !attacker.IsAlive() {
		return
	}
	target, hit, ok := AimAttack(attacker, actors)
	if !ok {
		return
	}
	component, ok := app.components[target.SessionID]
	if !ok {
		return
	}
	attacker.attackCooldown = AttackCooldown

	if err := component.AttackReaction(ctx, hit); err != nil {
		slog.DebugContext(ctx, "attack reaction not started", "attacker", attacker.SessionID, "target", target.SessionID, "err", err)
	}
}

// getUp はダウンから復帰したキャラクターに起き上がりリアクションを再生させる
func (app *ReactionApplication) getUp(ctx context.Context, actor *Actor) {
	component, ok := app.components[actor.SessionID]
	if !ok {
		return
	}
	err := component.React(ctx, reaction.Request{
		Category: reaction.CategoryGetUp,
		Hit: reaction.HitRecord{
			Impactor: reaction.HitSide{
				Actor:        actor.ID(),
				Location:     actor.Location(),
				ImpactPoint:  actor.Location(),
				ImpactNormal: reaction.UpVector,
				Rotation:     actor.Rotation(),
			},
			ImpactType: ImpactTypeGetUp,
			Velocity:   reaction.VelocitySlow,
		},
	})
	if err != nil {
		slog.DebugContext(ctx, "get up reaction not started", "sessionID", actor.SessionID, "err", err)
	}
}

// inputDirection はキー入力をワールド方向と歩行段階に変換する。前方は+X、左は+Y。
func inputDirection(mask uint32) (reaction.Vec3, reaction.Tag) {
	var dir reaction.Vec3
	if mask&KeyForward != 0 {
		dir.X++
	}
	if mask&KeyBack != 0 {
		dir.X--
	}
	if mask&KeyLeft != 0 {
		dir.Y++
	}
	if mask&KeyRight != 0 {
		dir.Y--
	}
	gait := reaction.GaitRunning
	switch {
	case mask&KeySprint != 0:
		gait = reaction.GaitSprinting
	case mask&KeyWalk != 0:
		gait = reaction.GaitWalking
	}
	return dir, gait
}

// AimAttack は攻撃者の正面にいる相手と命中情報を返す。相手がいなければfalse。
// サーバーの判定とボットの先行再生で同じ結果になる。
func AimAttack(attacker *Actor, actors []*Actor) (*Actor, reaction.AttackHitRecord, bool) {
	target := nearestInFront(attacker, actors)
	if target == nil {
		return nil, reaction.AttackHitRecord{}, false
	}
	strength := attackStrength(attacker.DesiredGait())
	return target, reaction.AttackHitRecord{
		Hit:            attackHit(attacker, target),
		BaseDamage:     attackDamage[strength],
		Strength:       strength,
		StrengthScalar: attackScalar,
	}, true
}

func attackStrength(gait reaction.Tag) reaction.Tag {
	switch gait {
	case reaction.GaitSprinting:
		return reaction.StrengthHeavy
	case reaction.GaitWalking:
		return reaction.StrengthLight
	default:
		return reaction.StrengthMedium
	}
}

// nearestInFront は攻撃範囲内で前方±60度にいる最寄りの生存キャラを返す
func nearestInFront(attacker *Actor, actors []*Actor) *Actor {
	forward := attacker.Rotation().Rotate(reaction.Vec3{X: 1})
	var nearest *Actor
	nearestDist := math.MaxFloat64
	for _, other := range actors {
		if other == attacker || !other.IsAlive() {
			continue
		}
		to := other.Location().Sub(attacker.Location())
		to.Z = 0
		dist := to.Len()
		if dist > AttackRange || dist < 0.001 {
			continue
		}
		if forward.Dot(to.Scale(1/dist)) < 0.5 {
			continue
		}
		if dist < nearestDist {
			nearestDist = dist
			nearest = other
		}
	}
	return nearest
}

// attackHit は攻撃者から見た命中情報を組み立てる。Impactorが被弾側。
func attackHit(attacker, target *Actor) reaction.HitRecord {
	toAttacker := attacker.Location().Sub(target.Location())
	toAttacker.Z = 0
	normal := toAttacker.Normalize()
	impactPoint := target.Location().Add(normal.Scale(ActorRadius))

	return reaction.HitRecord{
		Impactor: reaction.HitSide{
			Actor:        target.ID(),
			Location:     target.Location(),
			ImpactPoint:  impactPoint,
			ImpactNormal: normal,
			Bone:         actorBone,
			Mass:         target.Mass(),
			Velocity:     target.Velocity(),
			Impulse:      normal.Scale(-attackImpulse / 1000),
			Rotation:     target.Rotation(),
		},
		Origin: reaction.HitSide{
			Actor:       attacker.ID(),
			Location:    attacker.Location(),
			ImpactPoint: impactPoint,
			Mass:        attacker.Mass(),
			Velocity:    attacker.Velocity(),
			Rotation:    attacker.Rotation(),
		},
		ImpactType: ImpactTypeAttack,
		Velocity:   reaction.ClassifyVelocity(attacker.Velocity(), attacker.LocomotionMode(), attacker.DesiredGait()),
		Side:       hitSide(target, attacker.Location()),
		Form:       reaction.FormBlunt,
	}
}

// hitSide は被弾側の向きから見た攻撃者の方向を返す
func hitSide(target *Actor, from reaction.Vec3) reaction.Tag {
	to := from.Sub(target.Location())
	yaw := math.Atan2(to.Y, to.X) * 180 / math.Pi
	rel := reaction.NormalizeAxis(yaw - target.Rotation().Rotator().Yaw)
	switch {
	case math.Abs(rel) <= 45:
		return reaction.SideFront
	case math.Abs(rel) >= 135:
		return reaction.SideBack
	case rel > 0:
		return reaction.SideLeft
	default:
		return reaction.SideRight
	}
}
