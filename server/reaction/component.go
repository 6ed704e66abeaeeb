package reaction

import (
	"context"
	"log/slog"
	"math/rand/v2"
)

// Deps はComponentの依存
type Deps struct {
	Character    ActorID
	Movement     Movement
	Mesh         Mesh
	Effects      EffectPlayer   // 任意
	Resolver     EffectResolver // 任意
	Sweeper      Sweeper        // nilなら障害物検出を行わない
	Capabilities Capabilities
	Catalog      Catalog
	Replicator   Replicator
	Validator    Validator // nilならPermissiveValidator
	LocalRole    Role
	RemoteRole   Role
	Settings     Settings
	Rand         *rand.Rand

	OnStateChanged StateChangeFunc
	OnEnded        func(ctx context.Context)
}

// Component はキャラクター1体分のリアクション処理をまとめる。
// 同じキャラクターに対する呼び出しは単一のgoroutineから行うこと。
type Component struct {
	character ActorID
	movement  Movement
	catalog   Catalog
	resolver  EffectResolver
	settings  Settings

	selector *Selector
	machine  *Machine
	detector *Detector
	router   *Router
}

func NewComponent(d Deps) (*Component, error) {
	if d.Movement == nil || d.Mesh == nil || d.Catalog == nil || d.Replicator == nil {
		return nil, ErrInitializationFailed
	}
	c := &Component{
		character: d.Character,
		movement:  d.Movement,
		catalog:   d.Catalog,
		resolver:  d.Resolver,
		settings:  d.Settings,
		selector:  NewSelector(d.Rand),
		machine:   NewMachine(d.Character, d.Movement, d.Mesh, d.Effects, d.Settings, d.LocalRole == RoleAuthority),
	}
	if d.Sweeper != nil && d.Capabilities != nil {
		c.detector = NewDetector(d.Character, d.Movement, d.Mesh, d.Sweeper, d.Capabilities, d.Settings)
	}
	c.router = newRouter(d.Character, d.LocalRole, d.RemoteRole, d.Replicator, c, d.Validator, d.Settings.LatencyHiding)
	c.machine.OnStateChanged(d.OnStateChanged)
	c.machine.OnEnded(d.OnEnded)
	return c, nil
}

func (c *Component) Character() ActorID { return c.character }
func (c *Component) Router() *Router    { return c.router }
func (c *Component) Machine() *Machine  { return c.machine }
func (c *Component) Selector() *Selector {
	return c.selector
}

// React は任意カテゴリのリアクションを発生させる
func (c *Component) React(ctx context.Context, req Request) error {
	return c.router.Replicate(ctx, req)
}

// ImpactReaction は衝突によるリアクションを発生させる
func (c *Component) ImpactReaction(ctx context.Context, hit HitRecord) error {
	return c.React(ctx, Request{Category: CategoryImpact, Hit: hit})
}

// AttackReaction は攻撃によるリアクションを発生させる
func (c *Component) AttackReaction(ctx context.Context, hit AttackHitRecord) error {
	return c.React(ctx, Request{
		Category: CategoryAttack,
		Hit:      hit.Hit,
		Attack: AttackParams{
			BaseDamage:     hit.BaseDamage,
			Strength:       hit.Strength,
			StrengthScalar: hit.StrengthScalar,
		},
	})
}

// SyncedAttackReaction はカタログの位置indexのリアクションを選択なしで再生する
func (c *Component) SyncedAttackReaction(ctx context.Context, index int) error {
	return c.React(ctx, Request{Category: CategorySyncedAttack, SyncedIndex: index})
}

// BumpReaction はBumpReceiverの実装。障害物検出から呼ばれる。
func (c *Component) BumpReaction(ctx context.Context, hit HitRecord, gait, side, form Tag) {
	hit.Side = side
	hit.Form = form
	if err := c.React(ctx, Request{Category: CategoryBump, Hit: hit, Gait: gait}); err != nil {
		slog.DebugContext(ctx, "bump reaction not started", "character", c.character, "err", err)
	}
}

// Tick は1tick分の更新。障害物検出とステートマシンを進める。
func (c *Component) Tick(ctx context.Context, dt float64) {
	if c.detector != nil && c.router.LocalRole() >= RoleAutonomousProxy {
		c.detector.Trace(ctx)
	}
	if c.machine.Tick(ctx, dt) {
		c.router.ForceNetUpdate(ctx)
	}
}

// Resolve は要求から候補を選び、配信する開始イベントを組み立てる
func (c *Component) Resolve(ctx context.Context, req Request) (Start, error) {
	hit := req.Hit
	var (
		candidate Candidate
		err       error
	)
	pool := c.catalog.Candidates(req.Category, "")
	if req.Category == CategorySyncedAttack {
		candidate, err = pickIndex(pool, req.SyncedIndex)
	} else {
		candidate, err = c.selector.Pick(req.Category, pool, c.query(req))
	}
	if err != nil {
		return Start{}, err
	}

	if c.resolver != nil {
		if !candidate.Audio.IsValid() {
			candidate.Audio = c.resolver.Audio(hit)
		}
		if !candidate.Particle.IsValid() {
			candidate.Particle = c.resolver.Particle(hit)
		}
	}

	playRate := candidate.PlayRate
	if playRate <= 0 {
		playRate = 1
	}
	impactVelocity := hit.Origin.Velocity.Len()
	if req.Attack.Strength.IsValid() {
		impactVelocity = req.Attack.StrengthScalar
	} else if !hit.Velocity.IsValid() {
		impactVelocity = c.movement.Velocity().Len()
	}

	return Start{
		Category:  req.Category,
		Character: c.character,
		Hit:       hit,
		Candidate: candidate,
		State: State{
			Clip:           candidate.Clip,
			PlayRate:       playRate,
			ImpactType:     hit.ImpactType,
			ImpactVelocity: impactVelocity,
			TargetYaw:      NormalizeAxis(c.movement.Rotation().Rotator().Yaw + c.settings.RotationOffset),
			BaseDamage:     req.Attack.BaseDamage,
		},
	}, nil
}

// Apply は開始イベントをステートマシンに渡す
func (c *Component) Apply(ctx context.Context, st Start) error {
	return c.machine.Start(ctx, st)
}

// Commit は開始が認められた選択を履歴に残す。同期攻撃は指定インデックスなので記録しない。
func (c *Component) Commit(st Start) {
	if st.Category == CategorySyncedAttack {
		return
	}
	c.selector.Commit(st.Category, st.Candidate)
}

func (c *Component) AllowedToStart(clip Clip) bool {
	return c.machine.IsAllowedToStart(clip)
}

// query は要求から候補検索のタグを組み立てる。攻撃由来なら強度、それ以外は速度カテゴリ。
func (c *Component) query(req Request) Query {
	severity := req.Hit.Velocity
	if req.Attack.Strength.IsValid() {
		severity = req.Attack.Strength
	} else if !severity.IsValid() {
		severity = ClassifyVelocity(c.movement.Velocity(), c.movement.LocomotionMode(), c.movement.DesiredGait())
	}
	return Query{Severity: severity, Side: req.Hit.Side, Form: req.Hit.Form}
}

// pickIndex は同期攻撃用に位置で選ぶ。先頭が無効なプールはSelectorと同じく全体を拒否する。
func pickIndex(pool []Candidate, index int) (Candidate, error) {
	if err := checkPool(pool); err != nil {
		return Candidate{}, err
	}
	if index < 0 || index >= len(pool) || !pool[index].IsValid() {
		return Candidate{}, ErrInvalidCandidate
	}
	return pool[index], nil
}
