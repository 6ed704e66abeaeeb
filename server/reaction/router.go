package reaction

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("flinch/server/reaction")

// Role はキャラクターに対するローカルピアのネットワークロール
type Role uint8

const (
	RoleObserver Role = iota
	RoleSimulatedProxy
	RoleAutonomousProxy
	RoleAuthority
)

func (r Role) String() string {
	switch r {
	case RoleSimulatedProxy:
		return "simulated_proxy"
	case RoleAutonomousProxy:
		return "autonomous_proxy"
	case RoleAuthority:
		return "authority"
	default:
		return "observer"
	}
}

// reactor は候補選択とステートマシンへの適用を行う
type reactor interface {
	Resolve(ctx context.Context, req Request) (Start, error)
	Commit(st Start)
	Apply(ctx context.Context, st Start) error
	AllowedToStart(clip Clip) bool
}

// Router はロールに応じてリアクションイベントをローカル適用・転送・配信に振り分ける。
// カテゴリによらず同じ経路を通る。
type Router struct {
	character  ActorID
	localRole  Role
	remoteRole Role

	replicator Replicator
	reactor    reactor
	validator  Validator
	policy     LatencyHidingPolicy

	seq     uint32 // 権威側の採番
	lastSeq uint32 // 受信側で適用済みの最大seq
}

func newRouter(character ActorID, localRole, remoteRole Role, replicator Replicator, r reactor, validator Validator, policy LatencyHidingPolicy) *Router {
	if validator == nil {
		validator = PermissiveValidator{}
	}
	return &Router{
		character:  character,
		localRole:  localRole,
		remoteRole: remoteRole,
		replicator: replicator,
		reactor:    r,
		validator:  validator,
		policy:     policy,
	}
}

func (r *Router) LocalRole() Role  { return r.localRole }
func (r *Router) RemoteRole() Role { return r.remoteRole }

// SetRoles はロールを更新する。所有権の移譲時に使う。
func (r *Router) SetRoles(local, remote Role) {
	r.localRole = local
	r.remoteRole = remote
}

// Replicate はローカルで発生したリアクションイベントをロールに応じて処理する。
//
//	Authority:       選択してマルチキャストし、ローカルにも適用
//	AutonomousProxy: サーバーへ転送し、マルチキャストが届くまで適用しない
//	SimulatedProxy:  リモートが権威でレイテンシ隠蔽対象のカテゴリならローカルのみ適用
func (r *Router) Replicate(ctx context.Context, req Request) (err error) {
	ctx, span := tracer.Start(ctx, "reaction.Replicate", r.spanOptions(req.Category)...)
	defer func() { endSpan(span, err) }()

	req.Character = r.character
	switch r.localRole {
	case RoleAuthority:
		return r.authorize(ctx, req)
	case RoleAutonomousProxy:
		if err := r.replicator.ServerCall(ctx, req); err != nil {
			slog.WarnContext(ctx, "reaction server call failed", "character", r.character, "category", req.Category, "err", err)
			return err
		}
		return nil
	case RoleSimulatedProxy:
		if r.remoteRole != RoleAuthority || !r.policy.Enabled(req.Category) {
			slog.DebugContext(ctx, "reaction ignored for role", "character", r.character, "role", r.localRole, "category", req.Category)
			return ErrRoleMismatch
		}
		st, err := r.reactor.Resolve(ctx, req)
		if err != nil {
			return err
		}
		if !r.reactor.AllowedToStart(st.Candidate.Clip) {
			return ErrDisallowedStart
		}
		r.reactor.Commit(st)
		return r.reactor.Apply(ctx, st)
	default:
		slog.DebugContext(ctx, "reaction ignored for role", "character", r.character, "role", r.localRole, "category", req.Category)
		return ErrRoleMismatch
	}
}

// HandleServerCall は権威側でクライアントから転送された要求を処理する
func (r *Router) HandleServerCall(ctx context.Context, req Request) (err error) {
	ctx, span := tracer.Start(ctx, "reaction.HandleServerCall", r.spanOptions(req.Category)...)
	defer func() { endSpan(span, err) }()

	if r.localRole != RoleAuthority {
		slog.DebugContext(ctx, "server call on non-authority", "character", r.character, "role", r.localRole)
		return ErrRoleMismatch
	}
	req.Character = r.character
	if err := r.validator.Validate(ctx, req); err != nil {
		slog.WarnContext(ctx, "reaction request rejected", "character", r.character, "category", req.Category, "err", err)
		return errors.Join(ErrRejected, err)
	}
	defer r.replicator.ForceNetUpdate(ctx, r.character)
	return r.authorize(ctx, req)
}

// HandleMulticast は権威側から配信された開始イベントを適用する。
// 適用済みのseqや開始できないクリップは黙って捨てる。
func (r *Router) HandleMulticast(ctx context.Context, st Start) (err error) {
	ctx, span := tracer.Start(ctx, "reaction.HandleMulticast", r.spanOptions(st.Category)...)
	span.SetAttributes(attribute.Int64("reaction.seq", int64(st.Seq)))
	defer func() { endSpan(span, err) }()

	if st.Seq != 0 {
		if st.Seq <= r.lastSeq {
			slog.DebugContext(ctx, "duplicate reaction start dropped", "character", r.character, "seq", st.Seq, "lastSeq", r.lastSeq)
			return nil
		}
		r.lastSeq = st.Seq
	}
	if !r.reactor.AllowedToStart(st.Candidate.Clip) {
		slog.DebugContext(ctx, "reaction start dropped", "character", r.character, "category", st.Category, "clip", st.Candidate.Clip.Name)
		return nil
	}
	return r.reactor.Apply(ctx, st)
}

// authorize は候補を確定し、採番して配信とローカル適用を行う
func (r *Router) authorize(ctx context.Context, req Request) error {
	st, err := r.reactor.Resolve(ctx, req)
	if err != nil {
		slog.DebugContext(ctx, "no reaction selected", "character", r.character, "category", req.Category, "err", err)
		return err
	}
	if !r.reactor.AllowedToStart(st.Candidate.Clip) {
		slog.DebugContext(ctx, "reaction start disallowed", "character", r.character, "category", req.Category, "clip", st.Candidate.Clip.Name)
		return ErrDisallowedStart
	}
	r.reactor.Commit(st)
	r.seq++
	st.Seq = r.seq
	st.Character = r.character
	if err := r.replicator.Multicast(ctx, st); err != nil {
		slog.WarnContext(ctx, "reaction multicast failed", "character", r.character, "seq", st.Seq, "err", err)
	}
	return r.HandleMulticast(ctx, st)
}

// ForceNetUpdate は権威側で状態の即時配信を要求する
func (r *Router) ForceNetUpdate(ctx context.Context) {
	if r.localRole == RoleAuthority {
		r.replicator.ForceNetUpdate(ctx, r.character)
	}
}

func (r *Router) spanOptions(cat Category) []trace.SpanStartOption {
	return []trace.SpanStartOption{
		trace.WithAttributes(
			attribute.String("reaction.character", r.character.String()),
			attribute.String("reaction.category", cat.String()),
			attribute.String("reaction.role", r.localRole.String()),
		),
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
