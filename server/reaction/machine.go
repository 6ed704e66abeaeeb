package reaction

import (
	"context"
	"log/slog"
)

const resetBone = "pelvis"

// impulseScale はヒットの衝撃を物理アニメーションに渡すときの倍率
const impulseScale = 1000

// Machine はキャラクター1体のリアクション状態と移動ロックを管理する。
// Idle → Starting → Active → Stopping → Idle と遷移する。
type Machine struct {
	character ActorID
	movement  Movement
	mesh      Mesh
	effects   EffectPlayer
	settings  Settings
	authority bool

	phase    Phase
	state    State
	locked   bool
	onChange StateChangeFunc
	onEnded  func(ctx context.Context)
}

// NewMachine はMachineを生成する。effectsはnilでもよい。
func NewMachine(character ActorID, movement Movement, mesh Mesh, effects EffectPlayer, settings Settings, authority bool) *Machine {
	return &Machine{
		character: character,
		movement:  movement,
		mesh:      mesh,
		effects:   effects,
		settings:  settings,
		authority: authority,
	}
}

// OnStateChanged は状態上書き時のコールバックを登録する
func (m *Machine) OnStateChanged(fn StateChangeFunc) {
	m.onChange = fn
}

// OnEnded はリアクション終了時のコールバックを登録する
func (m *Machine) OnEnded(fn func(ctx context.Context)) {
	m.onEnded = fn
}

func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) State() State { return m.state }

// Locked は移動モードをロック中かを返す
func (m *Machine) Locked() bool { return m.locked }

// SetState は状態を丸ごと上書きし、コールバックに前後の値を渡す
func (m *Machine) SetState(next State) {
	prev := m.state
	m.state = next
	if m.onChange != nil {
		m.onChange(prev, next)
	}
}

// IsAllowedToStart はクリップが有効で、現在の移動アクションが中断可能かを返す
func (m *Machine) IsAllowedToStart(clip Clip) bool {
	if !clip.IsValid() {
		return false
	}
	return m.settings.Interruptible(m.movement.LocomotionAction())
}

// Start はリアクションを開始しActiveへ遷移する。
// Active中の再開始は状態を上書きし、ロックは保持したままになる。
func (m *Machine) Start(ctx context.Context, st Start) error {
	if !st.Candidate.Clip.IsValid() {
		return ErrInvalidCandidate
	}
	if !m.IsAllowedToStart(st.Candidate.Clip) {
		return ErrDisallowedStart
	}

	m.phase = PhaseStarting
	m.SetState(st.State)
	if !m.locked {
		m.movement.SetMovementModeLocked(true)
		m.locked = true
	}
	if m.authority {
		m.movement.SetNetworkSmoothing(SmoothingDisabled)
	} else {
		m.movement.FlushServerMoves()
	}

	impactor := st.Hit.Impactor
	rotation := SurfaceAlignedRotation(impactor.Rotation.Rotate(UpVector), impactor.ImpactNormal, impactor.Rotation)
	at := Transform{Location: impactor.ImpactPoint, Rotation: rotation}

	m.mesh.PlayClip(st.Candidate.Clip, st.State.PlayRate)
	if m.effects != nil {
		if st.Candidate.Audio.IsValid() {
			m.effects.PlaySound(ctx, st.Candidate.Audio, at)
		}
		if st.Candidate.Particle.IsValid() {
			m.effects.SpawnParticle(ctx, st.Candidate.Particle, at)
		}
	}
	m.mesh.SetPhysicalAnimationMode(PhysicalAnimationHit, impactor.Bone)
	m.movement.SetLocomotionAction(ActionHitReaction)
	m.mesh.AddImpulseBelow(impactor.Impulse.Scale(impulseScale), impactor.Bone)
	m.mesh.SetPhysicalAnimationMode(PhysicalAnimationNone, resetBone)

	m.phase = PhaseActive
	slog.DebugContext(ctx, "reaction started",
		"character", m.character,
		"category", st.Category,
		"clip", st.Candidate.Clip.Name,
		"seq", st.Seq,
	)
	return nil
}

// Tick はActive中に毎tick呼ばれる。移動アクションがヒットリアクションでなくなったら停止し、trueを返す。
func (m *Machine) Tick(ctx context.Context, dt float64) bool {
	if m.phase != PhaseActive {
		return false
	}
	if m.movement.LocomotionAction() != ActionHitReaction {
		m.Stop(ctx)
		return true
	}
	m.refreshRotation(dt)
	return false
}

// Stop はリアクションを終了し移動ロックを解除する
func (m *Machine) Stop(ctx context.Context) {
	if m.phase == PhaseIdle {
		return
	}
	m.phase = PhaseStopping
	if m.authority {
		m.movement.SetNetworkSmoothing(SmoothingExponential)
	}
	if m.locked {
		m.movement.SetMovementModeLocked(false)
		m.locked = false
	}
	if m.onEnded != nil {
		m.onEnded(ctx)
	}
	m.phase = PhaseIdle
	slog.DebugContext(ctx, "reaction stopped", "character", m.character)
}

// refreshRotation はピッチとロールを保ったままヨーを目標角へ寄せる
func (m *Machine) refreshRotation(dt float64) {
	current := m.movement.Rotation().Rotator()
	target := Rotator{Pitch: current.Pitch, Roll: current.Roll}
	speed := m.settings.RotationInterpolationSpeed
	if speed <= 0 {
		target.Yaw = m.state.TargetYaw
		m.movement.MoveUpdatedComponent(target, true)
		return
	}
	target.Yaw = ExponentialDecayAngle(current.Yaw, m.state.TargetYaw, dt, speed)
	m.movement.MoveUpdatedComponent(target, false)
}
