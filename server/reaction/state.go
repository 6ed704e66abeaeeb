package reaction

// State はキャラクターごとに1つだけ存在する複製されたリアクション状態。
// 新しいリアクションのたびにマージせず丸ごと上書きされる。
type State struct {
	Clip           Clip
	PlayRate       float64
	ImpactType     Tag
	ImpactVelocity float64
	TargetYaw      float64
	BaseDamage     float64
}

// StateChangeFunc は状態が上書きされたときに呼ばれる
type StateChangeFunc func(prev, next State)

// Phase はリアクションステートマシンの状態
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseStarting
	PhaseActive
	PhaseStopping
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarting:
		return "starting"
	case PhaseActive:
		return "active"
	case PhaseStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
