package application

import (
	"flinch/server/domain"
	"flinch/server/reaction"
)

// BotAction はボットの行動を表します。
type BotAction struct {
	MoveDirection reaction.Vec3
	Gait          reaction.Tag
	Attack        bool
}

// BotController はボットの意思決定インターフェースです。
type BotController interface {
	Decide(self *Actor, allActors []*Actor) BotAction
}

// BotInstance はボットのインスタンスを表します。
type BotInstance struct {
	SessionID  domain.SessionID
	Controller BotController
}
