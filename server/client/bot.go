package client

import (
	"context"

	"flinch/server/application"
	"flinch/server/reaction"
)

// KeyMask はボットの行動をサーバーのキー入力に変換する。前方は+X、左は+Y。
func KeyMask(action application.BotAction) uint32 {
	var mask uint32
	dir := action.MoveDirection
	if dir.X > 0.3 {
		mask |= application.KeyForward
	}
	if dir.X < -0.3 {
		mask |= application.KeyBack
	}
	if dir.Y > 0.3 {
		mask |= application.KeyLeft
	}
	if dir.Y < -0.3 {
		mask |= application.KeyRight
	}
	switch action.Gait {
	case reaction.GaitSprinting:
		mask |= application.KeySprint
	case reaction.GaitWalking:
		mask |= application.KeyWalk
	}
	if action.Attack {
		mask |= application.KeyAttack
	}
	return mask
}

// Step はボット1tick分の判断。入力を送信キューに積み、攻撃なら相手の写しで先行再生する。
// 自キャラがまだ届いていない、またはダウン中ならfalse。
func (w *World) Step(ctx context.Context, controller application.BotController) (bool, error) {
	self, ok := w.field.GetActor(w.self)
	if !ok || !self.IsAlive() {
		return false, nil
	}
	action := controller.Decide(self, w.Actors())
	if err := w.SendInput(KeyMask(action)); err != nil {
		return false, err
	}
	if action.Attack {
		w.PredictAttack(ctx)
	}
	return true, nil
}
