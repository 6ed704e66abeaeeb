package domain

import (
	"context"
	"time"
)

// Application はRoomのtickループ上で動くゲームロジックです。
// HandleMessageとTickは同じgoroutineから呼ばれます。
type Application interface {
	HandleMessage(ctx context.Context, sessionID SessionID, data []byte) error
	// Tick はdt分シミュレーションを進め、ルーム全員に送るメッセージを返す
	Tick(ctx context.Context, dt time.Duration) [][]byte
}
