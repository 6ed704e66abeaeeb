package domain

import (
	"fmt"
	"log/slog"
	"strings"
)

// IdleReason はセッションを閉じた理由のビット集合
type IdleReason uint8

const (
	IdleNone     IdleReason = 0
	IdleRead     IdleReason = 1 << 0
	IdleWrite    IdleReason = 1 << 1
	IdlePong     IdleReason = 1 << 2
	IdleDisabled IdleReason = 1 << 7 // タイムアウト判定なし
)

var idleReasonNames = []struct {
	bit  IdleReason
	name string
}{
	{IdleRead, "read"},
	{IdleWrite, "write"},
	{IdlePong, "pong"},
}

func (r IdleReason) Has(x IdleReason) bool { return r&x != 0 }

// Names は立っている理由を読み取り、書き込み、pongの順で返す
func (r IdleReason) Names() []string {
	var names []string
	for _, n := range idleReasonNames {
		if r.Has(n.bit) {
			names = append(names, n.name)
		}
	}
	return names
}

func (r IdleReason) String() string {
	switch r {
	case IdleNone:
		return "none"
	case IdleDisabled:
		return "disabled"
	}
	if names := r.Names(); len(names) > 0 {
		return strings.Join(names, "|")
	}
	return fmt.Sprintf("unknown(%d)", uint8(r))
}

// LogValue はログに理由の文字列とビット値を並べて出す
func (r IdleReason) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", r.String()),
		slog.Int("bits", int(r)),
	)
}
