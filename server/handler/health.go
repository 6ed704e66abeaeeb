package handler

import (
	"fmt"
	"net/http"
)

// SessionCounter は接続中のセッション数を返す
type SessionCounter interface {
	Sessions() int
}

// NewHealthHandler は生存確認用のハンドラ。本文に参加セッション数を返す。
func NewHealthHandler(room SessionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if room != nil {
			fmt.Fprintf(w, "ok sessions=%d\n", room.Sessions())
		}
	}
}
