package handler

import (
	"log/slog"
	"net/http"

	adapterwebsocket "flinch/server/adapter/websocket"
	"flinch/server/domain"

	"github.com/coder/websocket"
)

type AcceptHandler struct {
	pubsub      domain.PubSub
	roomManager domain.RoomManager
	verifier    *TokenVerifier
	opts        []domain.EndpointOption
}

// NewAcceptHandler はwebsocket接続を受け付けてSessionEndpointを起動するハンドラを作る。
// verifierがnilなら認証なしで受け付ける。
func NewAcceptHandler(pubsub domain.PubSub, roomManager domain.RoomManager, verifier *TokenVerifier, opts ...domain.EndpointOption) *AcceptHandler {
	return &AcceptHandler{pubsub: pubsub, roomManager: roomManager, verifier: verifier, opts: opts}
}

func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject := ""
	if h.verifier != nil {
		var err error
		subject, err = h.verifier.Verify(tokenFromRequest(r))
		if err != nil {
			slog.WarnContext(ctx, "rejected connection", "err", err, "remote", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // 開発用: Origin チェックをスキップ
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}

	session := domain.NewSession()
	transport := adapterwebsocket.NewTransportFrom(conn)
	connection := domain.NewConnection(session.ID(), transport)
	endpoint, err := domain.NewSessionEndpoint(session, connection, h.pubsub, h.roomManager, h.opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session endpoint", "err", err)
		connection.Close()
		return
	}
	slog.DebugContext(ctx, "accepted new connection", "sessionID", session.ID(), "subject", subject)
	if err := endpoint.Run(); err != nil {
		slog.ErrorContext(ctx, "failed to run session endpoint", "sessionID", session.ID(), "err", err)
		return
	}
}
