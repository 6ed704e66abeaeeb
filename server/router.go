package server

import (
	"net/http"

	"flinch/server/domain"
	"flinch/server/handler"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Route はHTTPのルーティングを組み立てる。リクエストはotelhttpでトレースされる。
func Route(pubsub domain.PubSub, roomManager domain.RoomManager, room handler.SessionCounter, verifier *handler.TokenVerifier, opts ...domain.EndpointOption) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", handler.NewAcceptHandler(pubsub, roomManager, verifier, opts...))
	mux.Handle("GET /healthz", handler.NewHealthHandler(room))
	return otelhttp.NewHandler(mux, "flinch")
}
