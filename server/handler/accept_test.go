package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flinch/server/domain"
	"flinch/server/handler"
)

func TestAcceptHandler_RejectsWithoutToken(t *testing.T) {
	h := handler.NewAcceptHandler(
		domain.NewSimplePubSub(),
		domain.NewSimpleRoomManager(domain.DefaultRoomID),
		handler.NewTokenVerifier("secret"),
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

type fixedCounter int

func (c fixedCounter) Sessions() int { return int(c) }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewHealthHandler(fixedCounter(3)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sessions=3") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
