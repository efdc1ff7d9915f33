package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mavrin/wagervault/internal/services/engine"
)

// NewRouter constructs the instruction surface. Session mutators are
// all POSTs keyed by session id; reads are GETs.
func NewRouter(eng *engine.Engine) http.Handler {
	h := NewHandler(eng)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/sessions", h.CreateSessionHandler)
	r.Get("/sessions/{sessionId}", h.GetSessionHandler)
	r.Post("/sessions/{sessionId}/join", h.JoinUserHandler)
	r.Post("/sessions/{sessionId}/kill", h.RecordKillHandler)
	r.Post("/sessions/{sessionId}/spawn", h.PayToSpawnHandler)
	r.Post("/sessions/{sessionId}/distribute", h.DistributeWinningsHandler)
	r.Post("/sessions/{sessionId}/refund", h.RefundWagerHandler)

	r.Get("/accounts/{addr}/balance", h.GetBalanceHandler)

	return r
}
