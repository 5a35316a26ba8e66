package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"learning-lab/domain/chat"
	"learning-lab/observability"
	"log/slog"
	"net/http"
	"time"
)

type ParticipantsProvider func() []chat.Identity
type StatsProvider func() observability.ChatStatsSnapshot

// NewDebugHandler exposes the live participants and the relay counters as JSON.
func NewDebugHandler(participants ParticipantsProvider, stats StatsProvider) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /debug/participants", func(w http.ResponseWriter, r *http.Request) {
		identities := participants()
		if identities == nil {
			identities = []chat.Identity{}
		}
		writeJSON(w, map[string]any{
			"count":        len(identities),
			"participants": identities,
		})
	})

	mux.HandleFunc("GET /debug/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, stats())
	})

	return mux
}

// StartDebugServer serves the debug handler until ctx is canceled.
func StartDebugServer(ctx context.Context, log *slog.Logger, port int, handler http.Handler) {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting debug server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("debug server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
