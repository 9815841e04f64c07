package discord

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"groovebot/internal/music/player"
	"groovebot/internal/version"
)

type statusResponse struct {
	App      string               `json:"app"`
	Uptime   string               `json:"uptime"`
	Guilds   int                  `json:"guilds"`
	Sessions []player.SessionInfo `json:"sessions"`
}

// statusMux routes the liveness endpoint and a JSON snapshot of every
// playback session.
func (b *Bot) statusMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			App:      version.AppName,
			Uptime:   time.Since(b.started).Round(time.Second).String(),
			Guilds:   len(b.dg.State.Guilds),
			Sessions: b.sessions.Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("[WARN] Failed to write status response: %v", err)
		}
	})
	return mux
}

// statusServer serves the status endpoints on addr. It blocks until the
// server exits or ctx is cancelled; run in a goroutine.
func statusServer(ctx context.Context, b *Bot, addr string) {
	if addr == "" {
		return
	}

	srv := &http.Server{Addr: addr, Handler: b.statusMux()}

	go func() {
		<-ctx.Done()
		log.Println("[INFO] Shutting down status server...")
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[INFO] Status server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		// Never log.Fatal here, that would take the whole bot down.
		log.Printf("[ERR] Status server exited: %v", err)
	}
}
