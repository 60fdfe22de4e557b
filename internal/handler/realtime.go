package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mentorflow/mentorflow/internal/domain"
)

// StreamChanges relays change events for one table as server-sent events until the client
// goes away. Each event is a single `data:` line holding the JSON encoded domain.ChangeEvent.
func (h *Handler) StreamChanges(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if table != domain.TableProjects && table != domain.TableProfiles {
		h.errorResponse(w, r, "unknown table")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.internalServerError(w, r, fmt.Errorf("streaming unsupported by %T", w))
		return
	}

	events, err := h.broker.Subscribe(r.Context(), table)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// an initial comment lets the client know the subscription is live
	fmt.Fprint(w, ": subscribed\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(time.Duration(h.config.Realtime.HeartbeatInterval) * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				slog.Error("failed to encode change event", "table", table, "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
