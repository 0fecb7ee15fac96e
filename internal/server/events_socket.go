package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/moatwatch/internal/events"
)

// writeTimeout bounds a single websocket write to a slow client
const writeTimeout = 10 * time.Second

// EventsSocketHandler streams run events over a websocket
type EventsSocketHandler struct {
	bus *events.Bus
	log zerolog.Logger
}

// NewEventsSocketHandler creates a new websocket events handler
func NewEventsSocketHandler(bus *events.Bus, log zerolog.Logger) *EventsSocketHandler {
	return &EventsSocketHandler{
		bus: bus,
		log: log.With().Str("component", "events_socket").Logger(),
	}
}

// ServeHTTP handles GET /api/events/ws?types=RUN_COMPLETED
func (h *EventsSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	allowed := parseTypesFilter(r.URL.Query().Get("types"))

	eventChan, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same origin policy as the CORS config
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket handshake failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "server error")

	// The stream is one-way; CloseRead handles control frames and cancels
	// ctx once the client goes away
	ctx := conn.CloseRead(r.Context())

	h.log.Info().Int("filtered_types", len(allowed)).Msg("Client connected to event socket")

	if err := h.write(ctx, conn, map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event socket",
	}); err != nil {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event socket")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event, open := <-eventChan:
			if !open {
				conn.Close(websocket.StatusGoingAway, "event bus closed")
				return
			}
			if allowed != nil && !allowed[event.Type] {
				continue
			}
			if err := h.write(ctx, conn, &event); err != nil {
				h.log.Debug().Err(err).Msg("Failed to write event to socket")
				return
			}

		case <-heartbeat.C:
			if err := conn.Ping(ctx); err != nil {
				h.log.Debug().Err(err).Msg("Websocket ping failed")
				return
			}
		}
	}
}

func (h *EventsSocketHandler) write(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
