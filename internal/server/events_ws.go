package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/codingisforpros/wealthtrack/internal/events"
)

// wsWriteTimeout bounds a single frame write to a slow client.
const wsWriteTimeout = 10 * time.Second

// EventsWSHandler streams bus events to clients over a WebSocket, for
// consumers that need bidirectional framing instead of SSE.
type EventsWSHandler struct {
	bus *events.Bus
	log zerolog.Logger
}

// NewEventsWSHandler creates a new WebSocket feed handler.
func NewEventsWSHandler(bus *events.Bus, log zerolog.Logger) *EventsWSHandler {
	return &EventsWSHandler{
		bus: bus,
		log: log.With().Str("component", "events_ws").Logger(),
	}
}

// ServeHTTP handles GET /api/events/ws upgrade requests. The "types"
// query parameter filters like the SSE stream.
func (h *EventsWSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS policy is enforced by the router middleware
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	subscribed := parseTypesFilter(r.URL.Query().Get("types"))
	h.log.Info().Int("types", len(subscribed)).Msg("Client connected to WebSocket feed")

	eventChan := make(chan *events.Event, streamBufferSize)
	handler := func(event *events.Event) {
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("WebSocket channel full, dropping event")
		}
	}

	subscriptions := make(map[events.EventType]int, len(subscribed))
	for _, eventType := range subscribed {
		subscriptions[eventType] = h.bus.Subscribe(eventType, handler)
	}
	defer func() {
		for eventType, id := range subscriptions {
			h.bus.Unsubscribe(eventType, id)
		}
	}()

	// Reads drive disconnect detection; the client is not expected to
	// send application data.
	readCtx := conn.CloseRead(r.Context())

	for {
		select {
		case <-readCtx.Done():
			h.log.Info().Msg("Client disconnected from WebSocket feed")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event := <-eventChan:
			if err := h.write(readCtx, conn, eventPayload(event)); err != nil {
				h.log.Debug().Err(err).Msg("WebSocket write failed, closing")
				return
			}
		}
	}
}

func (h *EventsWSHandler) write(ctx context.Context, conn *websocket.Conn, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
