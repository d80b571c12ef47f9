package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// streamTables lists the entity feeds clients may subscribe to.
var streamTables = map[string]struct{}{
	"batches":             {},
	"students":            {},
	"classes":             {},
	"attendance":          {},
	"fees":                {},
	"tests":               {},
	"test_marks":          {},
	"tasks":               {},
	"task_submissions":    {},
	"notes":               {},
	"events":              {},
	"event_registrations": {},
	"notifications":       {},
}

// StreamHandler serves the per-table change feed over server-sent events.
type StreamHandler struct {
	hub       *realtime.Hub
	keepAlive time.Duration
	logger    zerolog.Logger
}

// NewStreamHandler constructs a change feed handler.
func NewStreamHandler(hub *realtime.Hub, keepAlive time.Duration, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		hub:       hub,
		keepAlive: keepAlive,
		logger:    logger.With().Str("component", "stream_handler").Logger(),
	}
}

// Register wires the stream route.
func (h *StreamHandler) Register(router fiber.Router) {
	router.Get("/stream/:table", h.stream)
}

func (h *StreamHandler) stream(c *fiber.Ctx) error {
	table := c.Params("table")
	if _, ok := streamTables[table]; !ok {
		return utils.SendError(c, fiber.StatusNotFound, "unknown stream")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	events, cleanup := h.hub.Subscribe(table)

	keepAlive := h.keepAlive
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		ticker := time.NewTicker(keepAlive / 2)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeChangeEvent(w, event); err != nil {
					h.logger.Debug().Err(err).Str("table", table).Msg("failed to write change event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Str("table", table).Msg("failed to write keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func writeChangeEvent(w *bufio.Writer, event realtime.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
		return err
	}

	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
		return err
	}

	return w.Flush()
}
