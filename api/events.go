package api

import (
	"bufio"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/nexus/pkg/sse"
)

const defaultKeepAlive = 15 * time.Second

// handleEvents streams snapshot lifecycle events as Server-Sent Events until
// the client disconnects or the server shuts down. Each event carries the
// generation as its id.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	events, cancel := s.config.Events.Subscribe(0)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	keepAlive := s.config.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		if sse.Comment(w, "connected") != nil || w.Flush() != nil {
			return
		}

		for {
			var err error
			select {
			case <-s.stop:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				data, merr := json.Marshal(ev)
				if merr != nil {
					s.logger.Warn("failed to encode snapshot event", "error", merr)
					continue
				}
				err = sse.Write(w, sse.Event{
					ID:   strconv.FormatUint(ev.Generation, 10),
					Type: ev.EventType,
					Data: string(data),
				})
			case <-ticker.C:
				err = sse.Comment(w, "keep-alive")
			}
			if err == nil {
				err = w.Flush()
			}
			if err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	})

	return nil
}
