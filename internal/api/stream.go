package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AvtMob/WeatherApp/internal/logger"
)

const (
	eventState     = "state"
	eventChange    = "change"
	eventHeartbeat = "heartbeat"

	// streamBuffer is the per-client change buffer; a slow client loses
	// the oldest changes first.
	streamBuffer = 32

	sseWriteTimeout = 10 * time.Second
)

// streamState sends the current state, then every change, as server-sent
// events until the client leaves, the controller closes or the server
// shuts down.
func (s *Server) streamState(c echo.Context) error {
	sub, err := s.controller.Subscribe(streamBuffer)
	if err != nil {
		return errorJSON(c, http.StatusServiceUnavailable, "state stream is closed")
	}
	defer sub.Unsubscribe()

	s.wg.Add(1)
	defer s.wg.Done()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := s.sendSSE(c, eventState, s.controller.State()); err != nil {
		return nil
	}

	s.log.Debug("state stream opened",
		logger.String("client_id", sub.ID()),
		logger.String("ip", c.RealIP()))
	defer s.log.Debug("state stream closed", logger.String("client_id", sub.ID()))

	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case change, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err := s.sendSSE(c, eventChange, change); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := s.sendSSE(c, eventHeartbeat, map[string]int64{"timestamp": time.Now().Unix()}); err != nil {
				return nil
			}
		case <-c.Request().Context().Done():
			return nil
		case <-s.ctx.Done():
			return nil
		}
	}
}

// sendSSE writes one event and flushes it.
func (s *Server) sendSSE(c echo.Context, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE data: %w", err)
	}

	rc := http.NewResponseController(c.Response().Writer)
	_ = rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout))

	if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

// requestContext derives a bounded context that also ends on shutdown.
func (s *Server) requestContext(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
