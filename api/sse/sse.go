// Package sse streams live budget summaries to browser clients.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/amerihn/conference-event-planner/config"
	mw "github.com/amerihn/conference-event-planner/middleware"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepaliveEvery = 30 * time.Second

// Handler handles the SSE endpoint.
type Handler struct {
	m         *planner.Manager
	sec       config.SecurityConfig
	logger    *zap.Logger
	keepalive time.Duration
}

// NewHandler creates a new SSE Handler.
func NewHandler(m *planner.Manager, sec config.SecurityConfig, logger *zap.Logger) *Handler {
	return &Handler{m: m, sec: sec, logger: logger, keepalive: keepaliveEvery}
}

// ServeSSE handles GET /sse?token=<jwt>.
// It sends the current summary as a "summary" event on connect, then every
// summary published for the session until the client goes away.
func (h *Handler) ServeSSE(c *gin.Context) {
	s, err := mw.Authenticate(c.Request.Context(), h.sec, h.m, c.Query("token"))
	if err != nil {
		status, msg := mw.AuthError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	msgCh, unsub, err := h.m.Subscribe(ctx, s.ID)
	if err != nil {
		h.logger.Error("sse subscribe failed", zap.String("session_id", s.ID), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	defer unsub()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	initial, err := json.Marshal(s.Summary())
	if err != nil {
		h.logger.Error("sse encode summary", zap.Error(err))
		return
	}
	fmt.Fprintf(c.Writer, "event: summary\ndata: %s\n\n", initial)
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: summary\ndata: %s\n\n", msg.Payload)
			c.Writer.Flush()

		case <-ticker.C:
			// Keepalive comment to prevent proxy timeouts.
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-ctx.Done():
			return
		}
	}
}
