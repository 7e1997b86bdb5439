package rest

import (
	"net/http"
	"sort"
	"time"

	"github.com/amerihn/conference-event-planner/planner"
	"github.com/amerihn/conference-event-planner/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminHandler handles operator-only REST endpoints.
// Routes should be protected by the middleware.AdminAuth guard.
type AdminHandler struct {
	m       *planner.Manager
	sched   *scheduler.Scheduler
	started time.Time
	logger  *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(m *planner.Manager, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{m: m, sched: sched, started: time.Now(), logger: logger}
}

// Metrics returns server health metrics.
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active_sessions": h.m.Count(),
		"scheduler_tasks": h.sched.Tasks(),
		"uptime_s":        int64(time.Since(h.started).Seconds()),
	})
}

type sessionInfo struct {
	ID         string          `json:"session_id"`
	CreatedAt  time.Time       `json:"created_at"`
	LastActive time.Time       `json:"last_active"`
	People     int             `json:"people"`
	View       planner.View    `json:"view"`
	Grand      decimal.Decimal `json:"grand"`
}

// ListSessions returns a snapshot of all live sessions, oldest first.
// GET /api/admin/sessions
func (h *AdminHandler) ListSessions(c *gin.Context) {
	sessions := h.m.All()
	result := make([]sessionInfo, 0, len(sessions))
	for _, s := range sessions {
		sum := s.Summary()
		result = append(result, sessionInfo{
			ID:         s.ID,
			CreatedAt:  s.CreatedAt,
			LastActive: s.LastActive(),
			People:     sum.People,
			View:       sum.View,
			Grand:      sum.Grand,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	c.JSON(http.StatusOK, gin.H{"sessions": result, "count": len(result)})
}

// EndSession forcibly discards a session by id.
// DELETE /api/admin/sessions/:id
func (h *AdminHandler) EndSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.m.End(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.logger.Info("admin ended session", zap.String("session_id", id))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
