package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/amerihn/conference-event-planner/config"
	mw "github.com/amerihn/conference-event-planner/middleware"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler handles the planning session REST endpoints.
type SessionHandler struct {
	m      *planner.Manager
	sec    config.SecurityConfig
	logger *zap.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(m *planner.Manager, sec config.SecurityConfig, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{m: m, sec: sec, logger: logger}
}

// Create starts a planning session and issues its token.
// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	s, err := h.m.Create(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := mw.GenerateToken(s.ID, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		_ = h.m.End(c.Request.Context(), s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"token":      token,
		"state":      s.State(),
	})
}

// Get returns the full session state.
// GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, mw.GetSession(c).State())
}

// End discards the session.
// DELETE /api/session
func (h *SessionHandler) End(c *gin.Context) {
	s := mw.GetSession(c)
	if err := h.m.End(c.Request.Context(), s.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Reset clears every quantity and selection but keeps the head count.
// POST /api/session/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	s := mw.GetSession(c)
	s.Reset()
	h.publish(c, s)
	c.JSON(http.StatusOK, s.State())
}

// Adjust returns a handler that moves the quantity of the item at :index in
// category cat by one unit up (delta > 0) or down.
// POST /api/venue/:index/increment, /api/addons/:index/decrement, ...
func (h *SessionHandler) Adjust(cat catalog.Category, delta int) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := indexParam(c)
		if !ok {
			return
		}
		s := mw.GetSession(c)
		var (
			changed bool
			err     error
		)
		if delta > 0 {
			changed, err = s.Increment(cat, index)
		} else {
			changed, err = s.Decrement(cat, index)
		}
		if err != nil {
			writeError(c, err)
			return
		}
		if changed {
			h.publish(c, s)
		}
		c.JSON(http.StatusOK, gin.H{"changed": changed, "state": s.State()})
	}
}

// ToggleMeal flips the meal at :index.
// POST /api/meals/:index/toggle
func (h *SessionHandler) ToggleMeal(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	s := mw.GetSession(c)
	if err := s.ToggleMeal(index); err != nil {
		writeError(c, err)
		return
	}
	h.publish(c, s)
	c.JSON(http.StatusOK, gin.H{"changed": true, "state": s.State()})
}

type peopleRequest struct {
	Count *int `json:"count" binding:"required"`
}

// SetPeople changes the attendee count.
// PUT /api/people
func (h *SessionHandler) SetPeople(c *gin.Context) {
	var req peopleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := mw.GetSession(c)
	if err := s.SetPeople(*req.Count); err != nil {
		writeError(c, err)
		return
	}
	h.publish(c, s)
	c.JSON(http.StatusOK, s.State())
}

// Totals returns the per-category and grand totals.
// GET /api/totals
func (h *SessionHandler) Totals(c *gin.Context) {
	t := mw.GetSession(c).Totals()
	c.JSON(http.StatusOK, gin.H{
		"venue": t.Venue,
		"av":    t.AV,
		"meals": t.Meals,
		"grand": t.Grand(),
	})
}

// LineItems returns the summary lines in display order.
// GET /api/line-items
func (h *SessionHandler) LineItems(c *gin.Context) {
	items := mw.GetSession(c).LineItems()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// ToggleView switches between the editing and summary screens.
// POST /api/view/toggle
func (h *SessionHandler) ToggleView(c *gin.Context) {
	s := mw.GetSession(c)
	v := s.ToggleView()
	h.publish(c, s)
	c.JSON(http.StatusOK, gin.H{"view": v})
}

type navigateRequest struct {
	Section string `json:"section" binding:"required"`
}

// Navigate jumps to a section of the editing screen.
// POST /api/view/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := mw.GetSession(c)
	before := s.View()
	v, err := s.Navigate(req.Section)
	if err != nil {
		writeError(c, err)
		return
	}
	if v != before {
		h.publish(c, s)
	}
	section, _ := planner.ParseSection(req.Section)
	c.JSON(http.StatusOK, gin.H{"view": v, "section": section})
}

// publish pushes the session summary to stream subscribers. Failures are
// logged only; the mutation has already been applied.
func (h *SessionHandler) publish(c *gin.Context, s *planner.Session) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.m.Publish(ctx, s); err != nil {
		h.logger.Warn("summary publish failed",
			zap.String("session_id", s.ID),
			zap.String("trace_id", mw.GetTraceID(c)),
			zap.Error(err))
	}
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return 0, false
	}
	return index, true
}
