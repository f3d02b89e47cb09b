package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"focusboard/internal/scoring"
	"focusboard/internal/service/priority"
	"focusboard/pkg/logger"
)

type PriorityService interface {
	GetTopPriorityItems(ctx context.Context, userID int, now time.Time, opts priority.Options) priority.Result
}

type Dismisser interface {
	Dismiss(ctx context.Context, userID int, itemID string, now time.Time) error
	Restore(ctx context.Context, userID int, itemID string, now time.Time) error
}

type PriorityHandlerConfig struct {
	DefaultLimit int
	MaxLimit     int
	// Location is the user's timezone; it decides the derived time and day context.
	Location *time.Location
}

type PriorityHandler struct {
	svc        PriorityService
	dismissals Dismisser
	cfg        PriorityHandlerConfig
	now        func() time.Time
	logger     *zap.Logger
}

func NewPriorityHandler(svc PriorityService, dismissals Dismisser, cfg PriorityHandlerConfig, logger *zap.Logger) *PriorityHandler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 20
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(3, cfg.MaxLimit)
	}
	return &PriorityHandler{
		svc:        svc,
		dismissals: dismissals,
		cfg:        cfg,
		now:        time.Now,
		logger:     logger,
	}
}

// GetPriorities handles GET /priorities
func (h *PriorityHandler) GetPriorities(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	limit := h.cfg.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, h.cfg.MaxLimit)
	}

	tc, err := scoring.ParseTimeContext(c.Query("time_context"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dc, err := scoring.ParseDayContext(c.Query("day_context"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	includeAI, _ := strconv.ParseBool(c.DefaultQuery("include_ai_reasoning", "false"))

	res := h.svc.GetTopPriorityItems(c.Request.Context(), userID, h.now().In(h.cfg.Location), priority.Options{
		Limit:              limit,
		IncludeAIReasoning: includeAI,
		TimeContext:        tc,
		DayContext:         dc,
	})

	c.JSON(http.StatusOK, res)
}

// Dismiss handles POST /priorities/:id/dismiss
func (h *PriorityHandler) Dismiss(c *gin.Context) {
	h.changeDismissal(c, true)
}

// Restore handles DELETE /priorities/:id/dismiss
func (h *PriorityHandler) Restore(c *gin.Context) {
	h.changeDismissal(c, false)
}

func (h *PriorityHandler) changeDismissal(c *gin.Context, dismiss bool) {
	userID := c.GetInt(userIDKey)
	itemID := c.Param("id")

	if _, _, err := scoring.ParseCompositeID(itemID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.dismissals == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dismissals are not enabled"})
		return
	}

	ctx := c.Request.Context()
	now := h.now().In(h.cfg.Location)
	var err error
	if dismiss {
		err = h.dismissals.Dismiss(ctx, userID, itemID, now)
	} else {
		err = h.dismissals.Restore(ctx, userID, itemID, now)
	}
	if err != nil {
		logger.WithTrace(ctx, h.logger).Error("Failed to update dismissal",
			zap.Int("user_id", userID),
			zap.String("item_id", itemID),
			zap.Bool("dismiss", dismiss),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dismissal store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": itemID, "dismissed": dismiss})
}
