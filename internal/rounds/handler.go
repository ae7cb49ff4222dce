package rounds

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"creditdispute-backend/internal/shared/server/middleware"
	"creditdispute-backend/internal/shared/server/respond"
	"creditdispute-backend/internal/tiers"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches round routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rounds/status", h.status)
	rg.GET("/rounds/countdown", h.countdown)
	rg.POST("/rounds", h.start)
	rg.POST("/rounds/:id/letters-generated", h.lettersGenerated)
	rg.POST("/rounds/:id/mailed", h.mailed)
	rg.POST("/rounds/:id/unlock-early", h.unlockEarly)
	rg.POST("/rounds/:id/complete", h.complete)
}

// tierFromRequest reads the tier resolved by the billing gateway upstream.
// Absent or unknown values fall back to the most restrictive tier.
func tierFromRequest(c *gin.Context) string {
	tier := strings.TrimSpace(c.GetHeader("X-Subscription-Tier"))
	if tier == "" {
		return tiers.Starter
	}
	return strings.ToLower(tier)
}

func (h *Handler) status(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	status, err := h.Svc.GetStatus(c.Request.Context(), userID, tierFromRequest(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load round status", nil)
		return
	}
	respond.OK(c, status)
}

func (h *Handler) countdown(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	countdown, err := h.Svc.GetCountdown(c.Request.Context(), userID, tierFromRequest(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load countdown", nil)
		return
	}
	respond.OK(c, countdown)
}

func (h *Handler) start(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	round, err := h.Svc.StartRound(c.Request.Context(), userID, tierFromRequest(c))
	if err != nil {
		var locked *LockedError
		var limit *LimitReachedError
		switch {
		case errors.As(err, &locked):
			respond.Error(c, http.StatusConflict, "round_locked", locked.Error(), gin.H{
				"daysRemaining": locked.DaysRemaining,
			})
		case errors.As(err, &limit):
			respond.Error(c, http.StatusForbidden, "round_limit_reached", limit.Error(), gin.H{
				"tier":          limit.Tier,
				"maxRounds":     limit.MaxRounds,
				"suggestedTier": limit.SuggestedTier,
			})
		case errors.Is(err, ErrOpenRoundExists):
			respond.Error(c, http.StatusConflict, "round_already_open", "finish the current round before starting a new one", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start round", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, round)
}

type lettersGeneratedRequest struct {
	ItemsDisputed int `json:"itemsDisputed"`
}

func (h *Handler) lettersGenerated(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req lettersGeneratedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.ItemsDisputed < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "itemsDisputed must not be negative", nil)
		return
	}

	if err := h.Svc.MarkLettersGenerated(c.Request.Context(), userID, c.Param("id"), req.ItemsDisputed); err != nil {
		h.transitionError(c, err, "failed to record letters")
		return
	}
	respond.OK(c, gin.H{"status": StatusLettersGenerated})
}

func (h *Handler) mailed(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	lockedUntil, err := h.Svc.MarkMailed(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.transitionError(c, err, "failed to record mailing")
		return
	}
	respond.OK(c, gin.H{
		"status":      StatusMailed,
		"lockedUntil": lockedUntil,
	})
}

func (h *Handler) unlockEarly(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.UnlockEarly(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.transitionError(c, err, "failed to unlock round")
		return
	}
	respond.OK(c, gin.H{"status": StatusResponsesUploaded})
}

func (h *Handler) complete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var results Results
	if err := c.ShouldBindJSON(&results); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if err := h.Svc.CompleteRound(c.Request.Context(), userID, c.Param("id"), results); err != nil {
		h.transitionError(c, err, "failed to complete round")
		return
	}
	respond.OK(c, gin.H{"status": StatusComplete})
}

func (h *Handler) transitionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "round not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
