package accounts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creditdispute-backend/internal/shared/server/middleware"
	"creditdispute-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches account routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounts", h.list)
	rg.POST("/accounts/recommendations", h.recommend)
	rg.POST("/accounts/mark-disputed", h.markDisputed)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	rows, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list accounts", nil)
		return
	}
	respond.OK(c, gin.H{"accounts": rows})
}

func (h *Handler) recommend(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	set, err := h.Svc.Recommend(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build recommendations", nil)
		return
	}
	respond.OK(c, set)
}

type markDisputedRequest struct {
	AccountIDs []string `json:"accountIds"`
}

func (h *Handler) markDisputed(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req markDisputedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.AccountIDs) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "accountIds is required", nil)
		return
	}

	if err := h.Svc.MarkDisputed(c.Request.Context(), userID, req.AccountIDs); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to mark accounts", nil)
		return
	}
	respond.OK(c, gin.H{"updated": len(req.AccountIDs)})
}
