// Package api exposes the HTTP surface: gin handlers, the router and the
// uniform response envelope.
package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-queue-backend/internal/account"
	"restaurant-queue-backend/internal/approval"
	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/ledger"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/mw"
	"restaurant-queue-backend/internal/prediction"
	"restaurant-queue-backend/internal/queue"
	"restaurant-queue-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	policy      *authz.Policy
	accounts    *account.Service
	queue       *queue.Service
	ledger      *ledger.Service
	approvals   *approval.Service
	predictions *prediction.Gateway
	webpush     *webpush.Options
	logger      *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	s store.Store,
	policy *authz.Policy,
	accounts *account.Service,
	queueSvc *queue.Service,
	ledgerSvc *ledger.Service,
	approvals *approval.Service,
	predictions *prediction.Gateway,
	webpushOptions *webpush.Options,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:       s,
		policy:      policy,
		accounts:    accounts,
		queue:       queueSvc,
		ledger:      ledgerSvc,
		approvals:   approvals,
		predictions: predictions,
		webpush:     webpushOptions,
		logger:      logger,
	}
}

// currentUser loads the authenticated account from the request context. It
// writes the 401 itself so callers can simply return on !ok.
func (h *Handler) currentUser(c *gin.Context) (*model.User, bool) {
	id, exists := c.Get(mw.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, Envelope{
			Code:    http.StatusUnauthorized,
			Message: "authentication required",
			Data:    nil,
		})
		return nil, false
	}

	user, err := h.store.UserByID(c.Request.Context(), id.(int64))
	if err != nil {
		c.JSON(http.StatusUnauthorized, Envelope{
			Code:    http.StatusUnauthorized,
			Message: "account no longer exists",
			Data:    nil,
		})
		return nil, false
	}
	return user, true
}
