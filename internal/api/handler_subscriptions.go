package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-queue-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription creates or replaces the caller's push subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	sub := &model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		UserID:   user.ID,
	}
	if err := h.store.UpsertSubscription(c.Request.Context(), sub); err != nil {
		Fail(c, err)
		return
	}
	OK(c, sub)
}

// GetSubscriptions lists the caller's push subscriptions.
func (h *Handler) GetSubscriptions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	subs, err := h.store.SubscriptionsByUser(c.Request.Context(), user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, subs)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes a push subscription by endpoint.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// GetVAPIDPublicKey returns the VAPID public key to the client.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, Envelope{
			Code:    http.StatusServiceUnavailable,
			Message: "vapid keys are not configured",
			Data:    nil,
		})
		return
	}
	OK(c, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
