package api

import (
	"github.com/gin-gonic/gin"
)

type predictionRequest struct {
	RestaurantID int64 `json:"restaurantId" binding:"required"`
}

// PredictWaitTime forwards assembled queue state to the predictor's
// wait-time endpoint and relays the answer.
func (h *Handler) PredictWaitTime(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req predictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	resp, err := h.predictions.WaitTime(c.Request.Context(), req.RestaurantID, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, resp)
}

// PredictTraffic forwards assembled queue state to the predictor's traffic
// endpoint and relays the answer.
func (h *Handler) PredictTraffic(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req predictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	resp, err := h.predictions.Traffic(c.Request.Context(), req.RestaurantID, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, resp)
}
