package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type newAppointRequest struct {
	RestaurantName string `json:"restaurantname" binding:"required"`
}

// NewAppoint places the caller into a restaurant's waitlist.
func (h *Handler) NewAppoint(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req newAppointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	appointment, err := h.queue.Reserve(c.Request.Context(), user.Name, req.RestaurantName)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, appointment)
}

// MyAppoint lists the caller's appointments, any status.
func (h *Handler) MyAppoint(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	appointments, err := h.queue.ListMine(c.Request.Context(), user)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, appointments)
}

// CancelAppoint hard-deletes one of the caller's appointments.
func (h *Handler) CancelAppoint(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid appointment id")
		return
	}

	if err := h.queue.Cancel(c.Request.Context(), user, id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// ManagerAppoint lists the waiting appointments across the caller's
// restaurants.
func (h *Handler) ManagerAppoint(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	appointments, err := h.queue.ListForManager(c.Request.Context(), user)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, appointments)
}

type appointHandleRequest struct {
	AppointmentID int64 `json:"app_id" binding:"required"`
}

// AppointHandle marks an appointment completed.
func (h *Handler) AppointHandle(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req appointHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.queue.Complete(c.Request.Context(), user, req.AppointmentID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// NumAppoint returns the number of distinct customers waiting at a
// restaurant.
func (h *Handler) NumAppoint(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Query("res_id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid res_id")
		return
	}

	count, err := h.queue.CountUniqueWaiting(c.Request.Context(), restaurantID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"count": count})
}

// MyPosition returns the caller's 1-based rank in a restaurant's waitlist.
func (h *Handler) MyPosition(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	restaurantID, err := strconv.ParseInt(c.Query("res_id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid res_id")
		return
	}

	position, err := h.queue.Position(c.Request.Context(), user.ID, restaurantID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"position": position})
}
