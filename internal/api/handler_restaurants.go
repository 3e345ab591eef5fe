package api

import (
	"github.com/gin-gonic/gin"

	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/model"
)

type newRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	MaxCapacity int    `json:"maxCapacity" binding:"required"`
}

// NewRestaurant registers a venue owned by the calling manager.
func (h *Handler) NewRestaurant(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.policy.Allow(user, authz.ActionCreateRestaurant, 0); err != nil {
		Fail(c, err)
		return
	}

	var req newRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	restaurant := &model.Restaurant{
		Name:        req.Name,
		ManagerID:   user.ID,
		Location:    req.Location,
		MaxCapacity: req.MaxCapacity,
	}
	if err := h.store.CreateRestaurant(c.Request.Context(), restaurant); err != nil {
		Fail(c, err)
		return
	}
	OK(c, restaurant)
}

// ViewRestaurant lists every restaurant. Customer-facing.
func (h *Handler) ViewRestaurant(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.policy.Allow(user, authz.ActionViewRestaurants, 0); err != nil {
		Fail(c, err)
		return
	}

	restaurants, err := h.store.AllRestaurants(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, restaurants)
}

// ViewOwnerRestaurant lists the calling manager's restaurants.
func (h *Handler) ViewOwnerRestaurant(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.policy.Allow(user, authz.ActionViewOwned, 0); err != nil {
		Fail(c, err)
		return
	}

	restaurants, err := h.store.RestaurantsByManager(c.Request.Context(), user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, restaurants)
}

// DeleteOwnerRestaurant removes one of the calling manager's restaurants.
func (h *Handler) DeleteOwnerRestaurant(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	name := c.Query("restaurantname")
	if name == "" {
		BadRequest(c, "restaurantname is required")
		return
	}

	restaurant, err := h.store.RestaurantByName(c.Request.Context(), name)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.policy.Allow(user, authz.ActionDeleteRestaurant, restaurant.ManagerID); err != nil {
		Fail(c, err)
		return
	}

	if err := h.store.DeleteRestaurant(c.Request.Context(), restaurant); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
