package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-queue-backend/internal/authz"
)

// LatestRecord returns the newest occupancy snapshot for a restaurant.
func (h *Handler) LatestRecord(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	restaurantID, err := strconv.ParseInt(c.Query("res_id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid res_id")
		return
	}

	record, err := h.ledger.Latest(c.Request.Context(), restaurantID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, record)
}

// RecentRecords returns the newest n snapshots for one of the caller's
// restaurants.
func (h *Handler) RecentRecords(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	count := 10
	if v := c.Query("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			BadRequest(c, "invalid count")
			return
		}
		count = parsed
	}
	name := c.Query("res_name")
	if name == "" {
		BadRequest(c, "res_name is required")
		return
	}

	records, err := h.ledger.Recent(c.Request.Context(), user, count, name)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, records)
}

// RecordsByDate returns the snapshots whose time label starts with the given
// date prefix.
func (h *Handler) RecordsByDate(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	prefix := c.Query("date")
	if prefix == "" {
		BadRequest(c, "date is required")
		return
	}
	name := c.Query("res_name")
	if name == "" {
		BadRequest(c, "res_name is required")
		return
	}

	records, err := h.ledger.ByDatePrefix(c.Request.Context(), user, prefix, name)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, records)
}

type importRecordsRequest struct {
	RestaurantID int64          `json:"restaurantId" binding:"required"`
	Counts       map[string]int `json:"counts" binding:"required"`
}

// ImportRecords bulk-inserts label->headcount snapshots for one of the
// caller's restaurants.
func (h *Handler) ImportRecords(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req importRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	restaurant, err := h.store.RestaurantByID(c.Request.Context(), req.RestaurantID)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.policy.Allow(user, authz.ActionImportRecords, restaurant.ManagerID); err != nil {
		Fail(c, err)
		return
	}

	if err := h.ledger.BulkImport(c.Request.Context(), req.Counts, restaurant.ID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"imported": len(req.Counts)})
}
