package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PendingApprovals lists every unhandled manager-registration request.
func (h *Handler) PendingApprovals(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	requests, err := h.approvals.Pending(c.Request.Context(), user)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, requests)
}

// HandleApproval approves or rejects a manager registration.
func (h *Handler) HandleApproval(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid request id")
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		BadRequest(c, "approved must be true or false")
		return
	}
	comment := c.Query("comment")

	if err := h.approvals.Resolve(c.Request.Context(), user, requestID, approved, comment); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
