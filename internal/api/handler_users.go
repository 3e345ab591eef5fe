package api

import (
	"github.com/gin-gonic/gin"
)

type addUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// AddUser creates an account directly with approved status.
func (h *Handler) AddUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	user, err := h.accounts.Add(c.Request.Context(), req.Name, req.Password, req.Role)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// Register creates an account with role-dependent approval status.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Name, req.Password, req.Role)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

type loginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credential and returns a signed token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"token": token, "user": user})
}

// Me returns the authenticated account's profile.
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	OK(c, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword verifies the old credential and stores a new one.
func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), user.Name, req.OldPassword, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type deleteUserRequest struct {
	Password string `json:"password" binding:"required"`
}

// DeleteUser removes the authenticated account and everything it owns.
func (h *Handler) DeleteUser(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), user.Name, req.Password); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
