package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lateentry/internal/auth"
	"lateentry/internal/identity"
)

// AuthHandler serves login and student signup.
type AuthHandler struct {
	Identity  *identity.Service
	JWTIssuer string
	JWTKey    string
	TokenTTL  time.Duration
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a student or security user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "please provide email and password")
		return
	}

	user, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := auth.Issue(user.ID, string(user.Role), user.Email, h.JWTIssuer, h.JWTKey, h.TokenTTL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     token.Value,
		"expiresAt": token.ExpiresAt.Unix(),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
			"name":  user.Name,
		},
	})
}

// AdminLogin authenticates an admin. Non-admin credentials are rejected the
// same way as bad ones so the endpoint does not leak which emails exist.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "please provide email and password")
		return
	}

	user, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil || user.Role != identity.RoleAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
		return
	}

	token, err := auth.Issue(user.ID, string(user.Role), user.Email, h.JWTIssuer, h.JWTKey, h.TokenTTL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token.Value,
		"admin": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// RegisterStudent creates a student account from the mobile signup flow.
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req identity.RegisterStudentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	student, err := h.Identity.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "student registered successfully",
		"student": student,
	})
}
