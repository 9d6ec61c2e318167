// Package handler exposes the HTTP surface over the domain services. Every
// response carries a success flag; failures carry a human-readable message
// the UI surfaces directly.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lateentry/internal/credential"
	"lateentry/internal/entry"
	"lateentry/internal/identity"
	"lateentry/internal/notification"
)

// fail converts a domain error into a structured response. Errors never
// propagate past the handler boundary.
func fail(c *gin.Context, err error) {
	status, message := mapError(err)
	c.JSON(status, gin.H{"success": false, "message": message})
}

func mapError(err error) (int, string) {
	var verr identity.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}

	switch {
	case errors.Is(err, credential.ErrInvalid):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, identity.ErrEmailExists):
		return http.StatusBadRequest, "a user with this email already exists"
	case errors.Is(err, identity.ErrRollNumberExists):
		return http.StatusBadRequest, "a student with this roll number already exists"
	case errors.Is(err, identity.ErrSecurityIDExists):
		return http.StatusBadRequest, "security personnel with this ID already exists"
	case errors.Is(err, identity.ErrNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, entry.ErrNotFound):
		return http.StatusNotFound, "entry not found"
	case errors.Is(err, entry.ErrMalformedQR):
		return http.StatusBadRequest, "could not parse QR payload"
	case errors.Is(err, entry.ErrInvalidDecision):
		return http.StatusBadRequest, "status must be accepted or rejected"
	case errors.Is(err, entry.ErrAlreadyDecided):
		return http.StatusConflict, "entry has already been decided"
	case errors.Is(err, entry.ErrProofAlreadySet):
		return http.StatusConflict, "proof has already been attached"
	case errors.Is(err, entry.ErrNotOwner):
		return http.StatusForbidden, "entry belongs to another student"
	case errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound, "notification not found"
	default:
		return http.StatusInternalServerError, "server error"
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
