package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lateentry/internal/auth"
	"lateentry/internal/entry"
	"lateentry/internal/identity"
)

// SecurityHandler serves the gate-side entry recording surface.
type SecurityHandler struct {
	Identity *identity.Service
	Entries  *entry.Service
}

type manualEntryRequest struct {
	RollNumber string `json:"rollNumber" binding:"required"`
}

// CreateManual records a late entry looked up by roll number.
func (h *SecurityHandler) CreateManual(c *gin.Context) {
	var req manualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "please provide a roll number")
		return
	}

	recordedBy, recordedByName := h.actor(c)
	rec, err := h.Entries.Create(c.Request.Context(), req.RollNumber, entry.EntryManual, recordedBy, recordedByName)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "late entry recorded for " + rec.StudentName,
		"entry":   rec,
	})
}

type qrEntryRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// CreateFromQR records a late entry from a scanned QR payload.
func (h *SecurityHandler) CreateFromQR(c *gin.Context) {
	var req qrEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "please provide the scanned payload")
		return
	}

	recordedBy, recordedByName := h.actor(c)
	rec, err := h.Entries.CreateFromQR(c.Request.Context(), req.Payload, recordedBy, recordedByName)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "late entry recorded for " + rec.StudentName,
		"entry":   rec,
	})
}

// LookupStudent resolves a student by roll number for the confirm screen.
func (h *SecurityHandler) LookupStudent(c *gin.Context) {
	st, err := h.Identity.FindStudentByRoll(c.Request.Context(), c.Query("rollNumber"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "student": st})
}

// ListMine returns the entries recorded by the calling security actor.
func (h *SecurityHandler) ListMine(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	list, err := h.Entries.ListByRecorder(c.Request.Context(), claims.Subject)
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []entry.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": list})
}

// actor resolves the authenticated security user's id and display name. The
// name feeds the student-facing notification message.
func (h *SecurityHandler) actor(c *gin.Context) (id, name string) {
	claims, _ := auth.FromContext(c)
	name = "Security Officer"
	if user, err := h.Identity.FindByEmail(c.Request.Context(), claims.Email); err == nil && user.Name != "" {
		name = user.Name
	}
	return claims.Subject, name
}
