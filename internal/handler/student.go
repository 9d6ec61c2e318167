package handler

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lateentry/internal/auth"
	"lateentry/internal/cloudinary"
	"lateentry/internal/entry"
	"lateentry/internal/notification"
)

// StudentHandler serves the student-side surface: own entries, proof upload
// and attachment, and the notification mailbox.
type StudentHandler struct {
	Entries       *entry.Service
	Notifications *notification.Service
	CDN           *cloudinary.Client
}

// ListMine returns the calling student's entries.
func (h *StudentHandler) ListMine(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	list, err := h.Entries.ListByStudent(c.Request.Context(), claims.Subject)
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []entry.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": list})
}

// Upload stores a proof image with Cloudinary and returns its secure URL.
// Accepts a multipart file or a JSON body with a base64 data URL.
func (h *StudentHandler) Upload(c *gin.Context) {
	if h.CDN == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "image storage not configured"})
		return
	}

	var result *cloudinary.UploadResult
	var err error

	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			badRequest(c, "file field required")
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(file)
		if ferr != nil {
			fail(c, ferr)
			return
		}
		result, err = h.CDN.UploadBytes(data, header.Filename)
	} else {
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			badRequest(c, "provide {\"data\": \"<base64 data URL>\"}")
			return
		}
		result, err = h.CDN.UploadBase64(body.Data)
	}

	if err != nil {
		log.Printf("cloudinary upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "image upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": result.SecureURL, "publicId": result.PublicID})
}

type attachProofRequest struct {
	ProofURL string `json:"proofUrl" binding:"required"`
}

// AttachProof sets the write-once proof reference on the student's own
// pending entry.
func (h *StudentHandler) AttachProof(c *gin.Context) {
	var req attachProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "please provide a proof url")
		return
	}

	claims, _ := auth.FromContext(c)
	if err := h.Entries.AttachProof(c.Request.Context(), c.Param("id"), claims.Subject, req.ProofURL); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "proof attached"})
}

// ListNotifications returns the student's mailbox, newest first.
func (h *StudentHandler) ListNotifications(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	list, err := h.Notifications.ListForRecipient(c.Request.Context(), claims.Subject)
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []notification.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": list})
}

// MarkNotificationRead flips the one-way read flag on a notification owned
// by the caller.
func (h *StudentHandler) MarkNotificationRead(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id"), claims.Subject); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "notification marked read"})
}
