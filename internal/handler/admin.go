package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"lateentry/internal/entry"
	"lateentry/internal/identity"
)

// AdminHandler serves the admin management surface.
type AdminHandler struct {
	Identity *identity.Service
	Entries  *entry.Service
}

// RegisterSecurity creates a security account. When credential provisioning
// fails after the user row was created, the service has already rolled the
// row back before this handler sees the error.
func (h *AdminHandler) RegisterSecurity(c *gin.Context) {
	var req identity.RegisterSecurityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sec, err := h.Identity.RegisterSecurity(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "security personnel registered successfully",
		"security": sec,
	})
}

// ListSecurity returns all security personnel. Credentials live in their own
// table, so no password material can appear here.
func (h *AdminHandler) ListSecurity(c *gin.Context) {
	list, err := h.Identity.ListSecurity(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []identity.Security{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "security": list})
}

// ListEntries returns entry records in insertion order. With ?status=pending
// only the undecided ones.
func (h *AdminHandler) ListEntries(c *gin.Context) {
	var list []entry.Record
	var err error
	if c.Query("status") == "pending" {
		list, err = h.Entries.ListPending(c.Request.Context())
	} else {
		list, err = h.Entries.List(c.Request.Context())
	}
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []entry.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": list})
}

type updateEntryRequest struct {
	EntryID  string `json:"entryId" binding:"required"`
	Status   string `json:"status" binding:"required"`
	Override bool   `json:"override"`
}

// UpdateEntry decides a pending entry. With override set it re-decides an
// already-terminal record as an explicit, audited correction.
func (h *AdminHandler) UpdateEntry(c *gin.Context) {
	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "please provide entryId and status")
		return
	}

	decide := h.Entries.Decide
	if req.Override {
		decide = h.Entries.Override
	}
	rec, err := decide(c.Request.Context(), req.EntryID, entry.VerificationStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "entry " + req.Status + " successfully",
		"entry":   rec,
	})
}

// ListStudents returns all students in the institutional roll order.
func (h *AdminHandler) ListStudents(c *gin.Context) {
	list, err := h.Identity.ListStudents(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []identity.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "students": list})
}

// Overview returns the dashboard counts. The three reads are independent and
// issued concurrently; results are combined for display only.
func (h *AdminHandler) Overview(c *gin.Context) {
	g, ctx := errgroup.WithContext(c.Request.Context())

	var students, security, entries int
	g.Go(func() (err error) {
		students, err = h.Identity.CountByRole(ctx, identity.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		security, err = h.Identity.CountByRole(ctx, identity.RoleSecurity)
		return err
	})
	g.Go(func() (err error) {
		entries, err = h.Entries.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"students": students,
		"security": security,
		"entries":  entries,
	})
}
