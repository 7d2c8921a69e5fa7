package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"kumo/labcode"
	"kumo/models"
	"kumo/store"
)

// CreateLab creates a new lab with a freshly allocated share code and its
// owning instructor row
func (h *Handler) CreateLab(c *gin.Context) {
	var req models.CreateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class name and user email are required"})
		return
	}

	code, err := labcode.Allocate(c.Request.Context(), h.labs, labcode.DefaultLength, labcode.DefaultMaxAttempts)
	if err != nil {
		if errors.Is(err, labcode.ErrExhausted) {
			log.Printf("Lab code allocation exhausted: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate a lab code"})
			return
		}
		log.Printf("Error allocating lab code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	lab := &models.Lab{
		Name:        req.Name,
		Section:     req.Section,
		Subject:     req.Subject,
		Room:        req.Room,
		Banner:      req.Banner,
		Description: req.Description,
		LabCode:     code,
	}
	if err := h.labs.CreateLab(c.Request.Context(), lab, req.UserEmail); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost the race on the lab_code unique key
			c.JSON(http.StatusConflict, gin.H{"error": "Lab code already exists"})
			return
		}
		log.Printf("Error creating lab: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lab"})
		return
	}

	c.JSON(http.StatusCreated, lab)
}

// ListLabs lists labs filtered by archive state: archived=true|false|all,
// default false
func (h *Handler) ListLabs(c *gin.Context) {
	var archived *bool
	switch c.Query("archived") {
	case "true":
		t := true
		archived = &t
	case "all":
		archived = nil
	default:
		f := false
		archived = &f
	}

	labs, err := h.labs.ListLabs(c.Request.Context(), archived)
	if err != nil {
		log.Printf("Error listing labs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch labs"})
		return
	}

	c.JSON(http.StatusOK, labs)
}

// GetLab retrieves a single lab by id
func (h *Handler) GetLab(c *gin.Context) {
	lab, err := h.labs.GetLab(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab not found"})
		} else {
			log.Printf("Error retrieving lab: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lab"})
		}
		return
	}

	c.JSON(http.StatusOK, lab)
}

// UpdateLab applies a full or partial update; a changed lab code is
// re-checked for global uniqueness
func (h *Handler) UpdateLab(c *gin.Context) {
	lab, err := h.labs.GetLab(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab not found"})
		} else {
			log.Printf("Error retrieving lab: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lab"})
		}
		return
	}

	var req models.UpdateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.LabCode != nil && *req.LabCode != lab.LabCode {
		exists, err := h.labs.CodeExists(c.Request.Context(), *req.LabCode)
		if err != nil {
			log.Printf("Error checking lab code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "Lab code already exists"})
			return
		}
		lab.LabCode = *req.LabCode
	}
	if req.Name != nil {
		lab.Name = *req.Name
	}
	if req.Section != nil {
		lab.Section = req.Section
	}
	if req.Subject != nil {
		lab.Subject = req.Subject
	}
	if req.Room != nil {
		lab.Room = req.Room
	}
	if req.Banner != nil {
		lab.Banner = req.Banner
	}
	if req.Description != nil {
		lab.Description = req.Description
	}
	if req.IsArchived != nil {
		lab.IsArchived = *req.IsArchived
	}

	if err := h.labs.UpdateLab(c.Request.Context(), lab); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Lab code already exists"})
			return
		}
		log.Printf("Error updating lab: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lab"})
		return
	}

	c.JSON(http.StatusOK, lab)
}

// ArchiveLab soft-deletes a lab. Archiving an already-archived lab is a
// conflict, not a no-op: a second archive means the client acted on stale
// state.
func (h *Handler) ArchiveLab(c *gin.Context) {
	lab, err := h.labs.GetLab(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab not found"})
		} else {
			log.Printf("Error retrieving lab: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lab"})
		}
		return
	}

	if lab.IsArchived {
		c.JSON(http.StatusConflict, gin.H{"error": "Lab already archived"})
		return
	}

	if err := h.labs.SetArchived(c.Request.Context(), lab.ID); err != nil {
		log.Printf("Error archiving lab: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive lab"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lab archived successfully"})
}
