package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kumo/models"
	"kumo/store"
)

// CreateAnnouncement posts to a lab's stream; any member may post
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	labID := c.Param("id")
	userEmail := callerEmail(c)

	var req models.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content cannot be empty"})
		return
	}

	if _, err := h.labs.GetLab(c.Request.Context(), labID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab not found"})
		} else {
			log.Printf("Error retrieving lab: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if !h.requireMember(c, labID, userEmail) {
		return
	}

	announcement := &models.Announcement{
		LabID:    labID,
		PostedBy: userEmail,
		Content:  req.Content,
	}
	if err := h.announcements.CreateAnnouncement(c.Request.Context(), announcement); err != nil {
		log.Printf("Error inserting announcement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post announcement"})
		return
	}

	c.JSON(http.StatusOK, announcement)
}

// ListAnnouncements returns a lab's stream, newest first; members only
func (h *Handler) ListAnnouncements(c *gin.Context) {
	labID := c.Param("id")
	userEmail := callerEmail(c)

	if _, err := h.labs.GetLab(c.Request.Context(), labID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab not found"})
		} else {
			log.Printf("Error retrieving lab: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if !h.requireMember(c, labID, userEmail) {
		return
	}

	announcements, err := h.announcements.ListAnnouncements(c.Request.Context(), labID)
	if err != nil {
		log.Printf("Error listing announcements: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	c.JSON(http.StatusOK, announcements)
}
