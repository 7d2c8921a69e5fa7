package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"kumo/models"
	"kumo/store"
)

// CreateWork creates an assignment with its tasks and starter code in one
// atomic unit; instructors only
func (h *Handler) CreateWork(c *gin.Context) {
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

	if !h.requireInstructor(c, labID, userEmail) {
		return
	}

	var req models.CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and at least one task are required"})
		return
	}

	// Points are split evenly; the integer division drops any remainder.
	pointPerTask := req.TotalPoints / len(req.Tasks)

	work := &models.LabWork{
		LabID:       labID,
		Title:       req.Title,
		Description: req.Description,
		TotalPoints: req.TotalPoints,
		EndTime:     req.EndTime,
		Tasks:       make([]models.LabTask, 0, len(req.Tasks)),
	}
	for _, task := range req.Tasks {
		work.Tasks = append(work.Tasks, models.LabTask{
			Title:       task.Title,
			Description: task.Description,
			Point:       pointPerTask,
			Language:    task.Language,
			Editor: &models.Editor{
				Solution: task.StarterCode,
			},
		})
	}

	if err := h.works.CreateWork(c.Request.Context(), work); err != nil {
		log.Printf("Error creating assignment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save assignment"})
		return
	}

	c.JSON(http.StatusCreated, work)
}

// ListWorks returns a lab's assignments with nested tasks; members only
func (h *Handler) ListWorks(c *gin.Context) {
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

	works, err := h.works.ListWorks(c.Request.Context(), labID)
	if err != nil {
		log.Printf("Error listing assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, works)
}
