package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"kumo/models"
	"kumo/store"
	"kumo/utils"
)

// Enroll joins a student to a lab by lab id; used by the direct-invite flow
func (h *Handler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User email and lab ID are required"})
		return
	}

	lab, err := h.labs.GetLab(c.Request.Context(), req.LabID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab not found"})
		} else {
			log.Printf("Error retrieving lab: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	h.enroll(c, lab, req.UserEmail)
}

// EnrollByCode joins a student to a lab using its share code
func (h *Handler) EnrollByCode(c *gin.Context) {
	var req models.EnrollByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User email and lab code are required"})
		return
	}

	lab, err := h.labs.GetLabByCode(c.Request.Context(), req.LabCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lab not found with this code"})
		} else {
			log.Printf("Error retrieving lab: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	h.enroll(c, lab, req.UserEmail)
}

// enroll runs the shared membership checks and creates the enrollment row
func (h *Handler) enroll(c *gin.Context, lab *models.Lab, userEmail string) {
	if _, err := h.users.GetUserByEmail(c.Request.Context(), userEmail); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error retrieving user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if lab.IsArchived {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot enroll in archived lab"})
		return
	}

	isInstructor, err := h.memberships.IsInstructor(c.Request.Context(), lab.ID, userEmail)
	if err != nil {
		log.Printf("Error checking instructor role: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if isInstructor {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already teaching this lab"})
		return
	}

	isEnrolled, err := h.memberships.IsEnrolled(c.Request.Context(), lab.ID, userEmail)
	if err != nil {
		log.Printf("Error checking enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if isEnrolled {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already enrolled in this lab"})
		return
	}

	enrollment := &models.Enrollment{
		UserEmail: userEmail,
		LabID:     lab.ID,
	}
	if err := h.memberships.CreateEnrollment(c.Request.Context(), enrollment); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost the race on the (lab_id, user_email) unique key
			c.JSON(http.StatusConflict, gin.H{"error": "User is already enrolled in this lab"})
			return
		}
		log.Printf("Error inserting enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create enrollment"})
		return
	}

	detail, err := h.memberships.GetEnrollmentDetail(c.Request.Context(), enrollment.ID)
	if err != nil {
		log.Printf("Error loading enrollment detail: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create enrollment"})
		return
	}

	c.JSON(http.StatusCreated, detail)
}

// ListEnrollments lists enrollments with optional labId/userEmail filters.
// Enrollments in archived labs are hidden unless includeArchived=true,
// except when filtering by user email alone.
func (h *Handler) ListEnrollments(c *gin.Context) {
	filter := store.EnrollmentFilter{
		LabID:           c.Query("labId"),
		UserEmail:       c.Query("userEmail"),
		IncludeArchived: c.Query("includeArchived") == "true",
	}

	// Query params bypass the binding validators
	if filter.UserEmail != "" && !utils.ValidateEmail(filter.UserEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	enrollments, err := h.memberships.ListEnrollments(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error listing enrollments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// DeleteEnrollment removes an enrollment by id from the request body
func (h *Handler) DeleteEnrollment(c *gin.Context) {
	var req models.DeleteEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enrollment ID is required"})
		return
	}

	if _, err := h.memberships.GetEnrollment(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		} else {
			log.Printf("Error retrieving enrollment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if err := h.memberships.DeleteEnrollment(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, store.ErrInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete enrollment due to existing dependencies"})
			return
		}
		log.Printf("Error deleting enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete enrollment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Enrollment deleted successfully",
		"deletedId": req.ID,
	})
}
