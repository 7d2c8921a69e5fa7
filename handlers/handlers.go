package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"kumo/store"
)

// Handler serves the lab, membership, announcement, assignment and
// code-execution endpoints. Stores are injected so nothing here reaches a
// process-wide connection.
type Handler struct {
	labs          store.LabStore
	memberships   store.MembershipStore
	users         store.UserStore
	announcements store.AnnouncementStore
	works         store.WorkStore
	engineURL     string
	client        httpDoer
}

// New builds a Handler over the given stores. engineURL is the base URL of
// the external code-execution engine.
func New(
	labs store.LabStore,
	memberships store.MembershipStore,
	users store.UserStore,
	announcements store.AnnouncementStore,
	works store.WorkStore,
	engineURL string,
) *Handler {
	return &Handler{
		labs:          labs,
		memberships:   memberships,
		users:         users,
		announcements: announcements,
		works:         works,
		engineURL:     engineURL,
		client:        http.DefaultClient,
	}
}

// callerEmail returns the identity placed in the context by the auth
// middleware
func callerEmail(c *gin.Context) string {
	return c.GetString("email")
}

// requireInstructor writes a 403 and returns false unless the caller holds
// an instructor row for the lab, any sub-role
func (h *Handler) requireInstructor(c *gin.Context, labID, email string) bool {
	isInstructor, err := h.memberships.IsInstructor(c.Request.Context(), labID, email)
	if err != nil {
		log.Printf("Error checking instructor role: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return false
	}
	if !isInstructor {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only instructors of this lab can do that"})
		return false
	}
	return true
}

// requireMember writes a 403 and returns false unless the caller holds an
// instructor or enrollment row for the lab
func (h *Handler) requireMember(c *gin.Context, labID, email string) bool {
	isInstructor, err := h.memberships.IsInstructor(c.Request.Context(), labID, email)
	if err != nil {
		log.Printf("Error checking instructor role: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return false
	}
	if isInstructor {
		return true
	}
	isEnrolled, err := h.memberships.IsEnrolled(c.Request.Context(), labID, email)
	if err != nil {
		log.Printf("Error checking enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return false
	}
	if !isEnrolled {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this class"})
		return false
	}
	return true
}
