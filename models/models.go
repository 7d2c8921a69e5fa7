package models

import "time"

// Instructor roles
const (
	RoleOwner     = "OWNER"
	RoleAssistant = "ASSISTANT"
)

// User is an identity record, created at signup
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            *string   `json:"name"`
	Password        string    `json:"-"`
	GoogleID        *string   `json:"googleId,omitempty"`
	Avatar          *string   `json:"avatar"`
	Provider        string    `json:"provider"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Lab is a class; the unit of ownership for membership and content
type Lab struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Section     *string   `json:"section"`
	Subject     *string   `json:"subject"`
	Room        *string   `json:"room"`
	Banner      *string   `json:"banner"`
	Description *string   `json:"description"`
	LabCode     string    `json:"labCode"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Instructor is a teaching membership in a lab
type Instructor struct {
	ID        string    `json:"id"`
	LabID     string    `json:"labId"`
	UserEmail string    `json:"userEmail"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Enrollment is a student membership in a lab
type Enrollment struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"userEmail"`
	LabID     string    `json:"labId"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// UserSummary is the user projection embedded in enrollment responses
type UserSummary struct {
	Email  string  `json:"email"`
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// LabSummary is the lab projection embedded in enrollment responses
type LabSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	LabCode    string  `json:"labCode"`
	Subject    *string `json:"subject"`
	Section    *string `json:"section"`
	IsArchived bool    `json:"isArchived"`
}

// EnrollmentDetail is an enrollment with its user and lab projections
type EnrollmentDetail struct {
	Enrollment
	User UserSummary `json:"user"`
	Lab  LabSummary  `json:"lab"`
}

// Announcement is a stream post in a lab
type Announcement struct {
	ID        string    `json:"id"`
	LabID     string    `json:"labId"`
	PostedBy  string    `json:"postedBy"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// LabWork is an assignment belonging to a lab
type LabWork struct {
	ID          string     `json:"id"`
	LabID       string     `json:"labId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	TotalPoints int        `json:"totalPoints"`
	EndTime     *time.Time `json:"endTime"`
	CreatedAt   time.Time  `json:"createdAt"`
	Tasks       []LabTask  `json:"tasks"`
}

// LabTask is one coding problem within a LabWork
type LabTask struct {
	ID          string  `json:"id"`
	LabWorkID   string  `json:"labWorkId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Point       int     `json:"point"`
	Language    string  `json:"language"`
	Editor      *Editor `json:"editor,omitempty"`
}

// Editor holds the starter code attached to a LabTask. The solution field
// carries the starter source.
type Editor struct {
	ID       string `json:"id"`
	TaskID   string `json:"taskId"`
	Solution string `json:"solution"`
	URL      string `json:"url"`
}

// SignupRequest for user registration
type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

// LoginRequest for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateLabRequest for lab creation
type CreateLabRequest struct {
	Name        string  `json:"name" binding:"required"`
	UserEmail   string  `json:"userEmail" binding:"required,email"`
	Section     *string `json:"section"`
	Subject     *string `json:"subject"`
	Room        *string `json:"room"`
	Banner      *string `json:"banner"`
	Description *string `json:"description"`
}

// UpdateLabRequest for full or partial lab updates; nil fields are left
// unchanged
type UpdateLabRequest struct {
	Name        *string `json:"name"`
	LabCode     *string `json:"labCode"`
	Section     *string `json:"section"`
	Subject     *string `json:"subject"`
	Room        *string `json:"room"`
	Banner      *string `json:"banner"`
	Description *string `json:"description"`
	IsArchived  *bool   `json:"isArchived"`
}

// EnrollRequest joins a student to a lab by id
type EnrollRequest struct {
	UserEmail string `json:"userEmail" binding:"required,email"`
	LabID     string `json:"labId" binding:"required"`
}

// EnrollByCodeRequest joins a student to a lab by its share code
type EnrollByCodeRequest struct {
	UserEmail string `json:"userEmail" binding:"required,email"`
	LabCode   string `json:"labCode" binding:"required"`
}

// DeleteEnrollmentRequest removes an enrollment by id
type DeleteEnrollmentRequest struct {
	ID string `json:"id" binding:"required"`
}

// CreateAnnouncementRequest posts to a lab stream
type CreateAnnouncementRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateWorkRequest creates an assignment with its tasks
type CreateWorkRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description *string           `json:"description"`
	TotalPoints int               `json:"totalPoints" binding:"gte=0"`
	EndTime     *time.Time        `json:"endTime"`
	Tasks       []WorkTaskRequest `json:"tasks" binding:"required,min=1,dive"`
}

// WorkTaskRequest is one task inside a CreateWorkRequest
type WorkTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	StarterCode string  `json:"starterCode"`
	Language    string  `json:"language"`
}

// ExecuteRequest forwards source code to the execution engine
type ExecuteRequest struct {
	Language   string `json:"language" binding:"required"`
	SourceCode string `json:"sourceCode" binding:"required"`
	Stdin      string `json:"stdin"`
}

// ExecuteResponse is the reshaped execution engine result
type ExecuteResponse struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Code   int     `json:"code"`
	Signal *string `json:"signal"`
	Output string  `json:"output"`
}
