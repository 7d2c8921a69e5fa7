package store

import (
	"context"
	"errors"

	"kumo/models"
)

// Domain errors surfaced by store implementations. Handlers map these to
// HTTP status codes instead of leaking storage-engine error text.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrInUse     = errors.New("record has dependent rows")
)

// EnrollmentFilter narrows ListEnrollments. Archived labs are excluded
// unless IncludeArchived is set, except when filtering by user email alone.
type EnrollmentFilter struct {
	LabID           string
	UserEmail       string
	IncludeArchived bool
}

// UserStore persists identity records
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// LabStore persists labs and their owning instructor rows
type LabStore interface {
	// CreateLab inserts the lab and its OWNER instructor row as one unit.
	CreateLab(ctx context.Context, lab *models.Lab, ownerEmail string) error
	GetLab(ctx context.Context, id string) (*models.Lab, error)
	GetLabByCode(ctx context.Context, code string) (*models.Lab, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// ListLabs returns labs newest first; nil archived means no filter.
	ListLabs(ctx context.Context, archived *bool) ([]models.Lab, error)
	UpdateLab(ctx context.Context, lab *models.Lab) error
	SetArchived(ctx context.Context, id string) error
}

// MembershipStore persists enrollments and answers role questions
type MembershipStore interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	GetEnrollment(ctx context.Context, id string) (*models.Enrollment, error)
	GetEnrollmentDetail(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]models.EnrollmentDetail, error)
	DeleteEnrollment(ctx context.Context, id string) error
	IsEnrolled(ctx context.Context, labID, email string) (bool, error)
	IsInstructor(ctx context.Context, labID, email string) (bool, error)
}

// AnnouncementStore persists lab stream posts
type AnnouncementStore interface {
	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	ListAnnouncements(ctx context.Context, labID string) ([]models.Announcement, error)
}

// WorkStore persists assignments with their tasks and starter code
type WorkStore interface {
	// CreateWork inserts the work, its tasks and their editor rows in a
	// single transaction; nothing is visible on failure.
	CreateWork(ctx context.Context, work *models.LabWork) error
	ListWorks(ctx context.Context, labID string) ([]models.LabWork, error)
}
