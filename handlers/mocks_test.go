package handlers

import (
	"context"

	"kumo/models"
	"kumo/store"
)

type mockLabStore struct {
	createLabFunc   func(ctx context.Context, lab *models.Lab, ownerEmail string) error
	getLabFunc      func(ctx context.Context, id string) (*models.Lab, error)
	getByCodeFunc   func(ctx context.Context, code string) (*models.Lab, error)
	codeExistsFunc  func(ctx context.Context, code string) (bool, error)
	listLabsFunc    func(ctx context.Context, archived *bool) ([]models.Lab, error)
	updateLabFunc   func(ctx context.Context, lab *models.Lab) error
	setArchivedFunc func(ctx context.Context, id string) error

	createCalls  int
	archiveCalls int
}

func (m *mockLabStore) CreateLab(ctx context.Context, lab *models.Lab, ownerEmail string) error {
	m.createCalls++
	if m.createLabFunc == nil {
		return nil
	}
	return m.createLabFunc(ctx, lab, ownerEmail)
}

func (m *mockLabStore) GetLab(ctx context.Context, id string) (*models.Lab, error) {
	if m.getLabFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getLabFunc(ctx, id)
}

func (m *mockLabStore) GetLabByCode(ctx context.Context, code string) (*models.Lab, error) {
	if m.getByCodeFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByCodeFunc(ctx, code)
}

func (m *mockLabStore) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.codeExistsFunc == nil {
		return false, nil
	}
	return m.codeExistsFunc(ctx, code)
}

func (m *mockLabStore) ListLabs(ctx context.Context, archived *bool) ([]models.Lab, error) {
	if m.listLabsFunc == nil {
		return []models.Lab{}, nil
	}
	return m.listLabsFunc(ctx, archived)
}

func (m *mockLabStore) UpdateLab(ctx context.Context, lab *models.Lab) error {
	if m.updateLabFunc == nil {
		return nil
	}
	return m.updateLabFunc(ctx, lab)
}

func (m *mockLabStore) SetArchived(ctx context.Context, id string) error {
	m.archiveCalls++
	if m.setArchivedFunc == nil {
		return nil
	}
	return m.setArchivedFunc(ctx, id)
}

type mockMembershipStore struct {
	createFunc       func(ctx context.Context, enrollment *models.Enrollment) error
	getFunc          func(ctx context.Context, id string) (*models.Enrollment, error)
	getDetailFunc    func(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	listFunc         func(ctx context.Context, filter store.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	deleteFunc       func(ctx context.Context, id string) error
	isEnrolledFunc   func(ctx context.Context, labID, email string) (bool, error)
	isInstructorFunc func(ctx context.Context, labID, email string) (bool, error)

	createCalls int
}

func (m *mockMembershipStore) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	m.createCalls++
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, enrollment)
}

func (m *mockMembershipStore) GetEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	if m.getFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getFunc(ctx, id)
}

func (m *mockMembershipStore) GetEnrollmentDetail(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if m.getDetailFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getDetailFunc(ctx, id)
}

func (m *mockMembershipStore) ListEnrollments(ctx context.Context, filter store.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	if m.listFunc == nil {
		return []models.EnrollmentDetail{}, nil
	}
	return m.listFunc(ctx, filter)
}

func (m *mockMembershipStore) DeleteEnrollment(ctx context.Context, id string) error {
	if m.deleteFunc == nil {
		return nil
	}
	return m.deleteFunc(ctx, id)
}

func (m *mockMembershipStore) IsEnrolled(ctx context.Context, labID, email string) (bool, error) {
	if m.isEnrolledFunc == nil {
		return false, nil
	}
	return m.isEnrolledFunc(ctx, labID, email)
}

func (m *mockMembershipStore) IsInstructor(ctx context.Context, labID, email string) (bool, error) {
	if m.isInstructorFunc == nil {
		return false, nil
	}
	return m.isInstructorFunc(ctx, labID, email)
}

type mockUserStore struct {
	createFunc     func(ctx context.Context, user *models.User) error
	getByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	getByIDFunc    func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, user)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

type mockAnnouncementStore struct {
	createFunc func(ctx context.Context, announcement *models.Announcement) error
	listFunc   func(ctx context.Context, labID string) ([]models.Announcement, error)

	createCalls int
}

func (m *mockAnnouncementStore) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	m.createCalls++
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, announcement)
}

func (m *mockAnnouncementStore) ListAnnouncements(ctx context.Context, labID string) ([]models.Announcement, error) {
	if m.listFunc == nil {
		return []models.Announcement{}, nil
	}
	return m.listFunc(ctx, labID)
}

type mockWorkStore struct {
	createFunc func(ctx context.Context, work *models.LabWork) error
	listFunc   func(ctx context.Context, labID string) ([]models.LabWork, error)

	createCalls int
}

func (m *mockWorkStore) CreateWork(ctx context.Context, work *models.LabWork) error {
	m.createCalls++
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, work)
}

func (m *mockWorkStore) ListWorks(ctx context.Context, labID string) ([]models.LabWork, error) {
	if m.listFunc == nil {
		return []models.LabWork{}, nil
	}
	return m.listFunc(ctx, labID)
}

func newTestHandler(labs *mockLabStore, memberships *mockMembershipStore, users *mockUserStore,
	announcements *mockAnnouncementStore, works *mockWorkStore) *Handler {
	if labs == nil {
		labs = &mockLabStore{}
	}
	if memberships == nil {
		memberships = &mockMembershipStore{}
	}
	if users == nil {
		users = &mockUserStore{}
	}
	if announcements == nil {
		announcements = &mockAnnouncementStore{}
	}
	if works == nil {
		works = &mockWorkStore{}
	}
	return &Handler{
		labs:          labs,
		memberships:   memberships,
		users:         users,
		announcements: announcements,
		works:         works,
	}
}
