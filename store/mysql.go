package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"kumo/models"
)

// MySQL implements every store interface on a single *sql.DB
type MySQL struct {
	db *sql.DB
}

// NewMySQL wraps an open database connection
func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

// translateErr maps driver constraint violations to domain errors.
// 1062 is a duplicate key, 1451 a foreign key row still referenced.
func translateErr(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return ErrDuplicate
		case 1451:
			return ErrInUse
		}
	}
	return err
}

// CreateUser inserts a new user record
func (s *MySQL) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Provider == "" {
		user.Provider = "local"
	}
	user.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user (id, email, name, password, google_id, avatar, provider, is_email_verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, nullIfEmpty(user.Password), user.GoogleID,
		user.Avatar, user.Provider, user.IsEmailVerified, user.CreatedAt)
	return translateErr(err)
}

// GetUserByEmail looks a user up by unique email
func (s *MySQL) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID looks a user up by primary key
func (s *MySQL) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *MySQL) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	var password *string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password, google_id, avatar, provider, is_email_verified, created_at
		FROM user WHERE `+where, arg).Scan(
		&user.ID, &user.Email, &user.Name, &password, &user.GoogleID,
		&user.Avatar, &user.Provider, &user.IsEmailVerified, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if password != nil {
		user.Password = *password
	}
	return &user, nil
}

// CreateLab inserts the lab and its OWNER instructor row in one transaction
func (s *MySQL) CreateLab(ctx context.Context, lab *models.Lab, ownerEmail string) error {
	if lab.ID == "" {
		lab.ID = uuid.NewString()
	}
	now := time.Now()
	lab.CreatedAt = now
	lab.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Ignored if tx.Commit() is called

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lab (id, name, section, subject, room, banner, description, lab_code, is_archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lab.ID, lab.Name, lab.Section, lab.Subject, lab.Room, lab.Banner,
		lab.Description, lab.LabCode, lab.IsArchived, lab.CreatedAt, lab.UpdatedAt)
	if err != nil {
		return translateErr(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO instructor (id, lab_id, user_email, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), lab.ID, ownerEmail, models.RoleOwner, now)
	if err != nil {
		return translateErr(err)
	}

	return tx.Commit()
}

const labColumns = `id, name, section, subject, room, banner, description, lab_code, is_archived, created_at, updated_at`

func scanLab(row interface{ Scan(...any) error }) (*models.Lab, error) {
	var lab models.Lab
	err := row.Scan(&lab.ID, &lab.Name, &lab.Section, &lab.Subject, &lab.Room,
		&lab.Banner, &lab.Description, &lab.LabCode, &lab.IsArchived,
		&lab.CreatedAt, &lab.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lab, nil
}

// GetLab looks a lab up by id
func (s *MySQL) GetLab(ctx context.Context, id string) (*models.Lab, error) {
	return scanLab(s.db.QueryRowContext(ctx, `SELECT `+labColumns+` FROM lab WHERE id = ?`, id))
}

// GetLabByCode looks a lab up by its unique share code
func (s *MySQL) GetLabByCode(ctx context.Context, code string) (*models.Lab, error) {
	return scanLab(s.db.QueryRowContext(ctx, `SELECT `+labColumns+` FROM lab WHERE lab_code = ?`, code))
}

// CodeExists reports whether a lab code is already taken
func (s *MySQL) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM lab WHERE lab_code = ?)`, code).Scan(&exists)
	return exists, err
}

// ListLabs returns labs newest first; nil archived means no filter
func (s *MySQL) ListLabs(ctx context.Context, archived *bool) ([]models.Lab, error) {
	query := `SELECT ` + labColumns + ` FROM lab`
	var args []any
	if archived != nil {
		query += ` WHERE is_archived = ?`
		args = append(args, *archived)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labs := []models.Lab{}
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			return nil, err
		}
		labs = append(labs, *lab)
	}
	return labs, rows.Err()
}

// UpdateLab writes all mutable lab fields. The affected count is not
// checked: the driver reports 0 for a same-value update, so it cannot
// distinguish a missing row from a no-op write.
func (s *MySQL) UpdateLab(ctx context.Context, lab *models.Lab) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE lab
		SET name = ?, section = ?, subject = ?, room = ?, banner = ?, description = ?, lab_code = ?, is_archived = ?
		WHERE id = ?`,
		lab.Name, lab.Section, lab.Subject, lab.Room, lab.Banner,
		lab.Description, lab.LabCode, lab.IsArchived, lab.ID)
	return translateErr(err)
}

// SetArchived soft-deletes a lab
func (s *MySQL) SetArchived(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE lab SET is_archived = TRUE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateEnrollment inserts a student membership
func (s *MySQL) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.JoinedAt.IsZero() {
		enrollment.JoinedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollment (id, user_email, lab_id, joined_at)
		VALUES (?, ?, ?, ?)`,
		enrollment.ID, enrollment.UserEmail, enrollment.LabID, enrollment.JoinedAt)
	return translateErr(err)
}

// GetEnrollment looks an enrollment up by id
func (s *MySQL) GetEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_email, lab_id, joined_at FROM enrollment WHERE id = ?`, id).Scan(
		&enrollment.ID, &enrollment.UserEmail, &enrollment.LabID, &enrollment.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

const enrollmentDetailQuery = `
	SELECT e.id, e.user_email, e.lab_id, e.joined_at,
		u.email, u.name, u.avatar,
		l.id, l.name, l.lab_code, l.subject, l.section, l.is_archived
	FROM enrollment e
	JOIN user u ON u.email = e.user_email
	JOIN lab l ON l.id = e.lab_id`

func scanEnrollmentDetail(row interface{ Scan(...any) error }) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	err := row.Scan(
		&detail.ID, &detail.UserEmail, &detail.LabID, &detail.JoinedAt,
		&detail.User.Email, &detail.User.Name, &detail.User.Avatar,
		&detail.Lab.ID, &detail.Lab.Name, &detail.Lab.LabCode,
		&detail.Lab.Subject, &detail.Lab.Section, &detail.Lab.IsArchived)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetEnrollmentDetail returns an enrollment with its user and lab projections
func (s *MySQL) GetEnrollmentDetail(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	return scanEnrollmentDetail(s.db.QueryRowContext(ctx, enrollmentDetailQuery+` WHERE e.id = ?`, id))
}

// ListEnrollments returns enrollments newest first, applying the filter's
// archived-lab exclusion rules
func (s *MySQL) ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailQuery
	where := []string{}
	var args []any

	if filter.LabID != "" {
		where = append(where, "e.lab_id = ?")
		args = append(args, filter.LabID)
	}
	if filter.UserEmail != "" {
		where = append(where, "e.user_email = ?")
		args = append(args, filter.UserEmail)
	}
	// Archived labs drop out of lab-scoped and unfiltered listings unless
	// explicitly requested; a user-email-only query keeps them.
	if !filter.IncludeArchived && (filter.LabID != "" || filter.UserEmail == "") {
		where = append(where, "l.is_archived = FALSE")
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY e.joined_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := []models.EnrollmentDetail{}
	for rows.Next() {
		detail, err := scanEnrollmentDetail(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *detail)
	}
	return enrollments, rows.Err()
}

// DeleteEnrollment removes an enrollment row
func (s *MySQL) DeleteEnrollment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM enrollment WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsEnrolled reports whether the user holds a student membership in the lab
func (s *MySQL) IsEnrolled(ctx context.Context, labID, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM enrollment WHERE lab_id = ? AND user_email = ?)`,
		labID, email).Scan(&exists)
	return exists, err
}

// IsInstructor reports whether the user holds any instructor role in the lab
func (s *MySQL) IsInstructor(ctx context.Context, labID, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM instructor WHERE lab_id = ? AND user_email = ?)`,
		labID, email).Scan(&exists)
	return exists, err
}

// CreateAnnouncement inserts a stream post
func (s *MySQL) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	announcement.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcement (id, lab_id, posted_by, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		announcement.ID, announcement.LabID, announcement.PostedBy,
		announcement.Content, announcement.CreatedAt)
	return translateErr(err)
}

// ListAnnouncements returns a lab's stream newest first
func (s *MySQL) ListAnnouncements(ctx context.Context, labID string) ([]models.Announcement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lab_id, posted_by, content, created_at
		FROM announcement WHERE lab_id = ? ORDER BY created_at DESC`, labID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := []models.Announcement{}
	for rows.Next() {
		var announcement models.Announcement
		if err := rows.Scan(&announcement.ID, &announcement.LabID, &announcement.PostedBy,
			&announcement.Content, &announcement.CreatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}
	return announcements, rows.Err()
}

// CreateWork inserts the work, its tasks and their editor rows in a single
// transaction; any failure rolls the whole unit back
func (s *MySQL) CreateWork(ctx context.Context, work *models.LabWork) error {
	if work.ID == "" {
		work.ID = uuid.NewString()
	}
	work.CreatedAt = time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lab_work (id, lab_id, title, description, total_points, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		work.ID, work.LabID, work.Title, work.Description,
		work.TotalPoints, work.EndTime, work.CreatedAt)
	if err != nil {
		return translateErr(err)
	}

	for i := range work.Tasks {
		task := &work.Tasks[i]
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		task.LabWorkID = work.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO lab_task (id, lab_work_id, title, description, point, language)
			VALUES (?, ?, ?, ?, ?, ?)`,
			task.ID, task.LabWorkID, task.Title, task.Description, task.Point, task.Language)
		if err != nil {
			return translateErr(err)
		}

		if task.Editor != nil {
			if task.Editor.ID == "" {
				task.Editor.ID = uuid.NewString()
			}
			task.Editor.TaskID = task.ID
			_, err = tx.ExecContext(ctx, `
				INSERT INTO editor (id, task_id, solution, url)
				VALUES (?, ?, ?, ?)`,
				task.Editor.ID, task.Editor.TaskID, task.Editor.Solution, task.Editor.URL)
			if err != nil {
				return translateErr(err)
			}
		}
	}

	return tx.Commit()
}

// ListWorks returns a lab's assignments newest first with tasks and starter
// code nested
func (s *MySQL) ListWorks(ctx context.Context, labID string) ([]models.LabWork, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lab_id, title, description, total_points, end_time, created_at
		FROM lab_work WHERE lab_id = ? ORDER BY created_at DESC`, labID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	works := []models.LabWork{}
	for rows.Next() {
		var work models.LabWork
		if err := rows.Scan(&work.ID, &work.LabID, &work.Title, &work.Description,
			&work.TotalPoints, &work.EndTime, &work.CreatedAt); err != nil {
			return nil, err
		}
		works = append(works, work)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range works {
		tasks, err := s.listTasks(ctx, works[i].ID)
		if err != nil {
			return nil, err
		}
		works[i].Tasks = tasks
	}
	return works, nil
}

func (s *MySQL) listTasks(ctx context.Context, workID string) ([]models.LabTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.lab_work_id, t.title, t.description, t.point, t.language,
			ed.id, ed.solution, ed.url
		FROM lab_task t
		LEFT JOIN editor ed ON ed.task_id = t.id
		WHERE t.lab_work_id = ?`, workID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.LabTask{}
	for rows.Next() {
		var task models.LabTask
		var language *string
		var editorID, solution, url *string
		if err := rows.Scan(&task.ID, &task.LabWorkID, &task.Title, &task.Description,
			&task.Point, &language, &editorID, &solution, &url); err != nil {
			return nil, err
		}
		if language != nil {
			task.Language = *language
		}
		if editorID != nil {
			task.Editor = &models.Editor{ID: *editorID, TaskID: task.ID}
			if solution != nil {
				task.Editor.Solution = *solution
			}
			if url != nil {
				task.Editor.URL = *url
			}
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
