package db

import "database/sql"

// Schema statements are applied in order; foreign keys require the
// referenced tables to exist first.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS user (
		id CHAR(36) NOT NULL,
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255) NULL,
		password VARCHAR(255) NULL,
		google_id VARCHAR(255) NULL,
		avatar TEXT NULL,
		provider VARCHAR(32) NOT NULL DEFAULT 'local',
		is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_user_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS lab (
		id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		section VARCHAR(255) NULL,
		subject VARCHAR(255) NULL,
		room VARCHAR(255) NULL,
		banner TEXT NULL,
		description TEXT NULL,
		lab_code VARCHAR(16) NOT NULL,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_lab_code (lab_code)
	)`,
	`CREATE TABLE IF NOT EXISTS instructor (
		id CHAR(36) NOT NULL,
		lab_id CHAR(36) NOT NULL,
		user_email VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'OWNER',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_instructor_lab_user (lab_id, user_email),
		CONSTRAINT fk_instructor_lab FOREIGN KEY (lab_id) REFERENCES lab (id)
	)`,
	`CREATE TABLE IF NOT EXISTS enrollment (
		id CHAR(36) NOT NULL,
		user_email VARCHAR(255) NOT NULL,
		lab_id CHAR(36) NOT NULL,
		joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_enrollment_lab_user (lab_id, user_email),
		CONSTRAINT fk_enrollment_lab FOREIGN KEY (lab_id) REFERENCES lab (id)
	)`,
	`CREATE TABLE IF NOT EXISTS announcement (
		id CHAR(36) NOT NULL,
		lab_id CHAR(36) NOT NULL,
		posted_by VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		CONSTRAINT fk_announcement_lab FOREIGN KEY (lab_id) REFERENCES lab (id)
	)`,
	`CREATE TABLE IF NOT EXISTS lab_work (
		id CHAR(36) NOT NULL,
		lab_id CHAR(36) NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		total_points INT NOT NULL DEFAULT 0,
		end_time DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		CONSTRAINT fk_lab_work_lab FOREIGN KEY (lab_id) REFERENCES lab (id)
	)`,
	`CREATE TABLE IF NOT EXISTS lab_task (
		id CHAR(36) NOT NULL,
		lab_work_id CHAR(36) NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		point INT NOT NULL DEFAULT 0,
		language VARCHAR(64) NULL,
		PRIMARY KEY (id),
		CONSTRAINT fk_lab_task_work FOREIGN KEY (lab_work_id) REFERENCES lab_work (id)
	)`,
	`CREATE TABLE IF NOT EXISTS editor (
		id CHAR(36) NOT NULL,
		task_id CHAR(36) NOT NULL,
		solution MEDIUMTEXT NULL,
		url VARCHAR(255) NOT NULL DEFAULT '',
		PRIMARY KEY (id),
		UNIQUE KEY uq_editor_task (task_id),
		CONSTRAINT fk_editor_task FOREIGN KEY (task_id) REFERENCES lab_task (id)
	)`,
}

// EnsureSchema creates the tables if they do not exist. The unique keys on
// lab_code and (lab_id, user_email) are the authoritative guards against
// concurrent duplicate writes; application-level existence checks are only
// an optimization.
func EnsureSchema(database *sql.DB) error {
	for _, stmt := range schema {
		if _, err := database.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
