package database

import (
	"context"
	"database/sql"
	"time"
)

// Migrate creates the two application tables if they do not exist yet.
// Run once at startup before any repository is used. The statements are
// idempotent so restarts are safe.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			username VARCHAR(80) NOT NULL,
			email VARCHAR(120) NOT NULL,
			password VARCHAR(200) NOT NULL,
			admin BOOLEAN NOT NULL DEFAULT FALSE,
			manager BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_user_username (username),
			UNIQUE KEY uq_user_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS explanation (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			student_username VARCHAR(80) NOT NULL,
			student_email VARCHAR(120) NOT NULL,
			` + "`class`" + ` VARCHAR(100) NOT NULL,
			lock_part VARCHAR(200) NOT NULL,
			reason TEXT NOT NULL,
			state VARCHAR(20) NOT NULL DEFAULT 'pending',
			manager_username VARCHAR(80) NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			resolved_at DATETIME NULL,
			PRIMARY KEY (id),
			KEY idx_explanation_state (state)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
