package store

import "fmt"

// Per-dialect DDL. The portal schema is small enough that each dialect keeps
// its own full statement list; all statements are idempotent so migrate can
// run on every startup.
var migrations = map[string][]string{
	driverSQLite: {
		`CREATE TABLE IF NOT EXISTS admins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin' CHECK (role IN ('admin', 'superadmin')),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subcounty TEXT NOT NULL,
			ward TEXT NOT NULL,
			village TEXT NOT NULL,
			age_bracket TEXT NOT NULL,
			will_vote INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS slides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			image_url TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			uploaded_by INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 0,
			uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS hero_images (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			image_url TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_feedback_subcounty ON feedback(subcounty)`,
	},

	driverPostgres: {
		`CREATE TABLE IF NOT EXISTS admins (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin' CHECK (role IN ('admin', 'superadmin')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			id BIGSERIAL PRIMARY KEY,
			subcounty TEXT NOT NULL,
			ward TEXT NOT NULL,
			village TEXT NOT NULL,
			age_bracket TEXT NOT NULL,
			will_vote BOOLEAN NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS slides (
			id BIGSERIAL PRIMARY KEY,
			image_url TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			uploaded_by BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS hero_images (
			id BIGSERIAL PRIMARY KEY,
			image_url TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_feedback_subcounty ON feedback(subcounty)`,
	},

	driverMySQL: {
		`CREATE TABLE IF NOT EXISTS admins (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			password_hash VARCHAR(128) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'admin',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT chk_admins_role CHECK (role IN ('admin', 'superadmin'))
		)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			subcounty VARCHAR(100) NOT NULL,
			ward VARCHAR(100) NOT NULL,
			village VARCHAR(100) NOT NULL,
			age_bracket VARCHAR(20) NOT NULL,
			will_vote BOOLEAN NOT NULL,
			reason TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_feedback_subcounty (subcounty)
		)`,

		`CREATE TABLE IF NOT EXISTS slides (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			image_url VARCHAR(255) NOT NULL,
			caption VARCHAR(255) NOT NULL DEFAULT '',
			uploaded_by BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS hero_images (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			image_url VARCHAR(255) NOT NULL
		)`,
	},
}

func (s *Store) migrate() error {
	stmts, ok := migrations[s.driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", s.driver)
	}
	for _, m := range stmts {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
