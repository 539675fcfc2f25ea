package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sautihub/sauti/internal/model"
)

// Supported store drivers. SQLite is the default and needs no external
// server; postgres and mysql cover managed hosting.
const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverMySQL    = "mysql"
)

// sqlDriverName maps a portal driver name to the registered database/sql
// driver name.
var sqlDriverName = map[string]string{
	driverSQLite:   "sqlite",
	driverPostgres: "pgx",
	driverMySQL:    "mysql",
}

// Store persists all portal state: admin accounts, citizen feedback, slides,
// and the hero image.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the portal database using the given driver ("sqlite",
// "postgres", or "mysql") and DSN, and runs migrations. MySQL DSNs must
// include parseTime=true so timestamps scan into time.Time.
func Open(driver, dsn string) (*Store, error) {
	name, ok := sqlDriverName[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q (want sqlite, postgres, or mysql)", driver)
	}

	db, err := sqlx.Connect(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store database: %w", err)
	}

	if driver == driverSQLite {
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate store database: %w", err)
	}
	return s, nil
}

// OpenDefault opens the embedded SQLite store under dataDir. Pass empty
// string for in-memory, which tests use.
func OpenDefault(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == "" {
		dsn = ":memory:?_journal_mode=WAL"
	} else {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, "sauti.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	return Open(driverSQLite, dsn)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying connection for tests and migrations tooling.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// namedInsert runs a named INSERT and returns the generated row ID. Postgres
// has no LastInsertId, so the query grows a RETURNING clause there.
func (s *Store) namedInsert(ctx context.Context, query string, arg interface{}) (int64, error) {
	if s.driver == driverPostgres {
		rows, err := sqlx.NamedQueryContext(ctx, s.db, query+" RETURNING id", arg)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		var id int64
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("insert returned no id")
		}
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := s.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// isUniqueViolation reports whether err is a unique-constraint failure in any
// of the supported dialects.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite, postgres
		strings.Contains(msg, "duplicate key") || // postgres
		strings.Contains(msg, "duplicate entry") // mysql
}

// ---------------------------------------------------------------------------
// Admins
// ---------------------------------------------------------------------------

// CreateAdmin inserts a new admin account. PasswordHash must already be set.
// The ID and CreatedAt fields are populated after a successful insert.
// Duplicate usernames are rejected by the UNIQUE constraint and surfaced as
// ErrDuplicateUsername, which makes concurrent creates safe without
// application-level locking.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	admin.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO admins (username, password_hash, role, created_at)
		VALUES (:username, :password_hash, :role, :created_at)`

	id, err := s.namedInsert(ctx, q, admin)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	admin.ID = id
	return nil
}

// GetAdminByUsername returns an admin by exact, case-sensitive username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	q := s.db.Rebind("SELECT * FROM admins WHERE username = ?")
	if err := s.db.GetContext(ctx, &admin, q, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return &admin, nil
}

// GetAdmin returns an admin by ID.
func (s *Store) GetAdmin(ctx context.Context, id int64) (*model.Admin, error) {
	var admin model.Admin
	q := s.db.Rebind("SELECT * FROM admins WHERE id = ?")
	if err := s.db.GetContext(ctx, &admin, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts ordered by username.
func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := s.db.SelectContext(ctx, &admins, "SELECT * FROM admins ORDER BY username"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// HasAnyAdmin reports whether at least one admin account exists. Used for
// first-run detection: the seed procedure only runs when this is false.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admins"); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

// UpdateAdminPassword replaces an admin's stored password hash.
func (s *Store) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error {
	q := s.db.Rebind("UPDATE admins SET password_hash = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin password rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAdmin removes an admin account by ID. The check that at least one
// super-admin survives happens inside the same transaction as the delete.
// On postgres and mysql the super-admin rows are locked with FOR UPDATE
// before counting, so two concurrent deletes of the two remaining
// super-admins serialize: the second transaction re-reads after the first
// commits, counts one survivor, and refuses. SQLite has a single writer and
// needs no row locks.
func (s *Store) DeleteAdmin(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var target model.Admin
	q := tx.Rebind("SELECT * FROM admins WHERE id = ?")
	if err := tx.GetContext(ctx, &target, q, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("get admin for delete: %w", err)
	}

	if target.Role == model.RoleSuperAdmin {
		lq := "SELECT id FROM admins WHERE role = ?"
		if s.driver != driverSQLite {
			lq += " FOR UPDATE"
		}
		var superIDs []int64
		if err := tx.SelectContext(ctx, &superIDs, tx.Rebind(lq), model.RoleSuperAdmin); err != nil {
			return fmt.Errorf("lock super-admins: %w", err)
		}
		if len(superIDs) <= 1 {
			return ErrLastSuperAdmin
		}
	}

	dq := tx.Rebind("DELETE FROM admins WHERE id = ?")
	if _, err := tx.ExecContext(ctx, dq, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Feedback
// ---------------------------------------------------------------------------

// CreateFeedback inserts a citizen feedback entry. The ID and CreatedAt
// fields are populated after a successful insert.
func (s *Store) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	fb.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO feedback (subcounty, ward, village, age_bracket, will_vote, reason, created_at)
		VALUES (:subcounty, :ward, :village, :age_bracket, :will_vote, :reason, :created_at)`

	id, err := s.namedInsert(ctx, q, fb)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	fb.ID = id
	return nil
}

// FeedbackSummary returns the portal-wide yes/no totals.
func (s *Store) FeedbackSummary(ctx context.Context) (*model.FeedbackSummary, error) {
	const q = `SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN will_vote THEN 1 ELSE 0 END), 0) AS yes_count,
			COALESCE(SUM(CASE WHEN will_vote THEN 0 ELSE 1 END), 0) AS no_count
		FROM feedback`

	var summary model.FeedbackSummary
	if err := s.db.GetContext(ctx, &summary, q); err != nil {
		return nil, fmt.Errorf("feedback summary: %w", err)
	}
	return &summary, nil
}

// regionColumns whitelists the columns FeedbackByRegion may group by. The
// column name is interpolated into SQL, so it must never come from request
// input unchecked.
var regionColumns = map[string]bool{
	"subcounty": true,
	"ward":      true,
	"village":   true,
}

// FeedbackByRegion returns yes/no counts grouped by the given region column
// (subcounty, ward, or village).
func (s *Store) FeedbackByRegion(ctx context.Context, column string) ([]model.RegionBreakdown, error) {
	if !regionColumns[column] {
		return nil, fmt.Errorf("invalid region column %q", column)
	}

	q := fmt.Sprintf(`SELECT
			%[1]s AS region,
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN will_vote THEN 1 ELSE 0 END), 0) AS yes_count,
			COALESCE(SUM(CASE WHEN will_vote THEN 0 ELSE 1 END), 0) AS no_count
		FROM feedback
		GROUP BY %[1]s
		ORDER BY %[1]s`, column)

	breakdown := []model.RegionBreakdown{}
	if err := s.db.SelectContext(ctx, &breakdown, q); err != nil {
		return nil, fmt.Errorf("feedback by %s: %w", column, err)
	}
	return breakdown, nil
}

// QuickStats returns the admin-overview counters for the dashboard.
func (s *Store) QuickStats(ctx context.Context) (*model.QuickStats, error) {
	var stats model.QuickStats

	if err := s.db.GetContext(ctx, &stats.TotalAdmins, "SELECT COUNT(*) FROM admins"); err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.TotalFeedback, "SELECT COUNT(*) FROM feedback"); err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.TotalSubcounties, "SELECT COUNT(DISTINCT subcounty) FROM feedback"); err != nil {
		return nil, fmt.Errorf("count subcounties: %w", err)
	}

	// MAX(created_at) would come back untyped from SQLite and fail to scan
	// as a time; selecting the column directly keeps its declared type.
	var latest time.Time
	err := s.db.GetContext(ctx, &latest, "SELECT created_at FROM feedback ORDER BY created_at DESC, id DESC LIMIT 1")
	switch {
	case err == sql.ErrNoRows:
		// no feedback yet, LatestFeedback stays nil
	case err != nil:
		return nil, fmt.Errorf("latest feedback: %w", err)
	default:
		stats.LatestFeedback = &latest
	}
	return &stats, nil
}

// ---------------------------------------------------------------------------
// Slides
// ---------------------------------------------------------------------------

// CreateSlide inserts a new slideshow image. New slides start inactive until
// an admin toggles them onto the homepage.
func (s *Store) CreateSlide(ctx context.Context, slide *model.Slide) error {
	slide.UploadedAt = time.Now().UTC()

	const q = `INSERT INTO slides (image_url, caption, uploaded_by, is_active, uploaded_at)
		VALUES (:image_url, :caption, :uploaded_by, :is_active, :uploaded_at)`

	id, err := s.namedInsert(ctx, q, slide)
	if err != nil {
		return fmt.Errorf("insert slide: %w", err)
	}
	slide.ID = id
	return nil
}

// ListSlides returns all slides, newest first.
func (s *Store) ListSlides(ctx context.Context) ([]model.Slide, error) {
	slides := []model.Slide{}
	if err := s.db.SelectContext(ctx, &slides, "SELECT * FROM slides ORDER BY uploaded_at DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	return slides, nil
}

// ListActiveSlides returns only the slides shown on the public homepage.
func (s *Store) ListActiveSlides(ctx context.Context) ([]model.Slide, error) {
	slides := []model.Slide{}
	q := s.db.Rebind("SELECT * FROM slides WHERE is_active = ? ORDER BY uploaded_at DESC, id DESC")
	if err := s.db.SelectContext(ctx, &slides, q, true); err != nil {
		return nil, fmt.Errorf("list active slides: %w", err)
	}
	return slides, nil
}

// ToggleSlide flips a slide's active flag and returns the new state.
func (s *Store) ToggleSlide(ctx context.Context, id int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	q := tx.Rebind("UPDATE slides SET is_active = NOT is_active WHERE id = ?")
	result, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("toggle slide: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle slide rows affected: %w", err)
	}
	if n == 0 {
		return false, ErrNotFound
	}

	var active bool
	sq := tx.Rebind("SELECT is_active FROM slides WHERE id = ?")
	if err := tx.GetContext(ctx, &active, sq, id); err != nil {
		return false, fmt.Errorf("read toggled slide: %w", err)
	}

	return active, tx.Commit()
}

// DeleteSlide removes a slide by ID.
func (s *Store) DeleteSlide(ctx context.Context, id int64) error {
	q := s.db.Rebind("DELETE FROM slides WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete slide: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slide rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Hero image
// ---------------------------------------------------------------------------

// GetHero returns the current hero image, or ErrNotFound if none is set.
func (s *Store) GetHero(ctx context.Context) (*model.HeroImage, error) {
	var hero model.HeroImage
	if err := s.db.GetContext(ctx, &hero, "SELECT * FROM hero_images ORDER BY id LIMIT 1"); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get hero image: %w", err)
	}
	return &hero, nil
}

// SetHero replaces the hero image URL, inserting the row if none exists yet.
// The table holds at most one row.
func (s *Store) SetHero(ctx context.Context, imageURL string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// MySQL reports zero affected rows for no-op updates, so existence is
	// checked explicitly rather than inferred from RowsAffected.
	var count int
	if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM hero_images"); err != nil {
		return fmt.Errorf("count hero images: %w", err)
	}
	if count == 0 {
		iq := tx.Rebind("INSERT INTO hero_images (image_url) VALUES (?)")
		if _, err := tx.ExecContext(ctx, iq, imageURL); err != nil {
			return fmt.Errorf("insert hero image: %w", err)
		}
	} else {
		uq := tx.Rebind("UPDATE hero_images SET image_url = ?")
		if _, err := tx.ExecContext(ctx, uq, imageURL); err != nil {
			return fmt.Errorf("update hero image: %w", err)
		}
	}

	return tx.Commit()
}
