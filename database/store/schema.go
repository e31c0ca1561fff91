package store

import (
	"fmt"
	"os"
	"time"

	"SmartVision/pkg/bcrypt"
	"SmartVision/pkg/utils"
	"github.com/jmoiron/sqlx"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

const schemaDetectionHistory = `
CREATE TABLE IF NOT EXISTS detection_history (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	detection_type TEXT NOT NULL,
	result TEXT NOT NULL,
	confidence REAL NOT NULL,
	file_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
)`

const schemaAdminUsers = `
CREATE TABLE IF NOT EXISTS admin_users (
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Bootstrap creates both tables when absent and seeds the default admin
// account on an empty credentials table. The default pair is documented and
// expected to be changed before a real deployment.
func Bootstrap(db *sqlx.DB) error {
	if _, err := db.Exec(schemaDetectionHistory); err != nil {
		return fmt.Errorf("create detection_history table: %w", err)
	}
	if _, err := db.Exec(schemaAdminUsers); err != nil {
		return fmt.Errorf("create admin_users table: %w", err)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM admin_users"); err != nil {
		return fmt.Errorf("count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_DEFAULT_USERNAME")
	if username == "" {
		username = defaultAdminUsername
	}
	password := os.Getenv("ADMIN_DEFAULT_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}

	hash, err := bcrypt.New().HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	now := time.Now()
	id, err := utils.New().NewULIDFromTimestamp(now)
	if err != nil {
		return fmt.Errorf("generate admin id: %w", err)
	}

	query := db.Rebind(`
INSERT INTO admin_users (id, username, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`)
	if _, err := db.Exec(query, id, username, hash, now, now); err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}

	return nil
}
