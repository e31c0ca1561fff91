package authRepository

const (
	queryGetAdminByUsername = `
SELECT id, username, password_hash, created_at, updated_at
FROM admin_users
    WHERE username = :username`

	queryUpdateAdminPassword = `
UPDATE admin_users
SET password_hash = :password_hash, updated_at = :updated_at
WHERE username = :username`
)
