package authRepository

import (
	"SmartVision/internal/api/auth"
	"SmartVision/internal/entity"
	contextPkg "SmartVision/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type AdminUserDB struct {
	ID           sql.NullString `db:"id"`
	Username     sql.NullString `db:"username"`
	PasswordHash sql.NullString `db:"password_hash"`
	CreatedAt    sql.NullTime   `db:"created_at"`
	UpdatedAt    sql.NullTime   `db:"updated_at"`
}

func (r *adminRepository) makeAdmin(row AdminUserDB) entity.AdminUser {
	return entity.AdminUser{
		ID:           row.ID.String,
		Username:     row.Username.String,
		PasswordHash: row.PasswordHash.String,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func (r *adminRepository) GetByUsername(c context.Context, username string) (entity.AdminUser, error) {
	requestID := contextPkg.GetRequestID(c)
	var row AdminUserDB

	query, args, err := sqlx.Named(queryGetAdminByUsername, map[string]interface{}{"username": username})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername named query preparation err")
		return entity.AdminUser{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   username,
			}).Warn("GetByUsername no rows found")
			return entity.AdminUser{}, auth.ErrAdminNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername execution err")
		return entity.AdminUser{}, err
	}

	return r.makeAdmin(row), nil
}

func (r *adminRepository) UpdatePassword(c context.Context, username string, passwordHash string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"username":      username,
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateAdminPassword, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdatePassword named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdatePassword execution err")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrAdminNotFound
	}

	return nil
}
