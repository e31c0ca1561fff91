package authService

import (
	"SmartVision/internal/api/auth"
	"SmartVision/internal/entity"
	contextPkg "SmartVision/pkg/context"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

func (s *authService) ChangePassword(c context.Context, admin entity.AdminLoginData, req auth.ChangePasswordRequest) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	stored, err := repo.Admins.GetByUsername(c, admin.Username)
	if err != nil {
		if errors.Is(err, auth.ErrAdminNotFound) {
			return auth.ErrInvalidCredentials
		}
		return err
	}

	if err := s.bcryptUtils.ComparePassword(stored.PasswordHash, req.OldPassword); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   admin.Username,
		}).Warn("Old password comparison failed")
		return auth.ErrInvalidCredentials
	}

	if req.NewPassword == req.OldPassword {
		return auth.ErrPasswordSame
	}

	hashed, err := s.bcryptUtils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash new password")
		return err
	}

	if err := repo.Admins.UpdatePassword(c, admin.Username, hashed); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   admin.Username,
	}).Info("Admin password updated")

	return nil
}
