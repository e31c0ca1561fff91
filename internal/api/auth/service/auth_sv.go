package authService

import (
	"SmartVision/internal/api/auth"
	"SmartVision/internal/entity"
	contextPkg "SmartVision/pkg/context"
	jwtPkg "SmartVision/pkg/jwt"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const sessionTTL = time.Hour * 12

func MakeAdminData(admin entity.AdminUser, sessionID string) map[string]interface{} {
	return map[string]interface{}{
		"id":       admin.ID,
		"username": admin.Username,
		"sid":      sessionID,
	}
}

func (s *authService) Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginResponse{}, err
	}

	admin, err := repo.Admins.GetByUsername(c, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrAdminNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   req.Username,
			}).Warn("Login attempt for unknown admin")
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get admin by username")
		return auth.LoginResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(admin.PasswordHash, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Password comparison failed")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	sessionID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return auth.LoginResponse{}, err
	}

	if err := s.sessionStore.Create(c, sessionID, admin.Username, sessionTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create session")
		return auth.LoginResponse{}, err
	}

	token, expired, err := jwtPkg.Sign(MakeAdminData(admin, sessionID), sessionTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   admin.Username,
	}).Info("Admin logged in")

	return auth.LoginResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}, nil
}

func (s *authService) Logout(c context.Context, admin entity.AdminLoginData) error {
	requestID := contextPkg.GetRequestID(c)

	if err := s.sessionStore.Revoke(c, admin.SessionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to revoke session")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   admin.Username,
	}).Info("Admin logged out")

	return nil
}
