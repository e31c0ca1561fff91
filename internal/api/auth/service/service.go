package authService

import (
	"SmartVision/internal/api/auth"
	authRepository "SmartVision/internal/api/auth/repository"
	"SmartVision/internal/entity"
	"SmartVision/pkg/bcrypt"
	"SmartVision/pkg/session"
	"SmartVision/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	Logout(c context.Context, admin entity.AdminLoginData) error
	ChangePassword(c context.Context, admin entity.AdminLoginData, req auth.ChangePasswordRequest) error
}

type authService struct {
	log          *logrus.Logger
	repo         authRepository.Repository
	sessionStore session.ISession
	bcryptUtils  bcrypt.IBcrypt
	utils        utils.IUtils
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	sessionStore session.ISession,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:          log,
		repo:         authRepo,
		sessionStore: sessionStore,
		bcryptUtils:  bcryptUtils,
		utils:        utils,
	}
}
