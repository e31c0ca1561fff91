package config

import (
	"SmartVision/database/store"
	authHandler "SmartVision/internal/api/auth/handler"
	authRepository "SmartVision/internal/api/auth/repository"
	authService "SmartVision/internal/api/auth/service"
	detectionHandler "SmartVision/internal/api/detection/handler"
	detectionService "SmartVision/internal/api/detection/service"
	historyHandler "SmartVision/internal/api/history/handler"
	historyRepository "SmartVision/internal/api/history/repository"
	historyService "SmartVision/internal/api/history/service"
	"SmartVision/internal/middleware"
	"SmartVision/pkg/bcrypt"
	"SmartVision/pkg/s3"
	"SmartVision/pkg/session"
	"SmartVision/pkg/utils"
	"SmartVision/pkg/vision"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	bcryptUtils    bcrypt.IBcrypt
	handlers       []handler
	sessionStore   session.ISession
	s3Client       s3.ItfS3
	visionProvider vision.Provider
	frameScanner   vision.FrameScanner
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.visionProvider == nil {
		return nil, fmt.Errorf("vision provider is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := store.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		if err := store.Bootstrap(db); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithSessionStore(sessionStore session.ISession) ServerOption {
	return func(s *Server) error {
		s.sessionStore = sessionStore
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithVisionProvider(provider vision.Provider) ServerOption {
	return func(s *Server) error {
		s.visionProvider = provider
		return nil
	}
}

func WithFrameScanner(scanner vision.FrameScanner) ServerOption {
	return func(s *Server) error {
		s.frameScanner = scanner
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.sessionStore == nil {
			return fmt.Errorf("session store must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.sessionStore)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.sessionStore, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, s.validator, s.middleware, authServices)

	// History
	historyRepo := historyRepository.New(s.db, s.log)
	historyServices := historyService.New(s.log, historyRepo, s.s3Client)
	historyHandlers := historyHandler.New(s.log, s.validator, s.middleware, historyServices)

	// Detection
	detectionServices := detectionService.New(s.log, s.visionProvider, s.frameScanner, historyRepo, s.s3Client, s.utils)
	detectionHandlers := detectionHandler.New(s.log, s.validator, s.middleware, detectionServices, s.utils)

	s.setupHealthCheck()
	s.setupPages()
	s.handlers = append(s.handlers, authHandlers, historyHandlers, detectionHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	if s.db != nil {
		defer s.db.Close()
	}
	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

func (s *Server) setupPages() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Render("index", fiber.Map{
			"Title": "Smart Vision Detector",
		})
	})

	s.engine.Get("/admin", func(ctx *fiber.Ctx) error {
		return ctx.Render("admin", fiber.Map{
			"Title": "Detection History",
		})
	})
}
