package main

import (
	"SmartVision/internal/config"
	"SmartVision/pkg/log"
	"SmartVision/pkg/session"
	"SmartVision/pkg/vision"
	"SmartVision/pkg/vision/gemini"
	"SmartVision/pkg/vision/onnx"
	"SmartVision/pkg/vision/remote"
	"SmartVision/pkg/vision/simulated"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func newVisionStack(logger *logrus.Logger) (vision.Provider, vision.FrameScanner, error) {
	var provider vision.Provider
	var scanner vision.FrameScanner

	switch os.Getenv("VISION_PROVIDER") {
	case "onnx":
		p, err := onnx.New()
		if err != nil {
			return nil, nil, err
		}
		provider = p
		scanner = p
	case "gemini":
		p, err := gemini.New()
		if err != nil {
			return nil, nil, err
		}
		provider = p
	default:
		p := simulated.New()
		provider = p
		scanner = p
	}

	if os.Getenv("FRAME_SERVICE_WS_URL") != "" {
		scanner = remote.New(logger)
	}

	return provider, scanner, nil
}

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	sessionStore := session.New()

	provider, scanner, err := newVisionStack(logger)
	if err != nil {
		logger.Fatalf("Error building vision provider: %v", err)
	}

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithSessionStore(sessionStore),
		config.WithMiddleware(),
		config.WithVisionProvider(provider),
		config.WithFrameScanner(scanner),
		config.WithBcryptUtils(),
		config.WithUtils(),
	}

	if os.Getenv("AWS_BUCKET_NAME") != "" {
		options = append(options, config.WithS3Client())
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
