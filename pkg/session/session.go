package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// ISession is the registry of live admin sessions. A session exists from
// login until explicit logout or TTL expiry; the token middleware rejects
// any token whose session is gone.
type ISession interface {
	Create(ctx context.Context, sessionID string, username string, expiration time.Duration) error
	Get(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type sessionStore struct {
	client *redis.Client
}

func New() ISession {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &sessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return "admin_session:" + sessionID
}

func (s *sessionStore) Create(ctx context.Context, sessionID string, username string, expiration time.Duration) error {
	err := s.client.Set(ctx, sessionKey(sessionID), username, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error creating session %s: %v", sessionID, err))
		return err
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting session %s: %v", sessionID, err))
		return "", err
	}
	return val, nil
}

func (s *sessionStore) Revoke(ctx context.Context, sessionID string) error {
	result, err := s.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error revoking session %s: %v", sessionID, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Session %s not found for revocation", sessionID))
	}

	return nil
}
