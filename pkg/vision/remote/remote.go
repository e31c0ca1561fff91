package remote

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"SmartVision/pkg/vision"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Scanner forwards webcam frames to an external inference service over a
// WebSocket: binary frame out, JSON verdict back. The connection is lazy and
// re-established on demand.
type Scanner struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	log          *logrus.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(log *logrus.Logger) *Scanner {
	s := &Scanner{
		log:          log,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.Reconnect(); err != nil {
			log.Warnf("Initial connection to frame service failed: %v. Will retry on demand.", err)
		}
	}()

	return s
}

func (s *Scanner) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *Scanner) Reconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}

	url := os.Getenv("FRAME_SERVICE_WS_URL")
	if url == "" {
		return errors.New("FRAME_SERVICE_WS_URL not configured")
	}

	s.log.Infof("Connecting to frame service at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(s.writeTimeout))
		if err != nil {
			s.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	s.conn = conn
	return nil
}

func (s *Scanner) ScanFrame(frame []byte) (vision.FrameVerdict, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		if err := s.Reconnect(); err != nil {
			return vision.FrameVerdict{}, err
		}
		s.mu.Lock()
		conn = s.conn
		s.mu.Unlock()
	}

	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return vision.FrameVerdict{}, err
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		s.dropConn()
		return vision.FrameVerdict{}, fmt.Errorf("send frame: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return vision.FrameVerdict{}, err
	}

	var verdict vision.FrameVerdict
	if err := conn.ReadJSON(&verdict); err != nil {
		s.dropConn()
		return vision.FrameVerdict{}, fmt.Errorf("read verdict: %w", err)
	}

	return verdict, nil
}

func (s *Scanner) dropConn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Scanner) Close() {
	s.dropConn()
}
