package chain

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// TipStreamConfig configures TipStream behavior.
type TipStreamConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultTipStreamConfig returns default TipStream configuration.
func DefaultTipStreamConfig() TipStreamConfig {
	return TipStreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// TipStream follows chain tip announcements over a WebSocket connection.
// It is an optional wake-up hint for the scanner: polling against the REST
// API remains the source of truth, so dropped or duplicated announcements
// are harmless.
type TipStream struct {
	endpoint string
	config   TipStreamConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	tips chan *Block
	done chan struct{}
	wg   sync.WaitGroup
}

// NewTipStream connects to the endpoint and starts following tips.
func NewTipStream(ctx context.Context, endpoint string, config *TipStreamConfig) (*TipStream, error) {
	cfg := DefaultTipStreamConfig()
	if config != nil {
		cfg = *config
	}

	s := &TipStream{
		endpoint: endpoint,
		config:   cfg,
		tips:     make(chan *Block, 16),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(2)
	go s.readLoop()
	go s.pingLoop()

	return s, nil
}

// Tips returns the channel of tip announcements. The channel is closed
// when the stream is closed.
func (s *TipStream) Tips() <-chan *Block {
	return s.tips
}

// Close shuts the stream down and closes the tips channel.
func (s *TipStream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.tips)
	return nil
}

// connect establishes the WebSocket connection.
func (s *TipStream) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return err
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// tipNotification is one tip announcement message.
type tipNotification struct {
	Height int64  `json:"height"`
	Hash   string `json:"hash"`
	Time   int64  `json:"time"`
}

// readLoop reads tip announcements and reconnects on failure.
func (s *TipStream) readLoop() {
	defer s.wg.Done()

	delay := s.config.ReconnectDelay

	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}
			// Reconnect with capped backoff
			select {
			case <-s.done:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > s.config.MaxReconnectDelay {
				delay = s.config.MaxReconnectDelay
			}
			if err := s.connect(context.Background()); err != nil {
				continue
			}
			delay = s.config.ReconnectDelay
			continue
		}

		var tip tipNotification
		if err := json.Unmarshal(msg, &tip); err != nil || tip.Height == 0 {
			continue
		}

		block := &Block{Height: tip.Height, Hash: tip.Hash, Time: tip.Time}
		select {
		case s.tips <- block:
		default:
			// Slow consumer: drop, polling will catch up.
		}
	}
}

// pingLoop keeps the connection alive.
func (s *TipStream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			conn := s.conn
			s.connMu.Unlock()

			conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			_ = conn.WriteMessage(websocket.PingMessage, nil)
		}
	}
}
