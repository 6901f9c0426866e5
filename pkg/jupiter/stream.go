package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Connection states
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"

	// Reconnect settings
	maxReconnectAttempts = 10
	reconnectDelay       = 5 * time.Second
)

// PriceUpdate is one streamed price tick for a subscribed mint.
type PriceUpdate struct {
	Mint      string  `json:"mint"`
	UsdPrice  float64 `json:"usdPrice"`
	Timestamp int64   `json:"timestamp"`
}

// PriceStream maintains a websocket subscription to a streaming price feed
// and delivers ticks to a callback. The connection reconnects with a fixed
// delay up to maxReconnectAttempts before giving up.
type PriceStream struct {
	endpoint string
	mints    []string
	onUpdate func(PriceUpdate)

	mu    sync.Mutex
	conn  *websocket.Conn
	state string
}

// NewPriceStream creates a stream for the given mints. onUpdate is invoked
// from the read loop; it must not block.
func NewPriceStream(endpoint string, mints []string, onUpdate func(PriceUpdate)) *PriceStream {
	return &PriceStream{
		endpoint: endpoint,
		mints:    mints,
		onUpdate: onUpdate,
		state:    StateDisconnected,
	}
}

// State returns the current connection state.
func (s *PriceStream) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *PriceStream) setState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Run connects and consumes price ticks until the context is cancelled or
// reconnect attempts are exhausted.
func (s *PriceStream) Run(ctx context.Context) error {
	attempts := 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := s.connect(ctx); err != nil {
			attempts++
			if attempts >= maxReconnectAttempts {
				s.setState(StateDisconnected)
				return fmt.Errorf("giving up after %d reconnect attempts: %w", attempts, err)
			}
			log.Warnf("Price stream connect failed (attempt %d/%d): %v", attempts, maxReconnectAttempts, err)
			select {
			case <-time.After(reconnectDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		attempts = 0
		if err := s.readLoop(ctx); err != nil {
			log.Warnf("Price stream disconnected: %v", err)
		}
		s.setState(StateDisconnected)
	}
}

func (s *PriceStream) connect(ctx context.Context) error {
	s.setState(StateConnecting)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", s.endpoint, err)
	}

	sub := map[string]any{
		"op":    "subscribe",
		"mints": s.mints,
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.state = StateConnected
	s.mu.Unlock()

	log.Infof("Price stream connected, subscribed to %d mints", len(s.mints))
	return nil
}

func (s *PriceStream) readLoop(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var update PriceUpdate
		if err := json.Unmarshal(msg, &update); err != nil {
			log.Warnf("Failed to unmarshal price update: %v", err)
			continue
		}
		if update.Mint == "" {
			continue
		}

		s.onUpdate(update)
	}
}
