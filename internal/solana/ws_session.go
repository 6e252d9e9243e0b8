package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gorilla/websocket"

	"dash-indexer/internal/observability"
)

// pongAckID is the fixed acknowledgment identifier echoed back on every
// keepalive pong.
const pongAckID = 1

// Default session timeouts.
const (
	defaultDialTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// SessionConfig configures one subscription session.
type SessionConfig struct {
	// Endpoint is the stream address; ws:// or wss:// selects TLS.
	Endpoint string
	// Token is the access token sent as an X-Token header, empty to skip.
	Token string
	// Commitment is the confirmation level applied to the subscription.
	Commitment rpc.CommitmentType
	// AccountInclude filters transactions to those mentioning these accounts.
	AccountInclude []string
	// DialTimeout bounds the websocket handshake.
	DialTimeout time.Duration
	// WriteTimeout bounds subscribe and pong writes.
	WriteTimeout time.Duration
	// Logger receives session lifecycle lines. Defaults to log.Default().
	Logger *log.Logger
	// Metrics counts pings answered and malformed frames. Optional.
	Metrics *observability.Metrics
}

// UpdateHandler consumes raw transaction updates from a session. It must not
// return an error: per-message failures are the handler's own concern.
type UpdateHandler interface {
	HandleTransaction(ctx context.Context, upd *TransactionUpdate)
}

// wsRequest is a JSON-RPC 2.0 request frame.
type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id,omitempty"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// wsPong answers an upstream keepalive ping.
type wsPong struct {
	JSONRPC string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  pongParams `json:"params"`
}

type pongParams struct {
	ID int `json:"id"`
}

// wsEnvelope is the superset of frames the stream can send.
type wsEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Method  string          `json:"method"`
	Result  json.RawMessage `json:"result"`
	Params  *notifyParams   `json:"params"`
	Error   *wsError        `json:"error"`
}

type notifyParams struct {
	Subscription int64           `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

type wsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *wsError) Error() string {
	return fmt.Sprintf("stream error %d: %s", e.Code, e.Message)
}

// RunSession establishes one subscription session and forwards raw
// transaction messages to handler until the stream ends. A clean upstream
// close returns nil; any connect, read, or write failure returns an error.
// Restart policy belongs to the caller.
func RunSession(ctx context.Context, cfg SessionConfig, handler UpdateHandler) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = defaultDialTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	header := http.Header{}
	if cfg.Token != "" {
		header.Set("X-Token", cfg.Token)
	}

	conn, _, err := dialer.DialContext(ctx, cfg.Endpoint, header)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the caller cancels.
	watchdogDone := make(chan struct{})
	defer close(watchdogDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchdogDone:
		}
	}()

	if err := subscribe(conn, cfg, writeTimeout); err != nil {
		return err
	}
	logger.Printf("subscribed to transactions for accounts %v (%s)", cfg.AccountInclude, cfg.Commitment)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}

		var env wsEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			// Unparseable frames are dropped, not fatal.
			logger.Printf("skipping malformed frame: %v", err)
			if cfg.Metrics != nil {
				cfg.Metrics.MalformedUpdates.Inc()
			}
			continue
		}

		switch {
		case env.Error != nil:
			return fmt.Errorf("subscription rejected: %w", env.Error)

		case env.Method == "ping":
			// Keepalive: answer before the next read. A write failure here
			// means the connection is gone.
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			pong := wsPong{JSONRPC: "2.0", Method: "pong", Params: pongParams{ID: pongAckID}}
			if err := conn.WriteJSON(pong); err != nil {
				return fmt.Errorf("write pong: %w", err)
			}
			if cfg.Metrics != nil {
				cfg.Metrics.PingsAnswered.Inc()
			}

		case env.Method == "transactionNotification":
			if env.Params == nil {
				continue
			}
			var upd TransactionUpdate
			if err := json.Unmarshal(env.Params.Result, &upd); err != nil {
				logger.Printf("skipping malformed transaction update: %v", err)
				if cfg.Metrics != nil {
					cfg.Metrics.MalformedUpdates.Inc()
				}
				continue
			}
			if upd.Transaction == nil {
				continue
			}
			handler.HandleTransaction(ctx, &upd)

		case env.ID != 0 && len(env.Result) > 0:
			logger.Printf("subscription confirmed: %s", env.Result)

		default:
			// Other message kinds carry nothing we persist.
		}
	}
}

// subscribe sends the filtered transaction subscription request.
func subscribe(conn *websocket.Conn, cfg SessionConfig, writeTimeout time.Duration) error {
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "transactionSubscribe",
		Params: []interface{}{
			map[string]interface{}{
				"accountInclude": cfg.AccountInclude,
				"vote":           false,
				"failed":         true,
			},
			map[string]string{
				"commitment": string(cfg.Commitment),
			},
		},
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}
