package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

const (
	subscribeMethod    = "wallet_subscribe"
	notificationMethod = "wallet_subscription"

	handshakeTimeout = 10 * time.Second
)

// StateSubscription streams wallet state snapshots from the wallet service
type StateSubscription struct {
	conn      *websocket.Conn
	id        string
	updates   chan *model.WalletState
	errCh     chan error
	done      chan struct{}
	closeOnce sync.Once
}

type wsMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      uint64          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// SubscribeState opens a WebSocket to endpoint and subscribes to wallet state updates
func SubscribeState(ctx context.Context, endpoint string) (*StateSubscription, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial wallet websocket: %w", err)
	}

	req := wsMessage{
		JSONRPC: "2.0",
		Method:  subscribeMethod,
		Params:  json.RawMessage(`["state"]`),
		ID:      1,
	}
	if err := conn.WriteJSON(req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send subscribe: %w", err)
	}

	subID, err := readSubscribeAck(ctx, conn, req.ID)
	if err != nil {
		conn.Close()
		return nil, err
	}

	sub := &StateSubscription{
		conn:    conn,
		id:      subID,
		updates: make(chan *model.WalletState),
		errCh:   make(chan error, 1),
		done:    make(chan struct{}),
	}
	go sub.readLoop()

	return sub, nil
}

// Updates delivers state snapshots. It is closed when the connection ends.
func (s *StateSubscription) Updates() <-chan *model.WalletState {
	return s.updates
}

// Err delivers the error that ended the subscription, if any
func (s *StateSubscription) Err() <-chan error {
	return s.errCh
}

// Close releases the subscription. Safe to call more than once.
func (s *StateSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *StateSubscription) readLoop() {
	defer close(s.updates)

	for {
		var msg wsMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.fail(fmt.Errorf("websocket read: %w", err))
			}
			return
		}

		if msg.Method != notificationMethod {
			continue
		}

		var params struct {
			Subscription string             `json:"subscription"`
			Result       *model.WalletState `json:"result"`
		}
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.fail(fmt.Errorf("parse wallet state: %w", err))
			return
		}
		if params.Subscription != s.id || params.Result == nil {
			continue
		}

		select {
		case s.updates <- params.Result:
		case <-s.done:
			return
		}
	}
}

// readSubscribeAck waits for the response to the subscribe request with id.
// Frames that arrive first are skipped. The wait ends at ctx's deadline, or
// after handshakeTimeout when ctx has none, or when ctx is canceled.
func readSubscribeAck(ctx context.Context, conn *websocket.Conn, id uint64) (string, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(handshakeTimeout)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return "", fmt.Errorf("set read deadline: %w", err)
	}

	// unblock the read on cancellation
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		var ack wsMessage
		if err := conn.ReadJSON(&ack); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("read subscribe response: %w", ctxErr)
			}
			if ok && !time.Now().Before(deadline) {
				return "", fmt.Errorf("read subscribe response: %w", context.DeadlineExceeded)
			}
			return "", fmt.Errorf("read subscribe response: %w", err)
		}
		if ack.Method != "" || ack.ID != id {
			continue
		}
		if ack.Error != nil {
			return "", ack.Error
		}

		var subID string
		if err := json.Unmarshal(ack.Result, &subID); err != nil {
			return "", fmt.Errorf("invalid subscription id: %w", err)
		}
		if !stop() {
			return "", fmt.Errorf("read subscribe response: %w", ctx.Err())
		}
		if err := conn.SetReadDeadline(time.Time{}); err != nil {
			return "", fmt.Errorf("clear read deadline: %w", err)
		}
		return subID, nil
	}
}

func (s *StateSubscription) fail(err error) {
	select {
	case s.errCh <- err:
	default:
	}
}
