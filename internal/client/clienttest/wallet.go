// Package clienttest provides an in-process wallet service for tests.
package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/AlexZinkM/midnight-hello/internal/client"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// Handler answers one JSON-RPC method. Returning an *client.RPCError sends it as the error object.
type Handler func(params []json.RawMessage) (any, error)

// Wallet is a fake wallet service speaking JSON-RPC over HTTP and state
// notifications over a WebSocket at /ws.
type Wallet struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []string
	states   []*model.WalletState
	noAck    bool
	upgrader websocket.Upgrader
}

// NewWallet starts a fake wallet service. Close it with Wallet.Close.
func NewWallet() *Wallet {
	w := &Wallet{handlers: make(map[string]Handler)}
	mux := http.NewServeMux()
	mux.HandleFunc("/", w.serveRPC)
	mux.HandleFunc("/ws", w.serveWS)
	w.Server = httptest.NewServer(mux)
	return w
}

// URL is the JSON-RPC endpoint
func (w *Wallet) URL() string {
	return w.Server.URL
}

// WSURL is the subscription endpoint
func (w *Wallet) WSURL() string {
	return "ws" + strings.TrimPrefix(w.Server.URL, "http") + "/ws"
}

// Close shuts the server down
func (w *Wallet) Close() {
	w.Server.Close()
}

// Handle registers h for method
func (w *Wallet) Handle(method string, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[method] = h
}

// Returns registers a method that always answers result
func (w *Wallet) Returns(method string, result any) {
	w.Handle(method, func([]json.RawMessage) (any, error) { return result, nil })
}

// Fails registers a method that always answers with rpcErr
func (w *Wallet) Fails(method string, rpcErr *client.RPCError) {
	w.Handle(method, func([]json.RawMessage) (any, error) { return nil, rpcErr })
}

// PushStates sets the snapshots streamed to each new subscriber, in order
func (w *Wallet) PushStates(states ...*model.WalletState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.states = states
}

// WithholdAck makes the subscription endpoint accept subscribe requests without ever answering them
func (w *Wallet) WithholdAck() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.noAck = true
}

// Calls returns the methods invoked so far, in order
func (w *Wallet) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

// Called reports whether method was invoked
func (w *Wallet) Called(method string) bool {
	for _, c := range w.Calls() {
		if c == method {
			return true
		}
	}
	return false
}

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     uint64            `json:"id"`
}

func (w *Wallet) serveRPC(rw http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	w.mu.Lock()
	w.calls = append(w.calls, req.Method)
	h, ok := w.handlers[req.Method]
	if req.Method == "rpc_methods" && !ok {
		methods := make([]string, 0, len(w.handlers))
		for m := range w.handlers {
			methods = append(methods, m)
		}
		h, ok = func([]json.RawMessage) (any, error) { return methods, nil }, true
	}
	w.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = &client.RPCError{Code: client.RPCCodeMethodNotFound, Message: "method not found"}
	} else if result, err := h(req.Params); err != nil {
		if rpcErr, isRPC := err.(*client.RPCError); isRPC {
			resp["error"] = rpcErr
		} else {
			resp["error"] = &client.RPCError{Code: -32000, Message: err.Error()}
		}
	} else {
		resp["result"] = result
	}

	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(resp)
}

func (w *Wallet) serveWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req rpcRequest
	if err := conn.ReadJSON(&req); err != nil {
		return
	}

	w.mu.Lock()
	states := append([]*model.WalletState(nil), w.states...)
	noAck := w.noAck
	w.mu.Unlock()

	if noAck {
		holdOpen(conn)
		return
	}
	if err := conn.WriteJSON(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": "sub-1"}); err != nil {
		return
	}

	for _, s := range states {
		note := map[string]any{
			"jsonrpc": "2.0",
			"method":  "wallet_subscription",
			"params":  map[string]any{"subscription": "sub-1", "result": s},
		}
		if err := conn.WriteJSON(note); err != nil {
			return
		}
	}

	holdOpen(conn)
}

// holdOpen keeps conn open until the client goes away
func holdOpen(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
