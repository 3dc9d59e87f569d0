package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/midnight-hello/internal/metrics"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

const serviceWallet = "wallet"

// WalletClient is a JSON-RPC 2.0 client for the wallet service
type WalletClient struct {
	endpoint  string
	client    *http.Client
	idCounter uint64
}

// NewWalletClient creates a new wallet service client.
// Proving can take minutes, so the HTTP timeout is generous.
func NewWalletClient(endpoint string) *WalletClient {
	return &WalletClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// Call invokes method and decodes the result into out (out may be nil)
func (c *WalletClient) Call(ctx context.Context, out any, method string, params ...any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(serviceWallet, method, start, err) }()

	if params == nil {
		params = []any{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      atomic.AddUint64(&c.idCounter, 1),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Service: "Wallet", StatusCode: resp.StatusCode}
	}

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respData, &rpcResp); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if out == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// Methods lists the JSON-RPC methods the wallet service exposes
func (c *WalletClient) Methods(ctx context.Context) ([]string, error) {
	var methods []string
	if err := c.Call(ctx, &methods, "rpc_methods"); err != nil {
		return nil, err
	}
	return methods, nil
}

// IsEnabled reports whether this application is already authorized by the wallet
func (c *WalletClient) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.Call(ctx, &enabled, "wallet_isEnabled")
	return enabled, err
}

// Enable asks the wallet to authorize this application. The wallet may prompt its user.
func (c *WalletClient) Enable(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.Call(ctx, &enabled, "wallet_enable")
	return enabled, err
}

// State returns the current wallet state snapshot
func (c *WalletClient) State(ctx context.Context) (*model.WalletState, error) {
	var state *model.WalletState
	if err := c.Call(ctx, &state, "wallet_state"); err != nil {
		return nil, err
	}
	return state, nil
}

// Balances returns shielded and unshielded totals
func (c *WalletClient) Balances(ctx context.Context) (*model.SplitBalances, error) {
	var balances model.SplitBalances
	if err := c.Call(ctx, &balances, "wallet_balances"); err != nil {
		return nil, err
	}
	return &balances, nil
}

// GetBalance returns the wallet's own display balance
func (c *WalletClient) GetBalance(ctx context.Context) (string, error) {
	var balance model.Quantity
	if err := c.Call(ctx, &balance, "wallet_getBalance"); err != nil {
		return "", err
	}
	return string(balance), nil
}

// Build constructs the service-side wallet from a seed
func (c *WalletClient) Build(ctx context.Context, params model.BuildParams) error {
	return c.Call(ctx, nil, "wallet_build", params)
}

// Start begins syncing the wallet with the network
func (c *WalletClient) Start(ctx context.Context) error {
	return c.Call(ctx, nil, "wallet_start")
}

// Close stops the wallet and releases its resources
func (c *WalletClient) Close(ctx context.Context) error {
	return c.Call(ctx, nil, "wallet_close")
}

// TransferTransaction builds an unproven transfer recipe
func (c *WalletClient) TransferTransaction(ctx context.Context, outputs []model.TokenTransfer) (json.RawMessage, error) {
	var recipe json.RawMessage
	if err := c.Call(ctx, &recipe, "wallet_transferTransaction", outputs); err != nil {
		return nil, err
	}
	return recipe, nil
}

// ProveTransaction asks the proof server (through the wallet) for the ZK proofs of tx
func (c *WalletClient) ProveTransaction(ctx context.Context, tx json.RawMessage) (json.RawMessage, error) {
	var proven json.RawMessage
	if err := c.Call(ctx, &proven, "wallet_proveTransaction", tx); err != nil {
		return nil, err
	}
	return proven, nil
}

// SubmitTransaction submits a proven transaction and returns its identifier
func (c *WalletClient) SubmitTransaction(ctx context.Context, tx json.RawMessage) (string, error) {
	var identifier string
	if err := c.Call(ctx, &identifier, "wallet_submitTransaction", tx); err != nil {
		return "", err
	}
	return identifier, nil
}

// CallContract runs circuit on the deployed contract at address and waits for finalization
func (c *WalletClient) CallContract(ctx context.Context, address, circuit string, args ...any) (*model.CallTxResult, error) {
	if args == nil {
		args = []any{}
	}
	var res model.CallTxResult
	if err := c.Call(ctx, &res, "contract_call", address, circuit, args); err != nil {
		return nil, err
	}
	return &res, nil
}
