// Package wallet connects to the wallet service and tracks its sync progress.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/internal/common"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

var (
	// ErrWalletNotFound is returned when no wallet service answers
	ErrWalletNotFound = errors.New("wallet not found: start the wallet service or set WALLET_RPC_URL")
	// ErrEnableRejected is returned when the wallet refuses to authorize this application
	ErrEnableRejected = errors.New("failed to enable wallet")
	// ErrNoState is returned when the wallet has no state to report
	ErrNoState = errors.New("failed to get wallet state")
)

// Optional wallet methods looked up during capability negotiation
const (
	methodBalances            = "wallet_balances"
	methodGetBalance          = "wallet_getBalance"
	methodSignData            = "wallet_signData"
	methodSubmitTx            = "wallet_submitTx"
	methodBalanceTransaction  = "wallet_balanceTransaction"
	methodTransferTransaction = "wallet_transferTransaction"
	methodProveTransaction    = "wallet_proveTransaction"
	methodSubmitTransaction   = "wallet_submitTransaction"
)

// MethodLister lists the JSON-RPC methods a wallet exposes
type MethodLister interface {
	Methods(ctx context.Context) ([]string, error)
}

// Provider is the wallet surface used by the adapter.
// *client.WalletClient implements it.
type Provider interface {
	Methods(ctx context.Context) ([]string, error)
	IsEnabled(ctx context.Context) (bool, error)
	Enable(ctx context.Context) (bool, error)
	State(ctx context.Context) (*model.WalletState, error)
	Balances(ctx context.Context) (*model.SplitBalances, error)
	GetBalance(ctx context.Context) (string, error)
}

// ConnectResult is what the user sees after connecting
type ConnectResult struct {
	Address string
	Balance string
}

// Adapter detects and connects to a wallet provider
type Adapter struct {
	provider Provider
	logger   *zap.Logger
}

// NewAdapter creates an adapter over provider. A nil provider is never detected.
func NewAdapter(provider Provider, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{provider: provider, logger: logger}
}

// Detect reports whether a wallet provider is reachable
func (a *Adapter) Detect(ctx context.Context) bool {
	if a.provider == nil {
		return false
	}
	if _, err := a.provider.Methods(ctx); err != nil {
		a.logger.Debug("wallet not detected", zap.Error(err))
		return false
	}
	return true
}

// Connect enables the wallet, negotiates its capabilities and reads the display address and balance.
// The returned session is owned by the caller.
func (a *Adapter) Connect(ctx context.Context) (*Session, *ConnectResult, error) {
	if a.provider == nil {
		return nil, nil, ErrWalletNotFound
	}

	enabled, err := a.provider.IsEnabled(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrWalletNotFound, err)
	}
	a.logger.Debug("wallet enabled status", zap.Bool("enabled", enabled))

	// enable prompts the wallet user when not yet authorized
	ok, err := a.provider.Enable(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEnableRejected, err)
	}
	if !ok {
		return nil, nil, ErrEnableRejected
	}

	caps, err := a.negotiate(ctx)
	if err != nil {
		return nil, nil, err
	}

	state, err := a.provider.State(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoState, err)
	}
	if state == nil {
		return nil, nil, ErrNoState
	}

	balance, err := ResolveBalance(ctx, a.provider, caps, state)
	if err != nil {
		return nil, nil, err
	}

	result := &ConnectResult{
		Address: DisplayAddress(state),
		Balance: balance,
	}
	a.logger.Info("wallet connected",
		zap.String("address", result.Address),
		zap.String("balance", result.Balance),
	)

	return &Session{provider: a.provider, caps: caps, result: *result}, result, nil
}

// Resume returns a session without prompting when the wallet already authorized this application.
// It returns nil when the wallet is absent or not enabled.
func (a *Adapter) Resume(ctx context.Context) *Session {
	if a.provider == nil {
		return nil
	}
	enabled, err := a.provider.IsEnabled(ctx)
	if err != nil || !enabled {
		return nil
	}
	if ok, err := a.provider.Enable(ctx); err != nil || !ok {
		return nil
	}
	caps, err := a.negotiate(ctx)
	if err != nil {
		a.logger.Warn("failed to negotiate wallet capabilities", zap.Error(err))
		return nil
	}
	return &Session{provider: a.provider, caps: caps}
}

// negotiate maps the methods the provider lists onto typed capabilities
func (a *Adapter) negotiate(ctx context.Context) (model.Capabilities, error) {
	caps, err := Negotiate(ctx, a.provider)
	if err != nil {
		return model.Capabilities{}, err
	}
	a.logger.Debug("wallet capabilities", zap.Any("capabilities", caps))
	return caps, nil
}

// Negotiate lists the wallet's methods once and returns them as typed capabilities
func Negotiate(ctx context.Context, lister MethodLister) (model.Capabilities, error) {
	methods, err := lister.Methods(ctx)
	if err != nil {
		return model.Capabilities{}, fmt.Errorf("failed to list wallet methods: %w", err)
	}

	has := make(map[string]bool, len(methods))
	for _, m := range methods {
		has[m] = true
	}

	return model.Capabilities{
		Balances:            has[methodBalances],
		GetBalance:          has[methodGetBalance],
		SignData:            has[methodSignData],
		SubmitTx:            has[methodSubmitTx],
		BalanceTransaction:  has[methodBalanceTransaction],
		TransferTransaction: has[methodTransferTransaction],
		ProveTransaction:    has[methodProveTransaction],
		SubmitTransaction:   has[methodSubmitTransaction],
	}, nil
}

// DisplayAddress prefers the shielded address
func DisplayAddress(state *model.WalletState) string {
	switch {
	case state == nil:
		return "Unknown"
	case state.ShieldedAddress != "":
		return state.ShieldedAddress
	case state.Address != "":
		return state.Address
	}
	return "Unknown"
}

// ResolveBalance picks the display balance: the state's balance field, then its
// balances map, then the getBalance and balances capabilities. Defaults to "0".
func ResolveBalance(ctx context.Context, provider Provider, caps model.Capabilities, state *model.WalletState) (string, error) {
	if state != nil && state.Balance != nil {
		return string(*state.Balance), nil
	}
	if state != nil && state.Balances != nil {
		native, _ := state.NativeBalance()
		return common.FormatAmount(native), nil
	}

	switch {
	case caps.GetBalance:
		balance, err := provider.GetBalance(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get balance: %w", err)
		}
		return balance, nil
	case caps.Balances:
		split, err := provider.Balances(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get balances: %w", err)
		}
		sum, ok := common.SumAmounts(split.Shielded, split.Unshielded)
		if !ok {
			return "", errors.New("balance overflow")
		}
		return common.FormatAmount(sum), nil
	}
	return "0", nil
}
