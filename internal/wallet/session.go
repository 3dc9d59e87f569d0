package wallet

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// Session is an enabled wallet handle. It is written once by Connect or Resume
// and only read afterwards, so it may be shared between goroutines.
type Session struct {
	provider Provider
	caps     model.Capabilities
	result   ConnectResult
}

// NewSession wraps an already enabled provider
func NewSession(provider Provider, caps model.Capabilities) *Session {
	return &Session{provider: provider, caps: caps}
}

// Capabilities returns the capabilities negotiated at connect time
func (s *Session) Capabilities() model.Capabilities {
	return s.caps
}

// Address is the display address read at connect time
func (s *Session) Address() string {
	return s.result.Address
}

// Balance is the display balance read at connect time
func (s *Session) Balance() string {
	return s.result.Balance
}

// State reads a fresh wallet state snapshot
func (s *Session) State(ctx context.Context) (*model.WalletState, error) {
	state, err := s.provider.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoState, err)
	}
	if state == nil {
		return nil, ErrNoState
	}
	return state, nil
}
