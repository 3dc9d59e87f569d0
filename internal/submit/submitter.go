// Package submit stores messages on the contract and sends native tokens.
package submit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/internal/metrics"
	"github.com/AlexZinkM/midnight-hello/internal/model"
	"github.com/AlexZinkM/midnight-hello/internal/wallet"
)

// StoreMessageCircuit is the contract entry point that stores a message
const StoreMessageCircuit = "storeMessage"

var (
	// ErrNotConnected is returned when no wallet or contract handle is bound
	ErrNotConnected = errors.New("wallet not connected: please connect your wallet first")
	// ErrNotImplemented is returned by the demo submitter instead of a fabricated result
	ErrNotImplemented = errors.New("contract submission is not implemented in the web demo: use the CLI to store messages")
	// ErrInvalidMessage wraps message validation failures
	ErrInvalidMessage = errors.New("invalid message")
)

// Submitter stores a message on the deployed contract
type Submitter interface {
	Submit(ctx context.Context, message string) (*model.TransactionResult, error)
}

func validateMessage(message string) error {
	req := model.MessageRequest{Message: message}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	return nil
}

// DemoSubmitter is the web front end's submitter. It has no contract binding,
// so every valid submission from a connected session ends in ErrNotImplemented.
type DemoSubmitter struct {
	session         *wallet.Session
	contractAddress string
	logger          *zap.Logger
}

// NewDemoSubmitter creates a demo submitter for session (which may be nil)
func NewDemoSubmitter(session *wallet.Session, contractAddress string, logger *zap.Logger) *DemoSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemoSubmitter{session: session, contractAddress: contractAddress, logger: logger}
}

// Submit validates message and reports that the demo cannot submit it
func (s *DemoSubmitter) Submit(_ context.Context, message string) (*model.TransactionResult, error) {
	if err := validateMessage(message); err != nil {
		metrics.ObserveSubmission(metrics.SubmissionInvalid)
		return nil, err
	}
	if s.session == nil {
		metrics.ObserveSubmission(metrics.SubmissionNotConnected)
		return nil, ErrNotConnected
	}

	s.logger.Warn("contract submission not implemented",
		zap.String("contractAddress", s.contractAddress),
		zap.Int("messageLength", len(message)),
	)
	metrics.ObserveSubmission(metrics.SubmissionNotImplemented)
	return nil, ErrNotImplemented
}

// ContractCaller runs a circuit on a deployed contract.
// *client.WalletClient implements it.
type ContractCaller interface {
	CallContract(ctx context.Context, address, circuit string, args ...any) (*model.CallTxResult, error)
}

// ContractSubmitter calls storeMessage on the bound contract
type ContractSubmitter struct {
	caller          ContractCaller
	contractAddress string
}

// NewContractSubmitter binds caller to the contract at contractAddress
func NewContractSubmitter(caller ContractCaller, contractAddress string) *ContractSubmitter {
	return &ContractSubmitter{caller: caller, contractAddress: contractAddress}
}

// Submit stores message and returns the finalized transaction as reported by the wallet
func (s *ContractSubmitter) Submit(ctx context.Context, message string) (*model.TransactionResult, error) {
	if err := validateMessage(message); err != nil {
		metrics.ObserveSubmission(metrics.SubmissionInvalid)
		return nil, err
	}
	if s.caller == nil || s.contractAddress == "" {
		metrics.ObserveSubmission(metrics.SubmissionNotConnected)
		return nil, ErrNotConnected
	}

	tx, err := s.caller.CallContract(ctx, s.contractAddress, StoreMessageCircuit, message)
	if err != nil {
		metrics.ObserveSubmission(metrics.SubmissionFailed)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	metrics.ObserveSubmission(metrics.SubmissionSucceeded)
	height := tx.Public.BlockHeight
	return &model.TransactionResult{
		TxHash:      tx.Public.TxHash,
		Success:     true,
		TxID:        tx.Public.TxID,
		BlockHeight: &height,
	}, nil
}
