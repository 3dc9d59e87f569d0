package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AlexZinkM/midnight-hello/internal/common"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// Stage is a step of the transfer flow
type Stage string

const (
	StagePrepare Stage = "prepare"
	StageProve   Stage = "prove"
	StageSubmit  Stage = "submit"
)

// StageError reports which transfer stage failed
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("transfer failed at %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrCapabilityMissing is matched by CapabilityError
var ErrCapabilityMissing = errors.New("wallet capability missing")

// CapabilityError lists the wallet methods an operation needs but the wallet does not expose
type CapabilityError struct {
	Missing []string
}

func (e *CapabilityError) Error() string {
	return "wallet does not support " + strings.Join(e.Missing, ", ")
}

func (e *CapabilityError) Is(target error) bool {
	return target == ErrCapabilityMissing
}

// requireTransfer checks that the wallet can run every transfer stage
func requireTransfer(caps model.Capabilities) error {
	var missing []string
	if !caps.TransferTransaction {
		missing = append(missing, "transferTransaction")
	}
	if !caps.ProveTransaction {
		missing = append(missing, "proveTransaction")
	}
	if !caps.SubmitTransaction {
		missing = append(missing, "submitTransaction")
	}
	if len(missing) > 0 {
		return &CapabilityError{Missing: missing}
	}
	return nil
}

// Transferer builds, proves and submits native token transfers.
// *client.WalletClient implements it.
type Transferer interface {
	TransferTransaction(ctx context.Context, outputs []model.TokenTransfer) (json.RawMessage, error)
	ProveTransaction(ctx context.Context, tx json.RawMessage) (json.RawMessage, error)
	SubmitTransaction(ctx context.Context, tx json.RawMessage) (string, error)
}

// Transfer sends req.Amount tDUST to req.ReceiverAddress and returns the transaction identifier.
// caps are the capabilities negotiated with the wallet; a missing stage method fails before any call.
// onStage, if set, is called before each stage starts. The first failing stage aborts the flow.
func Transfer(ctx context.Context, t Transferer, caps model.Capabilities, req model.TransferRequest, onStage func(Stage)) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	amount, err := common.ParseAmount(req.Amount)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", ErrNotConnected
	}
	if err := requireTransfer(caps); err != nil {
		return "", err
	}

	notify := func(s Stage) {
		if onStage != nil {
			onStage(s)
		}
	}

	notify(StagePrepare)
	recipe, err := t.TransferTransaction(ctx, []model.TokenTransfer{{
		Amount:          amount,
		ReceiverAddress: req.ReceiverAddress,
		Type:            model.NativeToken,
	}})
	if err != nil {
		return "", &StageError{Stage: StagePrepare, Err: err}
	}

	notify(StageProve)
	proven, err := t.ProveTransaction(ctx, recipe)
	if err != nil {
		return "", &StageError{Stage: StageProve, Err: err}
	}

	notify(StageSubmit)
	identifier, err := t.SubmitTransaction(ctx, proven)
	if err != nil {
		return "", &StageError{Stage: StageSubmit, Err: err}
	}
	return identifier, nil
}
