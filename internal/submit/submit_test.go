package submit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/midnight-hello/internal/client"
	"github.com/AlexZinkM/midnight-hello/internal/client/clienttest"
	"github.com/AlexZinkM/midnight-hello/internal/model"
	"github.com/AlexZinkM/midnight-hello/internal/wallet"
)

type mockCaller struct {
	mock.Mock
}

func (m *mockCaller) CallContract(ctx context.Context, address, circuit string, args ...any) (*model.CallTxResult, error) {
	ret := m.Called(ctx, address, circuit, args)
	res, _ := ret.Get(0).(*model.CallTxResult)
	return res, ret.Error(1)
}

func TestDemoSubmitter(t *testing.T) {
	ctx := context.Background()

	_, err := NewDemoSubmitter(nil, "c1", nil).Submit(ctx, "hello")
	assert.ErrorIs(t, err, ErrNotConnected)

	session := wallet.NewSession(nil, model.Capabilities{})
	res, err := NewDemoSubmitter(session, "c1", nil).Submit(ctx, "hello")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Nil(t, res)
}

func TestSubmit_RejectsInvalidBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	caller := new(mockCaller)

	tooLong := strings.Repeat("a", model.MaxMessageLength+1)
	for _, msg := range []string{"", "   ", tooLong} {
		_, err := NewContractSubmitter(caller, "c1").Submit(ctx, msg)
		assert.ErrorIs(t, err, ErrInvalidMessage)

		_, err = NewDemoSubmitter(nil, "c1", nil).Submit(ctx, msg)
		assert.ErrorIs(t, err, ErrInvalidMessage)
	}
	caller.AssertNotCalled(t, "CallContract", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// 280 multi-byte characters are still within the limit
	caller.On("CallContract", mock.Anything, "c1", StoreMessageCircuit, mock.Anything).
		Return(&model.CallTxResult{}, nil).Once()
	_, err := NewContractSubmitter(caller, "c1").Submit(ctx, strings.Repeat("é", model.MaxMessageLength))
	assert.NoError(t, err)
}

func TestContractSubmitter(t *testing.T) {
	ctx := context.Background()

	var tx model.CallTxResult
	tx.Public.TxHash = "h1"
	tx.Public.TxID = "i1"
	tx.Public.BlockHeight = 42

	caller := new(mockCaller)
	caller.On("CallContract", mock.Anything, "c1", StoreMessageCircuit, []any{"hello"}).Return(&tx, nil)

	res, err := NewContractSubmitter(caller, "c1").Submit(ctx, "hello")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "h1", res.TxHash)
	assert.Equal(t, "i1", res.TxID)
	require.NotNil(t, res.BlockHeight)
	assert.Equal(t, int64(42), *res.BlockHeight)
	caller.AssertExpectations(t)
}

func TestContractSubmitter_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewContractSubmitter(nil, "c1").Submit(ctx, "hello")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = NewContractSubmitter(new(mockCaller), "").Submit(ctx, "hello")
	assert.ErrorIs(t, err, ErrNotConnected)

	caller := new(mockCaller)
	upstream := errors.New("proof server unreachable")
	caller.On("CallContract", mock.Anything, "c1", StoreMessageCircuit, mock.Anything).Return(nil, upstream)
	_, err = NewContractSubmitter(caller, "c1").Submit(ctx, "hello")
	assert.ErrorIs(t, err, upstream)
}

var transferCaps = model.Capabilities{TransferTransaction: true, ProveTransaction: true, SubmitTransaction: true}

func TestTransfer(t *testing.T) {
	w := clienttest.NewWallet()
	defer w.Close()
	w.Returns("wallet_transferTransaction", map[string]string{"recipe": "r"})
	w.Returns("wallet_proveTransaction", map[string]string{"proven": "p"})
	w.Returns("wallet_submitTransaction", "00ab")

	var stages []Stage
	id, err := Transfer(context.Background(), client.NewWalletClient(w.URL()), transferCaps,
		model.TransferRequest{ReceiverAddress: " mn_addr ", Amount: "3"},
		func(s Stage) { stages = append(stages, s) })
	require.NoError(t, err)
	assert.Equal(t, "00ab", id)
	assert.Equal(t, []Stage{StagePrepare, StageProve, StageSubmit}, stages)
}

func TestTransfer_AbortsOnStageFailure(t *testing.T) {
	w := clienttest.NewWallet()
	defer w.Close()
	w.Returns("wallet_transferTransaction", map[string]string{"recipe": "r"})
	w.Fails("wallet_proveTransaction", &client.RPCError{Code: -32000, Message: "prover offline"})
	w.Handle("wallet_submitTransaction", func([]json.RawMessage) (any, error) {
		t.Error("submit must not run after a failed prove")
		return "", nil
	})

	_, err := Transfer(context.Background(), client.NewWalletClient(w.URL()), transferCaps,
		model.TransferRequest{ReceiverAddress: "mn_addr", Amount: "1"}, nil)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageProve, stageErr.Stage)
	assert.ErrorContains(t, err, "prover offline")
	assert.False(t, w.Called("wallet_submitTransaction"))
}

func TestTransfer_InvalidInput(t *testing.T) {
	ctx := context.Background()

	for _, req := range []model.TransferRequest{
		{ReceiverAddress: "", Amount: "1"},
		{ReceiverAddress: "mn", Amount: "abc"},
		{ReceiverAddress: "mn", Amount: "0"},
		{ReceiverAddress: "mn", Amount: "1.5"},
	} {
		_, err := Transfer(ctx, nil, transferCaps, req, nil)
		assert.Error(t, err, "%+v", req)
		assert.NotErrorIs(t, err, ErrNotConnected)
	}

	_, err := Transfer(ctx, nil, transferCaps, model.TransferRequest{ReceiverAddress: "mn", Amount: "1"}, nil)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestTransfer_MissingCapability(t *testing.T) {
	w := clienttest.NewWallet()
	defer w.Close()
	w.Returns("wallet_transferTransaction", map[string]string{"recipe": "r"})

	caps := model.Capabilities{TransferTransaction: true, SubmitTransaction: true}
	var stages []Stage
	_, err := Transfer(context.Background(), client.NewWalletClient(w.URL()), caps,
		model.TransferRequest{ReceiverAddress: "mn_addr", Amount: "1"},
		func(s Stage) { stages = append(stages, s) })

	assert.ErrorIs(t, err, ErrCapabilityMissing)
	var capErr *CapabilityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, []string{"proveTransaction"}, capErr.Missing)
	assert.EqualError(t, err, "wallet does not support proveTransaction")
	assert.Empty(t, stages)
	assert.Empty(t, w.Calls())
}
