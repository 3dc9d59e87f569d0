package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/midnight-hello/internal/client"
	"github.com/AlexZinkM/midnight-hello/internal/client/clienttest"
	"github.com/AlexZinkM/midnight-hello/internal/config"
	"github.com/AlexZinkM/midnight-hello/internal/crypto"
	"github.com/AlexZinkM/midnight-hello/internal/model"
	"github.com/AlexZinkM/midnight-hello/internal/wallet"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

type fakeContract struct {
	message *string
	tx      *model.IndexedTransaction
	err     error
	lookups []string
}

func (f *fakeContract) QueryMessage(context.Context, string) (*string, error) {
	return f.message, f.err
}

func (f *fakeContract) TransactionByHash(_ context.Context, hash string) (*model.IndexedTransaction, error) {
	f.lookups = append(f.lookups, "hash:"+hash)
	return f.tx, f.err
}

func (f *fakeContract) TransactionByIdentifier(_ context.Context, id string) (*model.IndexedTransaction, error) {
	f.lookups = append(f.lookups, "identifier:"+id)
	return f.tx, f.err
}

func (f *fakeContract) ContractState(context.Context, string) (json.RawMessage, error) {
	if f.message == nil {
		return nil, f.err
	}
	b, _ := json.Marshal(map[string]string{"message": *f.message})
	return b, f.err
}

type stubSubmitter struct {
	got []string
	res *model.TransactionResult
	err error
}

func (s *stubSubmitter) Submit(_ context.Context, message string) (*model.TransactionResult, error) {
	s.got = append(s.got, message)
	return s.res, s.err
}

func input(lines ...string) LineReader {
	return NewPlainReader(strings.NewReader(strings.Join(lines, "\n")+"\n"), io.Discard)
}

func newFakeWallet(t *testing.T) *clienttest.Wallet {
	t.Helper()
	w := clienttest.NewWallet()
	t.Cleanup(w.Close)
	w.Returns("wallet_state", &model.WalletState{
		Address:       "mn_addr_test1",
		CoinPublicKey: "cpk1",
		Balances:      map[string]*uint256.Int{model.NativeToken: uint256.NewInt(7)},
	})
	return w
}

func TestPlainReader(t *testing.T) {
	var out bytes.Buffer
	r := NewPlainReader(strings.NewReader("one\r\ntwo"), &out)

	line, err := r.Prompt("> ")
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	line, err = r.Prompt("> ")
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = r.Prompt("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > ", out.String())
}

func TestMenu_InvalidChoiceReprompts(t *testing.T) {
	var out bytes.Buffer
	w := newFakeWallet(t)
	menu := NewMenu(input("0", "11", "abc", "3"), &out, client.NewWalletClient(w.URL()), model.Capabilities{}, &fakeContract{}, &stubSubmitter{}, "c1", nil)

	require.NoError(t, menu.Run(context.Background()))

	assert.Equal(t, 4, strings.Count(out.String(), "--- Menu ---"))
	assert.Equal(t, 3, strings.Count(out.String(), "Invalid choice"))
	assert.Contains(t, out.String(), "Goodbye!")
	assert.Empty(t, w.Calls())
}

func TestMenu_EOFExits(t *testing.T) {
	var out bytes.Buffer
	menu := NewMenu(NewPlainReader(strings.NewReader(""), io.Discard), &out, nil, model.Capabilities{}, &fakeContract{}, &stubSubmitter{}, "c1", nil)
	assert.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestMenu_WalletViews(t *testing.T) {
	var out bytes.Buffer
	w := newFakeWallet(t)
	menu := NewMenu(input("5", "8", "9", "10", "3"), &out, client.NewWalletClient(w.URL()), model.Capabilities{}, &fakeContract{}, &stubSubmitter{}, "c1", nil)

	require.NoError(t, menu.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Your wallet balance is: 7 tDUST")
	assert.Contains(t, s, "Wallet Address: mn_addr_test1")
	assert.Contains(t, s, "█")
	assert.Contains(t, s, "Coin Public Key: cpk1")
	assert.Contains(t, s, "Full Wallet State:")
	assert.Contains(t, s, `"`+model.NativeToken+`": "7"`)
}

func TestMenu_StoreAndReadMessage(t *testing.T) {
	var out bytes.Buffer
	height := int64(99)
	sub := &stubSubmitter{res: &model.TransactionResult{TxHash: "h1", TxID: "i1", Success: true, BlockHeight: &height}}
	msg := "hello"
	menu := NewMenu(input("1", "hello", "2", "3"), &out, nil, model.Capabilities{}, &fakeContract{message: &msg}, sub, "c1", nil)

	require.NoError(t, menu.Run(context.Background()))

	assert.Equal(t, []string{"hello"}, sub.got)
	s := out.String()
	assert.Contains(t, s, "Transaction hash: h1")
	assert.Contains(t, s, "Transaction ID: i1")
	assert.Contains(t, s, "Block height: 99")
	assert.Contains(t, s, `Current message: "hello"`)
}

func TestMenu_ActionErrorKeepsLooping(t *testing.T) {
	var out bytes.Buffer
	sub := &stubSubmitter{err: errors.New("proof server unreachable")}
	menu := NewMenu(input("1", "hello", "2", "3"), &out, nil, model.Capabilities{}, &fakeContract{}, sub, "c1", nil)

	require.NoError(t, menu.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "failed to store message: proof server unreachable")
	assert.Contains(t, s, model.NoMessage)
	assert.Equal(t, 3, strings.Count(s, "--- Menu ---"))
}

func TestMenu_TransactionLookup(t *testing.T) {
	root := "root1"
	tx := &model.IndexedTransaction{
		Hash:            "aa11",
		ProtocolVersion: 1,
		MerkleTreeRoot:  &root,
		Block:           &model.Block{Height: 12, Hash: "bb22"},
		ContractActions: []model.ContractAction{{Type: model.ContractActionCall, Address: "c1", EntryPoint: "storeMessage", State: "s", ChainState: "cs"}},
	}
	contract := &fakeContract{tx: tx}

	var out bytes.Buffer
	menu := NewMenu(input("6", "aa11", "7", " id1 ", "3"), &out, nil, model.Capabilities{}, contract, &stubSubmitter{}, "c1", nil)
	require.NoError(t, menu.Run(context.Background()))

	assert.Equal(t, []string{"hash:aa11", "identifier:id1"}, contract.lookups)
	s := out.String()
	assert.Contains(t, s, "=== Transaction Details ===")
	assert.Contains(t, s, "#12 (bb22)")
	assert.Contains(t, s, "(none)")
	assert.Contains(t, s, "(not available)")
	assert.Contains(t, s, "entryPoint: storeMessage")
	assert.Contains(t, s, "id1")

	out.Reset()
	menu = NewMenu(input("6", "ff", "3"), &out, nil, model.Capabilities{}, &fakeContract{}, &stubSubmitter{}, "c1", nil)
	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "No transaction found for that hash.")
}

var transferCaps = model.Capabilities{TransferTransaction: true, ProveTransaction: true, SubmitTransaction: true}

func TestMenu_SendTDust(t *testing.T) {
	w := newFakeWallet(t)
	w.Returns("wallet_transferTransaction", map[string]string{"recipe": "r"})
	w.Returns("wallet_proveTransaction", map[string]string{"proven": "p"})
	w.Returns("wallet_submitTransaction", "00ff")

	var out bytes.Buffer
	menu := NewMenu(input("4", "mn_receiver", "2", "3"), &out, client.NewWalletClient(w.URL()), transferCaps, &fakeContract{}, &stubSubmitter{}, "c1", nil)
	require.NoError(t, menu.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Proving transaction")
	assert.Contains(t, s, "transaction identifier: 00ff")
}

func TestMenu_SendTDustWithoutCapability(t *testing.T) {
	w := newFakeWallet(t)

	var out bytes.Buffer
	caps := model.Capabilities{TransferTransaction: true}
	menu := NewMenu(input("4", "mn_receiver", "2", "3"), &out, client.NewWalletClient(w.URL()), caps, &fakeContract{}, &stubSubmitter{}, "c1", nil)
	require.NoError(t, menu.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "wallet does not support proveTransaction, submitTransaction")
	assert.NotContains(t, s, "Preparing transfer transaction")
	assert.Empty(t, w.Calls())
}

func writeDeployment(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "deployment.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"contractAddress":"0200c0ffee","deployedAt":"2025-01-01T00:00:00Z"}`), 0600))
	return p
}

func testConfig(deployment string) *config.Config {
	return &config.Config{
		DeploymentPath:   deployment,
		WalletSeed:       "seed-hex",
		NetworkID:        "TestNet",
		SyncFirstTimeout: 2 * time.Second,
		SyncEachTimeout:  2 * time.Second,
	}
}

func subscribeTo(w *clienttest.Wallet) func(ctx context.Context) (Subscription, error) {
	return func(ctx context.Context) (Subscription, error) {
		sub, err := client.SubscribeState(ctx, w.WSURL())
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
}

func TestApp_MissingDeployment(t *testing.T) {
	w := newFakeWallet(t)
	var out bytes.Buffer

	app := NewApp(testConfig(filepath.Join(t.TempDir(), "missing.json")), Deps{
		Wallet:    client.NewWalletClient(w.URL()),
		Indexer:   &fakeContract{},
		Subscribe: subscribeTo(w),
	}, input("3"), &out, nil)

	err := app.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoDeployment)
	assert.Contains(t, out.String(), "No deployment.json found!")
	assert.Empty(t, w.Calls())
}

func TestApp_SyncThenMenu(t *testing.T) {
	w := newFakeWallet(t)
	var build model.BuildParams
	w.Handle("wallet_build", func(params []json.RawMessage) (any, error) {
		if !assert.Len(t, params, 1) {
			return nil, errors.New("bad params")
		}
		return nil, json.Unmarshal(params[0], &build)
	})
	w.Returns("wallet_start", nil)
	w.Returns("wallet_close", nil)
	w.PushStates(
		&model.WalletState{SyncProgress: &model.SyncProgress{Synced: false, Lag: &model.SyncLag{ApplyGap: uint256.NewInt(5)}}},
		&model.WalletState{SyncProgress: &model.SyncProgress{Synced: true}},
	)

	var out bytes.Buffer
	app := NewApp(testConfig(writeDeployment(t)), Deps{
		Wallet:    client.NewWalletClient(w.URL()),
		Indexer:   &fakeContract{},
		Subscribe: subscribeTo(w),
	}, input("3"), &out, nil)

	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, PhaseClosed, app.Phase())
	assert.Equal(t, "seed-hex", build.Seed)
	assert.Equal(t, "TestNet", build.NetworkID)

	s := out.String()
	assert.Contains(t, s, "Contract Address: 0200c0ffee")
	assert.Contains(t, s, "Syncing... (Synced: false)")
	assert.Contains(t, s, "Lag: applyGap=5, sourceGap=0")
	assert.Contains(t, s, "Wallet successfully synced")
	assert.Contains(t, s, "Wallet Address: mn_addr_test1")
	assert.Contains(t, s, "--- Menu ---")
	assert.True(t, w.Called("wallet_close"))
}

func TestApp_SyncTimeoutClosesWallet(t *testing.T) {
	w := newFakeWallet(t)
	w.Returns("wallet_build", nil)
	w.Returns("wallet_start", nil)
	w.Returns("wallet_close", nil)
	w.PushStates(&model.WalletState{SyncProgress: &model.SyncProgress{Synced: false}})

	cfg := testConfig(writeDeployment(t))
	cfg.SyncFirstTimeout = 100 * time.Millisecond
	cfg.SyncEachTimeout = 100 * time.Millisecond

	var out bytes.Buffer
	app := NewApp(cfg, Deps{
		Wallet:    client.NewWalletClient(w.URL()),
		Indexer:   &fakeContract{},
		Subscribe: subscribeTo(w),
	}, input("3"), &out, nil)

	err := app.Run(context.Background())
	assert.ErrorIs(t, err, wallet.ErrSyncTimeout)
	assert.Equal(t, PhaseClosed, app.Phase())
	assert.True(t, w.Called("wallet_close"))
	assert.False(t, w.Called("wallet_state"))
	assert.Contains(t, out.String(), "Timed out waiting for wallet sync.")
	assert.Contains(t, out.String(), "Firewall blocking WebSocket connections")
}

func TestApp_SubscribeWithoutAckTimesOut(t *testing.T) {
	w := newFakeWallet(t)
	w.Returns("wallet_build", nil)
	w.Returns("wallet_start", nil)
	w.Returns("wallet_close", nil)
	w.WithholdAck()

	cfg := testConfig(writeDeployment(t))
	cfg.SyncFirstTimeout = 300 * time.Millisecond

	var out bytes.Buffer
	app := NewApp(cfg, Deps{
		Wallet:    client.NewWalletClient(w.URL()),
		Indexer:   &fakeContract{},
		Subscribe: subscribeTo(w),
	}, input("3"), &out, nil)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, wallet.ErrSyncTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("cli still waiting for the subscribe response")
	}
	assert.Equal(t, PhaseClosed, app.Phase())
	assert.True(t, w.Called("wallet_close"))
	assert.Contains(t, out.String(), "Timed out waiting for wallet sync.")
}

func TestApp_SeedFromPrompt(t *testing.T) {
	cfg := testConfig("")
	cfg.WalletSeed = ""

	app := NewApp(cfg, Deps{
		PromptSecret: func(string) ([]byte, error) { return nil, config.ErrNotTerminal },
	}, input("  typed-seed  "), io.Discard, nil)

	seed, err := app.resolveSeed()
	require.NoError(t, err)
	assert.Equal(t, "typed-seed", seed)

	app = NewApp(cfg, Deps{
		PromptSecret: func(string) ([]byte, error) { return []byte("hidden-seed"), nil },
	}, input(), io.Discard, nil)
	seed, err = app.resolveSeed()
	require.NoError(t, err)
	assert.Equal(t, "hidden-seed", seed)
}

func TestApp_HiddenPromptErrorDoesNotEcho(t *testing.T) {
	cfg := testConfig("")
	cfg.WalletSeed = ""

	in := input("typed-seed")
	app := NewApp(cfg, Deps{
		PromptSecret: func(string) ([]byte, error) { return nil, errors.New("your wallet seed cannot be empty") },
	}, in, io.Discard, nil)

	_, err := app.resolveSeed()
	assert.EqualError(t, err, "your wallet seed cannot be empty")

	// the echoing reader was never consulted
	line, err := in.Prompt("")
	require.NoError(t, err)
	assert.Equal(t, "typed-seed", line)
}

func TestApp_SeedFileShowsAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet"+crypto.SeedFileExt)
	require.NoError(t, crypto.EncryptSeed(path, "TestNet", "mn_addr_sealed", "", &model.SeedData{Seed: []byte("sealed-seed")}, []byte("pw")))

	cfg := testConfig("")
	cfg.WalletSeed = ""
	cfg.WalletSeedFile = path

	var out bytes.Buffer
	var labels []string
	app := NewApp(cfg, Deps{
		PromptSecret: func(label string) ([]byte, error) {
			labels = append(labels, label)
			return []byte("pw"), nil
		},
	}, input(), &out, nil)

	seed, err := app.resolveSeed()
	require.NoError(t, err)
	assert.Equal(t, "sealed-seed", seed)
	assert.Equal(t, []string{"seed file password"}, labels)
	assert.Contains(t, out.String(), "Seed file for wallet: mn_addr_sealed")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "startup", PhaseStartup.String())
	assert.Equal(t, "syncing", PhaseSyncing.String())
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "closed", PhaseClosed.String())
}
