package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/internal/config"
	"github.com/AlexZinkM/midnight-hello/internal/contract"
	"github.com/AlexZinkM/midnight-hello/internal/crypto"
	"github.com/AlexZinkM/midnight-hello/internal/model"
	"github.com/AlexZinkM/midnight-hello/internal/submit"
	"github.com/AlexZinkM/midnight-hello/internal/wallet"
)

// Phase is the CLI lifecycle state
type Phase int

const (
	PhaseStartup Phase = iota
	PhaseSyncing
	PhaseReady
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseStartup:
		return "startup"
	case PhaseSyncing:
		return "syncing"
	case PhaseReady:
		return "ready"
	case PhaseClosed:
		return "closed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ErrNoDeployment is returned when the deployment descriptor is missing
var ErrNoDeployment = errors.New("no deployment.json found: run the deploy script first")

// WalletService is the wallet surface the CLI drives.
// *client.WalletClient implements it.
type WalletService interface {
	MenuWallet
	submit.ContractCaller
	wallet.MethodLister
	Build(ctx context.Context, params model.BuildParams) error
	Start(ctx context.Context) error
	Close(ctx context.Context) error
}

// Subscription streams wallet state updates.
// *client.StateSubscription implements it.
type Subscription interface {
	Updates() <-chan *model.WalletState
	Err() <-chan error
	Close() error
}

// Deps are the external collaborators of the CLI
type Deps struct {
	Wallet    WalletService
	Indexer   contract.Indexer
	Subscribe func(ctx context.Context) (Subscription, error)
	// PromptSecret reads hidden input. Defaults to config.PromptSecret.
	PromptSecret func(label string) ([]byte, error)
}

// App runs the CLI: load the deployment, build and sync the wallet, then show the menu
type App struct {
	cfg    *config.Config
	deps   Deps
	in     LineReader
	out    io.Writer
	logger *zap.Logger
	phase  Phase
}

// NewApp creates the CLI application
func NewApp(cfg *config.Config, deps Deps, in LineReader, out io.Writer, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.PromptSecret == nil {
		deps.PromptSecret = config.PromptSecret
	}
	return &App{cfg: cfg, deps: deps, in: in, out: out, logger: logger}
}

// Phase returns the current lifecycle state
func (a *App) Phase() Phase {
	return a.phase
}

func (a *App) setPhase(p Phase) {
	a.logger.Info("cli phase", zap.Stringer("from", a.phase), zap.Stringer("to", p))
	a.phase = p
}

// Run executes the whole CLI session. A non-nil error means the process should exit non-zero.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Hello World Contract CLI")
	fmt.Fprintln(a.out)

	deployment, err := contract.LoadDeployment(a.cfg.DeploymentPath, a.logger)
	if err != nil {
		return fmt.Errorf("failed to read deployment descriptor: %w", err)
	}
	if deployment == nil {
		pterm.Error.WithWriter(a.out).Println("No deployment.json found! Run the deploy script first.")
		return ErrNoDeployment
	}
	fmt.Fprintf(a.out, "Contract Address: %s\n\n", deployment.ContractAddress)

	seed, err := a.resolveSeed()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nConnecting to Midnight network...")
	err = a.deps.Wallet.Build(ctx, model.BuildParams{
		IndexerURL:     a.cfg.IndexerURL,
		IndexerWSURL:   a.cfg.IndexerWSURL,
		ProofServerURL: a.cfg.ProofServerURL,
		NodeURL:        a.cfg.NodeURL,
		Seed:           seed,
		NetworkID:      a.cfg.NetworkID,
		LogLevel:       a.cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to build wallet: %w", err)
	}
	defer a.closeWallet()

	if err := a.deps.Wallet.Start(ctx); err != nil {
		return fmt.Errorf("failed to start wallet: %w", err)
	}

	if err := a.sync(ctx); err != nil {
		return err
	}

	caps, err := wallet.Negotiate(ctx, a.deps.Wallet)
	if err != nil {
		return err
	}
	a.logger.Debug("wallet capabilities", zap.Any("capabilities", caps))

	state, err := a.deps.Wallet.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to get wallet state: %w", err)
	}
	pterm.Success.WithWriter(a.out).Println("Connected to contract")
	fmt.Fprintln(a.out)
	if state != nil {
		fmt.Fprintf(a.out, "Wallet Address: %s\n", state.Address)
	}

	a.setPhase(PhaseReady)
	menu := NewMenu(
		a.in,
		a.out,
		a.deps.Wallet,
		caps,
		contract.NewClient(a.deps.Indexer),
		submit.NewContractSubmitter(a.deps.Wallet, deployment.ContractAddress),
		deployment.ContractAddress,
		a.logger,
	)
	return menu.Run(ctx)
}

// resolveSeed takes the seed from WALLET_SEED, then the encrypted seed file, then a prompt
func (a *App) resolveSeed() (string, error) {
	if seed := strings.TrimSpace(a.cfg.WalletSeed); seed != "" {
		return seed, nil
	}

	if a.cfg.WalletSeedFile != "" {
		address, err := crypto.ReadSeedAddress(a.cfg.WalletSeedFile)
		if err != nil {
			return "", fmt.Errorf("failed to open seed file: %w", err)
		}
		if address != "" {
			fmt.Fprintf(a.out, "Seed file for wallet: %s\n", address)
		}

		password, err := a.deps.PromptSecret("seed file password")
		if err != nil {
			return "", err
		}
		defer clear(password)

		_, data, err := crypto.DecryptSeed(a.cfg.WalletSeedFile, password)
		if err != nil {
			return "", fmt.Errorf("failed to open seed file: %w", err)
		}
		defer clear(data.Seed)
		return string(data.Seed), nil
	}

	seed, err := a.deps.PromptSecret("your wallet seed")
	if errors.Is(err, config.ErrNotTerminal) {
		line, lineErr := a.in.Prompt("Enter your wallet seed: ")
		if lineErr != nil {
			return "", fmt.Errorf("failed to read wallet seed: %w", lineErr)
		}
		seed = []byte(line)
	} else if err != nil {
		return "", err
	}
	defer clear(seed)

	s := strings.TrimSpace(string(seed))
	if s == "" {
		return "", errors.New("wallet seed cannot be empty")
	}
	return s, nil
}

// sync waits for the wallet to catch up with the chain
func (a *App) sync(ctx context.Context) error {
	a.setPhase(PhaseSyncing)
	fmt.Fprintln(a.out, "Waiting for wallet to sync with blockchain...")
	fmt.Fprintln(a.out, "This may take several minutes on first run.")
	fmt.Fprintln(a.out)

	subCtx, cancel := context.WithTimeout(ctx, a.cfg.SyncFirstTimeout)
	sub, err := a.deps.Subscribe(subCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", wallet.ErrSyncTimeout, err)
		}
		a.printSyncFailure(err)
		return fmt.Errorf("failed to subscribe to wallet state: %w", err)
	}
	defer sub.Close()

	started := time.Now()
	_, err = wallet.WaitForSync(ctx, sub.Updates(), sub.Err(), a.cfg.SyncFirstTimeout, a.cfg.SyncEachTimeout,
		func(state *model.WalletState) { renderSyncProgress(a.out, state) })
	if err != nil {
		a.printSyncFailure(err)
		return err
	}

	a.logger.Info("wallet synced", zap.Duration("elapsed", time.Since(started)))
	fmt.Fprintln(a.out)
	pterm.Success.WithWriter(a.out).Println("Wallet successfully synced with network!")
	return nil
}

func (a *App) printSyncFailure(err error) {
	fmt.Fprintln(a.out)
	pterm.Error.WithWriter(a.out).Println("Connection Error:")
	if errors.Is(err, wallet.ErrSyncTimeout) {
		fmt.Fprintln(a.out, "   Timed out waiting for wallet sync.")
		fmt.Fprintln(a.out, "\n   Possible causes:")
		fmt.Fprintln(a.out, "   - Indexer endpoints are unreachable")
		fmt.Fprintln(a.out, "   - Network connectivity issues")
		fmt.Fprintln(a.out, "   - Firewall blocking WebSocket connections")
		return
	}
	fmt.Fprintf(a.out, "    %v\n", err)
}

// closeWallet releases the wallet on every exit path after it was built
func (a *App) closeWallet() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.deps.Wallet.Close(ctx); err != nil {
		a.logger.Warn("failed to close wallet", zap.Error(err))
	}
	a.setPhase(PhaseClosed)
}
