// Package cli implements the interactive terminal front end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/internal/common"
	"github.com/AlexZinkM/midnight-hello/internal/model"
	"github.com/AlexZinkM/midnight-hello/internal/submit"
)

// StateReader returns the current wallet state
type StateReader interface {
	State(ctx context.Context) (*model.WalletState, error)
}

// ContractReader reads the contract message and indexed transactions
type ContractReader interface {
	QueryMessage(ctx context.Context, address string) (*string, error)
	TransactionByHash(ctx context.Context, hash string) (*model.IndexedTransaction, error)
	TransactionByIdentifier(ctx context.Context, identifier string) (*model.IndexedTransaction, error)
}

// MenuWallet is the wallet surface the menu needs
type MenuWallet interface {
	StateReader
	submit.Transferer
}

var menuItems = []string{
	"Store message",
	"Read current message",
	"Exit",
	"Send tDUST",
	"Show wallet balance",
	"Show transaction details by hash",
	"Show transaction details by identifier",
	"Show wallet address",
	"Show coin public key",
	"Show full wallet state",
}

// Menu is the numbered action loop shown once the wallet is synced
type Menu struct {
	in              LineReader
	out             io.Writer
	wallet          MenuWallet
	caps            model.Capabilities
	contract        ContractReader
	submitter       submit.Submitter
	contractAddress string
	logger          *zap.Logger
}

// NewMenu creates the menu. caps are the capabilities negotiated with w.
func NewMenu(in LineReader, out io.Writer, w MenuWallet, caps model.Capabilities, contract ContractReader, submitter submit.Submitter, contractAddress string, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		in:              in,
		out:             out,
		wallet:          w,
		caps:            caps,
		contract:        contract,
		submitter:       submitter,
		contractAddress: contractAddress,
		logger:          logger,
	}
}

// Run shows the menu until the user exits or input ends.
// Action failures are reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printMenu()
		choice, err := m.in.Prompt("\nYour choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.goodbye()
				return nil
			}
			return err
		}

		choice = strings.TrimSpace(choice)
		if choice == "3" {
			m.goodbye()
			return nil
		}

		if err := m.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				m.goodbye()
				return nil
			}
			m.logger.Warn("menu action failed", zap.String("choice", choice), zap.Error(err))
			pterm.Error.WithWriter(m.out).Println(err.Error())
			fmt.Fprintln(m.out)
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, "--- Menu ---")
	for i, item := range menuItems {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, item)
	}
}

func (m *Menu) goodbye() {
	fmt.Fprintln(m.out, "\nGoodbye!")
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.storeMessage(ctx)
	case "2":
		return m.readMessage(ctx)
	case "4":
		return m.sendTDust(ctx)
	case "5":
		return m.showBalance(ctx)
	case "6":
		hash, err := m.in.Prompt("\nEnter transaction hash (HexEncoded): ")
		if err != nil {
			return err
		}
		return m.showTransaction(ctx, strings.TrimSpace(hash), "")
	case "7":
		identifier, err := m.in.Prompt("\nEnter transaction identifier (HexEncoded): ")
		if err != nil {
			return err
		}
		return m.showTransaction(ctx, "", strings.TrimSpace(identifier))
	case "8":
		return m.showAddress(ctx)
	case "9":
		return m.showCoinPublicKey(ctx)
	case "10":
		return m.showFullState(ctx)
	}

	pterm.Warning.WithWriter(m.out).Println("Invalid choice. Please enter a number from 1 to 10.")
	fmt.Fprintln(m.out)
	return nil
}

func (m *Menu) storeMessage(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nStoring custom message...")
	message, err := m.in.Prompt("Enter your message: ")
	if err != nil {
		return err
	}

	tx, err := m.submitter.Submit(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	pterm.Success.WithWriter(m.out).Println("Success!")
	fmt.Fprintf(m.out, "Message: %q\n", message)
	fmt.Fprintf(m.out, "Transaction hash: %s\n", tx.TxHash)
	fmt.Fprintf(m.out, "Transaction ID: %s\n", tx.TxID)
	if tx.BlockHeight != nil {
		fmt.Fprintf(m.out, "Block height: %d\n", *tx.BlockHeight)
	}
	fmt.Fprintln(m.out)
	return nil
}

func (m *Menu) readMessage(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nReading message from blockchain...")
	msg, err := m.contract.QueryMessage(ctx, m.contractAddress)
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}
	if msg == nil {
		fmt.Fprintf(m.out, "%s\n\n", model.NoMessage)
		return nil
	}
	fmt.Fprintf(m.out, "Current message: %q\n\n", *msg)
	return nil
}

func (m *Menu) sendTDust(ctx context.Context) error {
	receiver, err := m.in.Prompt("\nEnter recipient Midnight address: ")
	if err != nil {
		return err
	}
	amount, err := m.in.Prompt("Enter amount of tDUST to send (integer, e.g. 1): ")
	if err != nil {
		return err
	}

	req := model.TransferRequest{ReceiverAddress: receiver, Amount: amount}
	identifier, err := submit.Transfer(ctx, m.wallet, m.caps, req, func(s submit.Stage) {
		switch s {
		case submit.StagePrepare:
			fmt.Fprintln(m.out, "\nPreparing transfer transaction...")
		case submit.StageProve:
			fmt.Fprintln(m.out, "Proving transaction (generating ZK proofs)...")
		case submit.StageSubmit:
			fmt.Fprintln(m.out, "Submitting transaction to Midnight network...")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to send tDUST: %w", err)
	}

	pterm.Success.WithWriter(m.out).Println("Transaction submitted successfully:")
	fmt.Fprintf(m.out, "  transaction identifier: %s\n\n", identifier)
	return nil
}

func (m *Menu) showBalance(ctx context.Context) error {
	state, err := m.state(ctx)
	if err != nil {
		return err
	}
	balance, _ := state.NativeBalance()
	fmt.Fprintf(m.out, "Your wallet balance is: %s tDUST\n\n", common.FormatAmount(balance))
	return nil
}

func (m *Menu) showTransaction(ctx context.Context, hash, identifier string) error {
	var (
		tx  *model.IndexedTransaction
		err error
		by  = "hash"
	)
	if identifier != "" {
		by = "identifier"
		tx, err = m.contract.TransactionByIdentifier(ctx, identifier)
	} else {
		tx, err = m.contract.TransactionByHash(ctx, hash)
	}
	if err != nil {
		return err
	}
	if tx == nil {
		fmt.Fprintf(m.out, "No transaction found for that %s.\n\n", by)
		return nil
	}
	renderTransaction(m.out, tx, identifier)
	return nil
}

func (m *Menu) showAddress(ctx context.Context) error {
	state, err := m.state(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\nWallet Address: %s\n\n", state.Address)
	if state.Address != "" {
		if err := renderQR(m.out, state.Address); err != nil {
			m.logger.Debug("address QR not rendered", zap.Error(err))
		}
		fmt.Fprintln(m.out)
	}
	return nil
}

func (m *Menu) showCoinPublicKey(ctx context.Context) error {
	state, err := m.state(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\nCoin Public Key: %s\n\n", state.CoinPublicKey)
	return nil
}

// state reads the wallet state, treating an empty answer as an error
func (m *Menu) state(ctx context.Context) (*model.WalletState, error) {
	state, err := m.wallet.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet state: %w", err)
	}
	if state == nil {
		return nil, errors.New("wallet returned no state")
	}
	return state, nil
}

func (m *Menu) showFullState(ctx context.Context) error {
	state, err := m.state(ctx)
	if err != nil {
		return err
	}
	return renderState(m.out, state)
}
