package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// renderTransaction prints indexer transaction details.
// identifier is shown first when the lookup was by identifier.
func renderTransaction(w io.Writer, tx *model.IndexedTransaction, identifier string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Transaction Details ===")

	rows := pterm.TableData{}
	if identifier != "" {
		rows = append(rows, []string{"Identifier:", identifier})
	}

	block := "#(unknown) (n/a)"
	if tx.Block != nil {
		block = fmt.Sprintf("#%d (%s)", tx.Block.Height, orDefault(tx.Block.Hash, "n/a"))
	}
	identifiers := "(none)"
	if len(tx.Identifiers) > 0 {
		identifiers = strings.Join(tx.Identifiers, ", ")
	}

	rows = append(rows,
		[]string{"Hash:", tx.Hash},
		[]string{"Protocol ver:", fmt.Sprint(tx.ProtocolVersion)},
		[]string{"Block:", block},
		[]string{"Identifiers:", identifiers},
		[]string{"Merkle root:", derefOr(tx.MerkleTreeRoot, "(none)")},
		[]string{"Raw (hex):", derefOr(tx.Raw, "(not available)")},
	)
	if err := pterm.DefaultTable.WithData(rows).WithWriter(w).Render(); err != nil {
		for _, row := range rows {
			fmt.Fprintf(w, "%-13s %s\n", row[0], row[1])
		}
	}

	if len(tx.ContractActions) == 0 {
		fmt.Fprintln(w, "No contract actions.")
	} else {
		fmt.Fprintln(w, "Contract actions:")
		for _, ca := range tx.ContractActions {
			fmt.Fprintf(w, "  type: %s\n", ca.Type)
			fmt.Fprintf(w, "    address: %s\n", ca.Address)
			if ca.EntryPoint != "" {
				fmt.Fprintf(w, "    entryPoint: %s\n", ca.EntryPoint)
			}
			fmt.Fprintf(w, "    state: %s\n", ca.State)
			fmt.Fprintf(w, "    chainState: %s\n", ca.ChainState)
		}
	}
	fmt.Fprintln(w, "===========================")
	fmt.Fprintln(w)
}

// renderQR draws text as a QR code using block characters, two rows per line
func renderQR(w io.Writer, text string) error {
	qr, err := qrcode.New(text, qrcode.Low)
	if err != nil {
		return fmt.Errorf("failed to create QR code: %w", err)
	}

	bitmap := qr.Bitmap()
	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

// renderState prints the full wallet state as indented JSON. Big integers are strings.
func renderState(w io.Writer, state *model.WalletState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet state: %w", err)
	}
	fmt.Fprintf(w, "\nFull Wallet State:\n%s\n\n", data)
	return nil
}

// renderSyncProgress prints one sync progress update
func renderSyncProgress(w io.Writer, state *model.WalletState) {
	if state == nil || state.SyncProgress == nil {
		return
	}
	applyGap, sourceGap := "0", "0"
	if lag := state.SyncProgress.Lag; lag != nil {
		if lag.ApplyGap != nil {
			applyGap = lag.ApplyGap.Dec()
		}
		if lag.SourceGap != nil {
			sourceGap = lag.SourceGap.Dec()
		}
	}
	fmt.Fprintf(w, "Syncing... (Synced: %t)\n", state.SyncProgress.Synced)
	fmt.Fprintf(w, "   Lag: applyGap=%s, sourceGap=%s\n", applyGap, sourceGap)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
