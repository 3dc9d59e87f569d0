package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// NativeToken is the token type of tDUST in balance maps
const NativeToken = "0200000000000000000000000000000000000000000000000000000000000000000000"

// NativeTokenKeys are the balance map keys a wallet may use for tDUST, in lookup order
var NativeTokenKeys = []string{"", "native", NativeToken}

// Quantity is a balance that the wallet reports either as a JSON number or a string
type Quantity string

// UnmarshalJSON accepts 123, "123" and null
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("balance must be a number or string: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}

// SyncLag is how far the wallet is behind the chain
type SyncLag struct {
	ApplyGap  *uint256.Int `json:"applyGap,omitempty"`
	SourceGap *uint256.Int `json:"sourceGap,omitempty"`
}

// SyncProgress is reported by the wallet while it catches up with the chain
type SyncProgress struct {
	Synced bool     `json:"synced"`
	Lag    *SyncLag `json:"lag,omitempty"`
}

// WalletState is a snapshot of the wallet service state.
// Big integers marshal as decimal strings.
type WalletState struct {
	Address             string                  `json:"address,omitempty"`
	ShieldedAddress     string                  `json:"shieldedAddress,omitempty"`
	Balance             *Quantity               `json:"balance,omitempty"`
	Balances            map[string]*uint256.Int `json:"balances,omitempty"`
	CoinPublicKey       string                  `json:"coinPublicKey,omitempty"`
	EncryptionPublicKey string                  `json:"encryptionPublicKey,omitempty"`
	SyncProgress        *SyncProgress           `json:"syncProgress,omitempty"`
}

// IsSynced reports whether the wallet finished syncing
func (s *WalletState) IsSynced() bool {
	return s != nil && s.SyncProgress != nil && s.SyncProgress.Synced
}

// NativeBalance looks up tDUST in Balances. ok is false when no native key is present.
func (s *WalletState) NativeBalance() (balance *uint256.Int, ok bool) {
	if s == nil || s.Balances == nil {
		return nil, false
	}
	for _, key := range NativeTokenKeys {
		if v, found := s.Balances[key]; found && v != nil {
			return v, true
		}
	}
	return nil, false
}

// SplitBalances is returned by the optional wallet_balances capability
type SplitBalances struct {
	Shielded   *uint256.Int `json:"shielded"`
	Unshielded *uint256.Int `json:"unshielded"`
}

// Capabilities describes which optional wallet methods the provider exposes.
// It is negotiated once at connect time.
type Capabilities struct {
	Balances            bool `json:"balances"`
	GetBalance          bool `json:"getBalance"`
	SignData            bool `json:"signData"`
	SubmitTx            bool `json:"submitTx"`
	BalanceTransaction  bool `json:"balanceTransaction"`
	TransferTransaction bool `json:"transferTransaction"`
	ProveTransaction    bool `json:"proveTransaction"`
	SubmitTransaction   bool `json:"submitTransaction"`
}

// TokenTransfer is one output of a transfer recipe
type TokenTransfer struct {
	Amount          *uint256.Int `json:"amount"`
	ReceiverAddress string       `json:"receiverAddress"`
	Type            string       `json:"type"`
}

// BuildParams are passed to wallet_build to construct a wallet from a seed
type BuildParams struct {
	IndexerURL     string `json:"indexerUri"`
	IndexerWSURL   string `json:"indexerWsUri"`
	ProofServerURL string `json:"proverServerUri"`
	NodeURL        string `json:"substrateNodeUri"`
	Seed           string `json:"seed"`
	NetworkID      string `json:"networkId"`
	LogLevel       string `json:"logLevel"`
}

// SeedFile represents the encrypted seed file structure
type SeedFile struct {
	Network    string `json:"network"`
	Address    string `json:"address,omitempty"`
	QR         string `json:"QR,omitempty"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// SeedData represents decrypted seed file contents
type SeedData struct {
	Seed      []byte `json:"seed"` // hex seed bytes (stored as base64 in JSON)
	CreatedAt string `json:"createdAt"`
}
