package contract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AlexZinkM/midnight-hello/internal/common"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// Indexer is the indexer surface used by the contract client.
// *client.IndexerClient implements it.
type Indexer interface {
	ContractState(ctx context.Context, address string) (json.RawMessage, error)
	TransactionByHash(ctx context.Context, hash string) (*model.IndexedTransaction, error)
	TransactionByIdentifier(ctx context.Context, identifier string) (*model.IndexedTransaction, error)
}

// Client reads contract data through the indexer
type Client struct {
	indexer Indexer
}

// NewClient creates a contract data client
func NewClient(indexer Indexer) *Client {
	return &Client{indexer: indexer}
}

// QueryMessage returns the decoded message stored by the contract at address.
// Returns nil when the indexer has no state for address and model.NoMessage
// when the state carries no message.
func (c *Client) QueryMessage(ctx context.Context, address string) (*string, error) {
	data, err := c.indexer.ContractState(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to query contract state: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	msg := extractMessage(data)
	return &msg, nil
}

// TransactionByHash looks a transaction up by hash. Returns nil if not found.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*model.IndexedTransaction, error) {
	return c.indexer.TransactionByHash(ctx, hash)
}

// TransactionByIdentifier looks a transaction up by one of its identifiers. Returns nil if not found.
func (c *Client) TransactionByIdentifier(ctx context.Context, identifier string) (*model.IndexedTransaction, error) {
	return c.indexer.TransactionByIdentifier(ctx, identifier)
}

// extractMessage decodes the message field of the state data
func extractMessage(data json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return model.NoMessage
	}

	raw, ok := fields["message"]
	if !ok || isFalsy(raw) {
		return model.NoMessage
	}
	return common.DecodeMessage(raw)
}

func isFalsy(raw json.RawMessage) bool {
	switch string(raw) {
	case "null", "false", `""`, "0":
		return true
	}
	return false
}
