package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AlexZinkM/midnight-hello/internal/metrics"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

const (
	serviceIndexer = "indexer"

	contractStateQuery = `
query GetContractState($address: HexEncoded!) {
  contractState(address: $address) {
    data
  }
}`

	transactionFields = `
    hash
    protocolVersion
    merkleTreeRoot
    block {
      height
      hash
    }
    identifiers
    raw
    contractActions {
      __typename
      ... on ContractDeploy {
        address
        state
        chainState
      }
      ... on ContractCall {
        address
        state
        entryPoint
        chainState
      }
      ... on ContractUpdate {
        address
        state
        chainState
      }
    }`

	transactionByHashQuery = `
query ($hash: HexEncoded!) {
  transactions(offset: { hash: $hash }) {` + transactionFields + `
  }
}`

	transactionByIdentifierQuery = `
query ($identifier: HexEncoded!) {
  transactions(offset: { identifier: $identifier }) {` + transactionFields + `
  }
}`
)

// IndexerClient is a client for the indexer GraphQL API
type IndexerClient struct {
	url    string
	client *http.Client
}

// NewIndexerClient creates a new indexer client
func NewIndexerClient(url string) *IndexerClient {
	return &IndexerClient{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// query posts a GraphQL request and decodes the data payload into out
func (c *IndexerClient) query(ctx context.Context, operation, query string, variables map[string]any, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(serviceIndexer, operation, start, err) }()

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query indexer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Service: "Indexer", StatusCode: resp.StatusCode}
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode indexer response: %w", err)
	}

	if hasErrors(gqlResp.Errors) {
		return &GraphQLError{Errors: gqlResp.Errors}
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode indexer data: %w", err)
	}
	return nil
}

// ContractState returns the raw state data of the contract at address.
// Returns nil (without error) when the indexer has no state for the address.
func (c *IndexerClient) ContractState(ctx context.Context, address string) (json.RawMessage, error) {
	var data struct {
		ContractState *struct {
			Data json.RawMessage `json:"data"`
		} `json:"contractState"`
	}

	if err := c.query(ctx, "contractState", contractStateQuery, map[string]any{"address": address}, &data); err != nil {
		return nil, err
	}

	if data.ContractState == nil || isEmptyJSON(data.ContractState.Data) {
		return nil, nil
	}
	return data.ContractState.Data, nil
}

// TransactionByHash returns the first transaction with the given hash, or nil if none
func (c *IndexerClient) TransactionByHash(ctx context.Context, hash string) (*model.IndexedTransaction, error) {
	return c.transaction(ctx, "transactionByHash", transactionByHashQuery, map[string]any{"hash": hash})
}

// TransactionByIdentifier returns the first transaction with the given identifier, or nil if none
func (c *IndexerClient) TransactionByIdentifier(ctx context.Context, identifier string) (*model.IndexedTransaction, error) {
	return c.transaction(ctx, "transactionByIdentifier", transactionByIdentifierQuery, map[string]any{"identifier": identifier})
}

func (c *IndexerClient) transaction(ctx context.Context, operation, query string, variables map[string]any) (*model.IndexedTransaction, error) {
	var data struct {
		Transactions []model.IndexedTransaction `json:"transactions"`
	}

	if err := c.query(ctx, operation, query, variables, &data); err != nil {
		return nil, err
	}

	if len(data.Transactions) == 0 {
		return nil, nil
	}
	return &data.Transactions[0], nil
}

// hasErrors reports whether a GraphQL errors member is a non-empty value
func hasErrors(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null")) && !bytes.Equal(raw, []byte("[]"))
}

// isEmptyJSON reports absent, null, false, empty string and zero values
func isEmptyJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", `""`, "0":
		return true
	}
	return false
}
