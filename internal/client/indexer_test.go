package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// newIndexer starts a fake indexer answering every query with body
func newIndexer(t *testing.T, status int, body string, inspect func(req graphqlRequest)) *IndexerClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req graphqlRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		if inspect != nil {
			inspect(req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewIndexerClient(srv.URL)
}

func TestContractState(t *testing.T) {
	c := newIndexer(t, http.StatusOK, `{"data":{"contractState":{"data":{"message":"aGk="}}}}`, func(req graphqlRequest) {
		assert.Contains(t, req.Query, "contractState(address: $address)")
		assert.Equal(t, "0200abc", req.Variables["address"])
	})

	data, err := c.ContractState(context.Background(), "0200abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"aGk="}`, string(data))
}

func TestContractState_Absent(t *testing.T) {
	for name, body := range map[string]string{
		"null state": `{"data":{"contractState":null}}`,
		"null data":  `{"data":{"contractState":{"data":null}}}`,
		"no data":    `{"data":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newIndexer(t, http.StatusOK, body, nil)
			data, err := c.ContractState(context.Background(), "addr")
			require.NoError(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestContractState_HTTPError(t *testing.T) {
	c := newIndexer(t, http.StatusBadGateway, `upstream down`, nil)

	_, err := c.ContractState(context.Background(), "addr")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "502")
}

func TestContractState_GraphQLErrors(t *testing.T) {
	c := newIndexer(t, http.StatusOK, `{"data":null,"errors":[{"message":"invalid address"}]}`, nil)

	_, err := c.ContractState(context.Background(), "zz")
	var gqlErr *GraphQLError
	require.True(t, errors.As(err, &gqlErr))
	assert.Contains(t, err.Error(), "invalid address")
}

func TestContractState_EmptyErrorsIgnored(t *testing.T) {
	c := newIndexer(t, http.StatusOK, `{"data":{"contractState":{"data":{"message":"x"}}},"errors":[]}`, nil)

	data, err := c.ContractState(context.Background(), "addr")
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestContractState_MalformedBody(t *testing.T) {
	c := newIndexer(t, http.StatusOK, `<html>`, nil)

	_, err := c.ContractState(context.Background(), "addr")
	assert.ErrorContains(t, err, "failed to decode indexer response")
}

func TestTransactionByHash(t *testing.T) {
	body := `{"data":{"transactions":[{
		"hash":"aa11",
		"protocolVersion":1,
		"merkleTreeRoot":"root",
		"block":{"height":1234,"hash":"bb22"},
		"identifiers":["id1","id2"],
		"raw":null,
		"contractActions":[
			{"__typename":"ContractCall","address":"c1","state":"s","entryPoint":"storeMessage","chainState":"cs"},
			{"__typename":"ContractDeploy","address":"c1","state":"s0","chainState":"cs0"}
		]
	}]}}`
	c := newIndexer(t, http.StatusOK, body, func(req graphqlRequest) {
		assert.Contains(t, req.Query, "offset: { hash: $hash }")
		assert.Equal(t, "aa11", req.Variables["hash"])
	})

	tx, err := c.TransactionByHash(context.Background(), "aa11")
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, "aa11", tx.Hash)
	assert.Equal(t, int64(1234), tx.Block.Height)
	assert.Equal(t, []string{"id1", "id2"}, tx.Identifiers)
	assert.Nil(t, tx.Raw)
	require.Len(t, tx.ContractActions, 2)
	assert.Equal(t, model.ContractActionCall, tx.ContractActions[0].Type)
	assert.Equal(t, "storeMessage", tx.ContractActions[0].EntryPoint)
	assert.Equal(t, model.ContractActionDeploy, tx.ContractActions[1].Type)
	assert.Empty(t, tx.ContractActions[1].EntryPoint)
}

func TestTransactionByIdentifier_NotFound(t *testing.T) {
	c := newIndexer(t, http.StatusOK, `{"data":{"transactions":[]}}`, func(req graphqlRequest) {
		assert.Contains(t, req.Query, "offset: { identifier: $identifier }")
		assert.Equal(t, "id9", req.Variables["identifier"])
	})

	tx, err := c.TransactionByIdentifier(context.Background(), "id9")
	require.NoError(t, err)
	assert.Nil(t, tx)
}
