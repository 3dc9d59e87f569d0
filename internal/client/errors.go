package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPError is returned when an upstream service answers with a non-2xx status
type HTTPError struct {
	Service    string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s HTTP error: %d %s", e.Service, e.StatusCode, http.StatusText(e.StatusCode))
}

// GraphQLError carries the errors array of a GraphQL response, serialized as returned
type GraphQLError struct {
	Errors json.RawMessage
}

func (e *GraphQLError) Error() string {
	return "GraphQL errors: " + string(e.Errors)
}

// RPCError is a JSON-RPC 2.0 error object returned by the wallet service
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("RPC error %d: %s (data: %s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Wallet service error codes
const (
	RPCCodeMethodNotFound = -32601
	RPCCodeUserRejected   = 4001
)
