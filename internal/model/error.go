package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes returned in ErrorResponse.Code
const (
	CodeNotDeployed     = "NOT_DEPLOYED"
	CodeWalletNotFound  = "WALLET_NOT_FOUND"
	CodeNotConnected    = "NOT_CONNECTED"
	CodeNotImplemented  = "NOT_IMPLEMENTED"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
	CodeNotFound        = "NOT_FOUND"
)
