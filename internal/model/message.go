package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxMessageLength is the longest message accepted, in characters
const MaxMessageLength = 280

// NoMessage is shown when the contract state has no message field
const NoMessage = "No message found"

var validate = validator.New(validator.WithRequiredStructEnabled())

// MessageRequest represents request for POST /api/message
type MessageRequest struct {
	Message string `json:"message" validate:"required,max=280"`
}

// Validate rejects blank messages and messages longer than MaxMessageLength characters.
func (r *MessageRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message cannot be empty")
	}
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			return fmt.Errorf("message must be at most %d characters", MaxMessageLength)
		}
		return fmt.Errorf("invalid message: %w", err)
	}
	return nil
}

// MessageResponse represents response for GET /api/message
type MessageResponse struct {
	ContractAddress string  `json:"contractAddress"`
	Message         *string `json:"message"`
	Found           bool    `json:"found"`
}

// TransferRequest is a native token transfer entered by the user
type TransferRequest struct {
	ReceiverAddress string `json:"receiverAddress" validate:"required"`
	Amount          string `json:"amount" validate:"required,numeric"`
}

// Validate validates TransferRequest fields.
func (r *TransferRequest) Validate() error {
	r.ReceiverAddress = strings.TrimSpace(r.ReceiverAddress)
	r.Amount = strings.TrimSpace(r.Amount)
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid %s", strings.ToLower(verrs[0].Field()[:1])+verrs[0].Field()[1:])
		}
		return err
	}
	return nil
}

// WalletStatusResponse represents response for GET /api/wallet
type WalletStatusResponse struct {
	Detected  bool   `json:"detected"`
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
	Balance   string `json:"balance,omitempty"`
}

// ConnectResponse represents response for POST /api/wallet/connect
type ConnectResponse struct {
	Address      string       `json:"address"`
	Balance      string       `json:"balance"`
	Capabilities Capabilities `json:"capabilities"`
}
