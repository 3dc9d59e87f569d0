// Package handler serves the web front end and its JSON API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/internal/contract"
	"github.com/AlexZinkM/midnight-hello/internal/model"
	"github.com/AlexZinkM/midnight-hello/internal/submit"
	"github.com/AlexZinkM/midnight-hello/internal/wallet"
)

// ContractReader reads the contract message and indexed transactions.
// *contract.Client implements it.
type ContractReader interface {
	QueryMessage(ctx context.Context, address string) (*string, error)
	TransactionByHash(ctx context.Context, hash string) (*model.IndexedTransaction, error)
	TransactionByIdentifier(ctx context.Context, identifier string) (*model.IndexedTransaction, error)
}

// MidnightHandler holds dependencies of the web API
type MidnightHandler struct {
	adapter        *wallet.Adapter
	contract       ContractReader
	sessions       *SessionStore
	deploymentPath string
	logger         *zap.Logger
}

// NewMidnightHandler creates the web API handler
func NewMidnightHandler(adapter *wallet.Adapter, contract ContractReader, sessions *SessionStore, deploymentPath string, logger *zap.Logger) *MidnightHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MidnightHandler{
		adapter:        adapter,
		contract:       contract,
		sessions:       sessions,
		deploymentPath: deploymentPath,
		logger:         logger,
	}
}

// deployment reloads the descriptor so a deploy while the server runs is picked up
func (h *MidnightHandler) deployment() *model.DeploymentDescriptor {
	d, err := contract.LoadDeployment(h.deploymentPath, h.logger)
	if err != nil {
		h.logger.Error("failed to read deployment descriptor", zap.Error(err))
		return nil
	}
	return d
}

// Contract handles GET /api/contract
// @Summary      Get deployed contract
// @Description  Returns the deployed contract address, or deployed=false when no deployment descriptor exists
// @Tags         contract
// @Produce      json
// @Success      200  {object}  model.ContractResponse
// @Router       /api/contract [get]
func (h *MidnightHandler) Contract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	d := h.deployment()
	if d == nil {
		writeJSON(w, http.StatusOK, model.ContractResponse{Deployed: false})
		return
	}
	writeJSON(w, http.StatusOK, model.ContractResponse{
		Deployed:        true,
		ContractAddress: d.ContractAddress,
		DeployedAt:      d.DeployedAt,
	})
}

// DeploymentJSON handles GET /deployment.json
// @Summary      Get deployment descriptor
// @Description  Serves the deployment descriptor written by the deploy script
// @Tags         contract
// @Produce      json
// @Success      200  {object}  model.DeploymentDescriptor
// @Failure      404  {object}  model.ErrorResponse
// @Router       /deployment.json [get]
func (h *MidnightHandler) DeploymentJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	d := h.deployment()
	if d == nil {
		writeError(w, http.StatusNotFound, model.CodeNotDeployed, "contract not deployed")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Message dispatches /api/message by method
func (h *MidnightHandler) Message(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetMessage(w, r)
	case http.MethodPost:
		h.PostMessage(w, r)
	default:
		http.Error(w, "Method not allowed. Should be GET or POST", http.StatusMethodNotAllowed)
	}
}

// GetMessage handles GET /api/message
// @Summary      Read current message
// @Description  Queries the indexer for the contract state and decodes its message
// @Tags         contract
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /api/message [get]
func (h *MidnightHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	d := h.deployment()
	if d == nil {
		writeError(w, http.StatusNotFound, model.CodeNotDeployed, "contract not deployed")
		return
	}

	msg, err := h.contract.QueryMessage(r.Context(), d.ContractAddress)
	if err != nil {
		h.logger.Warn("failed to query message", zap.Error(err))
		writeError(w, http.StatusBadGateway, model.CodeUpstreamFailure, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		ContractAddress: d.ContractAddress,
		Message:         msg,
		Found:           msg != nil,
	})
}

// PostMessage handles POST /api/message
// @Summary      Store a message
// @Description  Validates the message and submits it for the connected wallet. The web demo answers 501 for valid submissions.
// @Tags         contract
// @Accept       json
// @Produce      json
// @Param        request  body      model.MessageRequest  true  "Message (1-280 characters)"
// @Success      200      {object}  model.TransactionResult
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      501      {object}  model.ErrorResponse
// @Router       /api/message [post]
func (h *MidnightHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req model.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err.Error())
		return
	}

	d := h.deployment()
	if d == nil {
		writeError(w, http.StatusNotFound, model.CodeNotDeployed, "contract not deployed")
		return
	}

	submitter := submit.NewDemoSubmitter(h.sessions.Get(r), d.ContractAddress, h.logger)
	res, err := submitter.Submit(r.Context(), req.Message)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, submit.ErrInvalidMessage):
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err.Error())
	case errors.Is(err, submit.ErrNotConnected):
		writeError(w, http.StatusUnauthorized, model.CodeNotConnected, err.Error())
	case errors.Is(err, submit.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, model.CodeNotImplemented, err.Error())
	default:
		writeError(w, http.StatusBadGateway, model.CodeUpstreamFailure, err.Error())
	}
}

// Wallet handles GET /api/wallet
// @Summary      Wallet status
// @Description  Reports whether a wallet is detected and whether this browser session is connected
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletStatusResponse
// @Router       /api/wallet [get]
func (h *MidnightHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp := model.WalletStatusResponse{Detected: h.adapter.Detect(r.Context())}
	if session := h.sessions.Get(r); session != nil {
		resp.Connected = true
		resp.Address = session.Address()
		resp.Balance = session.Balance()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Connect handles POST /api/wallet/connect
// @Summary      Connect wallet
// @Description  Enables the wallet (it may prompt its user) and returns the display address and balance
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /api/wallet/connect [post]
func (h *MidnightHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if !h.adapter.Detect(r.Context()) {
		writeError(w, http.StatusNotFound, model.CodeWalletNotFound, wallet.ErrWalletNotFound.Error())
		return
	}

	session, res, err := h.adapter.Connect(r.Context())
	if err != nil {
		h.logger.Warn("failed to connect wallet", zap.Error(err))
		switch {
		case errors.Is(err, wallet.ErrEnableRejected):
			writeError(w, http.StatusForbidden, model.CodeNotConnected, err.Error())
		case errors.Is(err, wallet.ErrWalletNotFound):
			writeError(w, http.StatusNotFound, model.CodeWalletNotFound, err.Error())
		default:
			writeError(w, http.StatusBadGateway, model.CodeUpstreamFailure, err.Error())
		}
		return
	}

	h.sessions.Put(w, r, session)
	writeJSON(w, http.StatusOK, model.ConnectResponse{
		Address:      res.Address,
		Balance:      res.Balance,
		Capabilities: session.Capabilities(),
	})
}

// WalletState handles GET /api/wallet/state
// @Summary      Wallet state
// @Description  Returns a fresh wallet state snapshot. Big integers are decimal strings.
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletState
// @Failure      401  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /api/wallet/state [get]
func (h *MidnightHandler) WalletState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	session := h.sessions.Get(r)
	if session == nil {
		// an already authorized wallet needs no prompt
		if session = h.adapter.Resume(r.Context()); session == nil {
			writeError(w, http.StatusUnauthorized, model.CodeNotConnected, submit.ErrNotConnected.Error())
			return
		}
		h.sessions.Put(w, r, session)
	}

	state, err := session.State(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, model.CodeUpstreamFailure, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Transactions handles GET /api/transactions
// @Summary      Look up a transaction
// @Description  Finds a transaction by hash or by identifier. Exactly one of the parameters is required.
// @Tags         transactions
// @Produce      json
// @Param        hash        query     string  false  "Transaction hash (hex)"
// @Param        identifier  query     string  false  "Transaction identifier (hex)"
// @Success      200  {object}  model.IndexedTransaction
// @Failure      400  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /api/transactions [get]
func (h *MidnightHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	hash := strings.TrimSpace(r.URL.Query().Get("hash"))
	identifier := strings.TrimSpace(r.URL.Query().Get("identifier"))
	if (hash == "") == (identifier == "") {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, "exactly one of hash or identifier is required")
		return
	}

	var (
		tx  *model.IndexedTransaction
		err error
	)
	if hash != "" {
		tx, err = h.contract.TransactionByHash(r.Context(), hash)
	} else {
		tx, err = h.contract.TransactionByIdentifier(r.Context(), identifier)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, model.CodeUpstreamFailure, err.Error())
		return
	}
	if tx == nil {
		writeError(w, http.StatusNotFound, model.CodeNotFound, "no transaction found")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}
