package model

// ContractActionType is the GraphQL __typename of a contract action
type ContractActionType string

const (
	ContractActionDeploy ContractActionType = "ContractDeploy"
	ContractActionCall   ContractActionType = "ContractCall"
	ContractActionUpdate ContractActionType = "ContractUpdate"
)

// TransactionResult is the outcome of a message submission
type TransactionResult struct {
	TxHash      string `json:"txHash"`
	Success     bool   `json:"success"`
	TxID        string `json:"txId,omitempty"`
	BlockHeight *int64 `json:"blockHeight,omitempty"`
}

// CallTxResult is returned by contract_call, shaped like the SDK's FinalizedCallTxData
type CallTxResult struct {
	Public struct {
		TxHash      string `json:"txHash"`
		TxID        string `json:"txId"`
		BlockHeight int64  `json:"blockHeight"`
	} `json:"public"`
}

// Block is the block reference of an indexed transaction
type Block struct {
	Height int64  `json:"height"`
	Hash   string `json:"hash"`
}

// ContractAction is one member of the contractActions union.
// EntryPoint is only set for ContractCall.
type ContractAction struct {
	Type       ContractActionType `json:"__typename"`
	Address    string             `json:"address"`
	State      string             `json:"state"`
	ChainState string             `json:"chainState"`
	EntryPoint string             `json:"entryPoint,omitempty"`
}

// IndexedTransaction is a transaction as returned by the indexer
type IndexedTransaction struct {
	Hash            string           `json:"hash"`
	ProtocolVersion int              `json:"protocolVersion"`
	MerkleTreeRoot  *string          `json:"merkleTreeRoot"`
	Block           *Block           `json:"block"`
	Identifiers     []string         `json:"identifiers"`
	Raw             *string          `json:"raw"`
	ContractActions []ContractAction `json:"contractActions"`
}
