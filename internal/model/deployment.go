package model

// DeploymentDescriptor represents deployment.json written by the deploy script
type DeploymentDescriptor struct {
	ContractAddress string `json:"contractAddress"`
	DeployedAt      string `json:"deployedAt"`
}

// ContractResponse represents response for GET /api/contract
type ContractResponse struct {
	Deployed        bool   `json:"deployed"`
	ContractAddress string `json:"contractAddress,omitempty"`
	DeployedAt      string `json:"deployedAt,omitempty"`
}
