// Package contract reads the deployed contract's descriptor and on-chain message.
package contract

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/internal/common"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// LoadDeployment reads the deployment descriptor at path.
// Returns nil (without error) when the file is missing, empty, malformed or has no address.
// Other read errors are returned.
func LoadDeployment(path string, logger *zap.Logger) (*model.DeploymentDescriptor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("deployment descriptor not found", zap.String("path", path))
			return nil, nil
		}
		return nil, err
	}

	data = common.TrimBOM(data)
	if len(strings.TrimSpace(string(data))) == 0 {
		logger.Warn("deployment descriptor is empty", zap.String("path", path))
		return nil, nil
	}

	var d model.DeploymentDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		logger.Warn("failed to parse deployment descriptor", zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	if d.ContractAddress == "" {
		logger.Warn("deployment descriptor has no contract address", zap.String("path", path))
		return nil, nil
	}
	return &d, nil
}
