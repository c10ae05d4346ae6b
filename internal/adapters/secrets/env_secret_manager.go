package secrets

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-relay/internal/adapters/ports"
)

// envSecretManager reads secrets straight from environment variables.
// Intended for development; production deployments should use the AWS or
// Vault adapter.
type envSecretManager struct {
	logger *zap.Logger
}

// NewEnvSecretManager creates an environment-variable secret manager
func NewEnvSecretManager(logger *zap.Logger) ports.SecretManager {
	return &envSecretManager{logger: logger}
}

func (m *envSecretManager) GetSecret(_ context.Context, name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("secret not found: %s", name)
	}

	m.logger.Debug("Secret read from environment", zap.String("name", name))
	return value, nil
}
