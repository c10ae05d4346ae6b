package mocks

import (
	"context"
	"fmt"
)

// MockSecretManager is an in-memory implementation of ports.SecretManager
type MockSecretManager struct {
	Secrets map[string]string
}

// NewMockSecretManager creates a mock secret manager seeded with secrets
func NewMockSecretManager(secrets map[string]string) *MockSecretManager {
	if secrets == nil {
		secrets = make(map[string]string)
	}
	return &MockSecretManager{Secrets: secrets}
}

// GetSecret returns the seeded value or an error when absent
func (m *MockSecretManager) GetSecret(_ context.Context, name string) (string, error) {
	value, ok := m.Secrets[name]
	if !ok || value == "" {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	return value, nil
}
