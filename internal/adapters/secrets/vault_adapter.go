package secrets

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-relay/internal/adapters/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault adapter
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Token for token authentication
	Token string

	// KV v2 secrets engine mount path (default: "secret")
	MountPath string

	// Path under the mount holding the relay's credentials
	// (default: "payment-relay")
	SecretPath string

	// Cache TTL
	CacheTTL time.Duration

	// Enable caching
	EnableCache bool
}

// DefaultVaultConfig returns default configuration for the Vault adapter
func DefaultVaultConfig(address, token string) *VaultConfig {
	return &VaultConfig{
		Address:     address,
		Token:       token,
		MountPath:   "secret",
		SecretPath:  "payment-relay",
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// vaultAdapter implements the SecretManager port for HashiCorp Vault.
// Credentials live as individual keys of one KV v2 secret.
type vaultAdapter struct {
	client *vault.Client
	config *VaultConfig
	logger *zap.Logger
	cache  *secretCache
}

// NewVaultAdapter creates a new HashiCorp Vault adapter
func NewVaultAdapter(cfg *VaultConfig, logger *zap.Logger) (ports.SecretManager, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &vaultAdapter{
		client: client,
		config: cfg,
		logger: logger,
		cache:  newSecretCache(cfg.EnableCache, cfg.CacheTTL),
	}, nil
}

func (a *vaultAdapter) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := a.cache.get(name); ok {
		return value, nil
	}

	a.logger.Debug("Fetching secret from Vault",
		zap.String("mount", a.config.MountPath),
		zap.String("path", a.config.SecretPath),
		zap.String("name", name),
	)

	secret, err := a.client.KVv2(a.config.MountPath).Get(ctx, a.config.SecretPath)
	if err != nil {
		return "", fmt.Errorf("failed to read Vault secret: %w", err)
	}

	raw, ok := secret.Data[name]
	if !ok {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", fmt.Errorf("secret %s is not a non-empty string", name)
	}

	a.cache.put(name, value)
	return value, nil
}
