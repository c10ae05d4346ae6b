package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-relay/internal/adapters/liberanetix"
	"github.com/kevin07696/payment-relay/internal/adapters/ports"
	"github.com/kevin07696/payment-relay/internal/adapters/secrets"
)

// Secret names of the three gateway credentials
const (
	secretBrandID  = "BRAND_ID"
	secretAPIKey   = "API_KEY"
	secretS2SToken = "S2S_TOKEN"
)

// initSecretManager initializes the appropriate secret manager based on
// environment.
//
// Environment variables:
//   - SECRET_MANAGER: "aws", "vault" or "env" (default: env)
//   - AWS_REGION: region for the AWS adapter (default: us-east-1)
//   - VAULT_ADDR / VAULT_TOKEN: required for the Vault adapter
func initSecretManager(ctx context.Context, logger *zap.Logger) ports.SecretManager {
	switch os.Getenv("SECRET_MANAGER") {
	case "aws":
		return initAWSSecretManager(ctx, logger)
	case "vault":
		return initVaultSecretManager(logger)
	case "", "env":
		logger.Warn("Using environment-variable secrets - not recommended for production")
		return secrets.NewEnvSecretManager(logger)
	default:
		logger.Warn("Unknown SECRET_MANAGER type, falling back to environment variables",
			zap.String("secret_manager", os.Getenv("SECRET_MANAGER")),
		)
		return secrets.NewEnvSecretManager(logger)
	}
}

func initAWSSecretManager(ctx context.Context, logger *zap.Logger) ports.SecretManager {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	sm, err := secrets.NewAWSSecretsManagerAdapter(ctx, secrets.DefaultAWSSecretsManagerConfig(region), logger)
	if err != nil {
		logger.Fatal("Failed to initialize AWS Secrets Manager",
			zap.Error(err),
			zap.String("region", region),
		)
	}

	logger.Info("AWS Secrets Manager initialized", zap.String("region", region))
	return sm
}

func initVaultSecretManager(logger *zap.Logger) ports.SecretManager {
	address := os.Getenv("VAULT_ADDR")
	token := os.Getenv("VAULT_TOKEN")
	if address == "" || token == "" {
		logger.Fatal("VAULT_ADDR and VAULT_TOKEN are required when SECRET_MANAGER=vault")
	}

	sm, err := secrets.NewVaultAdapter(secrets.DefaultVaultConfig(address, token), logger)
	if err != nil {
		logger.Fatal("Failed to initialize Vault adapter", zap.Error(err))
	}

	logger.Info("Vault secret manager initialized", zap.String("address", address))
	return sm
}

// loadCredentials fetches the three gateway credentials. Any missing
// credential aborts startup before the listener opens.
func loadCredentials(ctx context.Context, sm ports.SecretManager, logger *zap.Logger) liberanetix.Credentials {
	creds := liberanetix.Credentials{}

	for _, secret := range []struct {
		name   string
		target *string
	}{
		{secretBrandID, &creds.BrandID},
		{secretAPIKey, &creds.APIKey},
		{secretS2SToken, &creds.S2SToken},
	} {
		value, err := sm.GetSecret(ctx, secret.name)
		if err != nil {
			logger.Fatal("Missing required gateway credential",
				zap.String("secret", secret.name),
				zap.Error(err),
			)
		}
		*secret.target = value
	}

	logger.Info("Gateway credentials loaded")
	return creds
}
