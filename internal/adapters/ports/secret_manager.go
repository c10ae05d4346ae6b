package ports

import "context"

// SecretManager abstracts where the relay's gateway credentials live.
// Implementations exist for plain environment variables (development),
// AWS Secrets Manager and HashiCorp Vault (production).
type SecretManager interface {
	// GetSecret returns the secret value stored under name. A missing
	// secret is an error; the relay treats that as fatal at startup.
	GetSecret(ctx context.Context, name string) (string, error)
}
