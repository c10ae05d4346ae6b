package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-relay/test/mocks"
)

func TestLoadCredentials(t *testing.T) {
	sm := mocks.NewMockSecretManager(map[string]string{
		"BRAND_ID":  "test-brand-id",
		"API_KEY":   "test-api-key",
		"S2S_TOKEN": "test-s2s-token",
	})

	creds := loadCredentials(context.Background(), sm, zap.NewNop())

	assert.Equal(t, "test-brand-id", creds.BrandID)
	assert.Equal(t, "test-api-key", creds.APIKey)
	assert.Equal(t, "test-s2s-token", creds.S2SToken)
}

func TestInitSecretManager_DefaultsToEnv(t *testing.T) {
	t.Setenv("SECRET_MANAGER", "")

	sm := initSecretManager(context.Background(), zap.NewNop())

	assert.NotNil(t, sm)
}

func TestInitSecretManager_UnknownTypeFallsBackToEnv(t *testing.T) {
	t.Setenv("SECRET_MANAGER", "consul")

	sm := initSecretManager(context.Background(), zap.NewNop())

	assert.NotNil(t, sm)
}
