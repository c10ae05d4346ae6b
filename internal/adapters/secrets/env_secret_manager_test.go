package secrets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnvSecretManager_GetSecret(t *testing.T) {
	t.Setenv("RELAY_TEST_SECRET", "s3cret")

	sm := NewEnvSecretManager(zap.NewNop())

	value, err := sm.GetSecret(context.Background(), "RELAY_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)
}

func TestEnvSecretManager_MissingSecret(t *testing.T) {
	sm := NewEnvSecretManager(zap.NewNop())

	_, err := sm.GetSecret(context.Background(), "RELAY_TEST_SECRET_MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret not found")
}

func TestSecretCache_HitAndExpiry(t *testing.T) {
	cache := newSecretCache(true, 50*time.Millisecond)

	_, ok := cache.get("api_key")
	assert.False(t, ok)

	cache.put("api_key", "value")
	value, ok := cache.get("api_key")
	require.True(t, ok)
	assert.Equal(t, "value", value)

	time.Sleep(60 * time.Millisecond)
	_, ok = cache.get("api_key")
	assert.False(t, ok, "entry should expire after TTL")
}

func TestSecretCache_Disabled(t *testing.T) {
	cache := newSecretCache(false, time.Minute)

	cache.put("api_key", "value")
	_, ok := cache.get("api_key")
	assert.False(t, ok)
}
