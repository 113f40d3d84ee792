package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGetter struct {
	values map[string]string
	calls  int
	err    error
}

func (s *stubGetter) GetSecret(_ context.Context, name string, _ string, _ *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	s.calls++
	if s.err != nil {
		return azsecrets.GetSecretResponse{}, s.err
	}
	value, ok := s.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, nil
	}
	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &value}}, nil
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		source SecretSource
		env    string
		want   SecretSource
	}{
		{SourceAuto, "development", SourceEnvironment},
		{SourceAuto, "", SourceEnvironment},
		{SourceAuto, "production", SourceVault},
		{SourceAuto, "staging", SourceVault},
		{SourceEnvironment, "production", SourceEnvironment},
		{SourceVault, "development", SourceVault},
	}
	for _, tt := range tests {
		t.Run(string(tt.source)+"/"+tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSource(tt.source, tt.env))
		})
	}
}

func TestVaultClient_Cache(t *testing.T) {
	stub := &stubGetter{values: map[string]string{"jwt-secret": "s3cret"}}
	client := newVaultClient(stub, &VaultConfig{VaultName: "kv", CacheEnabled: true, CacheTTL: time.Minute}, zap.NewNop())

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		v, err := client.GetSecret(context.Background(), "jwt-secret")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", v)
	}
	assert.Equal(t, 1, stub.calls)

	now = now.Add(2 * time.Minute)
	_, err := client.GetSecret(context.Background(), "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls, "expired entry is refetched")

	client.ClearCache()
	_, err = client.GetSecret(context.Background(), "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 3, stub.calls)
}

func TestVaultClient_Errors(t *testing.T) {
	t.Run("upstream failure", func(t *testing.T) {
		boom := errors.New("forbidden")
		client := newVaultClient(&stubGetter{err: boom}, &VaultConfig{VaultName: "kv"}, zap.NewNop())

		_, err := client.GetSecret(context.Background(), "jwt-secret")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("secret without value", func(t *testing.T) {
		client := newVaultClient(&stubGetter{}, &VaultConfig{VaultName: "kv"}, zap.NewNop())

		_, err := client.GetSecret(context.Background(), "missing")
		assert.ErrorContains(t, err, "has no value")
	})
}

func TestProvider_Environment(t *testing.T) {
	p, err := NewProvider(&ProviderConfig{Source: SourceAuto, Environment: "development"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	t.Setenv("LEADS_TEST_SECRET", "from-env")
	v, err := p.GetSecret(context.Background(), "LEADS_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)

	_, err = p.GetSecret(context.Background(), "LEADS_TEST_UNSET")
	assert.Error(t, err)
}

func TestProvider_EnvOverridesVault(t *testing.T) {
	stub := &stubGetter{values: map[string]string{"jwt-secret": "from-vault"}}
	p := &Provider{source: SourceVault, vault: newVaultClient(stub, &VaultConfig{VaultName: "kv"}, zap.NewNop()), logger: zap.NewNop()}

	v, err := p.GetSecretOrEnv(context.Background(), "jwt-secret", "LEADS_TEST_JWT")
	require.NoError(t, err)
	assert.Equal(t, "from-vault", v)

	t.Setenv("LEADS_TEST_JWT", "override")
	v, err = p.GetSecretOrEnv(context.Background(), "jwt-secret", "LEADS_TEST_JWT")
	require.NoError(t, err)
	assert.Equal(t, "override", v)
	assert.Equal(t, 1, stub.calls)
}
