package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration int
		wantErr    string
	}{
		{name: "valid", secret: "test-secret-key", expiration: 24},
		{name: "one hour", secret: "test-secret-key", expiration: 1},
		{name: "missing secret", secret: "", expiration: 24, wantErr: "JWT_SECRET cannot be empty"},
		{name: "zero expiration", secret: "s", expiration: 0, wantErr: "at least 1 hour"},
		{name: "negative expiration", secret: "s", expiration: -5, wantErr: "got: -5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(tt.secret, tt.expiration)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.expiration, cfg.ExpirationHours)
		})
	}
}

func TestAuthConfig_JWT(t *testing.T) {
	cfg, err := AuthConfig{JWTSecret: "abc", JWTExpirationHours: 48}.JWT()
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)

	_, err = AuthConfig{JWTExpirationHours: 48}.JWT()
	require.Error(t, err)
}
