package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     int
		wantCost int
		wantErr  bool
	}{
		{name: "default cost", cost: 0, wantCost: DefaultBcryptCost},
		{name: "valid cost", cost: 10, wantCost: 10},
		{name: "cost too low", cost: 9, wantErr: true},
		{name: "cost too high", cost: 15, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewPasswordConfig(ServerConfig{BcryptCost: tt.cost})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong horse", hash))
	assert.False(t, cfg.VerifyPassword("correct horse", "not-a-hash"))
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "s3cret"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("analyst")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("analyst", hash))
	assert.False(t, plain.VerifyPassword("analyst", hash))
}

func TestPasswordConfig_TooLong(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	_, err := cfg.HashPassword(strings.Repeat("a", 80))
	assert.Error(t, err)
}
