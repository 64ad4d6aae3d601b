package config_test

import (
	"testing"

	"github.com/goliatone/go-content-api/config"
	"github.com/stretchr/testify/assert"
)

func TestAuthDefaults(t *testing.T) {
	auth := &config.Auth{}

	assert.Equal(t, 100, auth.GetDefaultPageSize())
	assert.Equal(t, 100, auth.GetMaxPageSize())
	assert.Equal(t, "Bearer", auth.GetAuthScheme())
}

func TestAuthConfiguredValuesWin(t *testing.T) {
	auth := &config.Auth{DefaultPageSize: 25, MaxPageSize: 50}

	assert.Equal(t, 25, auth.GetDefaultPageSize())
	assert.Equal(t, 50, auth.GetMaxPageSize())
}

func TestBaseConfigValidate(t *testing.T) {
	cfg := &config.BaseConfig{}
	assert.Error(t, cfg.Validate())

	cfg.Auth.SigningKey = "test-signing-key"
	assert.NoError(t, cfg.Validate())
}
