package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 1*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 60*time.Minute, c.RefreshTokenValidityDuration)
	assert.Contains(t, c.ProviderSecrets, "google")
	assert.Contains(t, c.ProviderSecrets, "apple")
	assert.Empty(t, c.SeedUsers)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.False(t, c.S3Enabled())
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Equal(t, ":8000", c.EndpointAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
}

func TestLoadConfig_FlagsWinOverEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("OSP_SERVER_ENDPOINT_ADDR", ":7000")
	t.Setenv("OSP_SERVER_SECRET_KEY", "from-env")
	os.Args = []string{"testbin", "-a", ":9000"}

	c := LoadConfig()

	assert.Equal(t, ":9000", c.EndpointAddr)
	assert.Equal(t, "from-env", c.SecretKey)
}

func TestS3Enabled(t *testing.T) {
	c := &Config{S3Bucket: "media"}
	assert.True(t, c.S3Enabled())
}
