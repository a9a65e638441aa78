package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/osp/internal/client/config"
)

func TestNewApp_OpensDatabaseAndWires(t *testing.T) {
	cfg := &config.Config{
		APIBaseURL:     "http://127.0.0.1:1",
		DatabasePath:   filepath.Join(t.TempDir(), "nested", "osp.db"),
		RequestTimeout: time.Second,
		RefreshTimeout: time.Second,
		LogLevel:       "error",
	}

	a, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.NotNil(t, a.authService)
	assert.NotNil(t, a.accountService)
	assert.NotNil(t, a.mediaService)
	assert.False(t, a.signedIn(context.Background()))
	assert.Equal(t, "(signin)", a.getStatus())
}

func TestApp_CloseWithoutDB(t *testing.T) {
	a := &App{}
	assert.NoError(t, a.Close())
}
