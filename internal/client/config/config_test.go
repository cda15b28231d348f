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

	assert.Equal(t, "http://127.0.0.1:8080", c.AuthBaseURL)
	assert.Equal(t, DurableSQLite, c.DurableStore)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.NotEmpty(t, c.StateDir)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"auth_base_url": "https://json-auth.example",
		"core_base_url": "https://json-core.example",
	})
	t.Setenv(EnvAuthBaseURL, "https://env-auth.example")
	t.Setenv(EnvFileBaseURL, "")
	os.Args = []string{"reportcycle", "-c", path, "-app", "https://flag-app.example"}

	cfg := LoadConfig()

	assert.Equal(t, "https://env-auth.example", cfg.AuthBaseURL)
	assert.Equal(t, "https://json-core.example", cfg.CoreBaseURL)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.FileBaseURL)
	assert.Equal(t, "https://flag-app.example", cfg.AppBaseURL)
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.DurableStore = "etcd"
	assert.Error(t, c.Validate())

	c.LoadDefaults()
	c.RequestTimeout = 0
	assert.Error(t, c.Validate())
}

func TestDBPath(t *testing.T) {
	c := Config{StateDir: "/tmp/rc"}
	assert.Equal(t, "/tmp/rc/state.db", c.DBPath())
}
