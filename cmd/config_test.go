package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t, "", "")

	out, _, err := env.run("config", "init")
	require.NoError(t, err)
	path := filepath.Join(env.home, "config.yaml")
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_url:")
	assert.Contains(t, string(data), "store_timeout: 5s")

	_, _, err = env.run("config", "init")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)

	_, _, err = env.run("config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigInit_ExplicitPath(t *testing.T) {
	env := newTestEnv(t, "", "")
	path := filepath.Join(t.TempDir(), "nested", "desk.yaml")

	_, _, err := env.run("config", "init", path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t, "", "")
	require.NoError(t, os.WriteFile(filepath.Join(env.home, "config.yaml"), []byte("retries: 5\nhttp_timeout: 10s\n"), 0600))

	out, _, err := env.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+filepath.Join(env.home, "config.yaml"))
	assert.Contains(t, out, "retries: 0", "flags override the file")
	assert.Contains(t, out, "http_timeout: 10s")
	assert.Contains(t, out, "api_url: "+env.fake.URL())
}

func TestConfig_InvalidValue(t *testing.T) {
	env := newTestEnv(t, "", "")

	_, _, err := env.run("--http-timeout", "-1s", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_timeout")
}
