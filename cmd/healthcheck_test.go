package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheckCommand(t *testing.T) {
	env := newTestEnv(t, "super-token", "super_admin")

	out, _, err := env.run("healthcheck", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "Credential store opened")
	assert.Contains(t, out, "Stored keys: 2")
	assert.Contains(t, out, "Routed to the super-admin console")
	assert.Contains(t, out, "Backend reachable")
	assert.Contains(t, out, "Health check passed")
}

func TestHealthcheckCommand_BackendDown(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.fake.Server.Close()

	out, _, err := env.run("healthcheck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 check(s) did not pass")
	assert.Contains(t, out, "Backend unreachable")
}

func TestHealthcheckCommand_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t, "", "")

	out, _, err := env.run("--store", env.home, "healthcheck")
	require.Error(t, err)
	assert.Contains(t, out, "Credential store unavailable")
	assert.Contains(t, out, "Routed to the sign-in console")
}

func TestHealthcheckCommand_Ephemeral(t *testing.T) {
	env := newTestEnv(t, "", "")

	out, _, err := env.run("--ephemeral", "healthcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "Ephemeral mode")
}

func TestHealthcheckCommandFlags(t *testing.T) {
	env := newTestEnv(t, "", "")
	cmd := newHealthcheckCmd(&console{})
	assert.NotNil(t, cmd.Flag("detailed"))

	out, _, err := env.run("healthcheck", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend reachability")
}
