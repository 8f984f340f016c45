package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"login", "logout", "whoami", "workspaces", "agents", "personas", "leads", "chat",
	} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestWorkspacesSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range workspacesCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["switch"])
	assert.True(t, names["create"])
}

func TestAgentsCreateFlags(t *testing.T) {
	model := agentsCreateCmd.Flags().Lookup("model")
	require.NotNil(t, model)
	assert.Equal(t, "gpt-4o-mini", model.DefValue)

	persona := agentsCreateCmd.Flags().Lookup("persona")
	require.NotNil(t, persona)
	assert.Equal(t, "", persona.DefValue)
}

func TestChatRequiresArgs(t *testing.T) {
	err := chatCmd.Args(chatCmd, []string{"agent-1"})
	assert.Error(t, err)

	err = chatCmd.Args(chatCmd, []string{"agent-1", "hello"})
	assert.NoError(t, err)
}
