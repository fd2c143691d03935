package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Registration(t *testing.T) {
	expected := []string{"menu", "emulation", "device", "image", "container", "init"}

	registered := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		registered[sub.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "expected subcommand %q to be registered", name)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"config", "verbose", "token"} {
		assert.NotNil(t, flags.Lookup(name), "expected persistent flag %q", name)
	}

	token := flags.Lookup("token")
	require.NotNil(t, token)
	assert.Equal(t, "t", token.Shorthand)
	assert.Contains(t, token.Usage, "TESUTO_API_TOKEN")
}

func TestEmulationCommand_Subcommands(t *testing.T) {
	emulation := findCommand(t, "emulation")
	assertSubcommands(t, emulation, "list", "start", "suspend", "delete")
}

func TestDeviceCommand_Subcommands(t *testing.T) {
	device := findCommand(t, "device")
	assertSubcommands(t, device, "list", "enable", "disable")
}

func TestImageCommand_Subcommands(t *testing.T) {
	image := findCommand(t, "image")
	assertSubcommands(t, image, "build", "remove")
}

func TestContainerCommand_Subcommands(t *testing.T) {
	container := findCommand(t, "container")
	assertSubcommands(t, container, "init", "run", "remove")
}

func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, sub := range rootCmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	t.Fatalf("subcommand %q not registered", name)
	return nil
}

func assertSubcommands(t *testing.T, parent *cobra.Command, names ...string) {
	t.Helper()
	registered := make(map[string]bool)
	for _, sub := range parent.Commands() {
		registered[sub.Name()] = true
	}
	for _, name := range names {
		assert.True(t, registered[name], "expected %q under %q", name, parent.Name())
	}
}
