package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/networktocode/ntc-tesuto/internal/docker"
)

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Manage the ntc-tesuto container",
	Long: `Container subcommands manage the single named container instance (default
ntc-tesuto-container) that wraps the menu session.

"init" is the one-time creation step: it injects the API token into the
container's environment, so later "run" invocations never ask for the token
again. The token lives exactly as long as the container; recreating the
container means resupplying it.`,
}

var containerInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the container and attach to it",
	Long: `Init creates the named container from the built image, injecting the API
token as the TESUTO_API_TOKEN environment variable, then starts it and
attaches your terminal to the menu session.

Creation fails if the container already exists (remove it first) or if the
image has not been built. The token is bound at creation time only and is
never written to the image.`,
	Example: `  # One-time creation, token on the command line
  ntc-tesuto container init --token xxxx

  # Token from the environment
  TESUTO_API_TOKEN=xxxx ntc-tesuto container init`,
	RunE: runContainerInit,
}

var containerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the existing container and attach to it",
	Long: `Run resumes the previously created container and attaches your terminal to
it. The token injected at creation time is still in place, so none is
required here.

Fails if the container has never been created (use "container init").`,
	Example: `  # Reattach to the menu session
  ntc-tesuto container run`,
	RunE: runContainerRun,
}

var containerRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Stop and delete the container",
	Long: `Remove stops the named container (a no-op when it is already stopped) and
deletes it, discarding the injected token with it.`,
	Example: `  # Tear down the container
  ntc-tesuto container remove`,
	RunE: runContainerRemove,
}

func runContainerInit(cmd *cobra.Command, _ []string) error {
	cfg = GetConfig()
	if err := validateConfigOrExit(cfg, "container init"); err != nil {
		return err
	}

	token, err := resolveToken(cfg)
	if err != nil {
		return err
	}

	client, err := newDockerClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close() // nolint:errcheck // Close error not actionable in defer context

	ctx := cmd.Context()
	name := cfg.Harness.ContainerName

	// Name-collision pre-check for a friendlier message than the daemon's 409
	if _, err := client.ContainerState(ctx, name); err == nil {
		return fmt.Errorf("container %s already exists; remove it with 'container remove' before creating a new one", name)
	} else if !errors.Is(err, docker.ErrNoContainer) {
		return redactedError(err, token)
	}

	id, err := client.CreateContainer(ctx, docker.CreateOptions{
		Name:     name,
		ImageRef: cfg.Harness.ImageRef(),
		Env:      []string{"TESUTO_API_TOKEN=" + token},
	})
	if err != nil {
		return redactedError(err, token)
	}

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Created container %s (%.12s)\n", name, id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🚀 Starting %s...\n", name)

	if err := client.StartContainer(ctx, name); err != nil {
		return redactedError(err, token)
	}
	return redactedError(client.AttachInteractive(ctx, name, cfg.Harness.StopTimeout), token)
}

func runContainerRun(cmd *cobra.Command, _ []string) error {
	cfg = GetConfig()
	if err := validateConfigOrExit(cfg, "container run"); err != nil {
		return err
	}

	client, err := newDockerClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close() // nolint:errcheck // Close error not actionable in defer context

	ctx := cmd.Context()
	name := cfg.Harness.ContainerName

	if err := client.StartContainer(ctx, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🔌 Attaching to %s...\n", name)
	return client.AttachInteractive(ctx, name, cfg.Harness.StopTimeout)
}

func runContainerRemove(cmd *cobra.Command, _ []string) error {
	cfg = GetConfig()
	if err := validateConfigOrExit(cfg, "container remove"); err != nil {
		return err
	}

	client, err := newDockerClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close() // nolint:errcheck // Close error not actionable in defer context

	ctx := cmd.Context()
	name := cfg.Harness.ContainerName

	if err := client.StopContainer(ctx, name, cfg.Harness.StopTimeout); err != nil {
		return err
	}
	if err := client.RemoveContainer(ctx, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Removed container %s\n", name)
	return nil
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(containerCmd)
	containerCmd.AddCommand(containerInitCmd)
	containerCmd.AddCommand(containerRunCmd)
	containerCmd.AddCommand(containerRemoveCmd)
}
