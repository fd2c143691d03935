package cmd

import (
	"errors"
	"fmt"

	"github.com/networktocode/ntc-tesuto/internal/config"
	"github.com/networktocode/ntc-tesuto/internal/docker"
	apperrors "github.com/networktocode/ntc-tesuto/internal/errors"
	"github.com/networktocode/ntc-tesuto/internal/sanitize"
	"github.com/networktocode/ntc-tesuto/internal/tesuto"
)

// errNoToken mirrors the guidance the original tooling printed when invoked
// without a credential.
var errNoToken = errors.New("no Tesuto API token has been provided; specify a token with the " +
	"--token parameter, or by setting the TESUTO_API_TOKEN environment variable")

// validateConfigOrExit fails a command fast when configuration did not load.
func validateConfigOrExit(cfg *config.Config, commandName string) error {
	if cfg != nil {
		return nil
	}

	err := GetConfigLoadError()
	if err == nil {
		err = config.Err
	}
	return &apperrors.ConfigurationError{
		ConfigPath: cfgFile,
		Err:        fmt.Errorf("%q requires a valid configuration: %w", commandName, err),
	}
}

// resolveToken returns the API token, preferring the --token flag over the
// TESUTO_API_TOKEN environment variable and the config file (both of which
// land in cfg.Tesuto.APIToken). The value is treated as opaque; no format
// validation happens here.
func resolveToken(cfg *config.Config) (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}
	if cfg.Tesuto.APIToken != "" {
		return cfg.Tesuto.APIToken, nil
	}
	return "", errNoToken
}

// newTesutoClient builds an API client for the configured endpoint. The
// token is returned alongside so callers can redact it from any output.
func newTesutoClient(cfg *config.Config) (tesuto.Client, string, error) {
	token, err := resolveToken(cfg)
	if err != nil {
		return nil, "", err
	}
	return tesuto.NewClient(cfg.Tesuto.BaseURL, token), token, nil
}

// newDockerClient connects to the configured Docker daemon.
func newDockerClient(cfg *config.Config) (docker.Client, error) {
	client, err := docker.NewClient(cfg.Docker.SocketPath)
	if err != nil {
		return nil, &apperrors.DockerOperationError{
			SocketPath: cfg.Docker.SocketPath,
			Operation:  "connect",
			Err:        err,
		}
	}
	return client, nil
}

// redactedError strips the token from an error before it reaches the
// operator's terminal. The credential must never be printed or logged.
func redactedError(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	redacted := sanitize.Redact(err.Error(), token)
	if redacted == err.Error() {
		return err
	}
	return errors.New(redacted)
}
