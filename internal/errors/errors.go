// Package apperrors provides domain-specific error types for the ntc-tesuto CLI.
// These error types include contextual information to aid debugging and error reporting.
package apperrors

import "fmt"

// ConfigurationError represents configuration-related errors.
// It includes the configuration file path and specific key that caused the error.
type ConfigurationError struct {
	ConfigPath string // Path to the configuration file
	Key        string // Configuration key that caused the error
	Err        error  // Underlying error
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error in %s (key: %s): %v", e.ConfigPath, e.Key, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.ConfigPath, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DockerOperationError represents Docker connection and lifecycle errors.
// It includes the socket path and the operation that failed.
type DockerOperationError struct {
	SocketPath string // Docker socket path (e.g., /var/run/docker.sock)
	Operation  string // Operation that failed (e.g., "BuildImage", "CreateContainer")
	Err        error  // Underlying error
}

// Error implements the error interface for DockerOperationError.
func (e *DockerOperationError) Error() string {
	if e.SocketPath != "" {
		return fmt.Sprintf("docker %s failed (socket: %s): %v", e.Operation, e.SocketPath, e.Err)
	}
	return fmt.Sprintf("docker %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *DockerOperationError) Unwrap() error {
	return e.Err
}

// TesutoAPIError represents Tesuto API request and response errors.
// It includes the API endpoint, HTTP status code, and response details.
type TesutoAPIError struct {
	Endpoint     string // API endpoint URL
	StatusCode   int    // HTTP status code (0 if not applicable)
	ResponseBody string // Response body for debugging
	Err          error  // Underlying error
}

// Error implements the error interface for TesutoAPIError.
func (e *TesutoAPIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("Tesuto API error at %s (status: %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("Tesuto API error at %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *TesutoAPIError) Unwrap() error {
	return e.Err
}
