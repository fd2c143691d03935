package docker

import "errors"

// Common errors
var (
	ErrConnectionFailed = errors.New("docker connection failed")
	// ErrNoContainer indicates the named container has not been created.
	ErrNoContainer = errors.New("no such container")
	// ErrContainerExists indicates a create collided with an existing container.
	ErrContainerExists = errors.New("container already exists")
	// ErrNoImage indicates the named image is not present on the daemon.
	ErrNoImage = errors.New("no such image")
)

// ContainerState is a snapshot of the named container as reported by the daemon
type ContainerState struct {
	ID      string
	Name    string
	Image   string
	Running bool
	Status  string // created, running, exited, etc.
}

// BuildOptions describes an image build request
type BuildOptions struct {
	ContextDir string // Build context directory
	Dockerfile string // Path of the Dockerfile relative to the context
	ImageRef   string // Target name:tag, replaces any existing image with the same ref
}

// CreateOptions describes a container create request.
// Env entries are injected at creation time only; the daemon holds them for
// the container's lifetime and they are never written to the image.
type CreateOptions struct {
	Name     string
	ImageRef string
	Env      []string // KEY=value pairs
}
