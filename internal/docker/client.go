// Package docker manages the lifecycle of the single named image and
// container that wrap the Tesuto CLI. It issues imperative commands against
// the Docker daemon and relies on the daemon to enforce preconditions; no
// container state is tracked locally.
package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Client defines the interface for the container harness operations.
// All methods accept context.Context for cancellation and timeout support.
type Client interface {
	// Ping verifies the Docker daemon is accessible. Returns error if connection fails.
	Ping(ctx context.Context) error
	// Close closes the Docker client connection and releases resources.
	Close() error

	// BuildImage builds opts.ImageRef from the build context directory,
	// streaming daemon build output to out. An existing image with the same
	// ref is replaced; containers created from the prior image keep running
	// against their original snapshot. Build failures surface verbatim.
	BuildImage(ctx context.Context, opts BuildOptions, out io.Writer) error

	// ContainerState inspects the named container. Returns ErrNoContainer
	// if it has never been created (or was removed).
	ContainerState(ctx context.Context, name string) (*ContainerState, error)

	// CreateContainer creates the named container with an interactive TTY.
	// Returns ErrContainerExists on a name collision and ErrNoImage when the
	// image has not been built. The returned string is the container ID.
	CreateContainer(ctx context.Context, opts CreateOptions) (string, error)

	// StartContainer starts the named container. Starting an already-running
	// container is a no-op on the daemon side.
	StartContainer(ctx context.Context, name string) error

	// AttachInteractive attaches the operator's terminal to the named
	// container and blocks until the container exits or the operator
	// interrupts the session, in which case the container is stopped with
	// stopTimeout seconds of grace.
	AttachInteractive(ctx context.Context, name string, stopTimeout int) error

	// StopContainer stops the named container with stopTimeout seconds of
	// grace. Stopping an already-stopped container is a no-op.
	StopContainer(ctx context.Context, name string, stopTimeout int) error

	// RemoveContainer deletes the named container. Returns ErrNoContainer
	// if it does not exist.
	RemoveContainer(ctx context.Context, name string) error

	// RemoveImage deletes the named image. Returns ErrNoImage if it does not
	// exist; a container still referencing the image surfaces as a conflict.
	RemoveImage(ctx context.Context, imageRef string) error
}

// apiClient is the subset of the Docker SDK used by the harness, extracted
// so tests can substitute a mock daemon.
type apiClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
	ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	ImageRemove(ctx context.Context, imageRef string, options image.RemoveOptions) ([]image.DeleteResponse, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerAttach(ctx context.Context, containerID string, options container.AttachOptions) (types.HijackedResponse, error)
	ContainerResize(ctx context.Context, containerID string, options container.ResizeOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
}

// dockerClientWrapper wraps the Docker SDK client to implement our interface
type dockerClientWrapper struct {
	api        apiClient
	socketPath string
}

// Compile-time verification that dockerClientWrapper implements Client
var _ Client = (*dockerClientWrapper)(nil)

// NewClient connects to the Docker daemon at socketPath (or default if empty).
func NewClient(socketPath string) (Client, error) {
	opts := []client.Opt{
		client.WithAPIVersionNegotiation(),
	}

	// Add host option if socket path is specified
	if socketPath != "" {
		opts = append(opts, client.WithHost(socketPath))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client for socket %s: %w", socketPath, err)
	}

	return &dockerClientWrapper{api: cli, socketPath: socketPath}, nil
}

// NewClientWithAPI is used for testing with mock daemon implementations.
func NewClientWithAPI(api apiClient) Client {
	return &dockerClientWrapper{api: api}
}

func (w *dockerClientWrapper) Ping(ctx context.Context) error {
	_, err := w.api.Ping(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping Docker daemon at %s: %w", w.socketPath, err)
	}
	return nil
}

func (w *dockerClientWrapper) Close() error {
	return w.api.Close()
}

// buildMessage is one JSON line of the daemon's build output stream
type buildMessage struct {
	Stream      string `json:"stream"`
	ErrorDetail struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errorDetail"`
}

func (w *dockerClientWrapper) BuildImage(ctx context.Context, opts BuildOptions, out io.Writer) error {
	buildCtx, err := archive.TarWithOptions(opts.ContextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to create build context from %s: %w", opts.ContextDir, err)
	}
	defer func() { _ = buildCtx.Close() }() // nolint:errcheck // stream already consumed

	response, err := w.api.ImageBuild(ctx, buildCtx, build.ImageBuildOptions{
		Dockerfile: opts.Dockerfile,
		Tags:       []string{opts.ImageRef},
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image %s: %w", opts.ImageRef, err)
	}
	defer func() { _ = response.Body.Close() }() // nolint:errcheck // stream already consumed

	// The daemon reports build progress and failures as a JSON stream; a
	// message carrying errorDetail means the build aborted and no image was
	// produced.
	decoder := json.NewDecoder(response.Body)
	for decoder.More() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var msg buildMessage
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode build output for image %s: %w", opts.ImageRef, err)
		}

		if msg.ErrorDetail.Message != "" {
			return fmt.Errorf("build of image %s failed: %s", opts.ImageRef, msg.ErrorDetail.Message)
		}

		if msg.Stream != "" {
			_, _ = fmt.Fprint(out, msg.Stream) // nolint:errcheck // operator display only
		}
	}

	return nil
}

func (w *dockerClientWrapper) ContainerState(ctx context.Context, name string) (*ContainerState, error) {
	inspect, err := w.api.ContainerInspect(ctx, name)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoContainer, name)
		}
		return nil, fmt.Errorf("failed to inspect container %s: %w", name, err)
	}

	state := &ContainerState{
		ID:    inspect.ID,
		Name:  strings.TrimPrefix(inspect.Name, "/"),
		Image: inspect.Config.Image,
	}
	if inspect.State != nil {
		state.Running = inspect.State.Running
		state.Status = inspect.State.Status
	}
	return state, nil
}

func (w *dockerClientWrapper) CreateContainer(ctx context.Context, opts CreateOptions) (string, error) {
	response, err := w.api.ContainerCreate(ctx,
		&container.Config{
			Image:        opts.ImageRef,
			Env:          opts.Env,
			Tty:          true,
			OpenStdin:    true,
			AttachStdin:  true,
			AttachStdout: true,
			AttachStderr: true,
		},
		&container.HostConfig{},
		nil, nil, opts.Name)
	if err != nil {
		switch {
		case cerrdefs.IsConflict(err):
			return "", fmt.Errorf("%w: %s (remove it first with 'container remove')", ErrContainerExists, opts.Name)
		case cerrdefs.IsNotFound(err):
			return "", fmt.Errorf("%w: %s (build it first with 'image build')", ErrNoImage, opts.ImageRef)
		default:
			return "", fmt.Errorf("failed to create container %s from image %s: %w", opts.Name, opts.ImageRef, err)
		}
	}

	return response.ID, nil
}

func (w *dockerClientWrapper) StartContainer(ctx context.Context, name string) error {
	if err := w.api.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		if cerrdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s (create it first with 'container init')", ErrNoContainer, name)
		}
		return fmt.Errorf("failed to start container %s: %w", name, err)
	}
	return nil
}

func (w *dockerClientWrapper) StopContainer(ctx context.Context, name string, stopTimeout int) error {
	if err := w.api.ContainerStop(ctx, name, container.StopOptions{Timeout: &stopTimeout}); err != nil {
		if cerrdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNoContainer, name)
		}
		return fmt.Errorf("failed to stop container %s: %w", name, err)
	}
	return nil
}

func (w *dockerClientWrapper) RemoveContainer(ctx context.Context, name string) error {
	if err := w.api.ContainerRemove(ctx, name, container.RemoveOptions{}); err != nil {
		if cerrdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNoContainer, name)
		}
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}
	return nil
}

func (w *dockerClientWrapper) RemoveImage(ctx context.Context, imageRef string) error {
	_, err := w.api.ImageRemove(ctx, imageRef, image.RemoveOptions{PruneChildren: true})
	if err != nil {
		switch {
		case cerrdefs.IsNotFound(err):
			return fmt.Errorf("%w: %s", ErrNoImage, imageRef)
		case cerrdefs.IsConflict(err):
			return fmt.Errorf("image %s is still in use, remove the container first: %w", imageRef, err)
		default:
			return fmt.Errorf("failed to remove image %s: %w", imageRef, err)
		}
	}
	return nil
}
