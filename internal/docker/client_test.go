package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// mockAPI implements apiClient for testing. Each operation can be primed
// with an error; create/build calls record their arguments.
type mockAPI struct {
	pingErr    error
	buildErr   error
	createErr  error
	inspectErr error
	startErr   error
	stopErr    error
	removeErr  error
	imageErr   error

	buildOutput   string
	buildOptions  build.ImageBuildOptions
	createdConfig *container.Config
	createdName   string
	inspect       container.InspectResponse
	stopped       []string
	removed       []string
	removedImages []string
}

func (m *mockAPI) Ping(_ context.Context) (types.Ping, error) {
	return types.Ping{}, m.pingErr
}

func (m *mockAPI) Close() error { return nil }

func (m *mockAPI) ImageBuild(_ context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error) {
	if m.buildErr != nil {
		return build.ImageBuildResponse{}, m.buildErr
	}
	// Drain the tar stream like the daemon would
	_, _ = io.Copy(io.Discard, buildContext)
	m.buildOptions = options
	return build.ImageBuildResponse{
		Body: io.NopCloser(strings.NewReader(m.buildOutput)),
	}, nil
}

func (m *mockAPI) ImageRemove(_ context.Context, imageRef string, _ image.RemoveOptions) ([]image.DeleteResponse, error) {
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	m.removedImages = append(m.removedImages, imageRef)
	return []image.DeleteResponse{{Deleted: imageRef}}, nil
}

func (m *mockAPI) ContainerCreate(_ context.Context, config *container.Config, _ *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, containerName string) (container.CreateResponse, error) {
	if m.createErr != nil {
		return container.CreateResponse{}, m.createErr
	}
	m.createdConfig = config
	m.createdName = containerName
	return container.CreateResponse{ID: "abc123def456"}, nil
}

func (m *mockAPI) ContainerInspect(_ context.Context, _ string) (container.InspectResponse, error) {
	if m.inspectErr != nil {
		return container.InspectResponse{}, m.inspectErr
	}
	return m.inspect, nil
}

func (m *mockAPI) ContainerStart(_ context.Context, _ string, _ container.StartOptions) error {
	return m.startErr
}

func (m *mockAPI) ContainerStop(_ context.Context, containerID string, _ container.StopOptions) error {
	if m.stopErr != nil {
		return m.stopErr
	}
	m.stopped = append(m.stopped, containerID)
	return nil
}

func (m *mockAPI) ContainerRemove(_ context.Context, containerID string, _ container.RemoveOptions) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, containerID)
	return nil
}

func (m *mockAPI) ContainerAttach(_ context.Context, _ string, _ container.AttachOptions) (types.HijackedResponse, error) {
	return types.HijackedResponse{}, errors.New("not implemented in mock")
}

func (m *mockAPI) ContainerResize(_ context.Context, _ string, _ container.ResizeOptions) error {
	return nil
}

func (m *mockAPI) ContainerWait(_ context.Context, _ string, _ container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	result := make(chan container.WaitResponse)
	errs := make(chan error)
	return result, errs
}

// writeBuildContext creates a minimal build context directory.
func writeBuildContext(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dockerfile := "FROM alpine:3.22\nCMD [\"true\"]\n"
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(dockerfile), 0o600); err != nil {
		t.Fatalf("Failed to write Dockerfile: %v", err)
	}
	return dir
}

func TestClient_BuildImage(t *testing.T) {
	tests := []struct {
		name        string
		buildOutput string
		buildErr    error
		expectError string
		expectOut   string
	}{
		{
			name:        "successful build streams output",
			buildOutput: `{"stream":"Step 1/2 : FROM alpine\n"}` + "\n" + `{"stream":"Successfully built\n"}`,
			expectOut:   "Step 1/2 : FROM alpine\nSuccessfully built\n",
		},
		{
			name:        "daemon error detail aborts build",
			buildOutput: `{"stream":"Step 1/2 : FROM alpine\n"}` + "\n" + `{"errorDetail":{"code":1,"message":"unresolvable dependency: consolemenu"}}`,
			expectError: "unresolvable dependency",
		},
		{
			name:        "daemon rejects build request",
			buildErr:    errors.New("dockerfile parse error"),
			expectError: "failed to build image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAPI{buildOutput: tt.buildOutput, buildErr: tt.buildErr}
			client := NewClientWithAPI(mock)

			var out strings.Builder
			err := client.BuildImage(context.Background(), BuildOptions{
				ContextDir: writeBuildContext(t),
				Dockerfile: "Dockerfile",
				ImageRef:   "ntc-tesuto:latest",
			}, &out)

			if tt.expectError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectError) {
					t.Fatalf("Expected error containing %q, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.String() != tt.expectOut {
				t.Errorf("Expected output %q, got %q", tt.expectOut, out.String())
			}
			if len(mock.buildOptions.Tags) != 1 || mock.buildOptions.Tags[0] != "ntc-tesuto:latest" {
				t.Errorf("Expected tag ntc-tesuto:latest, got %v", mock.buildOptions.Tags)
			}
		})
	}
}

func TestClient_CreateContainer(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		expectErr error
	}{
		{
			name: "create injects env and tty",
		},
		{
			name:      "name collision",
			createErr: fmt.Errorf("wrapped: %w", cerrdefs.ErrConflict),
			expectErr: ErrContainerExists,
		},
		{
			name:      "image missing",
			createErr: fmt.Errorf("wrapped: %w", cerrdefs.ErrNotFound),
			expectErr: ErrNoImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAPI{createErr: tt.createErr}
			client := NewClientWithAPI(mock)

			id, err := client.CreateContainer(context.Background(), CreateOptions{
				Name:     "ntc-tesuto-container",
				ImageRef: "ntc-tesuto:latest",
				Env:      []string{"TESUTO_API_TOKEN=abc123"},
			})

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("Expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if id != "abc123def456" {
				t.Errorf("Expected container ID abc123def456, got %s", id)
			}
			if mock.createdName != "ntc-tesuto-container" {
				t.Errorf("Expected container name ntc-tesuto-container, got %s", mock.createdName)
			}

			cfg := mock.createdConfig
			if cfg.Image != "ntc-tesuto:latest" {
				t.Errorf("Expected image ntc-tesuto:latest, got %s", cfg.Image)
			}
			if len(cfg.Env) != 1 || cfg.Env[0] != "TESUTO_API_TOKEN=abc123" {
				t.Errorf("Expected exactly the token env entry, got %v", cfg.Env)
			}
			if !cfg.Tty || !cfg.OpenStdin || !cfg.AttachStdin {
				t.Errorf("Expected interactive TTY config, got %+v", cfg)
			}
		})
	}
}

func TestClient_ContainerState(t *testing.T) {
	tests := []struct {
		name       string
		inspectErr error
		inspect    container.InspectResponse
		expectErr  error
		running    bool
	}{
		{
			name: "running container",
			inspect: container.InspectResponse{
				ContainerJSONBase: &container.ContainerJSONBase{
					ID:    "abc123",
					Name:  "/ntc-tesuto-container",
					State: &container.State{Running: true, Status: "running"},
				},
				Config: &container.Config{Image: "ntc-tesuto:latest"},
			},
			running: true,
		},
		{
			name:       "never created",
			inspectErr: fmt.Errorf("wrapped: %w", cerrdefs.ErrNotFound),
			expectErr:  ErrNoContainer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAPI{inspect: tt.inspect, inspectErr: tt.inspectErr}
			client := NewClientWithAPI(mock)

			state, err := client.ContainerState(context.Background(), "ntc-tesuto-container")

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("Expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if state.Name != "ntc-tesuto-container" {
				t.Errorf("Expected leading slash stripped, got %s", state.Name)
			}
			if state.Running != tt.running {
				t.Errorf("Expected running=%t, got %t", tt.running, state.Running)
			}
			if state.Image != "ntc-tesuto:latest" {
				t.Errorf("Unexpected image %s", state.Image)
			}
		})
	}
}

func TestClient_StartContainer(t *testing.T) {
	mock := &mockAPI{startErr: fmt.Errorf("wrapped: %w", cerrdefs.ErrNotFound)}
	client := NewClientWithAPI(mock)

	err := client.StartContainer(context.Background(), "ntc-tesuto-container")
	if !errors.Is(err, ErrNoContainer) {
		t.Fatalf("Expected ErrNoContainer, got %v", err)
	}
	if !strings.Contains(err.Error(), "container init") {
		t.Errorf("Expected remediation hint in error, got %v", err)
	}
}

func TestClient_StopAndRemoveContainer(t *testing.T) {
	mock := &mockAPI{}
	client := NewClientWithAPI(mock)
	ctx := context.Background()

	if err := client.StopContainer(ctx, "ntc-tesuto-container", 10); err != nil {
		t.Fatalf("Unexpected stop error: %v", err)
	}
	if err := client.RemoveContainer(ctx, "ntc-tesuto-container"); err != nil {
		t.Fatalf("Unexpected remove error: %v", err)
	}

	if len(mock.stopped) != 1 || mock.stopped[0] != "ntc-tesuto-container" {
		t.Errorf("Expected one stop call, got %v", mock.stopped)
	}
	if len(mock.removed) != 1 || mock.removed[0] != "ntc-tesuto-container" {
		t.Errorf("Expected one remove call, got %v", mock.removed)
	}
}

func TestClient_RemoveContainer_NotFound(t *testing.T) {
	mock := &mockAPI{removeErr: fmt.Errorf("wrapped: %w", cerrdefs.ErrNotFound)}
	client := NewClientWithAPI(mock)

	err := client.RemoveContainer(context.Background(), "ntc-tesuto-container")
	if !errors.Is(err, ErrNoContainer) {
		t.Fatalf("Expected ErrNoContainer, got %v", err)
	}
}

func TestClient_RemoveImage(t *testing.T) {
	tests := []struct {
		name      string
		imageErr  error
		expectErr error
		expectMsg string
	}{
		{
			name: "image removed",
		},
		{
			name:      "image missing",
			imageErr:  fmt.Errorf("wrapped: %w", cerrdefs.ErrNotFound),
			expectErr: ErrNoImage,
		},
		{
			name:      "image in use by container",
			imageErr:  fmt.Errorf("wrapped: %w", cerrdefs.ErrConflict),
			expectMsg: "remove the container first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAPI{imageErr: tt.imageErr}
			client := NewClientWithAPI(mock)

			err := client.RemoveImage(context.Background(), "ntc-tesuto:latest")

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("Expected %v, got %v", tt.expectErr, err)
				}
				return
			}
			if tt.expectMsg != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectMsg) {
					t.Fatalf("Expected error containing %q, got %v", tt.expectMsg, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(mock.removedImages) != 1 || mock.removedImages[0] != "ntc-tesuto:latest" {
				t.Errorf("Expected image removal call, got %v", mock.removedImages)
			}
		})
	}
}

func TestClient_Ping(t *testing.T) {
	mock := &mockAPI{pingErr: ErrConnectionFailed}
	client := NewClientWithAPI(mock)

	if err := client.Ping(context.Background()); !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("Expected ErrConnectionFailed, got %v", err)
	}

	mock.pingErr = nil
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
