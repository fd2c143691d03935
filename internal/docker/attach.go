package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/moby/term"
)

// AttachInteractive wires the operator's terminal to the named container's
// TTY and blocks until the menu session ends. The local terminal is switched
// to raw mode for the duration so the container sees keystrokes directly,
// and is restored on return.
func (w *dockerClientWrapper) AttachInteractive(ctx context.Context, name string, stopTimeout int) error {
	// Register the wait before attaching so a fast-exiting container is not missed.
	waitResult, waitErr := w.api.ContainerWait(ctx, name, container.WaitConditionNotRunning)

	response, err := w.api.ContainerAttach(ctx, name, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNoContainer, name)
		}
		return fmt.Errorf("failed to attach to container %s: %w", name, err)
	}
	defer response.Close()

	inFd, inIsTerminal := term.GetFdInfo(os.Stdin)
	outFd, outIsTerminal := term.GetFdInfo(os.Stdout)

	if inIsTerminal {
		state, err := term.SetRawTerminal(inFd)
		if err != nil {
			return fmt.Errorf("failed to set terminal to raw mode: %w", err)
		}
		defer func() { _ = term.RestoreTerminal(inFd, state) }() // nolint:errcheck // best effort on teardown
	}

	if outIsTerminal {
		w.monitorTTYSize(ctx, name, outFd)
	}

	// Forward stdin to the container; CloseWrite signals EOF (Ctrl+D at the
	// top-level menu) without tearing down the output stream.
	go func() {
		_, _ = io.Copy(response.Conn, os.Stdin) // nolint:errcheck // session teardown races are benign
		_ = response.CloseWrite()               // nolint:errcheck // connection may already be gone
	}()

	// Forward container output to the operator
	go func() {
		_, _ = io.Copy(os.Stdout, response.Reader) // nolint:errcheck // session teardown races are benign
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-waitErr:
		if err != nil {
			return fmt.Errorf("failed to wait for container %s: %w", name, err)
		}
	case status := <-waitResult:
		fmt.Printf("\r\nContainer exited with status %d\r\n", status.StatusCode)
	case <-sigChan:
		fmt.Print("\r\nReceived signal, stopping container...\r\n")
		if err := w.api.ContainerStop(ctx, name, container.StopOptions{Timeout: &stopTimeout}); err != nil {
			return fmt.Errorf("failed to stop container %s after interrupt: %w", name, err)
		}
	}

	return nil
}

// resizeTTY pushes the current terminal dimensions to the container.
func (w *dockerClientWrapper) resizeTTY(ctx context.Context, name string, fd uintptr) error {
	size, err := term.GetWinsize(fd)
	if err != nil {
		return err
	}
	if size.Height == 0 && size.Width == 0 {
		return nil
	}

	return w.api.ContainerResize(ctx, name, container.ResizeOptions{
		Height: uint(size.Height),
		Width:  uint(size.Width),
	})
}

// monitorTTYSize keeps the container TTY in sync with the local terminal,
// resizing once up front and again on every SIGWINCH.
func (w *dockerClientWrapper) monitorTTYSize(ctx context.Context, name string, fd uintptr) {
	_ = w.resizeTTY(ctx, name, fd) // nolint:errcheck // retried on the next resize event

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(sigchan)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigchan:
				_ = w.resizeTTY(ctx, name, fd) // nolint:errcheck // transient failures self-correct
			}
		}
	}()
}
