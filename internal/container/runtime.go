// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs external conversion tools either directly on the
// host or inside a docker/podman image, behind one Runtime interface.
package container

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// NameHost selects the host runtime; NameAuto picks the first available.
	NameHost = "host"
	NameAuto = "auto"
)

// Runtime provides tool operations: checking availability, verifying
// images, and running a tool with piped stdin and stdout.
type Runtime interface {
	// Name returns the runtime name ("host", "docker", or "podman").
	Name() string

	// Available reports whether the runtime is operational.
	Available() bool

	// ImageExists checks whether the named image (or, for the host runtime,
	// the named binary) is present. Returns nil when found.
	ImageExists(image string) error

	// Run executes image with args, piping stdin and stdout. Anything the
	// tool writes to stderr is included in the returned error.
	Run(image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// runtime implements Runtime for a container binary. Docker and Podman
// differ only in binary name and the image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := make([]string, 0, len(r.imageCheckCmd)+1)
	args = append(args, r.imageCheckCmd...)
	args = append(args, image)

	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	full := append([]string{"run", "--rm", "-i", image}, args...)
	var stderr bytes.Buffer
	if err := r.exec.RunPiped(r.bin, full, stdin, stdout, &stderr); err != nil {
		return withStderr(fmt.Errorf("running %s container %s: %w", r.bin, image, err), &stderr)
	}
	return nil
}

// hostRuntime runs the tool binary directly; the image name is the binary.
type hostRuntime struct {
	exec executor
}

func (h *hostRuntime) Name() string { return NameHost }

func (h *hostRuntime) Available() bool { return true }

func (h *hostRuntime) ImageExists(image string) error {
	if _, err := h.exec.LookPath(image); err != nil {
		return fmt.Errorf("binary %s not found on PATH: %w", image, err)
	}
	return nil
}

func (h *hostRuntime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	if err := h.exec.RunPiped(image, args, stdin, stdout, &stderr); err != nil {
		return withStderr(fmt.Errorf("running %s: %w", image, err), &stderr)
	}
	return nil
}

func withStderr(err error, stderr *bytes.Buffer) error {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          exec,
	}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		exec:          exec,
	}
}

var defaultExec = &osExecutor{}

// Host returns the runtime that runs binaries directly.
func Host() Runtime {
	return &hostRuntime{exec: defaultExec}
}

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(defaultExec)
}

func detectRuntime(exec executor) (Runtime, error) {
	docker := newDockerRuntime(exec)
	if docker.Available() {
		return docker, nil
	}

	podman := newPodmanRuntime(exec)
	if podman.Available() {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}

// Select returns the runtime named by name. For "auto" (or empty) the host
// runtime is used when hostBinary is on PATH, otherwise a container runtime
// is detected.
func Select(name, hostBinary string) (Runtime, error) {
	return selectRuntime(defaultExec, name, hostBinary)
}

func selectRuntime(exec executor, name, hostBinary string) (Runtime, error) {
	switch name {
	case NameHost:
		return &hostRuntime{exec: exec}, nil
	case binDocker, binPodman:
		var rt *runtime
		if name == binDocker {
			rt = newDockerRuntime(exec)
		} else {
			rt = newPodmanRuntime(exec)
		}
		if !rt.Available() {
			return nil, fmt.Errorf("container runtime %s is not available", name)
		}
		return rt, nil
	case NameAuto, "":
		host := &hostRuntime{exec: exec}
		if host.ImageExists(hostBinary) == nil {
			return host, nil
		}
		return detectRuntime(exec)
	}
	return nil, fmt.Errorf("unknown runtime %q: use auto, host, docker, or podman", name)
}
