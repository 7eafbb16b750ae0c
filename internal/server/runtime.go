package server

import (
	"context"
	"errors"
	"io"

	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

// ErrNotFound reports that no container with the requested name exists.
var ErrNotFound = errors.New("container not found")

// ContainerSpec carries everything needed to create one container.
type ContainerSpec struct {
	Name   string
	Image  string
	Env    []string
	Labels map[string]string
	// GamePort is the fixed service port inside the container; HostPort binds
	// it on the host. Zero HostPort means no binding.
	GamePort int
	HostPort int
	Mounts   []MountSpec
	// ShareNetNS names a container whose network namespace this one joins.
	ShareNetNS string
}

// MountSpec is one host bind mount.
type MountSpec struct {
	Source   string
	Target   string
	ReadOnly bool
}

// ContainerInfo is the subset of container state the manager acts on.
type ContainerInfo struct {
	ID       string
	Name     string
	State    string
	Running  bool
	Health   string
	Image    string
	HostPort string
	Labels   map[string]string
}

// Runtime is the container-engine surface the manager drives. Production code
// uses the Docker runtime; tests substitute a fake.
type Runtime interface {
	EnsureImage(ctx context.Context, ref string) error
	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string, timeoutSeconds int) error
	KillContainer(ctx context.Context, id string) error
	RestartContainer(ctx context.Context, id string) error
	RemoveContainer(ctx context.Context, id string, force bool) error
	// InspectByName resolves a container directly by name. Returns ErrNotFound
	// when no such container exists.
	InspectByName(ctx context.Context, name string) (*ContainerInfo, error)
	ListByLabel(ctx context.Context, label string) ([]ContainerInfo, error)
	ContainerLogs(ctx context.Context, id string, opts interfaces.LogOptions) (io.ReadCloser, error)
	// QueryHealth asks the engine CLI for the health-check status field,
	// captured and trimmed.
	QueryHealth(ctx context.Context, name string) (string, error)
	// AttachConsole runs a command inside the container with the calling
	// process's standard streams passed through, blocking until it exits.
	AttachConsole(ctx context.Context, name string, cmd ...string) error
	// ExecCapture runs a command inside the container and returns its combined
	// output.
	ExecCapture(ctx context.Context, name string, cmd ...string) (string, error)
	Close() error
}
