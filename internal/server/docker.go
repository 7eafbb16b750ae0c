package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/minecraft"
)

// dockerRuntime drives a local Docker engine through the SDK, falling back to
// the docker CLI for the two operations that attach to the calling process.
type dockerRuntime struct {
	cli *client.Client
}

// NewDockerRuntime connects to the Docker daemon using the environment
// configuration (DOCKER_HOST and friends).
func NewDockerRuntime() (Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		host := os.Getenv("DOCKER_HOST")
		if host == "" {
			host = "unix:///var/run/docker.sock (default)"
		}

		return nil, errs.NewRuntimeError(
			fmt.Sprintf(
				"Failed to create Docker client.\n\n"+
					"Troubleshooting tips:\n"+
					"  • Ensure the Docker daemon is running.\n"+
					"  • Check your Docker socket: DOCKER_HOST=%s\n"+
					"  • On macOS with Docker Desktop, the socket may live at:\n"+
					"       ~/Library/Containers/com.docker.docker/Data/docker-cli.sock\n"+
					"    Export it manually:\n"+
					"       export DOCKER_HOST=unix://$HOME/Library/Containers/com.docker.docker/Data/docker-cli.sock\n\n"+
					"Original error: %v",
				host, err,
			),
			err,
		)
	}

	return &dockerRuntime{cli: cli}, nil
}

func gameTCPPort() nat.Port {
	return nat.Port(fmt.Sprintf("%d/tcp", minecraft.GamePort))
}

func (d *dockerRuntime) EnsureImage(ctx context.Context, ref string) error {
	_, _, err := d.cli.ImageInspectWithRaw(ctx, ref)
	if err == nil {
		return nil
	}

	reader, err := d.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	// The pull completes when the progress stream drains.
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (d *dockerRuntime) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	config := &container.Config{
		Image:  spec.Image,
		Env:    spec.Env,
		Labels: spec.Labels,
	}

	hostConfig := &container.HostConfig{}
	if spec.HostPort > 0 {
		servicePort := nat.Port(fmt.Sprintf("%d/tcp", spec.GamePort))
		config.ExposedPorts = nat.PortSet{servicePort: struct{}{}}
		hostConfig.PortBindings = nat.PortMap{
			servicePort: []nat.PortBinding{
				{
					HostIP:   "0.0.0.0",
					HostPort: strconv.Itoa(spec.HostPort),
				},
			},
		}
	}
	for _, m := range spec.Mounts {
		hostConfig.Mounts = append(hostConfig.Mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}
	if spec.ShareNetNS != "" {
		hostConfig.NetworkMode = container.NetworkMode("container:" + spec.ShareNetNS)
	}

	resp, err := d.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (d *dockerRuntime) StartContainer(ctx context.Context, id string) error {
	return d.cli.ContainerStart(ctx, id, container.StartOptions{})
}

func (d *dockerRuntime) StopContainer(ctx context.Context, id string, timeoutSeconds int) error {
	return d.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeoutSeconds})
}

func (d *dockerRuntime) KillContainer(ctx context.Context, id string) error {
	return d.cli.ContainerKill(ctx, id, "SIGKILL")
}

func (d *dockerRuntime) RestartContainer(ctx context.Context, id string) error {
	return d.cli.ContainerRestart(ctx, id, container.StopOptions{})
}

func (d *dockerRuntime) RemoveContainer(ctx context.Context, id string, force bool) error {
	return d.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: force})
}

func (d *dockerRuntime) InspectByName(ctx context.Context, name string) (*ContainerInfo, error) {
	resp, err := d.cli.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	info := &ContainerInfo{
		ID:   resp.ID,
		Name: strings.TrimPrefix(resp.Name, "/"),
	}
	if resp.Config != nil {
		info.Image = resp.Config.Image
		info.Labels = resp.Config.Labels
	}
	if resp.State != nil {
		info.State = string(resp.State.Status)
		info.Running = resp.State.Running
		if resp.State.Health != nil {
			info.Health = string(resp.State.Health.Status)
		}
	}
	if resp.NetworkSettings != nil {
		if bindings, ok := resp.NetworkSettings.Ports[gameTCPPort()]; ok && len(bindings) > 0 {
			info.HostPort = bindings[0].HostPort
		}
	}
	return info, nil
}

func (d *dockerRuntime) ListByLabel(ctx context.Context, label string) ([]ContainerInfo, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("label", label)

	containers, err := d.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, err
	}

	infos := make([]ContainerInfo, 0, len(containers))
	for _, ctr := range containers {
		info := ContainerInfo{
			ID:     ctr.ID,
			State:  string(ctr.State),
			Image:  ctr.Image,
			Labels: ctr.Labels,
			Health: healthFromStatus(ctr.Status),
		}
		if len(ctr.Names) > 0 {
			info.Name = strings.TrimPrefix(ctr.Names[0], "/")
		}
		info.Running = info.State == "running"
		for _, p := range ctr.Ports {
			if int(p.PrivatePort) == minecraft.GamePort && p.PublicPort > 0 {
				info.HostPort = strconv.Itoa(int(p.PublicPort))
				break
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// healthFromStatus recovers the health state the list endpoint folds into its
// human-readable status text, e.g. "Up 5 minutes (healthy)". Containers
// without a health check carry no suffix and report empty.
func healthFromStatus(status string) string {
	switch {
	case strings.HasSuffix(status, "(healthy)"):
		return "healthy"
	case strings.HasSuffix(status, "(unhealthy)"):
		return "unhealthy"
	case strings.HasSuffix(status, "(health: starting)"):
		return "starting"
	}
	return ""
}

func (d *dockerRuntime) ContainerLogs(ctx context.Context, id string, opts interfaces.LogOptions) (io.ReadCloser, error) {
	tail := opts.Tail
	if tail == "" {
		tail = "all"
	}
	return d.cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     opts.Follow,
		Tail:       tail,
	})
}

func (d *dockerRuntime) QueryHealth(ctx context.Context, name string) (string, error) {
	out, err := exec.CommandContext(
		ctx,
		"docker", "container", "inspect", "-f", "{{ .State.Health.Status }}", name,
	).Output()
	if err != nil {
		return "", fmt.Errorf("docker container inspect %s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (d *dockerRuntime) AttachConsole(ctx context.Context, name string, cmd ...string) error {
	args := append([]string{"exec", "-i", name}, cmd...)
	c := exec.CommandContext(ctx, "docker", args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func (d *dockerRuntime) ExecCapture(ctx context.Context, name string, cmd ...string) (string, error) {
	args := append([]string{"exec", name}, cmd...)
	out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("docker exec %s: %w", name, err)
	}
	return string(out), nil
}

func (d *dockerRuntime) Close() error {
	return d.cli.Close()
}
