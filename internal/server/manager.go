package server

import (
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/kballard/go-shellquote"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/logging"
	"github.com/oitsjustjose/MC-Docker/internal/minecraft"
)

const (
	// LabelManaged marks containers this tool owns.
	LabelManaged = "mc-docker.managed"
	// LabelServer carries the server name on the primary container.
	LabelServer = "mc-docker.server"
	// LabelBackupFor carries the server name on the backup companion.
	LabelBackupFor = "mc-docker.backup-for"

	backupSuffix       = "-backup"
	stopTimeoutSeconds = 10
)

// Manager implements interfaces.ServerManager for one named server. It holds
// at most one primary container reference and one backup reference, both
// refreshed by direct name lookup before every operation.
type Manager struct {
	name    string
	runtime Runtime
	log     *logging.Logger

	container *ContainerInfo
	backup    *ContainerInfo
}

var _ interfaces.ServerManager = (*Manager)(nil)

// NewManager binds a manager to a server name, resolving any existing
// container reference up front.
func NewManager(ctx context.Context, name string, runtime Runtime, log *logging.Logger) (*Manager, error) {
	m := &Manager{
		name:    name,
		runtime: runtime,
		log:     log,
	}
	if err := m.refresh(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the bound server name.
func (m *Manager) Name() string {
	return m.name
}

// Container exposes the current primary reference, nil when none exists.
func (m *Manager) Container() *ContainerInfo {
	return m.container
}

func (m *Manager) refresh(ctx context.Context) error {
	info, err := m.runtime.InspectByName(ctx, m.name)
	switch {
	case err == nil:
		m.container = info
	case errors.Is(err, ErrNotFound):
		m.container = nil
	default:
		return errs.NewRuntimeError("failed to look up container "+m.name, err)
	}
	return nil
}

func (m *Manager) refreshBackup(ctx context.Context) error {
	info, err := m.runtime.InspectByName(ctx, m.name+backupSuffix)
	switch {
	case err == nil:
		m.backup = info
	case errors.Is(err, ErrNotFound):
		m.backup = nil
	default:
		return errs.NewRuntimeError("failed to look up backup container", err)
	}
	return nil
}

// Create provisions and starts a new server container from the given options.
func (m *Manager) Create(ctx context.Context, opts interfaces.ServerOptions) error {
	if err := minecraft.Validate(opts); err != nil {
		return err
	}
	if _, err := os.Stat(opts.Root); err == nil {
		m.log.Warn("Server root '%s' exists - there may be problems!", opts.Root)
	}

	ref := minecraft.Image(opts.Java)
	if err := m.runtime.EnsureImage(ctx, ref); err != nil {
		return errs.NewRuntimeError("failed to pull image "+ref, err)
	}

	id, err := m.runtime.CreateContainer(ctx, ContainerSpec{
		Name:  m.name,
		Image: ref,
		Env:   minecraft.EnvList(minecraft.BuildEnv(opts)),
		Labels: map[string]string{
			LabelManaged: "true",
			LabelServer:  m.name,
		},
		GamePort: minecraft.GamePort,
		HostPort: opts.Port,
		Mounts: []MountSpec{
			{Source: opts.Root, Target: minecraft.DataMount},
		},
	})
	if err != nil {
		return errs.NewRuntimeError("Failed to Create Server", err)
	}
	if err := m.runtime.StartContainer(ctx, id); err != nil {
		// A container that never started is not worth keeping around.
		_ = m.runtime.RemoveContainer(ctx, id, true)
		return errs.NewRuntimeError("Failed to Create Server", err)
	}

	if err := m.refresh(ctx); err != nil {
		return err
	}
	m.log.Success("Successfully Created Server")
	return nil
}

// CreateBackup starts the companion container that periodically archives the
// server's data directory. The primary lifecycle operations never touch it.
func (m *Manager) CreateBackup(ctx context.Context, opts interfaces.ServerOptions) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.container == nil {
		return errs.NewNotFoundError("no container named " + m.name)
	}
	if opts.Root == "" {
		return errs.NewValidationError("server root path is required")
	}

	backupDir := opts.BackupDir
	if backupDir == "" {
		backupDir = minecraft.DefaultBackupDir(opts.Root)
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return errs.NewGenericError("failed to create backup directory "+backupDir, err)
	}

	if err := m.runtime.EnsureImage(ctx, minecraft.BackupImage); err != nil {
		return errs.NewRuntimeError("failed to pull image "+minecraft.BackupImage, err)
	}

	id, err := m.runtime.CreateContainer(ctx, ContainerSpec{
		Name:  m.name + backupSuffix,
		Image: minecraft.BackupImage,
		Env:   minecraft.EnvList(minecraft.BuildBackupEnv(opts)),
		Labels: map[string]string{
			LabelManaged:   "true",
			LabelBackupFor: m.name,
		},
		Mounts: []MountSpec{
			{Source: opts.Root, Target: minecraft.DataMount, ReadOnly: true},
			{Source: backupDir, Target: minecraft.BackupMount},
		},
		// Sharing the server's network namespace puts the backup agent's RCON
		// defaults (localhost) on the right interface.
		ShareNetNS: m.name,
	})
	if err != nil {
		return errs.NewRuntimeError("Failed to Create Backup", err)
	}
	if err := m.runtime.StartContainer(ctx, id); err != nil {
		_ = m.runtime.RemoveContainer(ctx, id, true)
		return errs.NewRuntimeError("Failed to Create Backup", err)
	}

	if err := m.refreshBackup(ctx); err != nil {
		return err
	}
	m.log.Success("Successfully Started Backups")
	return nil
}

// DeleteBackup stops and removes the backup companion.
func (m *Manager) DeleteBackup(ctx context.Context) error {
	if err := m.refreshBackup(ctx); err != nil {
		return err
	}
	if m.backup == nil {
		return errs.NewNotFoundError("no backup container for " + m.name)
	}

	if err := m.runtime.KillContainer(ctx, m.backup.ID); err != nil {
		m.log.Warn("Backup container was not running")
	}
	if err := m.runtime.RemoveContainer(ctx, m.backup.ID, true); err != nil {
		return errs.NewGenericError("Failed to Remove Backups", err)
	}

	m.backup = nil
	m.log.Success("Successfully Removed Backups")
	return nil
}

// BackupStatus reports the backup companion's container state.
func (m *Manager) BackupStatus(ctx context.Context) (interfaces.ServerStatus, error) {
	status := interfaces.ServerStatus{
		Name:   m.name + backupSuffix,
		Health: "none",
	}
	if err := m.refreshBackup(ctx); err != nil {
		return status, err
	}
	if m.backup == nil {
		return status, nil
	}
	status.Exists = true
	status.State = m.backup.State
	status.Running = m.backup.Running
	if m.backup.Health != "" {
		status.Health = m.backup.Health
	}
	return status, nil
}

// Start brings up an existing stopped container. Starting a running server is
// a warning, not an error.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.container == nil {
		return errs.NewNotFoundError("no container named " + m.name)
	}
	if m.container.Running {
		m.log.Warn("Server Already Running")
		return nil
	}

	if err := m.runtime.StartContainer(ctx, m.container.ID); err != nil {
		return errs.NewRuntimeError("Failed to Start Server", err)
	}
	if err := m.refresh(ctx); err != nil {
		return err
	}
	m.log.Success("Successfully Started Server")
	return nil
}

// Stop halts the container, immediately when force is set.
func (m *Manager) Stop(ctx context.Context, force bool) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.container == nil {
		return errs.NewNotFoundError("no container named " + m.name)
	}

	var err error
	if force {
		err = m.runtime.KillContainer(ctx, m.container.ID)
	} else {
		err = m.runtime.StopContainer(ctx, m.container.ID, stopTimeoutSeconds)
	}
	if err != nil {
		return errs.NewRuntimeError("Failed to Stop Server", err)
	}

	m.log.Success("Successfully Stopped Server")
	return nil
}

// Restart bounces the container. Force is a kill followed by a start; the
// graceful path is a single engine restart.
func (m *Manager) Restart(ctx context.Context, force bool) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.container == nil {
		return errs.NewNotFoundError("no container named " + m.name)
	}

	if force {
		if err := m.runtime.KillContainer(ctx, m.container.ID); err != nil {
			return errs.NewRuntimeError("Failed to Restart Server", err)
		}
		if err := m.runtime.StartContainer(ctx, m.container.ID); err != nil {
			return errs.NewRuntimeError("Failed to Restart Server", err)
		}
	} else {
		if err := m.runtime.RestartContainer(ctx, m.container.ID); err != nil {
			return errs.NewRuntimeError("Failed to Restart Server", err)
		}
	}

	if err := m.refresh(ctx); err != nil {
		return err
	}
	m.log.Success("Successfully Restarted Server")
	return nil
}

// Delete force-stops and removes the container. The backup companion, if any,
// is left alone.
func (m *Manager) Delete(ctx context.Context) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.container == nil {
		return errs.NewNotFoundError("Failed to Delete Server")
	}

	if err := m.Stop(ctx, true); err != nil {
		// A container that is already down still gets removed.
		m.log.Warn("Failed to Stop Server")
	}
	if err := m.runtime.RemoveContainer(ctx, m.container.ID, false); err != nil {
		return errs.NewGenericError("Failed to Delete Server", err)
	}

	m.container = nil
	m.log.Success("Successfully Deleted Server")
	return nil
}

// Status combines the coarse container state with the out-of-process health
// query into one structured answer.
func (m *Manager) Status(ctx context.Context) (interfaces.ServerStatus, error) {
	status := interfaces.ServerStatus{
		Name:   m.name,
		Health: "none",
	}
	if err := m.refresh(ctx); err != nil {
		return status, err
	}
	if m.container == nil {
		return status, nil
	}

	status.Exists = true
	status.State = m.container.State
	status.Running = m.container.Running

	// Health comes from the engine CLI; a container without a reporting
	// health check simply stays at "none".
	if health, err := m.runtime.QueryHealth(ctx, m.name); err == nil && health != "" {
		status.Health = health
	}
	return status, nil
}

// OpenConsole attaches the calling process to an interactive rcon-cli session
// inside the running container and blocks until it ends.
func (m *Manager) OpenConsole(ctx context.Context) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.container == nil {
		return errs.NewNotFoundError("no container named " + m.name)
	}

	if err := m.runtime.AttachConsole(ctx, m.name, "rcon-cli"); err != nil {
		return errs.NewRuntimeError("console session failed", err)
	}
	return nil
}

// Rcon runs a single console command inside the container and returns its
// output. The command line is split shell-style, so a quoted argument reaches
// the server as one word.
func (m *Manager) Rcon(ctx context.Context, command string) (string, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return "", errs.NewValidationError("invalid console command: " + err.Error())
	}
	if err := m.refresh(ctx); err != nil {
		return "", err
	}
	if m.container == nil {
		return "", errs.NewNotFoundError("no container named " + m.name)
	}

	args := append([]string{"rcon-cli"}, words...)
	out, err := m.runtime.ExecCapture(ctx, m.name, args...)
	if err != nil {
		return strings.TrimSpace(out), errs.NewRuntimeError("rcon command failed", err)
	}
	return strings.TrimSpace(out), nil
}

// Logs streams the container log, demultiplexing the engine's stdout/stderr
// framing into the writer.
func (m *Manager) Logs(ctx context.Context, opts interfaces.LogOptions, w io.Writer) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.container == nil {
		return errs.NewNotFoundError("no container named " + m.name)
	}

	reader, err := m.runtime.ContainerLogs(ctx, m.container.ID, opts)
	if err != nil {
		return errs.NewRuntimeError("failed to read server logs", err)
	}
	defer reader.Close()

	if _, err := stdcopy.StdCopy(w, w, reader); err != nil && err != io.EOF {
		return errs.NewRuntimeError("failed to stream server logs", err)
	}
	return nil
}

// List returns a summary row for every managed server on the host, backup
// companions folded into their server's row.
func List(ctx context.Context, runtime Runtime) ([]interfaces.ServerSummary, error) {
	infos, err := runtime.ListByLabel(ctx, LabelManaged+"=true")
	if err != nil {
		return nil, errs.NewRuntimeError("failed to list managed containers", err)
	}

	backups := make(map[string]bool)
	for _, info := range infos {
		if target, ok := info.Labels[LabelBackupFor]; ok {
			backups[target] = true
		}
	}

	summaries := make([]interfaces.ServerSummary, 0, len(infos))
	for _, info := range infos {
		if _, ok := info.Labels[LabelBackupFor]; ok {
			continue
		}
		summaries = append(summaries, interfaces.ServerSummary{
			Name:      info.Name,
			State:     info.State,
			Health:    info.Health,
			Port:      info.HostPort,
			Image:     info.Image,
			HasBackup: backups[info.Name],
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}
