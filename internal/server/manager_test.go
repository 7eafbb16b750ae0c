package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/logging"
)

type fakeContainer struct {
	id      string
	name    string
	running bool
	state   string
	health  string
	image   string
	labels  map[string]string
	spec    ContainerSpec
}

// fakeRuntime is an in-memory Runtime standing in for the Docker engine.
type fakeRuntime struct {
	containers map[string]*fakeContainer
	images     map[string]bool
	health     string
	healthErr  error

	createCalls  int
	startCalls   int
	stopCalls    int
	killCalls    int
	restartCalls int
	removeCalls  int
	attachCalls  int
	execArgs     [][]string
	execOut      string
	execErr      error
	logStream    []byte

	failCreate error
	failStart  error
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		containers: make(map[string]*fakeContainer),
		images:     make(map[string]bool),
	}
}

func (f *fakeRuntime) addContainer(name string, running bool) *fakeContainer {
	state := "exited"
	if running {
		state = "running"
	}
	c := &fakeContainer{id: "id-" + name, name: name, running: running, state: state}
	f.containers[name] = c
	return c
}

func (f *fakeRuntime) byID(id string) *fakeContainer {
	for _, c := range f.containers {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (f *fakeRuntime) EnsureImage(ctx context.Context, ref string) error {
	f.images[ref] = true
	return nil
}

func (f *fakeRuntime) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	f.createCalls++
	if f.failCreate != nil {
		return "", f.failCreate
	}
	if _, ok := f.containers[spec.Name]; ok {
		return "", fmt.Errorf("conflict: container name %q is already in use", spec.Name)
	}
	c := &fakeContainer{
		id:     "id-" + spec.Name,
		name:   spec.Name,
		state:  "created",
		image:  spec.Image,
		labels: spec.Labels,
		spec:   spec,
	}
	f.containers[spec.Name] = c
	return c.id, nil
}

func (f *fakeRuntime) StartContainer(ctx context.Context, id string) error {
	f.startCalls++
	if f.failStart != nil {
		return f.failStart
	}
	c := f.byID(id)
	if c == nil {
		return ErrNotFound
	}
	c.running = true
	c.state = "running"
	return nil
}

func (f *fakeRuntime) StopContainer(ctx context.Context, id string, timeoutSeconds int) error {
	f.stopCalls++
	c := f.byID(id)
	if c == nil {
		return ErrNotFound
	}
	c.running = false
	c.state = "exited"
	return nil
}

func (f *fakeRuntime) KillContainer(ctx context.Context, id string) error {
	f.killCalls++
	c := f.byID(id)
	if c == nil {
		return ErrNotFound
	}
	if !c.running {
		return fmt.Errorf("container %s is not running", id)
	}
	c.running = false
	c.state = "exited"
	return nil
}

func (f *fakeRuntime) RestartContainer(ctx context.Context, id string) error {
	f.restartCalls++
	c := f.byID(id)
	if c == nil {
		return ErrNotFound
	}
	c.running = true
	c.state = "running"
	return nil
}

func (f *fakeRuntime) RemoveContainer(ctx context.Context, id string, force bool) error {
	f.removeCalls++
	c := f.byID(id)
	if c == nil {
		return ErrNotFound
	}
	if c.running && !force {
		return fmt.Errorf("cannot remove running container %s", id)
	}
	delete(f.containers, c.name)
	return nil
}

func (f *fakeRuntime) InspectByName(ctx context.Context, name string) (*ContainerInfo, error) {
	c, ok := f.containers[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &ContainerInfo{
		ID:      c.id,
		Name:    c.name,
		State:   c.state,
		Running: c.running,
		Health:  c.health,
		Image:   c.image,
		Labels:  c.labels,
	}, nil
}

func (f *fakeRuntime) ListByLabel(ctx context.Context, label string) ([]ContainerInfo, error) {
	key, value, _ := strings.Cut(label, "=")
	infos := []ContainerInfo{}
	for _, c := range f.containers {
		if c.labels[key] == value {
			infos = append(infos, ContainerInfo{
				ID:      c.id,
				Name:    c.name,
				State:   c.state,
				Running: c.running,
				Health:  c.health,
				Image:   c.image,
				Labels:  c.labels,
			})
		}
	}
	return infos, nil
}

func (f *fakeRuntime) ContainerLogs(ctx context.Context, id string, opts interfaces.LogOptions) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.logStream)), nil
}

func (f *fakeRuntime) QueryHealth(ctx context.Context, name string) (string, error) {
	if f.healthErr != nil {
		return "", f.healthErr
	}
	return f.health, nil
}

func (f *fakeRuntime) AttachConsole(ctx context.Context, name string, cmd ...string) error {
	f.attachCalls++
	return nil
}

func (f *fakeRuntime) ExecCapture(ctx context.Context, name string, cmd ...string) (string, error) {
	f.execArgs = append(f.execArgs, cmd)
	return f.execOut, f.execErr
}

func (f *fakeRuntime) Close() error {
	return nil
}

func newTestManager(t *testing.T, rt *fakeRuntime) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	m, err := NewManager(context.Background(), "mc1", rt, logging.NewWithWriters("mc1", &buf, &buf))
	if err != nil {
		t.Fatalf("failed to construct manager: %v", err)
	}
	return m, &buf
}

func validOptions(t *testing.T) interfaces.ServerOptions {
	t.Helper()
	return interfaces.ServerOptions{
		Name:    "mc1",
		Version: "1.20.1",
		Java:    "17",
		Port:    25565,
		Root:    filepath.Join(t.TempDir(), "mc1"),
	}
}

// Property tests

func TestProperty_RepeatedStartIssuesSingleRuntimeStart(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("only the first start reaches the runtime",
		prop.ForAll(
			func(attempts int) bool {
				rt := newFakeRuntime()
				rt.addContainer("mc1", false)

				var buf bytes.Buffer
				m, err := NewManager(context.Background(), "mc1", rt, logging.NewWithWriters("mc1", &buf, &buf))
				if err != nil {
					return false
				}
				for i := 0; i < attempts; i++ {
					if err := m.Start(context.Background()); err != nil {
						return false
					}
				}
				return rt.startCalls == 1 && strings.Contains(buf.String(), "Server Already Running")
			},
			gen.IntRange(2, 6),
		))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_StopForceSelectsSignal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("force kills, graceful stops",
		prop.ForAll(
			func(force bool) bool {
				rt := newFakeRuntime()
				rt.addContainer("mc1", true)

				var buf bytes.Buffer
				m, err := NewManager(context.Background(), "mc1", rt, logging.NewWithWriters("mc1", &buf, &buf))
				if err != nil {
					return false
				}
				if err := m.Stop(context.Background(), force); err != nil {
					return false
				}
				if force {
					return rt.killCalls == 1 && rt.stopCalls == 0
				}
				return rt.stopCalls == 1 && rt.killCalls == 0
			},
			gen.Bool(),
		))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Unit tests

func TestStartTwiceWarnsWithoutSecondRuntimeCall(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", false)
	m, buf := newTestManager(t, rt)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if rt.startCalls != 1 {
		t.Fatalf("expected 1 start call, got %d", rt.startCalls)
	}
	if strings.Contains(buf.String(), "Already Running") {
		t.Fatalf("unexpected warning on first start: %q", buf.String())
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("second start errored: %v", err)
	}
	if rt.startCalls != 1 {
		t.Errorf("expected no second runtime start call, got %d", rt.startCalls)
	}
	if !strings.Contains(buf.String(), "Server Already Running") {
		t.Errorf("expected already-running warning, got %q", buf.String())
	}
}

func TestStartWithoutContainerIsNotFound(t *testing.T) {
	m, _ := newTestManager(t, newFakeRuntime())

	err := m.Start(context.Background())
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeNotFound {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestDeleteWithoutContainerReportsGenericFailure(t *testing.T) {
	m, _ := newTestManager(t, newFakeRuntime())

	err := m.Delete(context.Background())
	if err == nil {
		t.Fatal("expected delete to fail without a container")
	}
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected a CLIError, got %v", err)
	}
	if cliErr.Code != errs.CodeNotFound {
		t.Errorf("expected not-found classification, got code %d", cliErr.Code)
	}
	if cliErr.Message != "Failed to Delete Server" {
		t.Errorf("expected the generic delete failure message, got %q", cliErr.Message)
	}
}

func TestCreateEndToEnd(t *testing.T) {
	rt := newFakeRuntime()
	m, buf := newTestManager(t, rt)
	if m.Container() != nil {
		t.Fatal("expected no container reference before create")
	}

	if err := m.Create(context.Background(), validOptions(t)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if m.Container() == nil {
		t.Fatal("expected container reference after create")
	}
	if !m.Container().Running {
		t.Error("expected a freshly created server to be running")
	}
	if !rt.images["itzg/minecraft-server:java17"] {
		t.Error("expected the java17 image to be ensured")
	}
	if !strings.Contains(buf.String(), "Successfully Created Server") {
		t.Errorf("expected create success log, got %q", buf.String())
	}

	// The runtime created and started the server, so an explicit start now
	// only warns.
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start after create errored: %v", err)
	}
	if !strings.Contains(buf.String(), "Server Already Running") {
		t.Errorf("expected already-running warning after create, got %q", buf.String())
	}
}

func TestCreateRejectsInvalidOptions(t *testing.T) {
	rt := newFakeRuntime()
	m, _ := newTestManager(t, rt)

	opts := validOptions(t)
	opts.Version = ""
	err := m.Create(context.Background(), opts)

	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if rt.createCalls != 0 {
		t.Errorf("expected no runtime calls for invalid options, got %d creates", rt.createCalls)
	}
}

func TestCreateWarnsWhenRootExists(t *testing.T) {
	rt := newFakeRuntime()
	m, buf := newTestManager(t, rt)

	opts := validOptions(t)
	opts.Root = t.TempDir() // exists by construction

	if err := m.Create(context.Background(), opts); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(buf.String(), "there may be problems") {
		t.Errorf("expected pre-existing root warning, got %q", buf.String())
	}
}

func TestCreatePassesEnvPortAndMount(t *testing.T) {
	rt := newFakeRuntime()
	m, _ := newTestManager(t, rt)

	opts := validOptions(t)
	opts.Port = 25599
	opts.MOTD = "hello"
	if err := m.Create(context.Background(), opts); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	spec := rt.containers["mc1"].spec
	if spec.Image != "itzg/minecraft-server:java17" {
		t.Errorf("unexpected image %q", spec.Image)
	}
	if spec.HostPort != 25599 || spec.GamePort != 25565 {
		t.Errorf("unexpected ports: host %d game %d", spec.HostPort, spec.GamePort)
	}
	if len(spec.Mounts) != 1 || spec.Mounts[0].Target != "/data" || spec.Mounts[0].ReadOnly {
		t.Errorf("unexpected mounts: %+v", spec.Mounts)
	}
	if spec.Labels[LabelServer] != "mc1" || spec.Labels[LabelManaged] != "true" {
		t.Errorf("unexpected labels: %v", spec.Labels)
	}

	foundMOTD := false
	for _, entry := range spec.Env {
		if entry == "MOTD=hello" {
			foundMOTD = true
		}
	}
	if !foundMOTD {
		t.Errorf("expected MOTD in env, got %v", spec.Env)
	}
}

func TestCreateCleansUpWhenStartFails(t *testing.T) {
	rt := newFakeRuntime()
	rt.failStart = errors.New("cannot start")
	m, _ := newTestManager(t, rt)

	err := m.Create(context.Background(), validOptions(t))
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeRuntime {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if _, ok := rt.containers["mc1"]; ok {
		t.Error("expected the unstartable container to be removed")
	}
	if m.Container() != nil {
		t.Error("expected no reference after failed create")
	}
}

func TestRestartForceIsKillThenStart(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	m, _ := newTestManager(t, rt)

	if err := m.Restart(context.Background(), true); err != nil {
		t.Fatalf("force restart failed: %v", err)
	}
	if rt.killCalls != 1 || rt.startCalls != 1 || rt.restartCalls != 0 {
		t.Errorf("expected kill+start, got kill=%d start=%d restart=%d",
			rt.killCalls, rt.startCalls, rt.restartCalls)
	}
}

func TestRestartGracefulIsSingleCall(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	m, _ := newTestManager(t, rt)

	if err := m.Restart(context.Background(), false); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if rt.restartCalls != 1 || rt.killCalls != 0 || rt.startCalls != 0 {
		t.Errorf("expected a single restart call, got kill=%d start=%d restart=%d",
			rt.killCalls, rt.startCalls, rt.restartCalls)
	}
}

func TestDeleteRemovesContainer(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	m, buf := newTestManager(t, rt)

	if err := m.Delete(context.Background()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := rt.containers["mc1"]; ok {
		t.Error("expected container to be removed")
	}
	if m.Container() != nil {
		t.Error("expected reference to be cleared")
	}
	if !strings.Contains(buf.String(), "Successfully Deleted Server") {
		t.Errorf("expected delete success log, got %q", buf.String())
	}

	// Deleting again is the no-reference failure path.
	err := m.Delete(context.Background())
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeNotFound {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}

func TestStatusCombinesStateAndHealth(t *testing.T) {
	t.Run("running and healthy", func(t *testing.T) {
		rt := newFakeRuntime()
		rt.addContainer("mc1", true)
		rt.health = "healthy"
		m, _ := newTestManager(t, rt)

		status, err := m.Status(context.Background())
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !status.Exists || !status.Running || status.State != "running" || status.Health != "healthy" {
			t.Errorf("unexpected status: %+v", status)
		}
	})

	t.Run("health query failure degrades to none", func(t *testing.T) {
		rt := newFakeRuntime()
		rt.addContainer("mc1", true)
		rt.healthErr = errors.New("no health check")
		m, _ := newTestManager(t, rt)

		status, err := m.Status(context.Background())
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if status.Health != "none" {
			t.Errorf("expected health none, got %q", status.Health)
		}
	})

	t.Run("missing container", func(t *testing.T) {
		m, _ := newTestManager(t, newFakeRuntime())

		status, err := m.Status(context.Background())
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if status.Exists || status.Running {
			t.Errorf("expected empty status, got %+v", status)
		}
	})
}

func TestCreateBackupMountsAndNetwork(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	m, buf := newTestManager(t, rt)

	opts := validOptions(t)
	opts.BackupInterval = "2h"
	if err := m.CreateBackup(context.Background(), opts); err != nil {
		t.Fatalf("create backup failed: %v", err)
	}

	backup, ok := rt.containers["mc1-backup"]
	if !ok {
		t.Fatal("expected backup container to exist")
	}
	spec := backup.spec
	if spec.Image != "itzg/mc-backup" {
		t.Errorf("unexpected backup image %q", spec.Image)
	}
	if spec.ShareNetNS != "mc1" {
		t.Errorf("expected shared network namespace with mc1, got %q", spec.ShareNetNS)
	}
	if len(spec.Mounts) != 2 {
		t.Fatalf("expected two mounts, got %+v", spec.Mounts)
	}
	if !spec.Mounts[0].ReadOnly || spec.Mounts[0].Target != "/data" {
		t.Errorf("expected read-only data mount, got %+v", spec.Mounts[0])
	}
	if spec.Mounts[1].ReadOnly || spec.Mounts[1].Target != "/backups" {
		t.Errorf("expected writable backups mount, got %+v", spec.Mounts[1])
	}
	if spec.Mounts[1].Source != filepath.Join(filepath.Dir(opts.Root), "backups") {
		t.Errorf("expected sibling backups default, got %q", spec.Mounts[1].Source)
	}
	if spec.Labels[LabelBackupFor] != "mc1" {
		t.Errorf("expected backup-for label, got %v", spec.Labels)
	}
	if !strings.Contains(buf.String(), "Successfully Started Backups") {
		t.Errorf("expected backup success log, got %q", buf.String())
	}
}

func TestCreateBackupRequiresPrimary(t *testing.T) {
	m, _ := newTestManager(t, newFakeRuntime())

	err := m.CreateBackup(context.Background(), validOptions(t))
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeNotFound {
		t.Errorf("expected not-found without a primary container, got %v", err)
	}
}

func TestDeleteLeavesBackupAlone(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	backup := rt.addContainer("mc1-backup", true)
	backup.labels = map[string]string{LabelManaged: "true", LabelBackupFor: "mc1"}
	m, _ := newTestManager(t, rt)

	if err := m.Delete(context.Background()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := rt.containers["mc1-backup"]; !ok {
		t.Error("expected backup container to survive delete")
	}
}

func TestDeleteBackup(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	backup := rt.addContainer("mc1-backup", true)
	backup.labels = map[string]string{LabelManaged: "true", LabelBackupFor: "mc1"}
	m, _ := newTestManager(t, rt)

	if err := m.DeleteBackup(context.Background()); err != nil {
		t.Fatalf("delete backup failed: %v", err)
	}
	if _, ok := rt.containers["mc1-backup"]; ok {
		t.Error("expected backup container to be removed")
	}

	err := m.DeleteBackup(context.Background())
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeNotFound {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}

func TestBackupStatusReportsCompanion(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	backup := rt.addContainer("mc1-backup", true)
	backup.labels = map[string]string{LabelManaged: "true", LabelBackupFor: "mc1"}
	backup.health = "healthy"
	m, _ := newTestManager(t, rt)

	status, err := m.BackupStatus(context.Background())
	if err != nil {
		t.Fatalf("backup status failed: %v", err)
	}
	if status.Name != "mc1-backup" {
		t.Errorf("unexpected companion name %q", status.Name)
	}
	if !status.Exists || !status.Running {
		t.Errorf("expected a running companion, got %+v", status)
	}
	if status.Health != "healthy" {
		t.Errorf("expected companion health, got %q", status.Health)
	}
}

func TestRconRunsOneShotCommand(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	rt.execOut = "There are 3 of a max of 20 players online\n"
	m, _ := newTestManager(t, rt)

	out, err := m.Rcon(context.Background(), "list uuids")
	if err != nil {
		t.Fatalf("rcon failed: %v", err)
	}
	if out != "There are 3 of a max of 20 players online" {
		t.Errorf("expected trimmed output, got %q", out)
	}
	if len(rt.execArgs) != 1 {
		t.Fatalf("expected one exec, got %d", len(rt.execArgs))
	}
	want := []string{"rcon-cli", "list", "uuids"}
	got := rt.execArgs[0]
	if len(got) != len(want) {
		t.Fatalf("expected args %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected args %v, got %v", want, got)
		}
	}
}

func TestRconPreservesQuotedArguments(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	m, _ := newTestManager(t, rt)

	if _, err := m.Rcon(context.Background(), `say "hello world"`); err != nil {
		t.Fatalf("rcon failed: %v", err)
	}
	if len(rt.execArgs) != 1 {
		t.Fatalf("expected one exec, got %d", len(rt.execArgs))
	}
	want := []string{"rcon-cli", "say", "hello world"}
	got := rt.execArgs[0]
	if len(got) != len(want) {
		t.Fatalf("expected args %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected args %v, got %v", want, got)
		}
	}
}

func TestRconRejectsUnbalancedQuotes(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	m, _ := newTestManager(t, rt)

	_, err := m.Rcon(context.Background(), `say "hello`)
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeValidation {
		t.Errorf("expected a validation error, got %v", err)
	}
	if len(rt.execArgs) != 0 {
		t.Errorf("expected no exec for a malformed command, got %v", rt.execArgs)
	}
}

func TestLogsDemultiplexesEngineStream(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)

	var framed bytes.Buffer
	w := stdcopy.NewStdWriter(&framed, stdcopy.Stdout)
	if _, err := w.Write([]byte("[Server] Done (3.2s)!\n")); err != nil {
		t.Fatalf("failed to frame log payload: %v", err)
	}
	rt.logStream = framed.Bytes()

	m, _ := newTestManager(t, rt)
	var out bytes.Buffer
	if err := m.Logs(context.Background(), interfaces.LogOptions{Tail: "50"}, &out); err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	if out.String() != "[Server] Done (3.2s)!\n" {
		t.Errorf("expected demultiplexed log line, got %q", out.String())
	}
}

func TestListSeparatesBackupsFromServers(t *testing.T) {
	rt := newFakeRuntime()
	a := rt.addContainer("alpha", true)
	a.labels = map[string]string{LabelManaged: "true", LabelServer: "alpha"}
	a.health = "healthy"
	ab := rt.addContainer("alpha-backup", true)
	ab.labels = map[string]string{LabelManaged: "true", LabelBackupFor: "alpha"}
	b := rt.addContainer("beta", false)
	b.labels = map[string]string{LabelManaged: "true", LabelServer: "beta"}
	rt.addContainer("unrelated", true)

	summaries, err := List(context.Background(), rt)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d: %+v", len(summaries), summaries)
	}
	if summaries[0].Name != "alpha" || summaries[1].Name != "beta" {
		t.Errorf("expected sorted server rows, got %+v", summaries)
	}
	if summaries[0].Health != "healthy" {
		t.Errorf("expected alpha's health to survive the listing, got %q", summaries[0].Health)
	}
	if summaries[1].Health != "" {
		t.Errorf("expected no health for beta, got %q", summaries[1].Health)
	}
	if !summaries[0].HasBackup {
		t.Error("expected alpha to report a backup companion")
	}
	if summaries[1].HasBackup {
		t.Error("expected beta to report no backup")
	}
}

func TestOpenConsoleRequiresContainer(t *testing.T) {
	m, _ := newTestManager(t, newFakeRuntime())

	err := m.OpenConsole(context.Background())
	var cliErr *errs.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != errs.CodeNotFound {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestOpenConsoleAttaches(t *testing.T) {
	rt := newFakeRuntime()
	rt.addContainer("mc1", true)
	m, _ := newTestManager(t, rt)

	if err := m.OpenConsole(context.Background()); err != nil {
		t.Fatalf("console failed: %v", err)
	}
	if rt.attachCalls != 1 {
		t.Errorf("expected one console attach, got %d", rt.attachCalls)
	}
}
