package interfaces

import (
	"context"
	"io"
)

// ServerManager handles the full container lifecycle of one named Minecraft
// server plus its optional backup companion
type ServerManager interface {
	Name() string
	Create(ctx context.Context, opts ServerOptions) error
	CreateBackup(ctx context.Context, opts ServerOptions) error
	DeleteBackup(ctx context.Context) error
	BackupStatus(ctx context.Context) (ServerStatus, error)
	Start(ctx context.Context) error
	Stop(ctx context.Context, force bool) error
	Restart(ctx context.Context, force bool) error
	Delete(ctx context.Context) error
	Status(ctx context.Context) (ServerStatus, error)
	OpenConsole(ctx context.Context) error
	Rcon(ctx context.Context, command string) (string, error)
	Logs(ctx context.Context, opts LogOptions, w io.Writer) error
}

// ServerOptions carries every recognized create-time option. Absent optional
// fields stay zero-valued and are omitted from the container environment so the
// image defaults apply.
type ServerOptions struct {
	Name           string `yaml:"name" json:"name" mapstructure:"name"`
	Version        string `yaml:"version" json:"version" mapstructure:"version"`
	Java           string `yaml:"java" json:"java,omitempty" mapstructure:"java"`
	Port           int    `yaml:"port" json:"port,omitempty" mapstructure:"port"`
	Root           string `yaml:"root" json:"root" mapstructure:"root"`
	MOTD           string `yaml:"motd,omitempty" json:"motd,omitempty" mapstructure:"motd"`
	Memory         string `yaml:"memory,omitempty" json:"memory,omitempty" mapstructure:"memory"`
	Aikar          bool   `yaml:"aikar,omitempty" json:"aikar,omitempty" mapstructure:"aikar"`
	Forge          string `yaml:"forge,omitempty" json:"forge,omitempty" mapstructure:"forge"`
	Fabric         string `yaml:"fabric,omitempty" json:"fabric,omitempty" mapstructure:"fabric"`
	Modpack        string `yaml:"modpack,omitempty" json:"modpack,omitempty" mapstructure:"modpack"`
	MaxPlayers     int    `yaml:"max_players,omitempty" json:"max_players,omitempty" mapstructure:"max_players"`
	Seed           string `yaml:"seed,omitempty" json:"seed,omitempty" mapstructure:"seed"`
	ViewDistance   int    `yaml:"view_distance,omitempty" json:"view_distance,omitempty" mapstructure:"view_distance"`
	LevelType      string `yaml:"level_type,omitempty" json:"level_type,omitempty" mapstructure:"level_type"`
	BackupDir      string `yaml:"backup_dir,omitempty" json:"backup_dir,omitempty" mapstructure:"backup_dir"`
	BackupInterval string `yaml:"backup_interval,omitempty" json:"backup_interval,omitempty" mapstructure:"backup_interval"`
}

// ServerStatus combines the coarse container state with the image health check
type ServerStatus struct {
	Name    string `json:"name"`
	Exists  bool   `json:"exists"`
	Running bool   `json:"running"`
	State   string `json:"state,omitempty"`  // created, running, paused, restarting, exited, dead
	Health  string `json:"health,omitempty"` // healthy, starting, unhealthy, or none when no health check reported
}

// ServerSummary is one row of the managed-server listing
type ServerSummary struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Health    string `json:"health,omitempty"`
	Port      string `json:"port,omitempty"`
	Image     string `json:"image"`
	HasBackup bool   `json:"has_backup"`
}

// LogOptions controls container log streaming
type LogOptions struct {
	Tail   string
	Follow bool
}
