package minecraft

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

const (
	// ImageRepository is the server image; the tag selects the Java runtime.
	ImageRepository = "itzg/minecraft-server"
	// BackupImage is the companion image that archives the world data.
	BackupImage = "itzg/mc-backup"
	// GamePort is the fixed service port inside the container.
	GamePort = 25565
	// DataMount is where the server image expects its world data.
	DataMount = "/data"
	// BackupMount is where the backup image writes its archives.
	BackupMount = "/backups"
)

// Image returns the server image reference for a Java version tag.
func Image(java string) string {
	return fmt.Sprintf("%s:java%s", ImageRepository, java)
}

// Validate rejects options that cannot produce a working container. URL-shape
// detection aside, option values are not interpreted here; the image does that.
func Validate(opts interfaces.ServerOptions) error {
	if opts.Name == "" {
		return errs.NewValidationError("server name is required")
	}
	if opts.Version == "" {
		return errs.NewValidationError("version is required")
	}
	if opts.Java == "" {
		return errs.NewValidationError("java version is required")
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return errs.NewValidationError("port must be between 1 and 65535")
	}
	if opts.Root == "" {
		return errs.NewValidationError("server root path is required")
	}
	if !filepath.IsAbs(opts.Root) {
		return errs.NewValidationError("server root must be an absolute path")
	}
	return nil
}

// LoadOptions reads a server definition file.
func LoadOptions(path string) (*interfaces.ServerOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewGenericError("failed to read server definition "+path, err)
	}

	var opts interfaces.ServerOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, errs.NewValidationError(fmt.Sprintf("failed to parse server definition %s: %v", path, err))
	}
	return &opts, nil
}

// DefaultBackupDir places backups in a sibling directory of the server root,
// so /srv/mc1 backs up into /srv/backups.
func DefaultBackupDir(root string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(root)), "backups")
}
