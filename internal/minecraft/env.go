// Package minecraft maps server options onto the container conventions of the
// itzg/minecraft-server image: environment keys, port numbers, and mount paths.
package minecraft

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

// BuildEnv translates create-time options into the environment understood by
// the server image. It cannot fail; it only shapes data. Absent optional fields
// are omitted entirely so the image defaults apply.
func BuildEnv(opts interfaces.ServerOptions) map[string]string {
	env := map[string]string{
		"VERSION":           opts.Version,
		"EULA":              "true",
		"SPAWN_PROTECTION":  "0",
		"ALLOW_FLIGHT":      "true",
		"ENFORCE_WHITELIST": "true",
	}

	if opts.MOTD != "" {
		env["MOTD"] = opts.MOTD
	}
	if opts.Memory != "" {
		env["MEMORY"] = opts.Memory
	}
	if opts.Aikar {
		env["USE_AIKAR_FLAGS"] = "true"
	}
	if opts.Forge != "" {
		if isInstallerURL(opts.Forge) {
			env["FORGE_INSTALLER_URL"] = opts.Forge
		} else {
			env["FORGE_INSTALLER"] = opts.Forge
		}
	}
	// Forge wins when both loaders are given; fabric is ignored entirely.
	if opts.Fabric != "" && opts.Forge == "" {
		if isInstallerURL(opts.Fabric) {
			env["FABRIC_INSTALLER_URL"] = opts.Fabric
		} else {
			env["FABRIC_INSTALLER"] = opts.Fabric
		}
	}
	if opts.Modpack != "" {
		// These three keys switch the image to CurseForge pack mode and must
		// always travel together.
		env["CF_SERVER_MOD"] = opts.Modpack
		env["TYPE"] = "CURSEFORGE"
		env["USE_MODPACK_START_SCRIPT"] = "false"
	}
	if opts.MaxPlayers > 0 {
		env["MAX_PLAYERS"] = strconv.Itoa(opts.MaxPlayers)
	}
	if opts.Seed != "" {
		env["SEED"] = opts.Seed
	}
	if opts.ViewDistance > 0 {
		env["VIEW_DISTANCE"] = strconv.Itoa(opts.ViewDistance)
	}
	if opts.LevelType != "" {
		env["LEVEL_TYPE"] = opts.LevelType
	}

	return env
}

// BuildBackupEnv builds the environment for the backup companion. The backup
// image's RCON defaults already point at localhost, which is correct because
// the companion shares the server's network namespace.
func BuildBackupEnv(opts interfaces.ServerOptions) map[string]string {
	env := map[string]string{}
	if opts.BackupInterval != "" {
		env["BACKUP_INTERVAL"] = opts.BackupInterval
	}
	return env
}

// EnvList flattens an environment map into the sorted KEY=value form the
// Docker API takes. Sorted so container creation is deterministic.
func EnvList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(env))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}

// isInstallerURL reports whether a mod-loader source names a remote installer.
// A source is a URL only when scheme, host, and path are all present; anything
// else, malformed strings included, is treated as a file inside the data mount.
func isInstallerURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != "" && u.Path != ""
}
