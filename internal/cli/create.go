package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/minecraft"
)

var (
	createOpts        interfaces.ServerOptions
	createFile        string
	createLike        string
	createInteractive bool
	createBackups     bool

	createCmd = &cobra.Command{
		Use:   "create NAME",
		Short: "Create and start a new server container",
		Long: `Create a new Minecraft server as a Docker container and start it.

The world data lives in a host directory bind-mounted into the container, so
deleting the container later does not delete the world. Options can come from
flags, from a YAML definition file (--file), or from an interactive wizard
(--interactive). The resolved option set is remembered, so backups and later
recreations can reuse it.

Mod loader sources (--forge, --fabric) accept either a full installer URL or
the name of an installer file placed in the server's data directory. When both
are given, Forge wins.`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}
)

func init() {
	rootCmd.AddCommand(createCmd)

	flags := createCmd.Flags()
	flags.StringVar(&createOpts.Version, "version", "", "Minecraft version to run (required)")
	flags.StringVar(&createOpts.Java, "java", "", "Java major version of the server image (default from config)")
	flags.IntVar(&createOpts.Port, "port", minecraft.GamePort, "host TCP port to expose the game on")
	flags.StringVar(&createOpts.Root, "root", "", "host directory for world data (default <data_home>/NAME)")
	flags.StringVar(&createOpts.MOTD, "motd", "", "server message of the day")
	flags.StringVar(&createOpts.Memory, "memory", "", "JVM heap size, e.g. 4G")
	flags.BoolVar(&createOpts.Aikar, "aikar", false, "enable Aikar's JVM flags")
	flags.StringVar(&createOpts.Forge, "forge", "", "Forge installer URL or file name in the data directory")
	flags.StringVar(&createOpts.Fabric, "fabric", "", "Fabric installer URL or file name in the data directory")
	flags.StringVar(&createOpts.Modpack, "modpack", "", "CurseForge modpack URL or slug")
	flags.IntVar(&createOpts.MaxPlayers, "max-players", 0, "player slot limit")
	flags.StringVar(&createOpts.Seed, "seed", "", "world generation seed")
	flags.IntVar(&createOpts.ViewDistance, "view-distance", 0, "chunk view distance")
	flags.StringVar(&createOpts.LevelType, "level-type", "", "world type, e.g. FLAT or AMPLIFIED")
	flags.StringVarP(&createFile, "file", "f", "", "read options from a YAML definition file")
	flags.StringVar(&createLike, "like", "", "reuse the saved options of SERVER as the base (name and world directory are not copied)")
	flags.BoolVarP(&createInteractive, "interactive", "i", false, "prompt for options interactively")
	flags.BoolVar(&createBackups, "backup", false, "also start the backup companion container")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	j := openJournal(cmd.ErrOrStderr())
	defer j.Close()

	opts, err := resolveCreateOptions(cmd, j, name)
	if err != nil {
		return err
	}

	runtime, err := getRuntime()
	if err != nil {
		return err
	}
	defer runtime.Close()

	mgr, err := getServerManager(ctx, runtime, name)
	if err != nil {
		return err
	}

	// The first create pulls the server image, which can take a while.
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Creating server %s...", name)
	if !quiet {
		s.Start()
	}
	err = mgr.Create(ctx, opts)
	s.Stop()

	j.RecordEvent(name, "create", err)
	if err != nil {
		return err
	}
	j.SaveOptions(opts)

	if createBackups {
		err = mgr.CreateBackup(ctx, opts)
		j.RecordEvent(name, "backup-enable", err)
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveCreateOptions merges the definition file, the wizard and the config
// defaults into one option set. Flags win over the file; the wizard sees the
// merged values as its defaults.
func resolveCreateOptions(cmd *cobra.Command, j *journal, name string) (interfaces.ServerOptions, error) {
	opts := createOpts
	if createFile != "" && createLike != "" {
		return opts, errs.NewValidationError("--file and --like cannot be combined")
	}
	if createFile != "" {
		loaded, err := minecraft.LoadOptions(createFile)
		if err != nil {
			return opts, err
		}
		merged := *loaded
		overlayFlagOptions(cmd, &merged, opts)
		opts = merged
	}
	if createLike != "" {
		base, err := likeOptions(j, createLike)
		if err != nil {
			return opts, err
		}
		overlayFlagOptions(cmd, &base, opts)
		opts = base
	}

	opts.Name = name
	applyConfigDefaults(&opts)

	if createInteractive {
		return promptForOptions(opts)
	}
	return opts, nil
}

// likeOptions loads another server's saved options as a template. The name,
// world directory and backup directory belong to the source server and are
// never copied.
func likeOptions(j *journal, source string) (interfaces.ServerOptions, error) {
	if j.openErr != nil {
		return interfaces.ServerOptions{}, j.openErr
	}
	saved, err := j.mgr.LoadOptions(source)
	if err != nil {
		return interfaces.ServerOptions{}, err
	}
	base := *saved
	base.Name = ""
	base.Root = ""
	base.BackupDir = ""
	return base, nil
}

// applyConfigDefaults fills unset option fields from the viper config.
func applyConfigDefaults(opts *interfaces.ServerOptions) {
	if opts.Java == "" {
		opts.Java = viper.GetString("java")
	}
	if opts.Port == 0 {
		opts.Port = minecraft.GamePort
	}
	if opts.Root == "" && opts.Name != "" {
		opts.Root = defaultRoot(opts.Name)
	}
	if opts.BackupInterval == "" {
		opts.BackupInterval = viper.GetString("backup_interval")
	}
}

// overlayFlagOptions copies explicitly set flag values over a file-loaded base.
func overlayFlagOptions(cmd *cobra.Command, base *interfaces.ServerOptions, flags interfaces.ServerOptions) {
	if flags.Version != "" {
		base.Version = flags.Version
	}
	if flags.Java != "" {
		base.Java = flags.Java
	}
	if cmd.Flags().Changed("port") {
		base.Port = flags.Port
	}
	if flags.Root != "" {
		base.Root = flags.Root
	}
	if flags.MOTD != "" {
		base.MOTD = flags.MOTD
	}
	if flags.Memory != "" {
		base.Memory = flags.Memory
	}
	if flags.Aikar {
		base.Aikar = true
	}
	if flags.Forge != "" {
		base.Forge = flags.Forge
	}
	if flags.Fabric != "" {
		base.Fabric = flags.Fabric
	}
	if flags.Modpack != "" {
		base.Modpack = flags.Modpack
	}
	if flags.MaxPlayers != 0 {
		base.MaxPlayers = flags.MaxPlayers
	}
	if flags.Seed != "" {
		base.Seed = flags.Seed
	}
	if flags.ViewDistance != 0 {
		base.ViewDistance = flags.ViewDistance
	}
	if flags.LevelType != "" {
		base.LevelType = flags.LevelType
	}
}
