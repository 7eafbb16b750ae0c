package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/logging"
)

var (
	backupDir      string
	backupInterval string
	backupRoot     string

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Manage a server's backup companion",
		Long: `Manage the companion container that periodically archives a server's
world data. The companion runs itzg/mc-backup alongside the server, mounts the
world read-only and writes archives to the backup directory. It has its own
lifecycle: deleting the server leaves it running until disabled here.`,
	}

	backupEnableCmd = &cobra.Command{
		Use:   "enable NAME",
		Short: "Start the backup companion for a server",
		Args:  cobra.ExactArgs(1),
		RunE:  runBackupEnable,
	}

	backupDisableCmd = &cobra.Command{
		Use:   "disable NAME",
		Short: "Stop and remove the backup companion",
		Args:  cobra.ExactArgs(1),
		RunE:  runBackupDisable,
	}

	backupStatusCmd = &cobra.Command{
		Use:   "status NAME",
		Short: "Show the backup companion's state",
		Args:  cobra.ExactArgs(1),
		RunE:  runBackupStatus,
	}
)

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupEnableCmd)
	backupCmd.AddCommand(backupDisableCmd)
	backupCmd.AddCommand(backupStatusCmd)

	backupEnableCmd.Flags().StringVar(&backupDir, "dir", "", "host directory for archives (default: sibling 'backups' directory next to the server root)")
	backupEnableCmd.Flags().StringVar(&backupInterval, "interval", "", "time between archives, e.g. 6h (default from config)")
	backupEnableCmd.Flags().StringVar(&backupRoot, "root", "", "server world directory, when the server was created outside this tool")
}

func runBackupEnable(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	j := openJournal(cmd.ErrOrStderr())
	defer j.Close()

	opts, err := backupOptions(j, name)
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

	err = mgr.CreateBackup(ctx, opts)
	j.RecordEvent(name, "backup-enable", err)
	return err
}

func runBackupDisable(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	runtime, err := getRuntime()
	if err != nil {
		return err
	}
	defer runtime.Close()

	mgr, err := getServerManager(ctx, runtime, args[0])
	if err != nil {
		return err
	}

	j := openJournal(cmd.ErrOrStderr())
	defer j.Close()

	err = mgr.DeleteBackup(ctx)
	j.RecordEvent(args[0], "backup-disable", err)
	return err
}

func runBackupStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	runtime, err := getRuntime()
	if err != nil {
		return err
	}
	defer runtime.Close()

	mgr, err := getServerManager(ctx, runtime, args[0])
	if err != nil {
		return err
	}

	status, err := mgr.BackupStatus(ctx)
	if err != nil {
		return err
	}
	if !status.Exists {
		return errs.NewNotFoundError("no backup container for " + args[0])
	}

	log := logging.New(status.Name)
	if status.Running {
		log.Success("Backups are running")
	} else {
		log.Info("Backup container is %s", status.State)
	}
	return nil
}

// backupOptions recovers the server's saved create options so the companion
// mounts the same world directory, then applies the backup flags on top.
func backupOptions(j *journal, name string) (interfaces.ServerOptions, error) {
	var opts interfaces.ServerOptions
	if backupRoot != "" {
		opts = interfaces.ServerOptions{Name: name, Root: backupRoot}
	} else {
		if j.openErr != nil {
			return opts, j.openErr
		}
		saved, err := j.mgr.LoadOptions(name)
		if err != nil {
			return opts, errs.NewNotFoundError(
				"no saved options for server " + name + "; pass --root to point at its world directory")
		}
		opts = *saved
	}

	if backupDir != "" {
		opts.BackupDir = backupDir
	}
	if backupInterval != "" {
		opts.BackupInterval = backupInterval
	}
	if opts.BackupInterval == "" {
		opts.BackupInterval = viper.GetString("backup_interval")
	}
	return opts, nil
}
