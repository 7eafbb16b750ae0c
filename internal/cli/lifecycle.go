package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
)

var (
	stopForce    bool
	restartForce bool
	deleteYes    bool

	startCmd = &cobra.Command{
		Use:   "start NAME",
		Short: "Start a stopped server",
		Args:  cobra.ExactArgs(1),
		RunE:  runStart,
	}

	stopCmd = &cobra.Command{
		Use:   "stop NAME",
		Short: "Stop a running server",
		Long: `Stop a running server. The graceful path asks the container to shut down
and waits; --force kills it immediately, which may lose unsaved world data.`,
		Args: cobra.ExactArgs(1),
		RunE: runStop,
	}

	restartCmd = &cobra.Command{
		Use:   "restart NAME",
		Short: "Restart a server",
		Args:  cobra.ExactArgs(1),
		RunE:  runRestart,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a server's container",
		Long: `Stop and remove a server's container. The world data under the server
root stays on disk, so creating a server with the same root later resumes the
world. A running backup companion is not touched; remove it with
'mc-docker backup disable NAME'.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
)

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(deleteCmd)

	stopCmd.Flags().BoolVar(&stopForce, "force", false, "kill the container instead of a graceful shutdown")
	restartCmd.Flags().BoolVar(&restartForce, "force", false, "kill and start instead of a graceful restart")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func runStart(cmd *cobra.Command, args []string) error {
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

	err = mgr.Start(ctx)
	j.RecordEvent(args[0], "start", err)
	return err
}

func runStop(cmd *cobra.Command, args []string) error {
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

	err = mgr.Stop(ctx, stopForce)
	j.RecordEvent(args[0], "stop", err)
	return err
}

func runRestart(cmd *cobra.Command, args []string) error {
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

	err = mgr.Restart(ctx, restartForce)
	j.RecordEvent(args[0], "restart", err)
	return err
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !deleteYes {
		confirmed, err := confirm(fmt.Sprintf("Delete server %q and its container?", args[0]), false)
		if err != nil {
			return errs.NewGenericError("could not read confirmation", err)
		}
		if !confirmed {
			cmd.Println("Aborted.")
			return nil
		}
	}

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

	err = mgr.Delete(ctx)
	j.RecordEvent(args[0], "delete", err)
	return err
}
