package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status NAME",
	Short: "Show a server's container state and health",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	status, err := mgr.Status(ctx)
	if err != nil {
		return err
	}
	if !status.Exists {
		return errs.NewNotFoundError("no container named " + args[0])
	}

	printStatus(logging.New(args[0]), status)
	return nil
}

// printStatus renders the one-line status the way the itzg health check
// reports it: healthy and starting are normal, anything else while running is
// degraded.
func printStatus(log *logging.Logger, status interfaces.ServerStatus) {
	if !status.Running {
		log.Info("Server is %s", status.State)
		return
	}
	switch status.Health {
	case "healthy":
		log.Success("Server is running and healthy")
	case "starting":
		log.Notice("Server is starting")
	default:
		log.Warn("Server is running but in degraded state: %s", status.Health)
	}
}
