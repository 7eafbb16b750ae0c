package cli

import (
	"github.com/spf13/cobra"

	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

var (
	logsTail   string
	logsFollow bool

	logsCmd = &cobra.Command{
		Use:   "logs NAME",
		Short: "Print or follow a server's log",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogs,
	}
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsTail, "tail", "all", "number of lines from the end of the log")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "stream new log lines until interrupted")
}

func runLogs(cmd *cobra.Command, args []string) error {
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

	return mgr.Logs(ctx, interfaces.LogOptions{Tail: logsTail, Follow: logsFollow}, cmd.OutOrStdout())
}
