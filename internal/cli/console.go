package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oitsjustjose/MC-Docker/internal/console"
)

var (
	consoleCmd = &cobra.Command{
		Use:   "console NAME",
		Short: "Attach the terminal to the server console",
		Long: `Attach this terminal directly to rcon-cli inside a running server
container. The session ends when rcon-cli exits. For a line-edited session with
history, use 'mc-docker rcon NAME' instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runConsole,
	}

	rconCmd = &cobra.Command{
		Use:   "rcon NAME [COMMAND...]",
		Short: "Run server console commands over rcon",
		Long: `Run a console command inside a running server and print its output.
Without a command, an interactive session with line editing and history opens;
each line is executed through rcon-cli inside the container.`,
		Example: `  mc-docker rcon mc1 list
  mc-docker rcon mc1 whitelist add jose
  mc-docker rcon mc1`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRcon,
	}
)

func init() {
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(rconCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
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
	return mgr.OpenConsole(ctx)
}

func runRcon(cmd *cobra.Command, args []string) error {
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

	if len(args) == 1 {
		return console.NewManager(mgr).Run(ctx)
	}

	out, err := mgr.Rcon(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if out != "" {
		cmd.Println(out)
	}
	return nil
}
