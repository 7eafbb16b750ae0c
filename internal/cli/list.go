package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/oitsjustjose/MC-Docker/internal/server"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all managed servers",
	Long:  `List every server container this tool manages on the local Docker host.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	runtime, err := getRuntime()
	if err != nil {
		return err
	}
	defer runtime.Close()

	summaries, err := server.List(ctx, runtime)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No managed servers found. Create one with 'mc-docker create NAME'.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader([]interface{}{
		text.FgHiCyan.Sprint("NAME"),
		text.FgHiCyan.Sprint("STATE"),
		text.FgHiCyan.Sprint("HEALTH"),
		text.FgHiCyan.Sprint("PORT"),
		text.FgHiCyan.Sprint("IMAGE"),
		text.FgHiCyan.Sprint("BACKUP"),
	})
	for _, s := range summaries {
		t.AppendRow([]interface{}{
			s.Name,
			coloredState(s.State),
			coloredHealth(s.Health),
			s.Port,
			s.Image,
			backupMark(s.HasBackup),
		})
	}
	t.Render()
	return nil
}

func coloredState(state string) string {
	switch state {
	case "running":
		return text.FgGreen.Sprint(state)
	case "restarting", "created":
		return text.FgCyan.Sprint(state)
	case "paused":
		return text.FgYellow.Sprint(state)
	case "exited", "dead":
		return text.FgRed.Sprint(state)
	default:
		return state
	}
}

func coloredHealth(health string) string {
	switch health {
	case "healthy":
		return text.FgGreen.Sprint(health)
	case "starting":
		return text.FgCyan.Sprint(health)
	case "unhealthy":
		return text.FgRed.Sprint(health)
	case "":
		return text.FgHiBlack.Sprint("none")
	default:
		return health
	}
}

func backupMark(enabled bool) string {
	if enabled {
		return text.FgGreen.Sprint("✓")
	}
	return text.FgHiBlack.Sprint("-")
}
