package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	historyLimit int

	historyCmd = &cobra.Command{
		Use:   "history [NAME]",
		Short: "Show the lifecycle journal",
		Long: `Show recent lifecycle operations, newest first. With a server name only
that server's entries are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	mgr, err := getStateManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	events, err := mgr.Events(name, historyLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		cmd.Println("No journal entries found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader([]interface{}{
		text.FgHiCyan.Sprint("WHEN"),
		text.FgHiCyan.Sprint("SERVER"),
		text.FgHiCyan.Sprint("OPERATION"),
		text.FgHiCyan.Sprint("OUTCOME"),
		text.FgHiCyan.Sprint("DETAIL"),
	})
	for _, ev := range events {
		t.AppendRow([]interface{}{
			ev.CreatedAt.Format("2006-01-02 15:04:05"),
			ev.Server,
			ev.Operation,
			coloredOutcome(ev.Outcome),
			ev.Detail,
		})
	}
	t.Render()
	return nil
}

func coloredOutcome(outcome string) string {
	if outcome == "success" {
		return text.FgGreen.Sprint(outcome)
	}
	return text.FgRed.Sprint(outcome)
}
