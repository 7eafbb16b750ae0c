package cli

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func TestColoredOutcome(t *testing.T) {
	if got := coloredOutcome("success"); got != text.FgGreen.Sprint("success") {
		t.Errorf("Expected green success, got %q", got)
	}
	if got := coloredOutcome("failure"); got != text.FgRed.Sprint("failure") {
		t.Errorf("Expected red failure, got %q", got)
	}
}

func TestRunHistory(t *testing.T) {
	setViper(t, "state_db", filepath.Join(t.TempDir(), "state.db"))

	newCmd := func() (*cobra.Command, *bytes.Buffer) {
		cmd := &cobra.Command{}
		out := new(bytes.Buffer)
		cmd.SetOut(out)
		cmd.SetErr(new(bytes.Buffer))
		return cmd, out
	}

	t.Run("empty journal", func(t *testing.T) {
		cmd, out := newCmd()
		if err := runHistory(cmd, nil); err != nil {
			t.Fatalf("Failed to run history: %v", err)
		}
		if !strings.Contains(out.String(), "No journal entries found.") {
			t.Errorf("Expected empty journal notice, got %q", out.String())
		}
	})

	j := openJournal(io.Discard)
	j.RecordEvent("mc1", "create", nil)
	j.RecordEvent("mc1", "stop", errors.New("engine unavailable"))
	j.RecordEvent("mc2", "restart", nil)
	j.Close()

	t.Run("all servers", func(t *testing.T) {
		cmd, out := newCmd()
		if err := runHistory(cmd, nil); err != nil {
			t.Fatalf("Failed to run history: %v", err)
		}

		for _, want := range []string{"mc1", "mc2", "create", "restart", "engine unavailable"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Expected journal table to contain %q", want)
			}
		}
	})

	t.Run("single server", func(t *testing.T) {
		cmd, out := newCmd()
		if err := runHistory(cmd, []string{"mc2"}); err != nil {
			t.Fatalf("Failed to run history: %v", err)
		}

		if !strings.Contains(out.String(), "restart") {
			t.Errorf("Expected mc2 entries, got %q", out.String())
		}
		if strings.Contains(out.String(), "mc1") {
			t.Errorf("Expected mc1 entries to be filtered out, got %q", out.String())
		}
	})
}
