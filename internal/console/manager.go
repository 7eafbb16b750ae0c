package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

// Manager drives an interactive rcon session against one server. Each line is
// forwarded as its own rcon command, so the session survives server restarts
// between commands.
type Manager struct {
	server interfaces.ServerManager
}

var _ interfaces.ConsoleManager = (*Manager)(nil)

// NewManager creates a console manager bound to one server
func NewManager(server interfaces.ServerManager) *Manager {
	return &Manager{server: server}
}

// Run starts the line-edited console loop and blocks until the user leaves.
func (m *Manager) Run(ctx context.Context) error {
	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".mc-docker_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errs.NewGenericError("failed to initialize readline", err)
	}
	defer rl.Close()

	fmt.Println()
	fmt.Printf("Console for %s. Type server commands and press Enter.\n", m.server.Name())
	fmt.Println("Press Ctrl+C or type 'exit' to quit.")
	fmt.Println()

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				// Ctrl+C or Ctrl+D
				fmt.Println("\nGoodbye!")
				return nil
			}
			return errs.NewGenericError("error reading input", err)
		}

		out, done, err := m.dispatch(ctx, line)
		if done {
			fmt.Println("Goodbye!")
			return nil
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// dispatch interprets one console line. Blank lines are skipped, exit/quit end
// the session and everything else goes to the server.
func (m *Manager) dispatch(ctx context.Context, line string) (string, bool, error) {
	command := strings.TrimSpace(line)
	if command == "" {
		return "", false, nil
	}
	if command == "exit" || command == "quit" {
		return "", true, nil
	}

	out, err := m.server.Rcon(ctx, command)
	return out, false, err
}
