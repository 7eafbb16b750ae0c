package cli

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/state"
)

// resetBackupState clears the backup command's flag targets and restores them
// when the test finishes.
func resetBackupState(t *testing.T) {
	t.Helper()
	savedDir := backupDir
	savedInterval := backupInterval
	savedRoot := backupRoot
	t.Cleanup(func() {
		backupDir = savedDir
		backupInterval = savedInterval
		backupRoot = savedRoot
	})
	backupDir = ""
	backupInterval = ""
	backupRoot = ""
}

func TestBackupOptions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	setViper(t, "state_db", dbPath)
	setViper(t, "backup_interval", "24h")

	mgr, err := state.NewManager(dbPath)
	if err != nil {
		t.Fatalf("Failed to create state manager: %v", err)
	}
	saved := interfaces.ServerOptions{
		Name:    "mc1",
		Version: "1.20.1",
		Java:    "17",
		Port:    25565,
		Root:    "/worlds/mc1",
	}
	if err := mgr.SaveOptions(saved); err != nil {
		t.Fatalf("Failed to save options: %v", err)
	}
	mgr.Close()

	t.Run("recovers saved options", func(t *testing.T) {
		resetBackupState(t)
		j := openJournal(io.Discard)
		defer j.Close()

		opts, err := backupOptions(j, "mc1")
		if err != nil {
			t.Fatalf("Failed to resolve backup options: %v", err)
		}

		if opts.Root != "/worlds/mc1" {
			t.Errorf("Expected the saved world directory, got %s", opts.Root)
		}
		if opts.BackupInterval != "24h" {
			t.Errorf("Expected the config interval, got %s", opts.BackupInterval)
		}
	})

	t.Run("flags overlay the saved options", func(t *testing.T) {
		resetBackupState(t)
		backupDir = "/archives/mc1"
		backupInterval = "6h"
		j := openJournal(io.Discard)
		defer j.Close()

		opts, err := backupOptions(j, "mc1")
		if err != nil {
			t.Fatalf("Failed to resolve backup options: %v", err)
		}

		if opts.BackupDir != "/archives/mc1" {
			t.Errorf("Expected the flag backup directory, got %s", opts.BackupDir)
		}
		if opts.BackupInterval != "6h" {
			t.Errorf("Expected the flag interval, got %s", opts.BackupInterval)
		}
	})

	t.Run("root flag skips the journal", func(t *testing.T) {
		resetBackupState(t)
		backupRoot = "/elsewhere/mc9"

		// An unusable journal proves --root never reads the database.
		j := &journal{w: io.Discard, openErr: errors.New("state database unavailable")}
		opts, err := backupOptions(j, "mc9")
		if err != nil {
			t.Fatalf("Failed to resolve backup options: %v", err)
		}

		if opts.Root != "/elsewhere/mc9" {
			t.Errorf("Expected the root flag to be used, got %s", opts.Root)
		}
		if opts.BackupInterval != "24h" {
			t.Errorf("Expected the config interval, got %s", opts.BackupInterval)
		}
	})

	t.Run("unknown server", func(t *testing.T) {
		resetBackupState(t)
		j := openJournal(io.Discard)
		defer j.Close()

		_, err := backupOptions(j, "ghost")
		if err == nil {
			t.Fatal("Expected an error for a server with no saved options")
		}

		cliErr, ok := err.(*errs.CLIError)
		if !ok {
			t.Fatalf("Expected a CLIError, got %T", err)
		}
		if cliErr.Code != errs.CodeNotFound {
			t.Errorf("Expected not-found code, got %d", cliErr.Code)
		}
		if !strings.Contains(err.Error(), "--root") {
			t.Errorf("Expected the error to point at --root, got %q", err.Error())
		}
	})
}
