package cli

import (
	"fmt"
	"io"

	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

// journal holds the state database open for the duration of one command
// invocation, so every read and write in that invocation shares a single
// connection. Writes are best effort: journal problems become warnings on w,
// never command failures. When the open itself failed, mgr is nil and openErr
// carries the reason for callers that must read.
type journal struct {
	w       io.Writer
	mgr     interfaces.StateManager
	openErr error
}

// openJournal opens the state database once per command. An open failure is
// reported as a single warning here; later writes silently no-op.
func openJournal(w io.Writer) *journal {
	mgr, err := getStateManager()
	if err != nil {
		fmt.Fprintf(w, "Warning: failed to open state database: %v\n", err)
		return &journal{w: w, openErr: err}
	}
	return &journal{w: w, mgr: mgr}
}

func (j *journal) Close() {
	if j.mgr != nil {
		j.mgr.Close()
	}
}

// RecordEvent journals an operation outcome.
func (j *journal) RecordEvent(serverName, operation string, opErr error) {
	if j.mgr == nil {
		return
	}
	outcome, detail := "success", ""
	if opErr != nil {
		outcome = "failure"
		detail = opErr.Error()
	}
	if err := j.mgr.RecordEvent(serverName, operation, outcome, detail); err != nil {
		fmt.Fprintf(j.w, "Warning: failed to record %s event: %v\n", operation, err)
	}
}

// SaveOptions remembers the option set a server was created with.
func (j *journal) SaveOptions(opts interfaces.ServerOptions) {
	if j.mgr == nil {
		return
	}
	if err := j.mgr.SaveOptions(opts); err != nil {
		fmt.Fprintf(j.w, "Warning: failed to save server options: %v\n", err)
	}
}
