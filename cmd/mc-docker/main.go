package main

import (
	"errors"
	"os"

	"github.com/oitsjustjose/MC-Docker/internal/cli"
	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}

	// Typed failures carry their own exit code, so scripts can tell rejected
	// options from Docker failures or a missing server.
	var cliErr *errs.CLIError
	if errors.As(err, &cliErr) {
		os.Exit(int(cliErr.Code))
	}
	os.Exit(1)
}
