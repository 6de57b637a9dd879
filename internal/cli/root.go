// Package cli implements the tally command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userErr reports a problem with the command line or its input.
func userErr(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysErr reports a failure of the environment: storage, filesystem, clipboard.
func sysErr(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// app holds global flag values and the loaded configuration for one
// command tree.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	cfg settings

	// store, when set, replaces the configured backend and is never
	// detached. sessionOpts are appended to the session's options.
	store       types.Store
	sessionOpts []tally.Option
	copy        func(string) error
}

// NewRootCmd creates the top-level "tally" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{copy: clipboard.WriteAll})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tally",
		Short: "A tally counter with a printed tape and a daily log",
		Long: "tally counts things. Print the count to the tape to record it with a\n" +
			"job, a label and a per-label sequence number; export today's entries\n" +
			"as CSV at the end of the day.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadSettings()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/tally)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/tally)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newShowCmd(a),
		newIncCmd(a),
		newDecCmd(a),
		newResetCmd(a),
		newStepCmd(a),
		newJobCmd(a),
		newLabelCmd(a),
		newSeqCmd(a),
		newPrintCmd(a),
		newTapeCmd(a),
		newDayCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newToggleCmd(a),
		newThemeCmd(a),
		newShareCmd(a),
		newTUICmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
