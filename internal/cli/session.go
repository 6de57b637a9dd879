package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/memory"
	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/sqlite"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// attachStore creates the configured backend and attaches it. The
// returned release function detaches it.
func (a *app) attachStore() (types.Store, func() error, error) {
	if a.store != nil {
		return a.store, func() error { return nil }, nil
	}

	var store types.Store
	switch a.cfg.Backend {
	case types.BackendMemory:
		// Already attached; the state lives only as long as the process.
		store = memory.New()
		return store, store.Detach, nil
	default:
		store = sqlite.NewBackend()
	}
	if err := store.Attach(a.cfg.storeConfig()); err != nil {
		return nil, nil, sysErr("attach %s backend: %w", a.cfg.Backend, err)
	}
	return store, store.Detach, nil
}

// withSession wraps fn as a RunE: it opens a Session on the configured
// store, runs fn, and detaches. A state that could not be saved turns
// into a system error after fn has printed its result.
func (a *app) withSession(fn func(cmd *cobra.Command, args []string, s *tally.Session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger, err := logging.New(logging.Options{
			Level:  a.cfg.LogLevel,
			File:   a.cfg.LogFile,
			Stderr: cmd.ErrOrStderr(),
		})
		if err != nil {
			if errors.Is(err, logging.ErrUnknownLevel) {
				return userErr("log_level: %w", err)
			}
			return sysErr("%w", err)
		}
		defer logger.Close()

		store, release, err := a.attachStore()
		if err != nil {
			return err
		}
		defer func() {
			if derr := release(); derr != nil && err == nil {
				err = sysErr("detach: %w", derr)
			}
		}()

		opts := []tally.Option{
			tally.WithStorageKey(a.cfg.StorageKey),
			tally.WithLegacyKeys(a.cfg.LegacyKeys...),
			tally.WithLogger(logger.With("component", "tally")),
		}
		s := tally.Open(store, append(opts, a.sessionOpts...)...)

		if err := fn(cmd, args, s); err != nil {
			return err
		}
		if err := s.Err(); err != nil {
			return sysErr("state not saved: %w", err)
		}
		return nil
	}
}
