package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/focusblocks/internal/backup"
	"github.com/julianstephens/focusblocks/internal/constants"
	apperrors "github.com/julianstephens/focusblocks/internal/errors"
	"github.com/julianstephens/focusblocks/internal/keyring"
	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/procs"
	"github.com/julianstephens/focusblocks/internal/storage"
	"github.com/julianstephens/focusblocks/internal/tracker"
)

type Context struct {
	Store storage.Provider
	// Plain drops emoji and styling, for output that is not a terminal.
	Plain bool
	Out   io.Writer
	In    io.Reader
	Now   func() time.Time

	tracker *tracker.Tracker
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Tracker loads the store and opens the tracker on first use.
func (c *Context) Tracker(opts ...tracker.Option) (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	c.WarnOtherInstances()

	c.tracker = tracker.Open(c.Store, append(clockOpts(c), opts...)...)
	c.checkWrite()
	return c.tracker, nil
}

// checkWrite surfaces the last persistence failure as a warning. The
// operation itself already took effect in memory.
func (c *Context) checkWrite() {
	if c.tracker == nil {
		return
	}
	if err := c.tracker.LastError(); err != nil {
		apperrors.Warn(fmt.Errorf("changes may not have been saved: %w", err))
	}
}

// WarnOtherInstances notes other running copies sharing the single-writer
// store.
func (c *Context) WarnOtherInstances() {
	others, err := procs.OtherInstances()
	if err != nil {
		logger.Debug("Process check failed", "error", err)
		return
	}
	if len(others) > 0 {
		apperrors.Warn(fmt.Errorf("%d other %s process(es) running; concurrent writers overwrite each other", len(others), constants.AppName))
	}
}

// PerformAutomaticBackup snapshots file-backed stores, logging failures
// without interrupting the caller.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := backup.ForStore(c.Store.GetConfigPath())
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveProvider maps the configured location to a storage backend. A bare
// "postgres" takes the connection string from the environment or keyring;
// explicit PostgreSQL URLs must not carry a password.
func ResolveProvider(config string) (storage.Provider, error) {
	switch {
	case strings.EqualFold(config, constants.PostgresConfig), strings.EqualFold(config, "postgresql"):
		connStr, src, err := keyring.ResolveConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, apperrors.WithHint(fmt.Errorf("no PostgreSQL connection string: %w", err),
					fmt.Sprintf("set %s or run '%s keyring set'", constants.EnvDBConnection, constants.AppName))
			}
			return nil, err
		}
		logger.Debug("Using PostgreSQL connection string", "source", src, "conn", keyring.Mask(connStr))
		return storage.NewPostgresStore(connStr), nil

	case storage.IsPostgresConnString(config):
		if storage.HasEmbeddedCredentials(config) {
			return nil, apperrors.WithHint(storage.ErrEmbeddedCredentials,
				fmt.Sprintf("store the full connection string with '%s keyring set' and use --config=%s", constants.AppName, constants.PostgresConfig))
		}
		return storage.NewPostgresStore(config), nil
	}

	return storage.NewProvider(config), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
