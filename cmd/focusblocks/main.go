package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/julianstephens/focusblocks/internal/cli"
	"github.com/julianstephens/focusblocks/internal/constants"
	apperrors "github.com/julianstephens/focusblocks/internal/errors"
	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage location: a .db (SQLite) or .json file, 'memory', 'postgres', or a passwordless postgres:// URL." default:"${default_config}" env:"FOCUSBLOCKS_CONFIG"`
	Verbose bool   `help:"Log debug output to stderr." short:"v" env:"FOCUSBLOCKS_DEBUG"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize focusblocks storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      cli.AddCmd      `cmd:"" help:"Add a task to today's block."`
	List     cli.ListCmd     `cmd:"" help:"List today's tasks by block."`
	Done     cli.DoneCmd     `cmd:"" help:"Toggle a task's completion."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a task."`
	Progress cli.ProgressCmd `cmd:"" help:"Show today's progress."`
	Rewards  cli.RewardsCmd  `cmd:"" help:"Show rewards and their status."`
	Claim    cli.ClaimCmd    `cmd:"" help:"Claim an unlocked reward."`
	History  cli.HistoryCmd  `cmd:"" help:"Show claimed rewards per day."`
	Report   cli.ReportCmd   `cmd:"" help:"Write today's PDF report."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored data for inconsistencies."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup now."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups of file-based storage."`
	Keyring cli.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Debug   cli.DebugCmd   `cmd:"" help:"Inspect raw stored data."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily focus blocks: log tasks into morning, evening and late-night blocks and earn rewards."),
		kong.UsageOnError(),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	config := cli.ExpandPath(CLI.Config)

	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: logDir(config)}); err != nil {
		apperrors.Warn(err)
	}
	defer logger.Close()
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command(), "config", config)

	store, err := cli.ResolveProvider(config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	appCtx := &cli.Context{
		Store: store,
		Plain: !term.IsTerminal(int(os.Stdout.Fd())),
	}

	if err := ctx.Run(appCtx); err != nil {
		_ = appCtx.Store.Close()
		apperrors.Fatal(err)
	}
}

// logDir keeps logs beside file-based storage and under the default config
// directory otherwise.
func logDir(config string) string {
	switch {
	case config == constants.MemoryConfig,
		strings.EqualFold(config, constants.PostgresConfig),
		strings.EqualFold(config, "postgresql"),
		storage.IsPostgresConnString(config):
		return filepath.Dir(cli.ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(config)
}
