package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusblocks/internal/backup"
	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/models"
	"github.com/julianstephens/focusblocks/internal/procs"
	"github.com/julianstephens/focusblocks/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	fail := func(name string, err error) {
		ctx.printf("❌ %s: FAIL\n", name)
		ctx.printf("   Error: %v\n", err)
		hasError = true
	}

	reachable := true
	if err := checkStoreReachable(ctx); err != nil {
		fail("Storage reachable", err)
		reachable = false
	} else {
		ctx.printf("✓ Storage reachable: OK (%s)\n", ctx.Store.GetConfigPath())
	}

	if !reachable {
		ctx.printf("⊘ Schema version: SKIPPED (storage not reachable)\n")
		ctx.printf("⊘ Stored data: SKIPPED (storage not reachable)\n")
	} else {
		if err := checkSchemaVersion(ctx); err != nil {
			fail("Schema version", err)
		} else {
			ctx.printf("✓ Schema version: OK\n")
		}

		if err := checkStoredData(ctx); err != nil {
			fail("Stored data", err)
		} else {
			ctx.printf("✓ Stored data: OK\n")
		}
	}

	if err := checkBackupsPresent(ctx); err != nil {
		if errors.Is(err, backup.ErrNotFileBacked) {
			ctx.printf("⊘ Backups present: SKIPPED (%v)\n", err)
		} else {
			ctx.printf("⚠ Backups present: WARNING\n")
			ctx.printf("   %v\n", err)
		}
	} else {
		ctx.printf("✓ Backups present: OK\n")
	}

	if others, err := procs.OtherInstances(); err != nil {
		ctx.printf("⊘ Other instances: SKIPPED (%v)\n", err)
	} else if len(others) > 0 {
		ctx.printf("⚠ Other instances: WARNING\n")
		for _, p := range others {
			ctx.printf("   %s running as PID %d\n", p.Executable, p.PID)
		}
	} else {
		ctx.printf("✓ Other instances: none\n")
	}

	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	_, err := ctx.Store.Keys()
	return err
}

func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// Only the SQLite backend is validated offline; Postgres validates
		// on Load.
		return nil
	}

	current, latest, err := sqliteStore.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkStoredData parses both entries as stored, without going through the
// tracker (which would replace malformed data with defaults).
func checkStoredData(ctx *Context) error {
	var tasks []models.Task
	if err := readEntry(ctx.Store, constants.TasksKey, &tasks); err != nil {
		return err
	}
	var history models.RewardHistory
	if err := readEntry(ctx.Store, constants.ClaimedRewardsKey, &history); err != nil {
		return err
	}

	v := ctx.validator()
	result := v.ValidateTasks(tasks)
	result.Merge(v.ValidateHistory(history, models.DefaultRewards()))
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run '%s validate' for details", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func readEntry(store storage.Provider, key string, v any) error {
	data, err := store.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s is malformed: %w", key, err)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := backup.ForStore(ctx.Store.GetConfigPath())
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := time.Now()
	if ctx.Now != nil {
		now = ctx.Now()
	}

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	// The calendar day follows local time, so UTC is worth pointing out.
	if now.Location() == time.UTC {
		ctx.printf("   Note: timezone is UTC\n")
	}
	return nil
}
