package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/storage"
)

type DebugCmd struct {
	DBPath   *DebugDBPathCmd   `cmd:"" help:"Show storage location."`
	Dump     *DebugDumpCmd     `cmd:"" help:"Dump stored entries as JSON."`
	DumpTask *DebugDumpTaskCmd `cmd:"" help:"Dump one task as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path":    ctx.Store.GetConfigPath(),
		"session": logger.SessionID,
		"log":     logger.Path(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}

// DebugDumpCmd prints the raw entries exactly as stored, without rollover.
type DebugDumpCmd struct {
	Key string `arg:"" optional:"" help:"Only dump this key."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	keys := []string{cmd.Key}
	if cmd.Key == "" {
		var err error
		if keys, err = ctx.Store.Keys(); err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
	}

	output := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		data, err := ctx.Store.Get(key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("key not found: %s", key)
			}
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid(data) {
			// Keep malformed values visible as strings.
			data, _ = json.Marshal(string(data))
		}
		output[key] = data
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}

type DebugDumpTaskCmd struct {
	ID int64 `arg:"" help:"ID of the task to dump."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	task, ok := tr.Task(cmd.ID)
	if !ok {
		return fmt.Errorf("task not found: %d", cmd.ID)
	}

	jsonBytes, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}

