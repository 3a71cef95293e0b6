// Package procs detects other running focusblocks processes. The tracker
// assumes a single writer per store, so a second instance is worth a warning.
package procs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/focusblocks/internal/constants"
)

var (
	processesFunc = ps.Processes
	getpidFunc    = os.Getpid
)

// Instance is another running copy of the app.
type Instance struct {
	PID        int
	Executable string
}

// OtherInstances lists running processes named like this app, excluding the
// current process and its parent (a `go run` wrapper or shell alias).
func OtherInstances() ([]Instance, error) {
	list, err := processesFunc()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	self := getpidFunc()
	parent := -1
	for _, p := range list {
		if p.Pid() == self {
			parent = p.PPid()
			break
		}
	}

	var out []Instance
	for _, p := range list {
		if p.Pid() == self || p.Pid() == parent {
			continue
		}
		if !isApp(p.Executable()) {
			continue
		}
		out = append(out, Instance{PID: p.Pid(), Executable: p.Executable()})
	}
	return out, nil
}

func isApp(executable string) bool {
	name := strings.TrimSuffix(filepath.Base(executable), ".exe")
	return name == constants.AppName
}
