// Package backup keeps rotating snapshots of file-backed stores next to the
// store itself. SQLite stores are copied with VACUUM INTO, JSON stores
// byte-for-byte.
package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/logger"
)

const timestampLayout = "20060102-150405"

// ErrNotFileBacked is returned for stores that have no file to snapshot.
var ErrNotFileBacked = errors.New("backups are only supported for SQLite and JSON stores")

// Kind is the on-disk format of a store.
type Kind int

const (
	KindSQLite Kind = iota
	KindJSON
)

// KindOf infers the store format from its path.
func KindOf(path string) Kind {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return KindJSON
	}
	return KindSQLite
}

// Info describes one snapshot.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Manager creates, lists, rotates and restores snapshots of one store file.
type Manager struct {
	storePath string
	backupDir string
	kind      Kind
	keep      int
	now       func() time.Time
}

// NewManager manages snapshots of storePath in a sibling backups directory.
func NewManager(storePath string) *Manager {
	return &Manager{
		storePath: storePath,
		backupDir: filepath.Join(filepath.Dir(storePath), constants.BackupDirName),
		kind:      KindOf(storePath),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

// ForStore returns a manager for a configured store location, or
// ErrNotFileBacked when the location is not a file.
func ForStore(storePath string) (*Manager, error) {
	switch {
	case storePath == constants.MemoryConfig, storePath == "postgresql", strings.Contains(storePath, "://"):
		return nil, ErrNotFileBacked
	}
	return NewManager(storePath), nil
}

func (m *Manager) BackupDir() string { return m.backupDir }

func (m *Manager) suffix() string {
	if m.kind == KindJSON {
		return ".json"
	}
	return constants.BackupFileSuffix
}

// Create snapshots the store and prunes snapshots beyond the retention limit.
func (m *Manager) Create() (Info, error) {
	info, err := m.create()
	if err != nil {
		return Info{}, err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) create() (Info, error) {
	if _, err := os.Stat(m.storePath); err != nil {
		return Info{}, fmt.Errorf("store does not exist: %s", m.storePath)
	}
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	ts := m.now()
	stamp := ts.Format(timestampLayout)
	path, seq := "", 0
	for ; seq < 100; seq++ {
		path = filepath.Join(m.backupDir, m.filename(stamp, seq))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
	}
	if seq == 100 {
		return Info{}, errors.New("failed to generate unique backup filename")
	}

	if err := m.snapshot(path); err != nil {
		_ = os.Remove(path)
		return Info{}, fmt.Errorf("failed to back up store: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Info("Created backup", "path", path)
	return Info{Path: path, Timestamp: ts.Truncate(time.Second), Size: st.Size(), seq: seq}, nil
}

func (m *Manager) filename(stamp string, seq int) string {
	if seq == 0 {
		return constants.BackupFilePrefix + stamp + m.suffix()
	}
	return fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, seq, m.suffix())
}

func (m *Manager) snapshot(dest string) error {
	if m.kind == KindJSON {
		return copyFile(m.storePath, dest)
	}

	db, err := sql.Open("sqlite", m.storePath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if err := checkSQLite(db); err != nil {
		return fmt.Errorf("store appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(m.storePath, dest)
	}
	return nil
}

// List returns snapshots newest first. Files that do not follow the naming
// scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	out := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := m.parseName(entry.Name())
		if !ok {
			continue
		}
		st, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      st.Size(),
			seq:       seq,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].seq > out[j].seq
	})
	return out, nil
}

// parseName accepts <prefix>YYYYMMDD-HHMMSS[-N]<suffix>.
func (m *Manager) parseName(name string) (time.Time, int, bool) {
	rest, ok := strings.CutPrefix(name, constants.BackupFilePrefix)
	if !ok {
		return time.Time{}, 0, false
	}
	rest, ok = strings.CutSuffix(rest, m.suffix())
	if !ok {
		return time.Time{}, 0, false
	}

	stamp, seq := rest, 0
	if len(rest) > len(timestampLayout) && rest[len(timestampLayout)] == '-' {
		n, err := strconv.Atoi(rest[len(timestampLayout)+1:])
		if err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		stamp, seq = rest[:len(timestampLayout)], n
	}

	ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the store with the snapshot at backupPath. The current
// store, if any, is snapshotted first (without rotation). The store must
// not be open while restoring.
func (m *Manager) Restore(backupPath string) (preRestore string, err error) {
	if _, err := os.Stat(backupPath); err != nil {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.storePath); err == nil {
		info, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to back up current store before restore: %w", err)
		}
		preRestore = info.Path
	}

	tmp := m.storePath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return preRestore, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.storePath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return preRestore, fmt.Errorf("failed to restore store: %w", err)
	}

	logger.Info("Restored backup", "from", backupPath, "to", m.storePath)
	return preRestore, nil
}

func (m *Manager) verify(path string) error {
	if m.kind == KindJSON {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return errors.New("not a JSON document")
		}
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	return checkSQLite(db)
}

func checkSQLite(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
