package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"care-daily/internal/config"
	"care-daily/internal/logger"
)

const backupPrefix = "backup_"
const backupTimeLayout = "20060102_150405"

// Backups keeps rotating point-in-time snapshots of the local data
// directory. Snapshots are immutable once written.
type Backups struct {
	dataDir string
	dir     string
	cfg     config.BackupConfig
	mu      sync.Mutex
}

type BackupInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
	Files     []string  `json:"files"`
}

type backupMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	Files     []string  `json:"files"`
}

func newBackups(dataDir string, cfg config.BackupConfig) *Backups {
	return &Backups{
		dataDir: dataDir,
		dir:     filepath.Join(dataDir, "backups"),
		cfg:     cfg,
	}
}

// MaybeBackup snapshots the data directory if it holds any data and no
// snapshot exists from within the configured interval. It returns the
// snapshot name, or "" when nothing was done.
func (b *Backups) MaybeBackup() (string, error) {
	if !b.hasData() {
		return "", nil
	}
	infos, err := b.List()
	if err != nil {
		return "", err
	}
	if len(infos) > 0 && time.Since(infos[0].CreatedAt) < b.cfg.MinInterval() {
		return "", nil
	}
	return b.Create()
}

func (b *Backups) hasData() bool {
	for _, f := range entityFiles {
		if _, err := os.Stat(filepath.Join(b.dataDir, f)); err == nil {
			return true
		}
	}
	return false
}

// Create writes a full snapshot of all entity files and prunes old
// snapshots beyond the retention count.
func (b *Backups) Create() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	// Names carry second granularity; back-to-back snapshots get a
	// numeric suffix so an existing snapshot is never overwritten.
	base := backupPrefix + time.Now().Format(backupTimeLayout)
	name := base
	path := filepath.Join(b.dir, name)
	for i := 2; ; i++ {
		err := os.Mkdir(path, 0o755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create backup dir: %w", err)
		}
		name = fmt.Sprintf("%s_%d", base, i)
		path = filepath.Join(b.dir, name)
	}

	var copied []string
	for _, f := range entityFiles {
		data, err := os.ReadFile(filepath.Join(b.dataDir, f))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("backup %s: %w", f, err)
		}
		if err := writeFileAtomic(filepath.Join(path, f), data); err != nil {
			return "", fmt.Errorf("backup %s: %w", f, err)
		}
		copied = append(copied, f)
	}

	meta := backupMetadata{CreatedAt: time.Now(), Files: copied}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup metadata: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(path, "metadata.json"), data); err != nil {
		return "", err
	}

	b.prune()
	return name, nil
}

// List returns snapshots, newest first.
func (b *Backups) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var infos []BackupInfo
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) {
			continue
		}
		info := BackupInfo{Name: e.Name()}
		ts, err := time.ParseInLocation(backupTimeLayout, strings.TrimPrefix(e.Name(), backupPrefix), time.Local)
		if err != nil {
			if fi, serr := e.Info(); serr == nil {
				ts = fi.ModTime()
			}
		}
		info.CreatedAt = ts

		files, _ := os.ReadDir(filepath.Join(b.dir, e.Name()))
		for _, f := range files {
			if fi, err := f.Info(); err == nil {
				info.SizeBytes += fi.Size()
			}
			if f.Name() != "metadata.json" {
				info.Files = append(info.Files, f.Name())
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.After(infos[j].CreatedAt) })
	return infos, nil
}

// Restore copies a snapshot's files over the live data directory. The
// current state is snapshotted first so a restore is itself reversible.
func (b *Backups) Restore(name string) error {
	if name != filepath.Base(name) || !strings.HasPrefix(name, backupPrefix) {
		return fmt.Errorf("invalid backup name %q", name)
	}
	src := filepath.Join(b.dir, name)
	if fi, err := os.Stat(src); err != nil || !fi.IsDir() {
		return fmt.Errorf("backup %s: %w", name, ErrNotFound)
	}

	// Read the snapshot fully before the pre-restore backup: pruning
	// after that backup could otherwise remove the snapshot under us.
	files := make(map[string][]byte)
	for _, f := range entityFiles {
		data, err := os.ReadFile(filepath.Join(src, f))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read backup %s: %w", f, err)
		}
		files[f] = data
	}
	if len(files) == 0 {
		return fmt.Errorf("backup %s holds no data files", name)
	}

	if _, err := b.Create(); err != nil {
		logger.Warn("pre-restore backup failed", "err", err)
	}

	for f, data := range files {
		if err := writeFileAtomic(filepath.Join(b.dataDir, f), data); err != nil {
			return fmt.Errorf("restore %s: %w", f, err)
		}
	}
	logger.Info("backup restored", "name", name, "files", len(files))
	return nil
}

// RestoreFile copies one entity file from the newest snapshot that
// holds it, leaving every other live file untouched. Used by the
// integrity checker when a single file fails verification.
func (b *Backups) RestoreFile(name string) error {
	infos, err := b.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		data, err := os.ReadFile(filepath.Join(b.dir, info.Name, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read backup %s: %w", name, err)
		}
		if err := writeFileAtomic(filepath.Join(b.dataDir, name), data); err != nil {
			return fmt.Errorf("restore %s: %w", name, err)
		}
		logger.Info("file restored from backup", "file", name, "backup", info.Name)
		return nil
	}
	return fmt.Errorf("no backup holds %s", name)
}

// RestoreLatest restores the most recent snapshot in full.
func (b *Backups) RestoreLatest() error {
	infos, err := b.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return errors.New("no backups available")
	}
	return b.Restore(infos[0].Name)
}

func (b *Backups) prune() {
	if b.cfg.Retain <= 0 {
		return
	}
	infos, err := b.List()
	if err != nil {
		logger.Warn("backup prune skipped", "err", err)
		return
	}
	for _, info := range infos[min(b.cfg.Retain, len(infos)):] {
		if err := os.RemoveAll(filepath.Join(b.dir, info.Name)); err != nil {
			logger.Warn("backup prune failed", "name", info.Name, "err", err)
		}
	}
}
