package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"care-daily/internal/config"
	"care-daily/internal/logger"

	"github.com/gofrs/flock"
)

// One file per collection under the data directory.
const (
	usersFile    = "users_master.json"
	reportsFile  = "daily_reports.csv"
	staffFile    = "staff_accounts.json"
	meetingsFile = "morning_meetings.json"
	tagsFile     = "tags_master.json"
	recordsFile  = "daily_users.json"
)

var entityFiles = []string{usersFile, reportsFile, staffFile, meetingsFile, tagsFile, recordsFile}

// entityLock serializes writers per entity. The flock guards against
// other processes sharing the data directory; the mutex guards
// goroutines within this one, since a flock is per-process.
type entityLock struct {
	mu sync.Mutex
	fl *flock.Flock
}

type localStore struct {
	dir     string
	cfg     config.StorageConfig
	backups *Backups
	locks   map[string]*entityLock

	vmu      sync.Mutex
	verified map[string]bool
}

func openLocal(cfg config.StorageConfig) (*localStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &localStore{
		dir:      cfg.Dir,
		cfg:      cfg,
		backups:  newBackups(cfg.Dir, cfg.Backups),
		locks:    make(map[string]*entityLock, len(entityFiles)),
		verified: make(map[string]bool, len(entityFiles)),
	}
	for _, f := range entityFiles {
		s.locks[f] = &entityLock{fl: flock.New(filepath.Join(cfg.Dir, f+".lock"))}
	}

	name, err := s.backups.MaybeBackup()
	if err != nil {
		logger.Warn("startup backup failed", "err", err)
	} else if name != "" {
		logger.Info("startup backup created", "name", name)
	}
	return s, nil
}

func (s *localStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// mutate runs one load-modify-save cycle under the entity's exclusive
// lock, after the collection passed its first-access integrity check.
// Readers do not take the lock; stale reads are acceptable, lost
// updates are not.
func (s *localStore) mutate(name string, fn func() error) error {
	l := s.locks[name]
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fl.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", name, err)
	}
	defer l.fl.Unlock()

	if err := s.ensureVerified(name); err != nil {
		return err
	}
	return fn()
}
