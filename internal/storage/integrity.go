package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"care-daily/internal/logger"
	"care-daily/internal/model"
)

// Integrity checking runs once per entity, on first access through this
// store instance. A structurally broken file, or one whose invalid
// fraction exceeds the configured threshold, is restored from the
// latest backup and re-checked; if that also fails the entity is
// reported corrupted rather than silently loaded as empty.

func (s *localStore) ensureVerified(name string) error {
	s.vmu.Lock()
	defer s.vmu.Unlock()
	if s.verified[name] {
		return nil
	}

	if err := s.verifyFile(name); err != nil {
		logger.Warn("integrity check failed, restoring from backup", "file", name, "err", err)
		// Only the damaged file is touched; the other collections keep
		// their live state and their verdicts.
		s.quarantine(name)
		if rerr := s.backups.RestoreFile(name); rerr != nil {
			return fmt.Errorf("%w: %s: %v (restore: %v)", ErrCorrupted, name, err, rerr)
		}
		if err := s.verifyFile(name); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorrupted, name, err)
		}
		logger.Info("entity recovered from backup", "file", name)
	}

	s.verified[name] = true
	return nil
}

// quarantine keeps a copy of the damaged file next to the original so
// an operator can inspect what would otherwise be lost to the restore.
func (s *localStore) quarantine(name string) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return
	}
	if err := os.WriteFile(s.path(name)+".corrupted", data, 0o644); err != nil {
		logger.Warn("could not keep corrupted copy", "file", name, "err", err)
	}
}

func (s *localStore) verifyFile(name string) error {
	path := s.path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No data yet; nothing to verify and nothing to create.
		return nil
	}

	switch name {
	case usersFile:
		return verifyJSON[model.User](path, s.cfg.Integrity.MaxInvalidFraction)
	case staffFile:
		return verifyJSON[model.StaffAccount](path, s.cfg.Integrity.MaxInvalidFraction)
	case meetingsFile:
		return verifyJSON[model.MorningMeeting](path, s.cfg.Integrity.MaxInvalidFraction)
	case tagsFile:
		return verifyJSON[model.Tag](path, s.cfg.Integrity.MaxInvalidFraction)
	case recordsFile:
		return verifyJSON[model.DailyUserRecord](path, s.cfg.Integrity.MaxInvalidFraction)
	case reportsFile:
		return s.verifyReports(path)
	}
	return fmt.Errorf("unknown entity file %s", name)
}

type validator interface {
	Validate() error
}

func verifyJSON[T validator](path string, maxInvalid float64) error {
	items, err := loadJSON[T](path)
	if err != nil {
		return err
	}
	invalid := 0
	for _, it := range items {
		if it.Validate() != nil {
			invalid++
		}
	}
	if len(items) > 0 && float64(invalid)/float64(len(items)) > maxInvalid {
		return fmt.Errorf("%s: %d of %d records invalid", filepath.Base(path), invalid, len(items))
	}
	if invalid > 0 {
		logger.Warn("collection holds invalid records", "file", filepath.Base(path), "invalid", invalid, "total", len(items))
	}
	return nil
}

func (s *localStore) verifyReports(path string) error {
	reports, bad, err := parseReportsCSV(path)
	if err != nil {
		return err
	}
	total := len(reports) + bad
	if total > 0 && float64(bad)/float64(total) > s.cfg.Integrity.MaxInvalidFraction {
		return fmt.Errorf("%s: %d of %d rows invalid", filepath.Base(path), bad, total)
	}
	return nil
}
