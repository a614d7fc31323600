package storage

import (
	"context"

	"care-daily/internal/config"
	"care-daily/internal/logger"
	"care-daily/internal/model"
)

// Mode is the backend the store was opened with. It is decided once at
// Open and never changes for the lifetime of the process.
type Mode int

const (
	LocalMode Mode = iota
	RemoteMode
)

func (m Mode) String() string {
	if m == RemoteMode {
		return "remote"
	}
	return "local"
}

// UserRepository manages the service-user master. Delete is a soft
// delete; Purge removes the record for good.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	Add(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, id int, u model.User) (model.User, error)
	Delete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	Purge(ctx context.Context, id int) error
	// Reorder rewrites the display order of the whole master. Ids that
	// match no user are ignored; users left out keep their relative
	// order after the listed ones, active before deleted.
	Reorder(ctx context.Context, ids []int) error
}

type ReportRepository interface {
	// List returns reports with from <= business_date <= to; empty bounds
	// are open-ended.
	List(ctx context.Context, from, to string) ([]model.DailyReport, error)
	Add(ctx context.Context, r model.DailyReport) (model.DailyReport, error)
	Update(ctx context.Context, id int, r model.DailyReport) (model.DailyReport, error)
	Delete(ctx context.Context, id int) error
}

// StaffRepository manages staff login accounts. UserID is unique across
// active and soft-deleted accounts so an id is never reused.
type StaffRepository interface {
	List(ctx context.Context) ([]model.StaffAccount, error)
	Add(ctx context.Context, a model.StaffAccount) (model.StaffAccount, error)
	Update(ctx context.Context, id int, a model.StaffAccount) (model.StaffAccount, error)
	Delete(ctx context.Context, id int) error
	FindByUserID(ctx context.Context, userID string) (model.StaffAccount, error)
}

type MeetingRepository interface {
	List(ctx context.Context, from, to string) ([]model.MorningMeeting, error)
	Add(ctx context.Context, m model.MorningMeeting) (model.MorningMeeting, error)
	Update(ctx context.Context, id int, m model.MorningMeeting) (model.MorningMeeting, error)
	Delete(ctx context.Context, id int) error
}

type TagRepository interface {
	// List returns tags of the given type, or all tags when tagType is
	// empty.
	List(ctx context.Context, tagType model.TagType) ([]model.Tag, error)
	Add(ctx context.Context, t model.Tag) (model.Tag, error)
	Delete(ctx context.Context, id int) error
}

type RecordRepository interface {
	// List returns records for one date, or all records when date is
	// empty.
	List(ctx context.Context, date string) ([]model.DailyUserRecord, error)
	Add(ctx context.Context, r model.DailyUserRecord) (model.DailyUserRecord, error)
	Update(ctx context.Context, id int, r model.DailyUserRecord) (model.DailyUserRecord, error)
	Delete(ctx context.Context, id int) error
}

// Store is the single entry point callers use for persisted state. All
// six collections are owned by it; the backend behind the repositories
// is fixed at Open.
type Store struct {
	mode    Mode
	backups *Backups

	Users    UserRepository
	Reports  ReportRepository
	Staff    StaffRepository
	Meetings MeetingRepository
	Tags     TagRepository
	Records  RecordRepository
}

func (s *Store) Mode() Mode { return s.mode }

// Backups returns the backup manager, or nil in RemoteMode where the
// remote store is the source of truth.
func (s *Store) Backups() *Backups { return s.backups }

// Open selects the backend from configuration: remote when both DSN and
// access key are present, local files otherwise. A half-configured
// remote is treated as local with a warning, not as an error.
func Open(cfg *config.Config) (*Store, error) {
	if cfg.Remote.PartiallyConfigured() {
		logger.Warn("remote storage half-configured, falling back to local files",
			"dsn_set", cfg.Remote.DSN != "", "access_key_set", cfg.Remote.AccessKey != "")
	}

	if cfg.Remote.Enabled() {
		c := newRemoteClient(cfg.Remote)
		logger.Info("storage backend selected", "mode", RemoteMode.String())
		return &Store{
			mode:     RemoteMode,
			Users:    remoteUsers{c},
			Reports:  remoteReports{c},
			Staff:    remoteStaff{c},
			Meetings: remoteMeetings{c},
			Tags:     remoteTags{c},
			Records:  remoteRecords{c},
		}, nil
	}

	ls, err := openLocal(cfg.Storage)
	if err != nil {
		return nil, err
	}
	logger.Info("storage backend selected", "mode", LocalMode.String(), "dir", cfg.Storage.Dir)
	return &Store{
		mode:     LocalMode,
		backups:  ls.backups,
		Users:    localUsers{ls},
		Reports:  localReports{ls},
		Staff:    localStaff{ls},
		Meetings: localMeetings{ls},
		Tags:     localTags{ls},
		Records:  localRecords{ls},
	}, nil
}
