package service

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"care-daily/internal/storage"
)

// ExportService writes every collection into one zip archive, fetched
// through the storage facade so it works identically for both
// backends.
type ExportService struct{ store *storage.Store }

func NewExportService(store *storage.Store) *ExportService { return &ExportService{store: store} }

type exportMetadata struct {
	ExportedAt time.Time `json:"exported_at"`
	Mode       string    `json:"mode"`
}

func (s *ExportService) ExportAll(ctx context.Context, w io.Writer) error {
	zw := zip.NewWriter(w)

	write := func(name string, v any) error {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		return nil
	}

	users, err := s.store.Users.List(ctx)
	if err != nil {
		return err
	}
	if err := write("users_master.json", users); err != nil {
		return err
	}

	reports, err := s.store.Reports.List(ctx, "", "")
	if err != nil {
		return err
	}
	if err := write("daily_reports.json", reports); err != nil {
		return err
	}

	staff, err := s.store.Staff.List(ctx)
	if err != nil {
		return err
	}
	if err := write("staff_accounts.json", staff); err != nil {
		return err
	}

	meetings, err := s.store.Meetings.List(ctx, "", "")
	if err != nil {
		return err
	}
	if err := write("morning_meetings.json", meetings); err != nil {
		return err
	}

	tags, err := s.store.Tags.List(ctx, "")
	if err != nil {
		return err
	}
	if err := write("tags_master.json", tags); err != nil {
		return err
	}

	records, err := s.store.Records.List(ctx, "")
	if err != nil {
		return err
	}
	if err := write("daily_users.json", records); err != nil {
		return err
	}

	meta := exportMetadata{ExportedAt: time.Now(), Mode: s.store.Mode().String()}
	if err := write("export_metadata.json", meta); err != nil {
		return err
	}
	return zw.Close()
}
