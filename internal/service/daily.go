package service

import (
	"context"
	"errors"
	"strings"

	"care-daily/internal/logger"
	"care-daily/internal/model"
	"care-daily/internal/storage"
)

type ReportService struct{ store *storage.Store }

func NewReportService(store *storage.Store) *ReportService { return &ReportService{store: store} }

// Submit stores the report, then records the subject user's attendance
// for that date. The two writes are sequential and best-effort; there
// is no cross-entity transaction, so a failed attendance write leaves
// the report in place and is only logged.
func (s *ReportService) Submit(ctx context.Context, rep model.DailyReport) (model.DailyReport, error) {
	saved, err := s.store.Reports.Add(ctx, rep)
	if err != nil {
		return model.DailyReport{}, err
	}

	name := strings.TrimSpace(saved.SubjectUserName)
	if name == "" {
		return saved, nil
	}
	userID, ok := s.findUserID(ctx, name)
	if !ok {
		return saved, nil
	}
	_, err = s.store.Records.Add(ctx, model.DailyUserRecord{
		Date:   saved.BusinessDate,
		UserID: userID,
		Status: "present",
	})
	if err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			logger.Warn("attendance record not written", "date", saved.BusinessDate, "user", name, "err", err)
		}
		// A duplicate just means attendance was already recorded today.
	}
	return saved, nil
}

func (s *ReportService) findUserID(ctx context.Context, name string) (int, bool) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		logger.Warn("user lookup failed", "err", err)
		return 0, false
	}
	for _, u := range users {
		if u.Active && u.Name == name {
			return u.ID, true
		}
	}
	return 0, false
}
