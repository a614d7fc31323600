package storage

import (
	"context"
	"fmt"
	"time"

	"care-daily/internal/model"
)

type localRecords struct{ s *localStore }

func (r localRecords) List(ctx context.Context, date string) ([]model.DailyUserRecord, error) {
	if err := r.s.ensureVerified(recordsFile); err != nil {
		return nil, err
	}
	records, err := loadJSON[model.DailyUserRecord](r.s.path(recordsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if date == "" {
		return records, nil
	}
	filtered := records[:0]
	for _, rec := range records {
		if rec.Date == date {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func (r localRecords) Add(ctx context.Context, rec model.DailyUserRecord) (model.DailyUserRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if err := rec.Validate(); err != nil {
		return model.DailyUserRecord{}, err
	}

	var out model.DailyUserRecord
	err := r.s.mutate(recordsFile, func() error {
		records, err := loadJSON[model.DailyUserRecord](r.s.path(recordsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for _, e := range records {
			if e.Date == rec.Date && e.UserID == rec.UserID {
				return &model.ValidationError{Field: "user_id", Reason: "already recorded for this date"}
			}
		}
		rec.ID = nextID(records, func(x model.DailyUserRecord) int { return x.ID })
		out = rec
		return saveJSON(r.s.path(recordsFile), append(records, rec))
	})
	return out, err
}

func (r localRecords) Update(ctx context.Context, id int, rec model.DailyUserRecord) (model.DailyUserRecord, error) {
	var out model.DailyUserRecord
	err := r.s.mutate(recordsFile, func() error {
		records, err := loadJSON[model.DailyUserRecord](r.s.path(recordsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for i := range records {
			if records[i].ID != id {
				continue
			}
			rec.ID = id
			rec.CreatedAt = records[i].CreatedAt
			if err := rec.Validate(); err != nil {
				return err
			}
			for j, e := range records {
				if j != i && e.Date == rec.Date && e.UserID == rec.UserID {
					return &model.ValidationError{Field: "user_id", Reason: "already recorded for this date"}
				}
			}
			records[i] = rec
			out = rec
			return saveJSON(r.s.path(recordsFile), records)
		}
		return ErrNotFound
	})
	return out, err
}

func (r localRecords) Delete(ctx context.Context, id int) error {
	return r.s.mutate(recordsFile, func() error {
		records, err := loadJSON[model.DailyUserRecord](r.s.path(recordsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		kept := records[:0]
		found := false
		for _, rec := range records {
			if rec.ID == id {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		if !found {
			return ErrNotFound
		}
		return saveJSON(r.s.path(recordsFile), kept)
	})
}
