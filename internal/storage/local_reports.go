package storage

import (
	"context"
	"fmt"
	"time"

	"care-daily/internal/logger"
	"care-daily/internal/model"
)

type localReports struct{ s *localStore }

func (r localReports) load() ([]model.DailyReport, error) {
	reports, bad, err := parseReportsCSV(r.s.path(reportsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if bad > 0 {
		// Isolated broken rows are skipped so the bulk of the reports
		// stays readable; the integrity threshold catches the pervasive
		// case before we get here.
		logger.Warn("skipped malformed report rows", "count", bad)
	}
	return reports, nil
}

func (r localReports) List(ctx context.Context, from, to string) ([]model.DailyReport, error) {
	if err := r.s.ensureVerified(reportsFile); err != nil {
		return nil, err
	}
	reports, err := r.load()
	if err != nil {
		return nil, err
	}
	if from == "" && to == "" {
		return reports, nil
	}
	filtered := reports[:0]
	for _, rep := range reports {
		if from != "" && rep.BusinessDate < from {
			continue
		}
		if to != "" && rep.BusinessDate > to {
			continue
		}
		filtered = append(filtered, rep)
	}
	return filtered, nil
}

func (r localReports) Add(ctx context.Context, rep model.DailyReport) (model.DailyReport, error) {
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}
	if err := rep.Validate(); err != nil {
		return model.DailyReport{}, err
	}

	var out model.DailyReport
	err := r.s.mutate(reportsFile, func() error {
		reports, err := r.load()
		if err != nil {
			return err
		}
		rep.ID = nextID(reports, func(x model.DailyReport) int { return x.ID })
		out = rep
		return saveReportsCSV(r.s.path(reportsFile), append(reports, rep))
	})
	return out, err
}

func (r localReports) Update(ctx context.Context, id int, rep model.DailyReport) (model.DailyReport, error) {
	var out model.DailyReport
	err := r.s.mutate(reportsFile, func() error {
		reports, err := r.load()
		if err != nil {
			return err
		}
		for i := range reports {
			if reports[i].ID != id {
				continue
			}
			rep.ID = id
			rep.CreatedAt = reports[i].CreatedAt
			if err := rep.Validate(); err != nil {
				return err
			}
			reports[i] = rep
			out = rep
			return saveReportsCSV(r.s.path(reportsFile), reports)
		}
		return ErrNotFound
	})
	return out, err
}

func (r localReports) Delete(ctx context.Context, id int) error {
	return r.s.mutate(reportsFile, func() error {
		reports, err := r.load()
		if err != nil {
			return err
		}
		kept := reports[:0]
		found := false
		for _, rep := range reports {
			if rep.ID == id {
				found = true
				continue
			}
			kept = append(kept, rep)
		}
		if !found {
			return ErrNotFound
		}
		return saveReportsCSV(r.s.path(reportsFile), kept)
	})
}
