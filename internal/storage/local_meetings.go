package storage

import (
	"context"
	"fmt"
	"time"

	"care-daily/internal/model"
)

type localMeetings struct{ s *localStore }

func (r localMeetings) List(ctx context.Context, from, to string) ([]model.MorningMeeting, error) {
	if err := r.s.ensureVerified(meetingsFile); err != nil {
		return nil, err
	}
	meetings, err := loadJSON[model.MorningMeeting](r.s.path(meetingsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if from == "" && to == "" {
		return meetings, nil
	}
	filtered := meetings[:0]
	for _, m := range meetings {
		if from != "" && m.Date < from {
			continue
		}
		if to != "" && m.Date > to {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered, nil
}

func (r localMeetings) Add(ctx context.Context, m model.MorningMeeting) (model.MorningMeeting, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := m.Validate(); err != nil {
		return model.MorningMeeting{}, err
	}

	var out model.MorningMeeting
	err := r.s.mutate(meetingsFile, func() error {
		meetings, err := loadJSON[model.MorningMeeting](r.s.path(meetingsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		m.ID = nextID(meetings, func(x model.MorningMeeting) int { return x.ID })
		out = m
		return saveJSON(r.s.path(meetingsFile), append(meetings, m))
	})
	return out, err
}

func (r localMeetings) Update(ctx context.Context, id int, m model.MorningMeeting) (model.MorningMeeting, error) {
	var out model.MorningMeeting
	err := r.s.mutate(meetingsFile, func() error {
		meetings, err := loadJSON[model.MorningMeeting](r.s.path(meetingsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for i := range meetings {
			if meetings[i].ID != id {
				continue
			}
			m.ID = id
			m.CreatedAt = meetings[i].CreatedAt
			if err := m.Validate(); err != nil {
				return err
			}
			meetings[i] = m
			out = m
			return saveJSON(r.s.path(meetingsFile), meetings)
		}
		return ErrNotFound
	})
	return out, err
}

func (r localMeetings) Delete(ctx context.Context, id int) error {
	return r.s.mutate(meetingsFile, func() error {
		meetings, err := loadJSON[model.MorningMeeting](r.s.path(meetingsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		kept := meetings[:0]
		found := false
		for _, m := range meetings {
			if m.ID == id {
				found = true
				continue
			}
			kept = append(kept, m)
		}
		if !found {
			return ErrNotFound
		}
		return saveJSON(r.s.path(meetingsFile), kept)
	})
}
