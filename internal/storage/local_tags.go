package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"care-daily/internal/model"
)

type localTags struct{ s *localStore }

func (r localTags) List(ctx context.Context, tagType model.TagType) ([]model.Tag, error) {
	if err := r.s.ensureVerified(tagsFile); err != nil {
		return nil, err
	}
	tags, err := loadJSON[model.Tag](r.s.path(tagsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if tagType == "" {
		return tags, nil
	}
	filtered := tags[:0]
	for _, t := range tags {
		if t.TagType == tagType {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (r localTags) Add(ctx context.Context, t model.Tag) (model.Tag, error) {
	t.TagName = strings.TrimSpace(t.TagName)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if err := t.Validate(); err != nil {
		return model.Tag{}, err
	}

	var out model.Tag
	err := r.s.mutate(tagsFile, func() error {
		tags, err := loadJSON[model.Tag](r.s.path(tagsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for _, e := range tags {
			if e.TagType == t.TagType && e.TagName == t.TagName {
				return &model.ValidationError{Field: "tag_name", Reason: "tag already exists"}
			}
		}
		t.ID = nextID(tags, func(x model.Tag) int { return x.ID })
		out = t
		return saveJSON(r.s.path(tagsFile), append(tags, t))
	})
	return out, err
}

func (r localTags) Delete(ctx context.Context, id int) error {
	return r.s.mutate(tagsFile, func() error {
		tags, err := loadJSON[model.Tag](r.s.path(tagsFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		kept := tags[:0]
		found := false
		for _, t := range tags {
			if t.ID == id {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		if !found {
			return ErrNotFound
		}
		return saveJSON(r.s.path(tagsFile), kept)
	})
}
