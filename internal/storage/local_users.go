package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"care-daily/internal/model"
)

type localUsers struct{ s *localStore }

func (r localUsers) List(ctx context.Context) ([]model.User, error) {
	if err := r.s.ensureVerified(usersFile); err != nil {
		return nil, err
	}
	users, err := loadJSON[model.User](r.s.path(usersFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return users, nil
}

func (r localUsers) Add(ctx context.Context, u model.User) (model.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Active = true
	u.DeletedAt = nil
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if err := u.Validate(); err != nil {
		return model.User{}, err
	}

	var out model.User
	err := r.s.mutate(usersFile, func() error {
		users, err := loadJSON[model.User](r.s.path(usersFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for _, e := range users {
			if e.Active && e.Name == u.Name {
				return &model.ValidationError{Field: "name", Reason: "user already exists"}
			}
		}
		u.ID = nextID(users, func(x model.User) int { return x.ID })
		u.DisplayOrder = nextID(users, func(x model.User) int { return x.DisplayOrder })
		out = u
		return saveJSON(r.s.path(usersFile), append(users, u))
	})
	return out, err
}

func (r localUsers) Update(ctx context.Context, id int, u model.User) (model.User, error) {
	var out model.User
	err := r.s.mutate(usersFile, func() error {
		users, err := loadJSON[model.User](r.s.path(usersFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for i := range users {
			if users[i].ID != id {
				continue
			}
			u.ID = id
			u.CreatedAt = users[i].CreatedAt
			if err := u.Validate(); err != nil {
				return err
			}
			users[i] = u
			out = u
			return saveJSON(r.s.path(usersFile), users)
		}
		return ErrNotFound
	})
	return out, err
}

func (r localUsers) Delete(ctx context.Context, id int) error {
	return r.s.mutate(usersFile, func() error {
		users, err := loadJSON[model.User](r.s.path(usersFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for i := range users {
			if users[i].ID == id {
				now := time.Now()
				users[i].Active = false
				users[i].DeletedAt = &now
				return saveJSON(r.s.path(usersFile), users)
			}
		}
		return ErrNotFound
	})
}

func (r localUsers) Restore(ctx context.Context, id int) error {
	return r.s.mutate(usersFile, func() error {
		users, err := loadJSON[model.User](r.s.path(usersFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for i := range users {
			if users[i].ID == id {
				users[i].Active = true
				users[i].DeletedAt = nil
				return saveJSON(r.s.path(usersFile), users)
			}
		}
		return ErrNotFound
	})
}

func (r localUsers) Reorder(ctx context.Context, ids []int) error {
	return r.s.mutate(usersFile, func() error {
		users, err := loadJSON[model.User](r.s.path(usersFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		ordered := orderUsers(users, ids)
		for i := range ordered {
			ordered[i].DisplayOrder = i + 1
		}
		return saveJSON(r.s.path(usersFile), ordered)
	})
}

// orderUsers arranges the master by the requested id sequence. Ids with
// no matching user are skipped; users not listed follow in their
// current relative order, active ones before deleted ones.
func orderUsers(users []model.User, ids []int) []model.User {
	byID := make(map[int]int, len(users))
	for i, u := range users {
		byID[u.ID] = i
	}

	ordered := make([]model.User, 0, len(users))
	placed := make(map[int]bool, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok && !placed[id] {
			ordered = append(ordered, users[i])
			placed[id] = true
		}
	}
	for _, u := range users {
		if !placed[u.ID] && u.Active {
			ordered = append(ordered, u)
		}
	}
	for _, u := range users {
		if !placed[u.ID] && !u.Active {
			ordered = append(ordered, u)
		}
	}
	return ordered
}

func (r localUsers) Purge(ctx context.Context, id int) error {
	return r.s.mutate(usersFile, func() error {
		users, err := loadJSON[model.User](r.s.path(usersFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		kept := users[:0]
		found := false
		for _, u := range users {
			if u.ID == id {
				found = true
				continue
			}
			kept = append(kept, u)
		}
		if !found {
			return ErrNotFound
		}
		return saveJSON(r.s.path(usersFile), kept)
	})
}
