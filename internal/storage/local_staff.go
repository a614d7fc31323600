package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"care-daily/internal/model"
)

type localStaff struct{ s *localStore }

func (r localStaff) List(ctx context.Context) ([]model.StaffAccount, error) {
	if err := r.s.ensureVerified(staffFile); err != nil {
		return nil, err
	}
	accounts, err := loadJSON[model.StaffAccount](r.s.path(staffFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return accounts, nil
}

func (r localStaff) FindByUserID(ctx context.Context, userID string) (model.StaffAccount, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return model.StaffAccount{}, err
	}
	for _, a := range accounts {
		if a.UserID == userID {
			return a, nil
		}
	}
	return model.StaffAccount{}, ErrNotFound
}

func (r localStaff) Add(ctx context.Context, a model.StaffAccount) (model.StaffAccount, error) {
	a.UserID = strings.TrimSpace(a.UserID)
	a.Active = true
	a.DeletedAt = nil
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if err := a.Validate(); err != nil {
		return model.StaffAccount{}, err
	}

	var out model.StaffAccount
	err := r.s.mutate(staffFile, func() error {
		accounts, err := loadJSON[model.StaffAccount](r.s.path(staffFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		// Soft-deleted accounts count too: a user id is never reused.
		for _, e := range accounts {
			if e.UserID == a.UserID {
				return &model.ValidationError{Field: "user_id", Reason: "already taken"}
			}
		}
		a.ID = nextID(accounts, func(x model.StaffAccount) int { return x.ID })
		out = a
		return saveJSON(r.s.path(staffFile), append(accounts, a))
	})
	return out, err
}

func (r localStaff) Update(ctx context.Context, id int, a model.StaffAccount) (model.StaffAccount, error) {
	var out model.StaffAccount
	err := r.s.mutate(staffFile, func() error {
		accounts, err := loadJSON[model.StaffAccount](r.s.path(staffFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for i := range accounts {
			if accounts[i].ID != id {
				continue
			}
			a.ID = id
			a.UserID = accounts[i].UserID
			a.CreatedAt = accounts[i].CreatedAt
			if err := a.Validate(); err != nil {
				return err
			}
			accounts[i] = a
			out = a
			return saveJSON(r.s.path(staffFile), accounts)
		}
		return ErrNotFound
	})
	return out, err
}

func (r localStaff) Delete(ctx context.Context, id int) error {
	return r.s.mutate(staffFile, func() error {
		accounts, err := loadJSON[model.StaffAccount](r.s.path(staffFile))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		for i := range accounts {
			if accounts[i].ID == id {
				now := time.Now()
				accounts[i].Active = false
				accounts[i].DeletedAt = &now
				return saveJSON(r.s.path(staffFile), accounts)
			}
		}
		return ErrNotFound
	})
}
