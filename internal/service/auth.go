package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"care-daily/internal/model"
	"care-daily/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers every login failure the caller may see;
// which part was wrong is deliberately not disclosed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct{ store *storage.Store }

func NewAuthService(store *storage.Store) *AuthService { return &AuthService{store: store} }

func (s *AuthService) Login(ctx context.Context, userID, password string) (model.StaffAccount, error) {
	a, err := s.store.Staff.FindByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return model.StaffAccount{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.StaffAccount{}, err
	}
	if !a.Active {
		return model.StaffAccount{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return model.StaffAccount{}, ErrInvalidCredentials
	}
	return a, nil
}

// CreateAccount hashes the password at this boundary; the store only
// ever sees the hash.
func (s *AuthService) CreateAccount(ctx context.Context, userID, password, displayName string) (model.StaffAccount, error) {
	if password == "" {
		return model.StaffAccount{}, &model.ValidationError{Field: "password", Reason: "required"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.StaffAccount{}, fmt.Errorf("hash password: %w", err)
	}
	return s.store.Staff.Add(ctx, model.StaffAccount{
		UserID:       userID,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	})
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return &model.ValidationError{Field: "new_password", Reason: "required"}
	}
	a, err := s.Login(ctx, userID, oldPassword)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	a.PasswordHash = string(hash)
	a.PasswordChangedAt = &now
	_, err = s.store.Staff.Update(ctx, a.ID, a)
	return err
}
