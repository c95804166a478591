package auth

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// FirebaseAccounts provisions accounts through the Firebase Auth admin API.
type FirebaseAccounts struct {
	client *auth.Client
}

func NewFirebaseAccounts(client *auth.Client) *FirebaseAccounts {
	return &FirebaseAccounts{client: client}
}

func (a *FirebaseAccounts) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := a.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create auth user: %w", err)
	}
	return record.UID, nil
}

func (a *FirebaseAccounts) DeleteAccount(ctx context.Context, uid string) error {
	if err := a.client.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("failed to delete auth user: %w", err)
	}
	return nil
}

// DevAccounts hands out random uids. Use it only with AUTH_MODE=dev.
type DevAccounts struct{}

func (DevAccounts) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	return uuid.NewString(), nil
}

func (DevAccounts) DeleteAccount(ctx context.Context, uid string) error {
	return nil
}
