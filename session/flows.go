package session

import (
	"context"
	"errors"

	"blogview/models"
)

var ErrNoUserID = errors.New("session: login response carried no user id")

type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
}

// Login signs in against the backend and, on success, persists the user id
// for the holder's visitor. Passwords are not kept.
func Login(ctx context.Context, h *Holder, auth Authenticator, req models.LoginRequest) (models.User, error) {
	user, err := auth.Login(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	if user.ID == "" {
		return models.User{}, ErrNoUserID
	}
	if err := h.authenticate(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Register creates the account only. The visitor stays anonymous until they
// log in with it.
func Register(ctx context.Context, auth Authenticator, req models.RegisterRequest) (models.User, error) {
	return auth.Register(ctx, req)
}

// Logout forgets every key persisted for the visitor, not just the user id.
func Logout(ctx context.Context, h *Holder) error {
	return h.clear(ctx)
}
