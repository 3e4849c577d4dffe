// Package session tracks whether a visitor is signed in. A Holder is
// read-only to the rest of the program: only Login and Logout in this
// package change it, and both persist the change through a Storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

const userIDKey = "userId"

var ErrNotFound = errors.New("session: key not found")

type Holder struct {
	visitor string
	storage Storage

	mu     sync.RWMutex
	state  State
	userID string
}

// Open restores the visitor's session from storage. Anything other than a
// stored user id, including a storage failure, yields an anonymous holder;
// the failure is still returned so it can be logged.
func Open(ctx context.Context, storage Storage, visitor string) (*Holder, error) {
	h := &Holder{visitor: visitor, storage: storage}

	id, err := storage.Get(ctx, visitor, userIDKey)
	if errors.Is(err, ErrNotFound) {
		return h, nil
	}
	if err != nil {
		return h, fmt.Errorf("restore session %s: %w", visitor, err)
	}
	if id != "" {
		h.state = Authenticated
		h.userID = id
	}
	return h, nil
}

func (h *Holder) Visitor() string { return h.visitor }

func (h *Holder) Current() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Holder) UserID() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userID, h.state == Authenticated
}

// Owns reports whether the signed-in user authored something with authorID.
func (h *Holder) Owns(authorID string) bool {
	id, ok := h.UserID()
	return ok && authorID != "" && id == authorID
}

func (h *Holder) authenticate(ctx context.Context, userID string) error {
	if err := h.storage.Set(ctx, h.visitor, userIDKey, userID); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	h.mu.Lock()
	h.state = Authenticated
	h.userID = userID
	h.mu.Unlock()
	return nil
}

func (h *Holder) clear(ctx context.Context) error {
	h.mu.Lock()
	h.state = Anonymous
	h.userID = ""
	h.mu.Unlock()

	if err := h.storage.Clear(ctx, h.visitor); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
