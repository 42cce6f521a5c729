// Package prefs provides typed, JSON-encoded access to locally persisted
// preferences with a default fallback.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kalambet/jobseek/internal/storage"
)

// Preference keys.
const (
	KeyWebhookURL    = "webhook_url"
	KeyAppTheme      = "app_theme"
	KeyAppBackground = "app_background"
)

// Backend is the raw key/value persistence used by Store.
// storage.Store satisfies it.
type Backend interface {
	GetPreference(key string) (string, error)
	SetPreference(key, value string) error
	DeletePreference(key string) error
}

// Store wraps a Backend.
type Store struct {
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Get returns the value stored under key decoded into T. An absent key, a JSON
// null, a backend read failure or an undecodable value all yield def.
func Get[T any](s *Store, key string, def T) T {
	raw, err := s.backend.GetPreference(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("reading preference failed", "key", key, "error", err)
		}
		return def
	}
	if raw == "null" {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.Warn("undecodable preference, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Set JSON-encodes v and overwrites key.
func Set[T any](s *Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding preference %s: %w", key, err)
	}
	if err := s.backend.SetPreference(key, string(data)); err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing an absent key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.backend.DeletePreference(key); err != nil {
		return fmt.Errorf("deleting preference %s: %w", key, err)
	}
	return nil
}
