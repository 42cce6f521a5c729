package theme

import (
	"errors"
	"fmt"

	"github.com/kalambet/jobseek/internal/prefs"
)

// ErrUnknownKey is returned when a theme or background key does not exist.
var ErrUnknownKey = errors.New("unknown appearance key")

// Store persists the selected theme and background keys.
type Store struct {
	prefs *prefs.Store
}

func NewStore(p *prefs.Store) *Store {
	return &Store{prefs: p}
}

// Load reads both keys, falling back to defaults when absent or unknown.
func (s *Store) Load() Appearance {
	return Resolve(
		prefs.Get(s.prefs, prefs.KeyAppTheme, DefaultTheme),
		prefs.Get(s.prefs, prefs.KeyAppBackground, DefaultBackground),
	)
}

func (s *Store) SetTheme(key string) (Appearance, error) {
	if !IsTheme(key) {
		return Appearance{}, fmt.Errorf("%w: theme %q", ErrUnknownKey, key)
	}
	if err := prefs.Set(s.prefs, prefs.KeyAppTheme, key); err != nil {
		return Appearance{}, err
	}
	return s.Load(), nil
}

func (s *Store) SetBackground(key string) (Appearance, error) {
	if !IsBackground(key) {
		return Appearance{}, fmt.Errorf("%w: background %q", ErrUnknownKey, key)
	}
	if err := prefs.Set(s.prefs, prefs.KeyAppBackground, key); err != nil {
		return Appearance{}, err
	}
	return s.Load(), nil
}
