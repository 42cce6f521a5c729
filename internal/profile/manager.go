package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// ProfileStore defines the storage operations the Manager needs.
// Implemented by storage.Store.
type ProfileStore interface {
	SetProfileKey(key, value string) error
	// SetProfileKeys writes all pairs atomically.
	SetProfileKeys(kv map[string]string) error
	GetAllProfileKeys() (map[string]string, error)
}

// Manager owns the live profile and writes every mutation through to the store.
type Manager struct {
	store ProfileStore

	mu      sync.RWMutex
	current Profile
}

// NewManager loads the profile from store, seeding Default when the store
// holds no profile keys yet.
func NewManager(store ProfileStore) (*Manager, error) {
	keys, err := store.GetAllProfileKeys()
	if err != nil {
		return nil, fmt.Errorf("loading profile keys: %w", err)
	}

	m := &Manager{store: store}
	if len(keys) == 0 {
		m.current = Default()
		if err := m.persistAll(m.current); err != nil {
			return nil, fmt.Errorf("seeding default profile: %w", err)
		}
		slog.Debug("seeded default profile")
		return m, nil
	}

	m.current = buildProfile(keys)
	return m, nil
}

// Snapshot returns a deep copy of the profile as it is at call time.
func (m *Manager) Snapshot() Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// UpdateField sets a scalar field and persists it.
func (m *Manager) UpdateField(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.current.Clone()
	if err := next.UpdateField(name, value); err != nil {
		return err
	}
	if err := m.store.SetProfileKey(name, value); err != nil {
		return fmt.Errorf("setting profile key %q: %w", name, err)
	}
	m.current = next
	return nil
}

// UpdateFields sets several scalar fields at once. Every name is checked
// before anything is written, and the values are persisted in one atomic
// store call, so the profile is either fully updated or unchanged.
func (m *Manager) UpdateFields(fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.current.Clone()
	for name, value := range fields {
		if err := next.UpdateField(name, value); err != nil {
			return err
		}
	}
	if len(fields) == 0 {
		return nil
	}
	if err := m.store.SetProfileKeys(fields); err != nil {
		return fmt.Errorf("setting profile fields: %w", err)
	}
	m.current = next
	return nil
}

// AddSkill adds a skill and persists the skill list when it changed.
func (m *Manager) AddSkill(raw string) (bool, error) {
	return m.mutateSkills(func(p *Profile) bool { return p.AddSkill(raw) })
}

// RemoveSkill removes a skill and persists the skill list when it changed.
func (m *Manager) RemoveSkill(target string) (bool, error) {
	return m.mutateSkills(func(p *Profile) bool { return p.RemoveSkill(target) })
}

func (m *Manager) mutateSkills(fn func(p *Profile) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.current.Clone()
	if !fn(&next) {
		return false, nil
	}
	if err := m.setSkills(next.Skills); err != nil {
		return false, err
	}
	m.current = next
	return true, nil
}

func (m *Manager) setSkills(skills []string) error {
	b, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("marshalling skills: %w", err)
	}
	if err := m.store.SetProfileKey(fieldSkills, string(b)); err != nil {
		return fmt.Errorf("setting profile key %q: %w", fieldSkills, err)
	}
	return nil
}

func (m *Manager) persistAll(p Profile) error {
	kv := make(map[string]string, len(Fields)+1)
	for _, name := range Fields {
		kv[name], _ = p.Field(name)
	}
	b, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("marshalling skills: %w", err)
	}
	kv[fieldSkills] = string(b)
	return m.store.SetProfileKeys(kv)
}

// buildProfile assembles a Profile from flat key-value pairs. Scalar fields
// are stored verbatim, skills as a JSON array.
func buildProfile(keys map[string]string) Profile {
	var p Profile
	for _, name := range Fields {
		if v, ok := keys[name]; ok {
			_ = p.UpdateField(name, v)
		}
	}
	if v, ok := keys[fieldSkills]; ok {
		if err := json.Unmarshal([]byte(v), &p.Skills); err != nil {
			slog.Warn("malformed profile key, skipping", "key", fieldSkills, "error", err)
			p.Skills = nil
		}
	}
	return p.Clone()
}
