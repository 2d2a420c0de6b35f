package prefs

import (
	"context"
	"encoding/json"
	"fmt"

	"spesa/internal/core"
	"spesa/internal/kv"
	"spesa/internal/log"
)

// Store owns the session's preferences and mirrors them to kv.PrefsKey.
type Store struct {
	kv     kv.Store
	logger *log.Logger
	prefs  Preferences
}

func NewStore(store kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		kv:     store,
		logger: logger.WithComponent(log.ComponentPrefs),
		prefs:  Defaults(),
	}
}

func (s *Store) Get() Preferences { return s.prefs }

// Set changes one preference in memory; call Save to persist it.
func (s *Store) Set(field Field, value string) error {
	p, err := s.prefs.With(field, value)
	if err != nil {
		return err
	}
	s.prefs = p
	return nil
}

// Replace swaps in a whole preference set, normalised.
func (s *Store) Replace(p Preferences) {
	s.prefs = p.Normalize()
}

// ToggleTheme flips between dark and light and returns the new theme.
func (s *Store) ToggleTheme() Theme {
	s.prefs.Theme = s.prefs.Theme.Toggle()
	return s.prefs.Theme
}

// Load restores stored preferences. It never fails: absent or malformed
// fields fall back to their defaults.
func (s *Store) Load(ctx context.Context) Preferences {
	s.prefs = s.decode(ctx)
	return s.prefs
}

func (s *Store) decode(ctx context.Context) Preferences {
	raw, ok, err := s.kv.Get(ctx, kv.PrefsKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Cannot read preferences, using defaults",
			log.FieldKey, kv.PrefsKey,
			log.FieldErrorType, log.ErrorTypeStorage,
			log.FieldError, err)
		return Defaults()
	}
	if !ok || raw == "" {
		return Defaults()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		s.logger.WarnContext(ctx, "Stored preferences are not a JSON object, using defaults",
			log.FieldKey, kv.PrefsKey,
			log.FieldErrorType, log.ErrorTypeCorruption,
			log.FieldError, err)
		return Defaults()
	}

	return Preferences{
		Search:         core.CoerceString(fields["search"]),
		FilterCategory: core.CoerceString(fields["filterCategory"]),
		FilterPeriod:   Period(core.CoerceString(fields["filterPeriod"])),
		SortBy:         SortMode(core.CoerceString(fields["sortBy"])),
		Theme:          Theme(core.CoerceString(fields["theme"])),
	}.Normalize()
}

// Save overwrites the stored preferences.
func (s *Store) Save(ctx context.Context) error {
	b, err := json.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.kv.Set(ctx, kv.PrefsKey, string(b)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
