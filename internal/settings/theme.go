// Package settings persists user preferences that live next to the wins.
package settings

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/errors"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/logger"
)

// Store reads and writes preferences through a kv.Store.
type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// ValidTheme reports whether theme is one of light, dark or system.
func ValidTheme(theme string) bool {
	switch theme {
	case constants.ThemeLight, constants.ThemeDark, constants.ThemeSystem:
		return true
	}
	return false
}

// GetTheme returns the saved theme, or "system" when none is saved or the
// value is unreadable.
func (s *Store) GetTheme(ctx context.Context) string {
	data, err := s.kv.Get(ctx, constants.KeyTheme)
	if err != nil {
		if !stderrors.Is(err, kv.ErrNotFound) {
			logger.Warn("Failed to read theme", "error", err)
		}
		return constants.ThemeSystem
	}

	var theme string
	if err := json.Unmarshal(data, &theme); err != nil {
		// Older stores kept the bare word
		theme = strings.TrimSpace(string(data))
	}
	if !ValidTheme(theme) {
		logger.Warn("Stored theme is invalid, using system", "value", theme)
		return constants.ThemeSystem
	}
	return theme
}

// SetTheme persists theme.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if !ValidTheme(theme) {
		return errors.NewValidation("theme", "theme must be one of light, dark, system")
	}

	data, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, constants.KeyTheme, data); err != nil {
		return errors.NewPersistence("write theme", err)
	}
	return nil
}
