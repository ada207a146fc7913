// Package keyring stores smallwins secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/smallwins/internal/constants"
)

var (
	// ErrNotFound is returned when the secret is not in the keyring
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names a value smallwins keeps in the keyring.
type Secret string

const (
	ConnectionString Secret = constants.KeyringConnectionUser
	TelegramToken    Secret = constants.KeyringTelegramUser
)

// ParseSecret maps a CLI name to a Secret.
func ParseSecret(name string) (Secret, error) {
	switch Secret(name) {
	case ConnectionString, "connection-string":
		return ConnectionString, nil
	case TelegramToken:
		return TelegramToken, nil
	}
	return "", fmt.Errorf("unknown secret %q (expected connection-string or telegram-token)", name)
}

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(secret Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(secret))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret, replacing any previous value.
func Set(secret Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", secret)
	}
	if err := keyring.Set(constants.AppName, string(secret), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", secret, err)
	}
	return nil
}

// Delete removes a secret.
func Delete(secret Secret) error {
	if err := keyring.Delete(constants.AppName, string(secret)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", secret, err)
	}
	return nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// GetTelegramToken retrieves the Telegram bot token.
func GetTelegramToken() (string, error) {
	return Get(TelegramToken)
}

// IsAvailable is a best-effort check that the OS keyring can be reached.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
