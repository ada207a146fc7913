package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/smallwins/internal/keyring"
	"github.com/julianstephens/smallwins/internal/kv"
)

// SecretSetCmd stores a credential in the OS keyring
type SecretSetCmd struct {
	Name  string `arg:"" help:"Secret to store: connection-string or telegram-token."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *SecretSetCmd) Run(ctx *Context) error {
	secret, err := keyring.ParseSecret(cmd.Name)
	if err != nil {
		return err
	}

	value := strings.TrimSpace(cmd.Value)
	if secret == keyring.ConnectionString {
		if _, err := kv.ValidateConnString(value); err != nil {
			if errors.Is(err, kv.ErrEmbeddedCredentials) {
				return fmt.Errorf("%w; keep the password in ~/.pgpass or PGPASSWORD instead", err)
			}
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	if err := keyring.Set(secret, value); err != nil {
		return err
	}

	ctx.Printf("✓ %s stored in OS keyring\n", secret)
	if secret == keyring.ConnectionString {
		ctx.Println("  Use it with --store keyring")
	}
	return nil
}

// SecretDeleteCmd removes a credential from the OS keyring
type SecretDeleteCmd struct {
	Name string `arg:"" help:"Secret to delete: connection-string or telegram-token."`
}

func (cmd *SecretDeleteCmd) Run(ctx *Context) error {
	secret, err := keyring.ParseSecret(cmd.Name)
	if err != nil {
		return err
	}

	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret)
		}
		return err
	}

	ctx.Printf("✓ %s deleted from OS keyring\n", secret)
	return nil
}

// SecretStatusCmd reports keyring availability and which secrets are stored
type SecretStatusCmd struct{}

func (cmd *SecretStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	ctx.Println("✓ OS keyring is available")
	for _, secret := range []keyring.Secret{keyring.ConnectionString, keyring.TelegramToken} {
		if _, err := keyring.Get(secret); err == nil {
			ctx.Printf("✓ %s is stored\n", secret)
		} else {
			ctx.Printf("ℹ No %s stored\n", secret)
		}
	}
	return nil
}
