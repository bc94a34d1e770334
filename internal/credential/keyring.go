package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "taskdeck"

// tokenKey is the single fixed key under which the API bearer token is
// persisted across restarts.
const tokenKey = "api-token"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskdeck/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskdeck-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Keyring persists the bearer token in the system keyring. It implements
// session.TokenStore.
type Keyring struct{}

// Token retrieves the persisted bearer token. A missing token returns
// an empty string with no error.
func (Keyring) Token() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err == keyring.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential: %w", err)
	}

	return string(item.Data), nil
}

// Save stores the bearer token under the fixed key.
func (Keyring) Save(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("setting credential: %w", err)
	}

	return nil
}

// Clear removes the persisted bearer token. Clearing an absent token is
// not an error.
func (Keyring) Clear() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("deleting credential: %w", err)
	}

	return nil
}
