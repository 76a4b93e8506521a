// Package secrets keeps Odoo API keys out of config files by storing them in
// the operating system's credential store, one entry per profile.
package secrets

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName is the keyring namespace of the SDK.
const ServiceName = "odoo-sdk-go"

// ErrNotFound is returned when no key is stored for a profile.
var ErrNotFound = errors.New("api key not found")

// Store reads and writes API keys in a keyring.
type Store struct {
	mu   sync.Mutex
	ring keyring.Keyring
}

// Open opens the OS keyring. Only native backends are allowed; an
// encrypted file fallback is never used.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: ServiceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		},
		KeychainTrustApplication: true,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		LibSecretCollectionName:  "login",
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewStore(ring), nil
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

func itemKey(profile string) string {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = "default"
	}
	return "api_key/" + profile
}

// SetAPIKey stores key for profile, replacing any previous one.
func (s *Store) SetAPIKey(profile, key string) error {
	if key == "" {
		return errors.New("api key is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Set(keyring.Item{
		Key:         itemKey(profile),
		Data:        []byte(key),
		Label:       "Odoo API key (" + itemKey(profile) + ")",
		Description: "Odoo XML-RPC API key",
	})
}

// APIKey returns the key stored for profile.
func (s *Store) APIKey(profile string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.ring.Get(itemKey(profile))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes the key for profile. Deleting a missing key is not an error.
func (s *Store) Delete(profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ring.Remove(itemKey(profile))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("delete api key: %w", err)
	}
	return nil
}
