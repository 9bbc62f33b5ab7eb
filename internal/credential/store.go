package credential

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/lifeos/internal/model"
)

const serviceName = "lifeos"

// credentialKey is the keyring item holding the serialized Credential.
const credentialKey = "remote-table-credential"

// MailPasswordKey is the keyring item holding the IMAP capture password.
const MailPasswordKey = "mail-password"

// Store persists credentials in a keyring. The keyring is injected so
// tests can substitute keyring.NewArrayKeyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already-open keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// OpenSystem opens the platform keyring and returns a Store backed by it.
func OpenSystem() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/lifeos/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("lifeos-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStore(ring), nil
}

// Get returns the stored credential, or nil if none is stored or the
// stored value is missing required fields. It never returns an error for
// the absent case; only keyring failures unrelated to absence surface.
func (s *Store) Get() (*model.Credential, error) {
	item, err := s.ring.Get(credentialKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading credential: %w", err)
	}

	var cred model.Credential
	if err := json.Unmarshal(item.Data, &cred); err != nil {
		// A malformed entry is treated the same as no credential.
		return nil, nil
	}
	if !cred.Complete() {
		return nil, nil
	}

	return &cred, nil
}

// Save overwrites the stored credential entirely. Saving the same value
// twice is a no-op in effect.
func (s *Store) Save(cred model.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}

	err = s.ring.Set(keyring.Item{
		Key:  credentialKey,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an empty store succeeds.
func (s *Store) Clear() error {
	err := s.ring.Remove(credentialKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}

// GetSecret retrieves an auxiliary secret (e.g. the mail password) by
// key. A missing secret returns an empty string, not an error.
func (s *Store) GetSecret(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %q: %w", key, err)
	}
	return string(item.Data), nil
}

// SetSecret stores an auxiliary secret by key.
func (s *Store) SetSecret(key, value string) error {
	err := s.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
	if err != nil {
		return fmt.Errorf("storing secret %q: %w", key, err)
	}
	return nil
}
