// Package credentials persists the externally issued broker credential so the
// CLI and console can fill it into snippets without asking again.
package credentials

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"github.com/goliatone/go-snippetgen/internal/logging"
)

// DefaultService is the keyring service entries are stored under.
const DefaultService = "snippetgen"

// DefaultAccount names the entry used when no username is given.
const DefaultAccount = "default"

// ErrNotFound is returned when no credential is stored for an account.
var ErrNotFound = errors.New("credentials: not found")

// Store reads and writes issued credentials.
type Store interface {
	Get(account string) (string, error)
	Set(account, secret string) error
	Delete(account string) error
}

// KeyringStore keeps credentials in the OS keyring (macOS Keychain, Linux
// Secret Service, Windows Credential Manager). When the keyring is not
// available it keeps them in memory for the lifetime of the process.
type KeyringStore struct {
	service string
	enabled bool

	mu     sync.RWMutex
	memory map[string]string
}

// NewKeyringStore probes the keyring and returns a store for service.
func NewKeyringStore(service string) *KeyringStore {
	if strings.TrimSpace(service) == "" {
		service = DefaultService
	}
	ks := &KeyringStore{
		service: service,
		enabled: true,
		memory:  make(map[string]string),
	}

	probe := "__snippetgen_probe__"
	if err := keyring.Set(service, probe, "probe"); err != nil {
		logging.Debug("keyring not available, using memory-only storage", zap.Error(err))
		ks.enabled = false
		return ks
	}
	_ = keyring.Delete(service, probe)
	return ks
}

// Persistent reports whether credentials survive the process.
func (ks *KeyringStore) Persistent() bool {
	return ks.enabled
}

// Get returns the credential for account.
func (ks *KeyringStore) Get(account string) (string, error) {
	account = accountKey(account)
	if !ks.enabled {
		ks.mu.RLock()
		defer ks.mu.RUnlock()
		secret, ok := ks.memory[account]
		if !ok {
			return "", ErrNotFound
		}
		return secret, nil
	}

	secret, err := keyring.Get(ks.service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credentials: read %s: %w", account, err)
	}
	return secret, nil
}

// Set stores secret for account.
func (ks *KeyringStore) Set(account, secret string) error {
	account = accountKey(account)
	if !ks.enabled {
		ks.mu.Lock()
		defer ks.mu.Unlock()
		ks.memory[account] = secret
		return nil
	}
	if err := keyring.Set(ks.service, account, secret); err != nil {
		return fmt.Errorf("credentials: store %s: %w", account, err)
	}
	logging.Debug("stored credential in keyring", zap.String("account", account))
	return nil
}

// Delete removes the credential for account. Missing entries are not an
// error.
func (ks *KeyringStore) Delete(account string) error {
	account = accountKey(account)
	if !ks.enabled {
		ks.mu.Lock()
		defer ks.mu.Unlock()
		delete(ks.memory, account)
		return nil
	}
	err := keyring.Delete(ks.service, account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("credentials: delete %s: %w", account, err)
	}
	return nil
}

// Lookup returns the stored credential or "" when none exists. Other errors
// are logged and treated as absent.
func Lookup(store Store, account string) string {
	if store == nil {
		return ""
	}
	secret, err := store.Get(account)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Warn("credential lookup failed", zap.String("account", accountKey(account)), zap.Error(err))
		}
		return ""
	}
	return secret
}

func accountKey(account string) string {
	account = strings.TrimSpace(account)
	if account == "" {
		return DefaultAccount
	}
	return account
}
