package credentials

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/status-im/token-aggregator/config"
)

// Store resolves per-provider credentials from configuration. Tokens
// referenced through a file are loaded once and kept in memory so a
// deleted key file does not break a running process.
type Store struct {
	mu     sync.RWMutex
	config map[string]config.CredentialConfig
	tokens map[string]string
}

// NewStore builds a store from the credentials section of the
// configuration. Providers with unreadable token files are skipped
// with a warning and behave as unauthenticated.
func NewStore(creds map[string]config.CredentialConfig) *Store {
	s := &Store{
		config: make(map[string]config.CredentialConfig, len(creds)),
		tokens: make(map[string]string, len(creds)),
	}

	for provider, cred := range creds {
		s.config[provider] = cred

		token, err := resolveToken(cred)
		if err != nil {
			log.Printf("Credentials: failed to load token for %s: %v", provider, err)
			continue
		}
		if token != "" {
			s.tokens[provider] = token
		}
	}

	return s
}

func resolveToken(cred config.CredentialConfig) (string, error) {
	if cred.TokensFile != "" {
		data, err := os.ReadFile(cred.TokensFile)
		if err != nil {
			return "", err
		}
		return firstNonEmptyLine(string(data)), nil
	}
	return strings.TrimSpace(cred.Token), nil
}

func firstNonEmptyLine(data string) string {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// GetAuthHeaders returns the request headers carrying the provider's
// credential, or an empty map for unauthenticated providers
func (s *Store) GetAuthHeaders(provider string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.config[provider]
	token := s.tokens[provider]
	if !ok || cred.Header == "" || token == "" {
		return map[string]string{}
	}
	return map[string]string{cred.Header: token}
}

// GetAuthParams returns the query parameters carrying the provider's
// credential, or an empty map for unauthenticated providers
func (s *Store) GetAuthParams(provider string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.config[provider]
	token := s.tokens[provider]
	if !ok || cred.Param == "" || token == "" {
		return map[string]string{}
	}
	return map[string]string{cred.Param: token}
}

// SetToken replaces the in-memory token for a provider. Used when
// credentials are rotated without a restart.
func (s *Store) SetToken(provider, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token = strings.TrimSpace(token)
	if token == "" {
		delete(s.tokens, provider)
		return
	}
	s.tokens[provider] = token
}
