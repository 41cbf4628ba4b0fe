package auth

import (
	"context"
	"crypto/rsa"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const fetchTimeout = 5 * time.Second

// PublicKeyStore holds the RSA public key the identity service signs tokens
// with. The key is fetched over HTTP on startup and refreshed whenever the
// identity service announces a new key. Until a key is present the service
// is not ready to authenticate anyone.
type PublicKeyStore struct {
	keyURL     string
	httpClient *http.Client
	logger     *zap.Logger

	mu  sync.RWMutex
	key *rsa.PublicKey
}

// NewPublicKeyStore creates a store that fetches the key from keyURL.
func NewPublicKeyStore(keyURL string, logger *zap.Logger) *PublicKeyStore {
	return &PublicKeyStore{
		keyURL:     keyURL,
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
	}
}

// Refresh fetches the current public key from the identity service.
func (s *PublicKeyStore) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keyURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build key request")
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch public key")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("public key fetch returned status %d", res.StatusCode)
	}

	pemBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read public key body")
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return errors.Wrap(err, "failed to parse public key PEM")
	}

	s.mu.Lock()
	s.key = key
	s.mu.Unlock()

	s.logger.Info("public key refreshed", zap.String("url", s.keyURL))

	return nil
}

// Key returns the current public key, or nil when none has been fetched yet.
func (s *PublicKeyStore) Key() *rsa.PublicKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Ready reports whether a public key is available.
func (s *PublicKeyStore) Ready() bool {
	return s.Key() != nil
}
