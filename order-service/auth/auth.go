package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

// Claims are the token claims the identity service issues.
type Claims struct {
	ClientID string `json:"id_client"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ClientID models.ID
	Admin    bool
}

// CanAccessClient reports whether the principal may read data belonging to
// the given client. Admins may read everything.
func (p *Principal) CanAccessClient(clientID models.ID) bool {
	return p.Admin || p.ClientID == clientID
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal injects the principal into context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	principal, ok := ctx.Value(principalKey).(*Principal)
	if !ok || principal == nil {
		return nil, faults.Unauthorized("no authenticated principal")
	}
	return principal, nil
}

// Verifier validates bearer tokens against the identity service public key.
type Verifier struct {
	keys *PublicKeyStore
}

// NewVerifier creates a verifier backed by the key store.
func NewVerifier(keys *PublicKeyStore) *Verifier {
	return &Verifier{keys: keys}
}

// Verify parses and validates a bearer token and returns the principal.
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, faults.Unauthorized("missing bearer token")
	}

	key := v.keys.Key()
	if key == nil {
		return nil, faults.Unavailable("public key not yet available")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, faults.Unauthorized("unexpected signing method %v", token.Method.Alg())
		}
		return key, nil
	})
	if err != nil {
		return nil, faults.Unauthorized("invalid token").WithCause(err)
	}
	if !token.Valid {
		return nil, faults.Unauthorized("invalid token")
	}

	clientID, err := models.NewID(claims.ClientID)
	if err != nil {
		return nil, faults.Unauthorized("invalid client ID in token")
	}

	return &Principal{ClientID: clientID, Admin: claims.Admin}, nil
}

// Middleware authenticates every request and stores the principal in the
// request context. Unauthenticated requests are rejected.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := v.Verify(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, err.Error(), faults.HTTPStatus(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
