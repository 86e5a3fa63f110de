package oauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	appleJWKSURL  = "https://appleid.apple.com/auth/keys"

	jwksCacheTTL    = time.Hour
	jwksFetchLimit  = 10 * time.Second
	signatureScheme = "RS256"
)

// jwkSet is the subset of RFC 7517 the providers publish.
type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// jwksVerifier validates RS256 id_tokens against a provider's JWKS
// endpoint, with the expected audience pinned to our client id.
type jwksVerifier struct {
	provider string
	jwksURL  string
	audience string
	client   *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func NewGoogleVerifier(clientID string) IdentityVerifier {
	return newJWKSVerifier("google", googleJWKSURL, clientID)
}

func NewAppleVerifier(clientID string) IdentityVerifier {
	return newJWKSVerifier("apple", appleJWKSURL, clientID)
}

func newJWKSVerifier(provider, jwksURL, audience string) *jwksVerifier {
	return &jwksVerifier{
		provider: provider,
		jwksURL:  jwksURL,
		audience: audience,
		client:   &http.Client{Timeout: jwksFetchLimit},
	}
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (v *jwksVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(idToken, &idTokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			kid, _ := token.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("id_token missing kid header")
			}
			return v.keyFor(ctx, kid)
		},
		jwt.WithValidMethods([]string{signatureScheme}),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*idTokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("id_token has no subject")
	}

	return &Identity{
		Provider: v.provider,
		Subject:  claims.Subject,
		Email:    claims.Email,
	}, nil
}

// keyFor resolves a signing key by kid, refreshing the cached JWKS
// when the kid is unknown or the cache is stale. Providers rotate
// keys, so an unknown kid forces a refetch.
func (v *jwksVerifier) keyFor(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if key, ok := v.keys[kid]; ok && time.Since(v.fetchedAt) < jwksCacheTTL {
		return key, nil
	}

	keys, err := v.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}
	v.keys = keys
	v.fetchedAt = time.Now()

	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no key %q in %s JWKS", kid, v.provider)
	}
	return key, nil
}

func (v *jwksVerifier) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s JWKS: %w", v.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s JWKS endpoint returned %d", v.provider, resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode %s JWKS: %w", v.provider, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, key := range set.Keys {
		if key.Kty != "RSA" || key.Kid == "" {
			continue
		}
		pub, err := key.publicKey()
		if err != nil {
			continue
		}
		keys[key.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%s JWKS contained no usable keys", v.provider)
	}
	return keys, nil
}

func (k jwk) publicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("bad modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("bad exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, fmt.Errorf("zero exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
