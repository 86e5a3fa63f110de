package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	key    *rsa.PrivateKey
	kid    string
	server *httptest.Server
	hits   int
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &fakeProvider{key: key, kid: "test-key-1"}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits++
		set := jwkSet{Keys: []jwk{{
			Kty: "RSA",
			Kid: p.kid,
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}}
		json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) signIDToken(t *testing.T, kid string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(p.key)
	require.NoError(t, err)
	return signed
}

func standardClaims(audience string) idTokenClaims {
	return idTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "provider-user-99",
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: "person@example.com",
	}
}

func TestJWKSVerifierAcceptsValidToken(t *testing.T) {
	provider := newFakeProvider(t)
	verifier := newJWKSVerifier("google", provider.server.URL, "my-client-id")

	idToken := provider.signIDToken(t, provider.kid, standardClaims("my-client-id"))

	identity, err := verifier.Verify(context.Background(), idToken)
	require.NoError(t, err)
	assert.Equal(t, "google", identity.Provider)
	assert.Equal(t, "provider-user-99", identity.Subject)
	assert.Equal(t, "person@example.com", identity.Email)
}

func TestJWKSVerifierRejectsWrongAudience(t *testing.T) {
	provider := newFakeProvider(t)
	verifier := newJWKSVerifier("google", provider.server.URL, "my-client-id")

	idToken := provider.signIDToken(t, provider.kid, standardClaims("someone-elses-app"))

	_, err := verifier.Verify(context.Background(), idToken)
	assert.Error(t, err)
}

func TestJWKSVerifierRejectsExpiredToken(t *testing.T) {
	provider := newFakeProvider(t)
	verifier := newJWKSVerifier("apple", provider.server.URL, "my-client-id")

	claims := standardClaims("my-client-id")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	idToken := provider.signIDToken(t, provider.kid, claims)

	_, err := verifier.Verify(context.Background(), idToken)
	assert.Error(t, err)
}

func TestJWKSVerifierRejectsUnknownKid(t *testing.T) {
	provider := newFakeProvider(t)
	verifier := newJWKSVerifier("google", provider.server.URL, "my-client-id")

	idToken := provider.signIDToken(t, "rotated-away", standardClaims("my-client-id"))

	_, err := verifier.Verify(context.Background(), idToken)
	assert.Error(t, err)
}

func TestJWKSVerifierCachesKeys(t *testing.T) {
	provider := newFakeProvider(t)
	verifier := newJWKSVerifier("google", provider.server.URL, "my-client-id")

	for i := 0; i < 3; i++ {
		idToken := provider.signIDToken(t, provider.kid, standardClaims("my-client-id"))
		_, err := verifier.Verify(context.Background(), idToken)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, provider.hits)
}

func TestJWKSVerifierEndpointDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	verifier := newJWKSVerifier("google", server.URL, "my-client-id")
	provider := newFakeProvider(t)
	idToken := provider.signIDToken(t, provider.kid, standardClaims("my-client-id"))

	_, err := verifier.Verify(context.Background(), idToken)
	assert.Error(t, err)
}
