package cognito

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zenidr/todo-cognito-api/internal/observability"
)

var (
	// ErrMalformedToken is returned when the token cannot be parsed at all
	ErrMalformedToken = errors.New("malformed token")

	// ErrBadSignature is returned when the signature or signing method is wrong
	ErrBadSignature = errors.New("bad token signature")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrClaimRejected is returned when a signature-valid token carries claims
	// this service does not accept
	ErrClaimRejected = errors.New("token claims rejected")

	// ErrUnknownKey is returned when the token kid is absent from the key set
	// even after a forced refresh
	ErrUnknownKey = errors.New("unknown signing key")

	// ErrKeyFetchFailed is returned when the JWKS endpoint cannot be read
	ErrKeyFetchFailed = errors.New("failed to fetch signing keys")
)

// Verifier validates RS256 tokens issued by an AWS Cognito user pool
type Verifier struct {
	region     string
	userPoolID string
	clientID   string
	issuer     string
	jwksURL    string
	httpClient *http.Client
	cacheTTL   time.Duration

	// mu guards keys and keysExp. Refreshes build a complete replacement map
	// and swap it in one write, so readers see full old or full new.
	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	keysExp time.Time
}

// Config holds configuration for a Verifier
type Config struct {
	Region      string
	UserPoolID  string
	ClientID    string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

// NewVerifier creates a Verifier for the given user pool. The issuer and the
// JWKS URL are derived from the region and pool ID.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Region == "" || cfg.UserPoolID == "" || cfg.ClientID == "" {
		return nil, errors.New("region, user pool ID, and client ID are required")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 1 * time.Hour
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}

	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)

	return &Verifier{
		region:     cfg.Region,
		userPoolID: cfg.UserPoolID,
		clientID:   cfg.ClientID,
		issuer:     issuer,
		jwksURL:    issuer + "/.well-known/jwks.json",
		cacheTTL:   cfg.CacheTTL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		keys: make(map[string]*rsa.PublicKey),
	}, nil
}

// Verify checks the signature and claims of a compact RS256 token and returns
// the identity it asserts
func (v *Verifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		// Check the method before touching the key cache so alg=none and
		// HMAC tokens never trigger a JWKS fetch
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrBadSignature, token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("%w: kid header missing", ErrMalformedToken)
		}

		return v.keyForKid(ctx, kid)
	},
		jwt.WithLeeway(5*time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, mapParseError(err)
	}

	return identityFromClaims(claims, v.issuer, v.clientID)
}

// mapParseError folds the jwt library's joined errors into this package's
// sentinel errors
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrBadSignature),
		errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrUnknownKey),
		errors.Is(err, ErrKeyFetchFailed):
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", ErrClaimRejected, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrClaimRejected, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

// keyForKid resolves the public key for a kid. On a miss it forces one JWKS
// refresh and retries the lookup before rejecting the kid.
func (v *Verifier) keyForKid(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Now().Before(v.keysExp)
	v.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := v.refreshKeys(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	key, ok = v.keys[kid]
	v.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: kid %q", ErrUnknownKey, kid)
	}
	return key, nil
}

// refreshKeys fetches the JWKS, parses every RSA key, and swaps the parsed
// map into the cache. A failed fetch or parse leaves the previous set intact.
func (v *Verifier) refreshKeys(ctx context.Context) error {
	jwks, err := v.fetchJWKS(ctx)
	if err != nil {
		observability.JWKSRefreshTotal.WithLabelValues("error").Inc()
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for i := range jwks.Keys {
		jwk := &jwks.Keys[i]
		if jwk.Kty != "RSA" {
			continue
		}
		key, err := jwkToRSAPublicKey(jwk)
		if err != nil {
			observability.JWKSRefreshTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("%w: parsing key %s: %v", ErrKeyFetchFailed, jwk.Kid, err)
		}
		keys[jwk.Kid] = key
	}

	v.mu.Lock()
	v.keys = keys
	v.keysExp = time.Now().Add(v.cacheTTL)
	v.mu.Unlock()

	observability.JWKSRefreshTotal.WithLabelValues("success").Inc()
	return nil
}

// fetchJWKS fetches the JWKS document from the user pool endpoint
func (v *Verifier) fetchJWKS(ctx context.Context) (*JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrKeyFetchFailed, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrKeyFetchFailed, err)
	}
	if len(jwks.Keys) == 0 {
		return nil, fmt.Errorf("%w: empty key set", ErrKeyFetchFailed)
	}

	return &jwks, nil
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}

	return &rsa.PublicKey{N: n, E: e}, nil
}

// InvalidateCache drops the cached key set so the next lookup refetches
func (v *Verifier) InvalidateCache() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = make(map[string]*rsa.PublicKey)
	v.keysExp = time.Time{}
}

// CacheStats returns cache statistics
func (v *Verifier) CacheStats() map[string]interface{} {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return map[string]interface{}{
		"cached_keys": len(v.keys),
		"expires_at":  v.keysExp,
	}
}
