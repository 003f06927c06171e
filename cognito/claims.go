package cognito

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWKS represents the JSON Web Key Set document published by a user pool
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a single JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Claims represents the claims carried by Cognito-issued tokens. Access
// tokens carry the username in "username" and the client in "client_id";
// ID tokens carry "cognito:username" and put the client in the audience.
type Claims struct {
	jwt.RegisteredClaims
	TokenUse        string `json:"token_use"`
	Username        string `json:"username"`
	CognitoUsername string `json:"cognito:username"`
	ClientID        string `json:"client_id"`
	Scope           string `json:"scope"`
}

// Identity is the validated view of a token handed to request handlers
type Identity struct {
	Sub      uuid.UUID
	Username string
	TokenUse string
	Scope    string
	Expiry   time.Time
}

// identityFromClaims checks the issuer, client, token_use, and subject of
// signature-verified claims and converts them to an Identity
func identityFromClaims(claims *Claims, issuer, clientID string) (*Identity, error) {
	if claims.Issuer != issuer {
		return nil, fmt.Errorf("%w: issuer %q", ErrClaimRejected, claims.Issuer)
	}

	// ID tokens carry the client ID in aud, access tokens in client_id.
	// Accept either.
	if !containsAudience(claims.Audience, clientID) && claims.ClientID != clientID {
		return nil, fmt.Errorf("%w: token not issued for this client", ErrClaimRejected)
	}

	if claims.TokenUse != "access" && claims.TokenUse != "id" {
		return nil, fmt.Errorf("%w: unexpected token_use %q", ErrClaimRejected, claims.TokenUse)
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sub: %v", ErrClaimRejected, err)
	}

	username := claims.Username
	if username == "" {
		username = claims.CognitoUsername
	}
	if username == "" {
		return nil, fmt.Errorf("%w: no username claim", ErrClaimRejected)
	}

	identity := &Identity{
		Sub:      sub,
		Username: username,
		TokenUse: claims.TokenUse,
		Scope:    claims.Scope,
	}
	if claims.ExpiresAt != nil {
		identity.Expiry = claims.ExpiresAt.Time
	}

	return identity, nil
}

// containsAudience checks if the audience list contains the expected client ID
func containsAudience(audiences jwt.ClaimStrings, clientID string) bool {
	for _, aud := range audiences {
		if aud == clientID {
			return true
		}
	}
	return false
}
