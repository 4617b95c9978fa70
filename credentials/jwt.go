package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/callauth"
)

// defaultJWTTTL bounds token lifetime when none is configured.
const defaultJWTTTL = time.Minute

// JWTConfig configures a per-call JWT minting provider.
type JWTConfig struct {
	Issuer  string
	Subject string
	Key     []byte        // HMAC signing secret
	TTL     time.Duration // token lifetime, defaults to one minute
	Now     func() time.Time
}

// JWT returns a provider minting a short-lived HS256-signed token per
// fetch, with the service URI as the audience. No token is reused
// across calls.
func JWT(cfg JWTConfig) (callauth.Provider, error) {
	if len(cfg.Key) == 0 {
		return nil, fmt.Errorf("signing key is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultJWTTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return ProviderFunc(func(_ context.Context, uri callauth.ServiceURI) (callauth.Headers, error) {
		issued := now()
		claims := jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   cfg.Subject,
			Audience:  jwt.ClaimStrings{uri.String()},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		return bearerHeaders(signed), nil
	}), nil
}
