package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned when an Issuer is built without a signing key.
var ErrEmptySecret = errors.New("signing secret must not be empty")

// Issuer mints compact signed access tokens. It is stateless: a token's
// validity is a function of its signature and exp claim only.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewIssuer constructs an Issuer from the process configuration. The
// algorithm identifier must name an HMAC method (HS256/HS384/HS512);
// anything else is a startup misconfiguration.
func NewIssuer(secret, algorithm string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", algorithm)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the configured default token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs the supplied claims with an exp claim of now (UTC) plus ttl.
// When no ttl override is given the configured default applies. The input
// map is copied, never mutated.
func (i *Issuer) Issue(claims jwt.MapClaims, ttl ...time.Duration) (string, error) {
	lifetime := i.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		lifetime = ttl[0]
	}
	enriched := make(jwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		enriched[k] = v
	}
	enriched["exp"] = jwt.NewNumericDate(time.Now().UTC().Add(lifetime))

	token := jwt.NewWithClaims(i.method, enriched)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
