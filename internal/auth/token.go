package auth

import (
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultTokenTTL matches JWT_EXP_MINUTES when it is not configured.
const DefaultTokenTTL = 120 * time.Minute

// MaxTTLMinutes is the largest lifetime a time.Duration can hold.
const MaxTTLMinutes = math.MaxInt64 / int64(time.Minute)

// TokenConfig is the process-wide signing configuration.
type TokenConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

// Claims is the verified payload of an access token.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed JWT access tokens.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService validates cfg and builds a TokenService.
// now may be nil, in which case time.Now is used.
func NewTokenService(cfg TokenConfig, now func() time.Time) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Errorf("unsupported jwt algorithm: %q", alg)
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		method: method,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Algorithm returns the signing algorithm name.
func (s *TokenService) Algorithm() string {
	return s.method.Alg()
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject with the default lifetime.
func (s *TokenService) Issue(subject string, userID int64) (string, error) {
	return s.issue(subject, userID, s.ttl)
}

// IssueWithTTL signs a token that expires ttlMinutes from now. A ttl of
// zero or less yields a token that is already expired.
func (s *TokenService) IssueWithTTL(subject string, userID int64, ttlMinutes int) (string, error) {
	if int64(ttlMinutes) > MaxTTLMinutes {
		return "", errors.Errorf("ttl %d minutes exceeds maximum of %d", ttlMinutes, MaxTTLMinutes)
	}
	return s.issue(subject, userID, time.Duration(ttlMinutes)*time.Minute)
}

func (s *TokenService) issue(subject string, userID int64, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token. Every failure
// yields (nil, false); callers cannot tell one cause from another.
func (s *TokenService) Verify(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}
