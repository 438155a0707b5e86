// Package auth provides the credential hasher and the bearer token service.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

// Scheme names a password hashing scheme.
type Scheme string

const (
	SchemePBKDF2SHA256 Scheme = "pbkdf2_sha256"
	SchemeBcrypt       Scheme = "bcrypt"
)

const (
	DefaultPBKDF2Rounds = 29000
	pbkdf2SaltSize      = 16
	pbkdf2KeySize       = 32
	pbkdf2Prefix        = "$pbkdf2-sha256$"
)

// ParseScheme converts a configuration value into a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemePBKDF2SHA256, "pbkdf2-sha256":
		return SchemePBKDF2SHA256, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	default:
		return "", errors.Errorf("unknown password scheme: %q", s)
	}
}

// Hasher hashes and verifies passwords. New hashes use the preferred scheme;
// verification accepts every supported scheme so older hashes keep working.
type Hasher struct {
	preferred    Scheme
	pbkdf2Rounds int
	bcryptCost   int
	logger       *slog.Logger
}

// HasherOption configures a Hasher.
type HasherOption func(*Hasher)

// WithPreferredScheme selects the scheme used for new hashes.
func WithPreferredScheme(s Scheme) HasherOption {
	return func(h *Hasher) { h.preferred = s }
}

// WithPBKDF2Rounds sets the PBKDF2 iteration count for new hashes.
func WithPBKDF2Rounds(rounds int) HasherOption {
	return func(h *Hasher) { h.pbkdf2Rounds = rounds }
}

// WithBcryptCost sets the bcrypt cost for new bcrypt hashes.
func WithBcryptCost(cost int) HasherOption {
	return func(h *Hasher) { h.bcryptCost = cost }
}

// WithLogger sets the logger used to report scheme fallbacks.
func WithLogger(logger *slog.Logger) HasherOption {
	return func(h *Hasher) { h.logger = logger }
}

// NewHasher creates a Hasher. The default prefers pbkdf2_sha256.
func NewHasher(opts ...HasherOption) *Hasher {
	h := &Hasher{
		preferred:    SchemePBKDF2SHA256,
		pbkdf2Rounds: DefaultPBKDF2Rounds,
		bcryptCost:   bcrypt.DefaultCost,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a salted, self-describing hash of password.
// When bcrypt is preferred and rejects the password for length, the
// pbkdf2_sha256 scheme is used instead. Any other failure is a hashing error.
func (h *Hasher) Hash(password string) (string, error) {
	if h.preferred == SchemeBcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err == nil {
			return string(hash), nil
		}
		if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.HashingError("hash password", errors.Wrap(err, "bcrypt"))
		}
		h.logger.Warn("hashing fallback", "from", SchemeBcrypt, "to", SchemePBKDF2SHA256, "reason", err.Error())
	}
	return h.hashPBKDF2(password)
}

func (h *Hasher) hashPBKDF2(password string) (string, error) {
	if h.pbkdf2Rounds < 1 {
		return "", domain.HashingError("hash password", errors.Errorf("invalid pbkdf2 rounds: %d", h.pbkdf2Rounds))
	}
	salt := make([]byte, pbkdf2SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.HashingError("hash password", errors.Wrap(err, "read salt"))
	}
	key := pbkdf2.Key([]byte(password), salt, h.pbkdf2Rounds, pbkdf2KeySize, sha256.New)
	return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, h.pbkdf2Rounds, ab64Encode(salt), ab64Encode(key)), nil
}

// Verify reports whether password matches hash. Unknown or malformed hashes
// never match.
func (h *Hasher) Verify(password, hash string) bool {
	scheme, ok := h.Identify(hash)
	if !ok {
		return false
	}
	switch scheme {
	case SchemePBKDF2SHA256:
		return verifyPBKDF2(password, hash)
	case SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	default:
		return false
	}
}

// Identify returns the scheme that produced hash, judged by its prefix.
func (h *Hasher) Identify(hash string) (Scheme, bool) {
	switch {
	case strings.HasPrefix(hash, pbkdf2Prefix):
		return SchemePBKDF2SHA256, true
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return SchemeBcrypt, true
	default:
		return "", false
	}
}

func verifyPBKDF2(password, hash string) bool {
	// $pbkdf2-sha256$<rounds>$<salt>$<key>
	parts := strings.Split(strings.TrimPrefix(hash, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return false
	}
	rounds, err := strconv.Atoi(parts[0])
	if err != nil || rounds < 1 {
		return false
	}
	salt, err := ab64Decode(parts[1])
	if err != nil {
		return false
	}
	want, err := ab64Decode(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, rounds, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// ab64 is passlib's "adapted base64": standard alphabet with '.' for '+', no padding.
func ab64Encode(b []byte) string {
	return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
}

func ab64Decode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(strings.TrimRight(s, "="), ".", "+"))
}
