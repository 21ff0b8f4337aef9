package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashMethod     = "pbkdf2:sha256"
	hashIterations = 100000
	saltBytes      = 16
	keyBytes       = 32
)

var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives a salted PBKDF2-SHA256 hash encoded as
// "pbkdf2:sha256:<iterations>$<salt>$<hex key>".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	encodedSalt := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(password), []byte(encodedSalt), hashIterations, keyBytes, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", hashMethod, hashIterations, encodedSalt, hex.EncodeToString(key)), nil
}

// CheckPassword reports whether password matches hash. A malformed hash never
// matches.
func CheckPassword(hash, password string) bool {
	iterations, salt, want, err := parseHash(hash)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func parseHash(hash string) (int, string, []byte, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 3 {
		return 0, "", nil, ErrMalformedHash
	}
	method, rawIterations, ok := strings.Cut(strings.TrimPrefix(parts[0], hashMethod), ":")
	if method != "" || !ok || !strings.HasPrefix(parts[0], hashMethod) {
		return 0, "", nil, ErrMalformedHash
	}
	iterations, err := strconv.Atoi(rawIterations)
	if err != nil || iterations <= 0 {
		return 0, "", nil, ErrMalformedHash
	}
	key, err := hex.DecodeString(parts[2])
	if err != nil || len(key) == 0 {
		return 0, "", nil, ErrMalformedHash
	}
	return iterations, parts[1], key, nil
}
