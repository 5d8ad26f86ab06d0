// Package auth hashes and verifies user passwords.
package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const legacyPrefix = "pbkdf2:"

// werkzeug's default when the hash string omits the iteration count.
const legacyDefaultIterations = 150000

var errMalformedHash = errors.New("malformed password hash")

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches encoded. It accepts bcrypt
// hashes and the "pbkdf2:<digest>[:<iterations>]$<salt>$<hex>" format of
// accounts imported from the previous deployment.
func VerifyPassword(encoded, password string) bool {
	if strings.HasPrefix(encoded, legacyPrefix) {
		ok, err := verifyLegacy(encoded, password)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// NeedsRehash reports whether encoded should be replaced with a bcrypt hash.
func NeedsRehash(encoded string) bool {
	return strings.HasPrefix(encoded, legacyPrefix)
}

func verifyLegacy(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return false, errMalformedHash
	}
	method, salt, want := parts[0], parts[1], parts[2]

	args := strings.Split(strings.TrimPrefix(method, legacyPrefix), ":")
	if len(args) < 1 || len(args) > 2 {
		return false, errMalformedHash
	}

	newHash, err := digestFor(args[0])
	if err != nil {
		return false, err
	}

	iterations := legacyDefaultIterations
	if len(args) == 2 && args[1] != "" {
		iterations, err = strconv.Atoi(args[1])
		if err != nil || iterations < 1 {
			return false, errMalformedHash
		}
	}

	wantBytes, err := hex.DecodeString(want)
	if err != nil {
		return false, errMalformedHash
	}

	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
	return hmac.Equal(got, wantBytes), nil
}

func digestFor(name string) (func() hash.Hash, error) {
	switch name {
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	case "sha512":
		return sha512.New, nil
	default:
		return nil, errors.New("unsupported password digest " + name)
	}
}
