package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// RememberTokenBytes is the byte size of generated remember tokens.
const RememberTokenBytes = 32

// MakeRememberToken generates a remember token of a predetermined byte size.
func MakeRememberToken() (string, error) {
	return bytesToString(RememberTokenBytes)
}

// NBytes returns the number of bytes used in a base64 URL encoded string.
func NBytes(base64String string) (int, error) {
	b, err := base64.URLEncoding.DecodeString(base64String)
	if err != nil {
		return -1, err
	}
	return len(b), nil
}

// HMAC is a wrapper around the crypto/hmac package making it easier to use.
// Only the key is held; each Hash call builds its own hash instance, so one
// HMAC value is safe to share across concurrent requests.
type HMAC struct {
	key []byte
}

// NewHMAC creates and returns a new HMAC object with the given secret key.
func NewHMAC(key string) HMAC {
	return HMAC{
		key: []byte(key),
	}
}

// Hash hashes an input string using HMAC with the secret key
// provided when the HMAC object was created.
func (h HMAC) Hash(input string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(input))
	b := mac.Sum(nil)
	return base64.URLEncoding.EncodeToString(b)
}

// bytes generates n random bytes or returns an error. It uses the
// crypto/rand package, so it can be used for things like remember tokens.
func bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// bytesToString generates a byte slice of size nBytes and then returns a
// string that is the base64 URL encoded version of that byte slice.
func bytesToString(nBytes int) (string, error) {
	b, err := bytes(nBytes)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
