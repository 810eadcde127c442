package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const signedPrefix = "s:"

// CookieSigner produces tamper-evident cookie values of the form
// "s:<value>.<mac>".
type CookieSigner struct {
	secret []byte
}

func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

func (s *CookieSigner) Sign(value string) string {
	return signedPrefix + value + "." + s.mac(value)
}

// Unsign returns the original value when the signature matches.
func (s *CookieSigner) Unsign(signed string) (string, bool) {
	body, ok := strings.CutPrefix(signed, signedPrefix)
	if !ok {
		return "", false
	}
	i := strings.LastIndexByte(body, '.')
	if i <= 0 {
		return "", false
	}

	value, sig := body[:i], body[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(value))) {
		return "", false
	}
	return value, true
}

func (s *CookieSigner) mac(value string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
