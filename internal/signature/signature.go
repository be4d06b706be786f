/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package signature implements HMAC-SHA256 webhook signature computation
// and verification as used by the LINE Messaging API.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Prefix precedes the base64-encoded digest in a signature header value.
const Prefix = "sha256="

// Sign computes a signature header value for the given raw request body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return Prefix + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether headerValue is a valid signature of the raw request body.
// The value must consist of the "sha256=" prefix followed by the base64-encoded
// HMAC-SHA256 digest of the body keyed with secret. The digest comparison is
// constant-time; malformed values (wrong prefix, bad base64) are simply invalid.
func Verify(secret, body []byte, headerValue string) bool {
	encodedDigest, ok := strings.CutPrefix(headerValue, Prefix)
	if !ok {
		return false
	}
	digest, err := base64.StdEncoding.DecodeString(encodedDigest)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(digest, mac.Sum(nil))
}
