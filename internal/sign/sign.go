// Package sign computes the X-Signature header value expected by the chat
// endpoint.
//
// The signature is a two layer HMAC-SHA256. The first layer derives a key
// from the root secret and the 5 minute window the request timestamp falls
// into. The hex text of that key, not its raw bytes, keys the second layer,
// which is computed over the canonical string of the request.
package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// DefaultSecret is the root signing secret used by the web frontend.
const DefaultSecret = "junjie"

// WindowMS is the width of a signing window in milliseconds.
const WindowMS int64 = 5 * 60 * 1000

// Context holds every input of one signature. A new Context is created per
// chat call.
type Context struct {
	MessageText string
	RequestID   string
	TimestampMS int64
	Identity    string
}

// WindowIndex returns the 5 minute bucket of timestampMS.
func WindowIndex(timestampMS int64) int64 {
	return timestampMS / WindowMS
}

// DeriveKey is the first layer: the hex encoded HMAC of the decimal window
// index, keyed with the root secret.
func DeriveKey(secret string, windowIndex int64) string {
	return hmacHex([]byte(secret), strconv.FormatInt(windowIndex, 10))
}

// CanonicalString is the exact text covered by the second layer.
func CanonicalString(c Context) string {
	return fmt.Sprintf("requestId,%s,timestamp,%d,user_id,%s|%s|%d",
		c.RequestID, c.TimestampMS, c.Identity, c.MessageText, c.TimestampMS)
}

// Sign returns the hex encoded signature of c under secret.
func Sign(c Context, secret string) string {
	derived := DeriveKey(secret, WindowIndex(c.TimestampMS))
	return hmacHex([]byte(derived), CanonicalString(c))
}

func hmacHex(key []byte, msg string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}
