package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Guest is the identity used whenever the token does not carry a readable one.
const Guest = "guest"

var claimKeys = []string{"id", "user_id", "uid", "sub"}

// stdToURLAlphabet lets payloads encoded with the standard alphabet through.
var stdToURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// ExtractIdentity reads the user id out of the claims of a JWT shaped token.
//
// The token signature is NOT verified. The result is only ever used as a
// signing input and a diagnostic query parameter, never to authorize anything.
// Any token which cannot be read yields Guest.
func ExtractIdentity(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return Guest
	}
	raw, err := base64.URLEncoding.DecodeString(padBase64URL(stdToURLAlphabet.Replace(parts[1])))
	if err != nil {
		return Guest
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return Guest
	}
	for _, k := range claimKeys {
		if s, ok := claimString(claims[k]); ok {
			return s
		}
	}
	return Guest
}

// padBase64URL adds the '=' padding stripped from JWT segments. A segment
// with length 1 mod 4 gets three, which no decoder accepts.
func padBase64URL(seg string) string {
	return seg + strings.Repeat("=", (4-len(seg)%4)%4)
}

// claimString mirrors a truthiness check: null, "", false and zero are not
// considered present.
func claimString(v any) (string, bool) {
	switch c := v.(type) {
	case nil:
		return "", false
	case string:
		return c, c != ""
	case bool:
		if !c {
			return "", false
		}
		return "True", true
	case json.Number:
		if f, err := c.Float64(); err == nil && f == 0 {
			return "", false
		}
		return c.String(), true
	case []any:
		if len(c) == 0 {
			return "", false
		}
	case map[string]any:
		if len(c) == 0 {
			return "", false
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}
