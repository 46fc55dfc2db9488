package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const (
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	AcceptLanguage   = "zh-CN,zh;q=0.9"
	FEVersion        = "prod-fe-1.0.79"
	AuthPath         = "/api/v1/auths/"
)

// DefaultTimeout for guest token requests.
const DefaultTimeout = 10 * time.Second

var ErrNoCredentialSource = errors.New("no credential source configured")

// AuthError is returned when no bearer token could be obtained.
type AuthError struct {
	// StatusCode of the auth endpoint, 0 if no response was received.
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auth: status %v: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Resolver decides which bearer token a chat call uses. It holds no state
// besides its configuration, tokens are never cached.
type Resolver struct {
	// Token is returned as is when set.
	Token string
	// Anonymous enables fetching a guest token from BaseURL + AuthPath.
	Anonymous bool
	BaseURL   string
	Client    *http.Client
}

// Resolve returns the bearer token for one chat call.
func (r Resolver) Resolve(ctx context.Context) (string, error) {
	if r.Token != "" {
		return r.Token, nil
	}
	if !r.Anonymous {
		return "", &AuthError{Err: ErrNoCredentialSource}
	}
	return r.guestToken(ctx)
}

func (r Resolver) guestToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+AuthPath, nil)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", AcceptLanguage)
	req.Header.Set("User-Agent", BrowserUserAgent)
	req.Header.Set("X-FE-Version", FEVersion)
	req.Header.Set("Origin", r.BaseURL)
	req.Header.Set("Referer", r.BaseURL+"/")

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	res, err := client.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return "", &AuthError{StatusCode: res.StatusCode, Err: fmt.Errorf("unexpected status: %v", res.Status)}
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", &AuthError{StatusCode: res.StatusCode, Err: fmt.Errorf("failed to decode guest token: %w", err)}
	}
	if body.Token == "" {
		return "", &AuthError{StatusCode: res.StatusCode, Err: errors.New("guest token missing from response")}
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("fetched guest token: %v...\n", truncate(body.Token, 10)))
	}
	return body.Token, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
