package zai

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithToken sets a bearer token. A configured token is used as is and no
// guest token is ever fetched.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithAnonymous toggles fetching a guest token when no token is configured.
// Enabled by default.
func WithAnonymous(enabled bool) Option {
	return func(c *Client) {
		c.anonymous = enabled
	}
}

// WithBaseURL points the client at another deployment, mostly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithSigningSecret replaces the root signing secret.
func WithSigningSecret(secret string) Option {
	return func(c *Client) {
		c.secret = secret
	}
}

// WithHTTPClient sets the client used for chat requests. It should not carry
// a timeout shorter than the longest expected answer.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithAuthClient sets the client used for guest token requests.
func WithAuthClient(client *http.Client) Option {
	return func(c *Client) {
		c.authClient = client
	}
}

// WithFallbackCharset sets the charset used to decode stream lines which are
// not valid UTF-8. Defaults to ISO-8859-1.
func WithFallbackCharset(label string) Option {
	return func(c *Client) {
		c.fallbackLabel = label
	}
}

// WithDebug prints outgoing requests.
func WithDebug(enabled bool) Option {
	return func(c *Client) {
		c.debug = enabled
	}
}

// WithClock replaces time.Now and the uuid source. Both are used for the
// signing timestamp, the request id and the chat ids.
func WithClock(now func() time.Time, newID func() string) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
		if newID != nil {
			c.newID = newID
		}
	}
}

// WithLocation sets the time zone of the date and time variables sent along
// with each request. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		c.location = loc
	}
}
