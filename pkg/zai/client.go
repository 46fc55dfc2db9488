package zai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/zai/internal/auth"
	"github.com/baalimago/zai/internal/models"
	"github.com/baalimago/zai/internal/sign"
	"github.com/baalimago/zai/internal/stream"
	"github.com/baalimago/zai/internal/upstream"
	"github.com/google/uuid"
	"golang.org/x/text/encoding"
)

type (
	Message     = models.Message
	Tool        = models.Tool
	ChatRequest = models.ChatRequest
	Result      = models.Result
	Lines       = stream.Lines
	// ModelInfo is one entry of the upstream model catalog.
	ModelInfo = upstream.ModelInfo

	// AuthError is returned when no bearer token could be obtained.
	AuthError = auth.AuthError
	// TransportError is returned when the chat endpoint could not be reached,
	// answered with a non 200 status, or broke off mid stream.
	TransportError = stream.TransportError
)

const (
	DefaultBaseURL = upstream.DefaultBaseURL
	DefaultModel   = upstream.DefaultModel
)

// Response of Chat. Exactly one of the fields is set, depending on
// ChatRequest.Stream.
type Response struct {
	Lines  *Lines
	Result *Result
}

type Client struct {
	baseURL       string
	token         string
	anonymous     bool
	secret        string
	httpClient    *http.Client
	authClient    *http.Client
	fallbackLabel string
	fallback      encoding.Encoding
	debug         bool
	now           func() time.Time
	newID         func() string
	location      *time.Location
}

// New constructs a Client. Defaults: chat.z.ai, anonymous guest tokens
// enabled, the web frontend signing secret and ISO-8859-1 as fallback
// charset. DEBUG enables request printing as well.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		anonymous:  true,
		secret:     sign.DefaultSecret,
		httpClient: &http.Client{},
		authClient: &http.Client{Timeout: auth.DefaultTimeout},
		debug:      misc.Truthy(os.Getenv("DEBUG")),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	enc, err := stream.FallbackEncoding(c.fallbackLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fallback charset: %w", err)
	}
	c.fallback = enc
	return c, nil
}

// Chat streams or aggregates depending on req.Stream.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (Response, error) {
	if req.Stream {
		lines, err := c.Stream(ctx, req)
		if err != nil {
			return Response{}, err
		}
		return Response{Lines: lines}, nil
	}
	res, err := c.Complete(ctx, req)
	if err != nil {
		return Response{}, err
	}
	return Response{Result: &res}, nil
}

// Stream returns the raw event stream lines, each terminated by "\n". The
// caller must release the Lines.
func (c *Client) Stream(ctx context.Context, req ChatRequest) (*Lines, error) {
	res, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return stream.Open(res, c.fallback)
}

// Complete folds the answer into a single Result. The upstream only answers
// with a stream, so one is always requested regardless of req.Stream.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (Result, error) {
	req.Stream = true
	lines, err := c.Stream(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return stream.Aggregate(lines)
}

func (c *Client) resolver() auth.Resolver {
	return auth.Resolver{
		Token:     c.token,
		Anonymous: c.anonymous,
		BaseURL:   c.baseURL,
		Client:    c.authClient,
	}
}

func (c *Client) send(ctx context.Context, req ChatRequest) (*http.Response, error) {
	token, err := c.resolver().Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = DefaultModel
	}
	env := upstream.Build(upstream.BuildInput{
		Request: req,
		Token:   token,
		Secret:  c.secret,
		Signing: sign.Context{
			MessageText: req.SigningText(),
			RequestID:   c.newID(),
			TimestampMS: c.now().UnixMilli(),
			Identity:    auth.ExtractIdentity(token),
		},
		ChatID:   c.newID(),
		BodyID:   c.newID(),
		BaseURL:  c.baseURL,
		Location: c.location,
	})
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("zai request: %v\n", debug.IndentedJsonFmt(env.Body)))
	}
	res, err := upstream.Send(ctx, c.httpClient, env)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return res, nil
}

// ContentFromChunk extracts the text fragment of one stream line, or returns
// the empty string for anything that is not a chat completion frame.
func ContentFromChunk(line string) string {
	return stream.ContentFromChunk(line)
}

// ListModels fetches the active models from the upstream catalog. A token
// which cannot be resolved is not fatal, the catalog is then requested
// without one.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	token, err := c.resolver().Resolve(ctx)
	if err != nil && c.debug {
		ancli.PrintWarn(fmt.Sprintf("listing models without token: %v\n", err))
	}
	return upstream.FetchModels(ctx, c.authClient, c.baseURL, token)
}

// Models lists the supported public model names, sorted.
func Models() []string {
	return upstream.ModelNames()
}
