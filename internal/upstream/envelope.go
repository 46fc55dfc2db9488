package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/baalimago/zai/internal/auth"
	"github.com/baalimago/zai/internal/models"
	"github.com/baalimago/zai/internal/sign"
)

const (
	DefaultBaseURL = "https://chat.z.ai"
	ChatPath       = "/api/chat/completions"
)

type RequestBody struct {
	Stream          bool              `json:"stream"`
	Model           string            `json:"model"`
	Messages        []models.Message  `json:"messages"`
	Params          Params            `json:"params"`
	Features        Features          `json:"features"`
	BackgroundTasks BackgroundTasks   `json:"background_tasks"`
	MCPServers      []string          `json:"mcp_servers"`
	Variables       map[string]string `json:"variables"`
	ModelItem       ModelItem         `json:"model_item"`
	ChatID          string            `json:"chat_id"`
	ID              string            `json:"id"`
	Tools           []models.Tool     `json:"tools,omitzero"`
}

type Params struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type Features struct {
	ImageGeneration bool     `json:"image_generation"`
	WebSearch       bool     `json:"web_search"`
	AutoWebSearch   bool     `json:"auto_web_search"`
	PreviewMode     bool     `json:"preview_mode"`
	Flags           []string `json:"flags"`
	Features        []string `json:"features"`
	EnableThinking  bool     `json:"enable_thinking"`
}

type BackgroundTasks struct {
	TitleGeneration bool `json:"title_generation"`
	TagsGeneration  bool `json:"tags_generation"`
}

type ModelItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnedBy string `json:"owned_by"`
}

// BuildInput is everything needed to assemble one signed chat request.
type BuildInput struct {
	Request models.ChatRequest
	Token   string
	Secret  string
	// Signing carries the request id, timestamp, identity and message text.
	Signing sign.Context
	ChatID  string
	BodyID  string
	BaseURL string
	// Location is used for the date and time template variables. Defaults to
	// time.Local.
	Location *time.Location
}

// Envelope is the fully assembled outbound request.
type Envelope struct {
	URL       string
	Header    http.Header
	Body      RequestBody
	Signature string
}

// Build assembles the signed request. It does not fail: every input has been
// resolved by the caller already.
func Build(in BuildInput) Envelope {
	base := in.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	signature := sign.Sign(in.Signing, in.Secret)
	return Envelope{
		URL:       chatURL(base, in),
		Header:    headers(base, in.ChatID, in.Token, signature),
		Body:      body(in),
		Signature: signature,
	}
}

func body(in BuildInput) RequestBody {
	req := in.Request
	variant := Classify(req.Model)
	upstreamID := req.ProviderModel
	if upstreamID == "" {
		upstreamID = UpstreamModelID(req.Model)
	}
	messages := req.Messages
	if messages == nil {
		messages = []models.Message{}
	}
	b := RequestBody{
		Stream:   req.Stream,
		Model:    upstreamID,
		Messages: messages,
		Params: Params{
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		},
		Features: Features{
			WebSearch:      variant.Has(Search),
			AutoWebSearch:  variant.Has(Search),
			Flags:          []string{},
			Features:       []string{},
			EnableThinking: enableThinking(req, variant),
		},
		MCPServers: variant.mcpServers(),
		Variables:  templateVariables(in.Signing.TimestampMS, in.Location),
		ModelItem: ModelItem{
			ID:      upstreamID,
			Name:    req.Model,
			OwnedBy: OwnedBy,
		},
		ChatID: in.ChatID,
		ID:     in.BodyID,
	}
	if req.Tools != nil && !variant.Has(Thinking) {
		b.Tools = req.Tools
	}
	return b
}

// enableThinking follows the model name unless the request says otherwise.
func enableThinking(req models.ChatRequest, v Variant) bool {
	if req.EnableThinking != nil {
		return *req.EnableThinking
	}
	return v.Has(Thinking)
}

func templateVariables(timestampMS int64, loc *time.Location) map[string]string {
	if loc == nil {
		loc = time.Local
	}
	now := time.UnixMilli(timestampMS).In(loc)
	return map[string]string{
		"{{USER_NAME}}":        "Guest",
		"{{USER_LOCATION}}":    "Unknown",
		"{{CURRENT_DATETIME}}": now.Format("2006-01-02 15:04:05"),
		"{{CURRENT_DATE}}":     now.Format("2006-01-02"),
		"{{CURRENT_TIME}}":     now.Format("15:04:05"),
		"{{CURRENT_WEEKDAY}}":  now.Weekday().String(),
		"{{CURRENT_TIMEZONE}}": "Asia/Shanghai",
		"{{USER_LANGUAGE}}":    "zh-CN",
	}
}

func headers(base, chatID, token, signature string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json, text/event-stream")
	h.Set("User-Agent", auth.BrowserUserAgent)
	h.Set("Accept-Language", auth.AcceptLanguage)
	h.Set("Authorization", "Bearer "+token)
	h.Set("X-Signature", signature)
	h.Set("X-FE-Version", auth.FEVersion)
	h.Set("Origin", base)
	h.Set("Referer", base+"/c/"+chatID)
	return h
}

// chatURL duplicates some signed values in the query string, the endpoint
// reads them from there rather than from the body.
func chatURL(base string, in BuildInput) string {
	ts := strconv.FormatInt(in.Signing.TimestampMS, 10)
	q := url.Values{}
	q.Set("timestamp", ts)
	q.Set("requestId", in.Signing.RequestID)
	q.Set("user_id", in.Signing.Identity)
	q.Set("token", in.Token)
	q.Set("current_url", base+"/c/"+in.ChatID)
	q.Set("pathname", "/c/"+in.ChatID)
	q.Set("signature_timestamp", ts)
	return base + ChatPath + "?" + q.Encode()
}

// NewRequest marshals the envelope into an http request.
func (e Envelope) NewRequest(ctx context.Context) (*http.Request, error) {
	jsonData, err := json.Marshal(e.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = e.Header.Clone()
	return req, nil
}

// Send posts the envelope. The caller owns the response body.
func Send(ctx context.Context, client *http.Client, e Envelope) (*http.Response, error) {
	req, err := e.NewRequest(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return res, nil
}
