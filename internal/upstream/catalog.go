package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/baalimago/zai/internal/auth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ModelsPath = "/api/models"

var ErrNoActiveModels = errors.New("no active models listed")

// ModelInfo is one entry of the model catalog served by the upstream.
type ModelInfo struct {
	// ID is the provider model id, usable as ChatRequest.ProviderModel.
	ID      string
	Name    string
	Created int64
}

type catalogResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Info struct {
			IsActive  bool  `json:"is_active"`
			CreatedAt int64 `json:"created_at"`
		} `json:"info"`
	} `json:"data"`
}

// FetchModels lists the active models of the upstream. token may be empty, in
// which case no Authorization header is sent.
func FetchModels(ctx context.Context, client *http.Client, baseURL, token string) ([]ModelInfo, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+ModelsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", auth.AcceptLanguage)
	req.Header.Set("User-Agent", auth.BrowserUserAgent)
	req.Header.Set("X-FE-Version", auth.FEVersion)
	req.Header.Set("Origin", baseURL)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if client == nil {
		client = &http.Client{Timeout: auth.DefaultTimeout}
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("unexpected status: %v", res.Status)
	}

	var body catalogResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	var ret []ModelInfo
	for _, m := range body.Data {
		if !m.Info.IsActive {
			continue
		}
		name := m.Name
		if name == "" || !isASCIILetter(rune(name[0])) {
			name = DisplayName(m.ID)
		}
		ret = append(ret, ModelInfo{ID: m.ID, Name: name, Created: m.Info.CreatedAt})
	}
	if len(ret) == 0 {
		return nil, ErrNoActiveModels
	}
	return ret, nil
}

// DisplayName turns a provider id such as "glm-4-air" into "GLM-4-Air":
// the first dash separated part is upper cased, later parts containing a
// letter are title cased, the rest is kept.
func DisplayName(id string) string {
	if id == "" {
		return ""
	}
	parts := strings.Split(id, "-")
	out := make([]string, 0, len(parts))
	out = append(out, strings.ToUpper(parts[0]))
	titler := cases.Title(language.Und, cases.NoLower)
	for _, p := range parts[1:] {
		if strings.IndexFunc(p, isASCIILetter) >= 0 {
			p = titler.String(p)
		}
		out = append(out, p)
	}
	return strings.Join(out, "-")
}

func isASCIILetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
