// Package config assembles the runtime configuration. Precedence, lowest
// first: Default, the config file, .env, the environment, command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/zai/internal/proxy"
	"github.com/baalimago/zai/internal/sign"
	"github.com/baalimago/zai/internal/upstream"
	"github.com/baalimago/zai/internal/utils"
	"github.com/joho/godotenv"
)

const FileName = "zaiConfig.json"

type Configurations struct {
	BaseURL string `json:"baseUrl"`
	Token   string `json:"token"`
	// DisableAnonymous turns off guest tokens. Negated so that the zero value
	// written by older config files keeps the default.
	DisableAnonymous bool   `json:"disableAnonymous"`
	SigningSecret    string `json:"signingSecret"`
	Model            string `json:"model"`
	FallbackCharset  string `json:"fallbackCharset"`

	// Proxy settings.
	APIKey        string `json:"apiKey"`
	Port          string `json:"port"`
	DefaultStream *bool  `json:"defaultStream"`
	ThinkTagsMode string `json:"thinkTagsMode"`
	// EnableThinking forces the thinking phase on or off for proxied requests
	// which do not say. Nil follows the model name.
	EnableThinking *bool `json:"enableThinking"`

	Raw         bool     `json:"-"`
	Temperature *float64 `json:"-"`
	MaxTokens   *int     `json:"-"`
}

var streamByDefault = true

var Default = Configurations{
	BaseURL:       upstream.DefaultBaseURL,
	SigningSecret: sign.DefaultSecret,
	Model:         upstream.DefaultModel,
	Port:          "7860",
	DefaultStream: &streamByDefault,
	ThinkTagsMode: string(proxy.ThinkStrip),
}

// Load reads the config file in configDir, creating it when missing, then
// layers .env and the process environment on top.
func Load(configDir string) (Configurations, error) {
	dflt := Default
	conf, err := utils.LoadConfigFromFile(configDir, FileName, &dflt)
	if err != nil {
		return Configurations{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := LoadDotEnv(".env"); err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to load .env: %v\n", err))
	}
	ApplyEnv(&conf, os.Getenv)
	return conf, nil
}

// LoadDotEnv loads path into the process environment without overriding
// variables which are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides conf with every non empty variable getenv knows about.
func ApplyEnv(conf *Configurations, getenv func(string) string) {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&conf.BaseURL, "ZAI_BASE_URL")
	setString(&conf.Token, "ZAI_TOKEN")
	setString(&conf.SigningSecret, "ZAI_SIGNING_SECRET")
	setString(&conf.Model, "ZAI_MODEL")
	setString(&conf.FallbackCharset, "ZAI_FALLBACK_CHARSET")
	setString(&conf.APIKey, "ZAI_API_KEY")
	setString(&conf.Port, "PORT")
	setString(&conf.ThinkTagsMode, "THINK_TAGS_MODE")
	if v := getenv("ZAI_DISABLE_ANONYMOUS"); v != "" {
		conf.DisableAnonymous = misc.Truthy(v)
	}
	if v := getenv("ENABLE_THINKING"); v != "" {
		b := misc.Truthy(v)
		conf.EnableThinking = &b
	}
	if v := getenv("DEFAULT_STREAM"); v != "" {
		b := misc.Truthy(v)
		conf.DefaultStream = &b
	}
}

// StreamByDefault is what the proxy uses when a request omits "stream".
func (c Configurations) StreamByDefault() bool {
	if c.DefaultStream == nil {
		return streamByDefault
	}
	return *c.DefaultStream
}

// ListenAddr turns Port into a listen address.
func (c Configurations) ListenAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// ProxyConfig extracts the settings of the OpenAI compatible server.
func (c Configurations) ProxyConfig() proxy.Config {
	return proxy.Config{
		APIKey:         c.APIKey,
		DefaultStream:  c.StreamByDefault(),
		ThinkTags:      proxy.ThinkTagsMode(c.ThinkTagsMode),
		DefaultModel:   c.Model,
		EnableThinking: c.EnableThinking,
	}
}
