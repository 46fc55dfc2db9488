package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/zai/internal/proxy"
)

func TestLoad_createsDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".zai")
	t.Chdir(t.TempDir())
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	testboil.FailTestIfDiff(t, got.BaseURL, Default.BaseURL)
	testboil.FailTestIfDiff(t, got.Model, "GLM-4.6")
	testboil.FailTestIfDiff(t, got.SigningSecret, "junjie")
	testboil.FailTestIfDiff(t, got.Port, "7860")
	testboil.FailTestIfDiff(t, got.StreamByDefault(), true)
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
}

func TestLoad_fileKeepsExplicitFalse(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(`{"defaultStream":false,"model":"GLM-4.5"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	testboil.FailTestIfDiff(t, got.StreamByDefault(), false)
	testboil.FailTestIfDiff(t, got.Model, "GLM-4.5")
	testboil.FailTestIfDiff(t, got.Port, "7860")
}

func TestLoad_envOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv("ZAI_MODEL", "GLM-4.5-Air")
	t.Setenv("ZAI_DISABLE_ANONYMOUS", "true")
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	testboil.FailTestIfDiff(t, got.Model, "GLM-4.5-Air")
	testboil.FailTestIfDiff(t, got.DisableAnonymous, true)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ZAI_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ZAI_TEST_DOTENV", "")
	os.Unsetenv("ZAI_TEST_DOTENV")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	testboil.FailTestIfDiff(t, os.Getenv("ZAI_TEST_DOTENV"), "from-file")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ZAI_BASE_URL":       "http://localhost:1",
		"ZAI_TOKEN":          "tok",
		"ZAI_SIGNING_SECRET": "s",
		"ZAI_API_KEY":        "sk",
		"PORT":               "9000",
		"DEFAULT_STREAM":     "false",
		"THINK_TAGS_MODE":    "think",
		"ENABLE_THINKING":    "false",
	}
	conf := Default
	ApplyEnv(&conf, func(k string) string { return env[k] })
	testboil.FailTestIfDiff(t, conf.BaseURL, "http://localhost:1")
	testboil.FailTestIfDiff(t, conf.Token, "tok")
	testboil.FailTestIfDiff(t, conf.SigningSecret, "s")
	testboil.FailTestIfDiff(t, conf.StreamByDefault(), false)
	testboil.FailTestIfDiff(t, conf.ListenAddr(), ":9000")
	testboil.FailTestIfDiff(t, conf.Model, Default.Model)
	testboil.FailTestIfDiff(t, Default.StreamByDefault(), true)

	pc := conf.ProxyConfig()
	testboil.FailTestIfDiff(t, pc.APIKey, "sk")
	testboil.FailTestIfDiff(t, pc.ThinkTags, proxy.ThinkThink)
	testboil.FailTestIfDiff(t, pc.DefaultStream, false)
	if pc.EnableThinking == nil || *pc.EnableThinking {
		t.Fatalf("expected thinking forced off, got %v", pc.EnableThinking)
	}
	if Default.ProxyConfig().EnableThinking != nil {
		t.Fatal("thinking should follow the model name by default")
	}
}

func TestListenAddr(t *testing.T) {
	testboil.FailTestIfDiff(t, Configurations{Port: "127.0.0.1:80"}.ListenAddr(), "127.0.0.1:80")
	testboil.FailTestIfDiff(t, Configurations{Port: "80"}.ListenAddr(), ":80")
}
