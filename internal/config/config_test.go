package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"VERIDIAN_ADDR", "PORT", "VERIDIAN_DB_PATH", "DB_PATH",
	"VERIDIAN_GENERATION_PROVIDER", "VERIDIAN_GENERATION_MODEL", "VERIDIAN_GENERATION_BASE_URL",
	"VERIDIAN_GENERATION_TIMEOUT", "VERIDIAN_COMPETITOR_SEED",
	"ANTHROPIC_API_KEY", "DEEPSEEK_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
	"VERIDIAN_CHROME_PATH", "VERIDIAN_PDF_TIMEOUT", "VERIDIAN_ARCHIVE_BUCKET", "AWS_REGION",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "VERIDIAN_LOG_LEVEL", "VERIDIAN_LOG_DEVELOPMENT",
}

// clearEnv blanks every variable Load reads; blank values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "veridian.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults changed (-want +got):\n%s", diff)
	}
	if time.Duration(cfg.Generation.Timeout) != 45*time.Second {
		t.Fatalf("generation timeout=%s", time.Duration(cfg.Generation.Timeout))
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9000"
database:
  path: /var/lib/veridian/reports.db
generation:
  provider: deepseek
  timeout: 20s
  competitor_seed: 11
pdf:
  timeout: 1m
archive:
  bucket: veridian-pdfs
logging:
  level: debug
`)
	t.Setenv("VERIDIAN_DB_PATH", "/tmp/override.db")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Database.Path != "/tmp/override.db" {
		t.Fatalf("unexpected server/db %+v %+v", cfg.Server, cfg.Database)
	}
	if time.Duration(cfg.Generation.Timeout) != 20*time.Second || time.Duration(cfg.PDF.Timeout) != time.Minute {
		t.Fatalf("durations %v %v", cfg.Generation.Timeout, cfg.PDF.Timeout)
	}
	if cfg.Archive.Bucket != "veridian-pdfs" || cfg.Archive.Region != "eu-west-1" {
		t.Fatalf("archive %+v", cfg.Archive)
	}
	opts := cfg.Generation.Options()
	if opts.Provider != "deepseek" || opts.APIKey != "sk-test" || opts.Seed != 11 {
		t.Fatalf("generator options %+v", opts)
	}
}

func TestPortEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Fatalf("addr=%q", cfg.Server.Addr)
	}
	t.Setenv("VERIDIAN_ADDR", "127.0.0.1:8181")
	cfg, _ = Load("")
	if cfg.Server.Addr != "127.0.0.1:8181" {
		t.Fatalf("VERIDIAN_ADDR should win, got %q", cfg.Server.Addr)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Generation.Provider = "openai"
	cfg.Generation.Timeout = 0
	cfg.Logging.Level = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"unknown provider", "generation.timeout", "logging.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VERIDIAN_GENERATION_TIMEOUT", "soon")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "VERIDIAN_GENERATION_TIMEOUT") {
		t.Fatalf("expected duration error, got %v", err)
	}
}

func TestLoadRejectsBadYAMLDuration(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "generation:\n  timeout: fortnight\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAPIKeyFollowsProvider(t *testing.T) {
	g := Generation{Provider: "Gemini", AnthropicAPIKey: "a", GeminiAPIKey: "g"}
	if g.APIKey() != "g" {
		t.Fatalf("key=%q", g.APIKey())
	}
	g.Provider = "template"
	if g.APIKey() != "" {
		t.Fatalf("template provider should not carry a key")
	}
}
