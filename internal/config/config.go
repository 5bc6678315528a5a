package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/joelkehle/veridian-reports/internal/archive"
	"github.com/joelkehle/veridian-reports/internal/pdf"
	"github.com/joelkehle/veridian-reports/internal/report"
)

// Duration reads YAML strings such as "45s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("duration %q: %w", raw, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Server struct {
	Addr string `yaml:"addr"`
}

type Database struct {
	Path string `yaml:"path"`
}

type Generation struct {
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	BaseURL        string   `yaml:"base_url"`
	Timeout        Duration `yaml:"timeout"`
	CompetitorSeed uint64   `yaml:"competitor_seed"`

	// Keys come from the environment only.
	AnthropicAPIKey string `yaml:"-"`
	DeepSeekAPIKey  string `yaml:"-"`
	GeminiAPIKey    string `yaml:"-"`
}

type PDF struct {
	ChromePath string   `yaml:"chrome_path"`
	Timeout    Duration `yaml:"timeout"`
}

type Archive struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Generation Generation `yaml:"generation"`
	PDF        PDF        `yaml:"pdf"`
	Archive    Archive    `yaml:"archive"`
	Telemetry  Telemetry  `yaml:"telemetry"`
	Logging    Logging    `yaml:"logging"`
}

func Default() Config {
	return Config{
		Server:     Server{Addr: ":8080"},
		Database:   Database{Path: "./data/veridian.db"},
		Generation: Generation{Provider: string(report.SourceTemplate), Timeout: Duration(report.DefaultGenerationTimeout)},
		PDF:        PDF{Timeout: Duration(pdf.DefaultPrintTimeout)},
		Archive:    Archive{Region: archive.DefaultRegion},
		Logging:    Logging{Level: "info"},
	}
}

// Load reads path when it is non-empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(blob, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func firstEnv(keys ...string) (string, bool) {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v, true
		}
	}
	return "", false
}

func (c *Config) applyEnv() error {
	if v, ok := firstEnv("VERIDIAN_ADDR"); ok {
		c.Server.Addr = v
	} else if v, ok := firstEnv("PORT"); ok {
		c.Server.Addr = ":" + v
	}
	if v, ok := firstEnv("VERIDIAN_DB_PATH", "DB_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := firstEnv("VERIDIAN_GENERATION_PROVIDER"); ok {
		c.Generation.Provider = v
	}
	if v, ok := firstEnv("VERIDIAN_GENERATION_MODEL"); ok {
		c.Generation.Model = v
	}
	if v, ok := firstEnv("VERIDIAN_GENERATION_BASE_URL"); ok {
		c.Generation.BaseURL = v
	}
	if err := envDuration("VERIDIAN_GENERATION_TIMEOUT", &c.Generation.Timeout); err != nil {
		return err
	}
	if v, ok := firstEnv("VERIDIAN_COMPETITOR_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("VERIDIAN_COMPETITOR_SEED: %w", err)
		}
		c.Generation.CompetitorSeed = seed
	}
	c.Generation.AnthropicAPIKey, _ = firstEnv("ANTHROPIC_API_KEY")
	c.Generation.DeepSeekAPIKey, _ = firstEnv("DEEPSEEK_API_KEY")
	c.Generation.GeminiAPIKey, _ = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")

	if v, ok := firstEnv("VERIDIAN_CHROME_PATH"); ok {
		c.PDF.ChromePath = v
	}
	if err := envDuration("VERIDIAN_PDF_TIMEOUT", &c.PDF.Timeout); err != nil {
		return err
	}
	if v, ok := firstEnv("VERIDIAN_ARCHIVE_BUCKET"); ok {
		c.Archive.Bucket = v
	}
	if v, ok := firstEnv("AWS_REGION"); ok {
		c.Archive.Region = v
	}
	if v, ok := firstEnv("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		c.Telemetry.OTLPEndpoint = v
	}
	if v, ok := firstEnv("VERIDIAN_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := firstEnv("VERIDIAN_LOG_DEVELOPMENT"); ok {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VERIDIAN_LOG_DEVELOPMENT: %w", err)
		}
		c.Logging.Development = dev
	}
	return nil
}

func envDuration(key string, dst *Duration) error {
	v, ok := firstEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}

func (c Config) Validate() error {
	var errs []error
	switch report.Source(strings.ToLower(strings.TrimSpace(c.Generation.Provider))) {
	case "", report.SourceTemplate, report.SourceAnthropic, report.SourceDeepSeek, report.SourceGemini:
	default:
		errs = append(errs, fmt.Errorf("generation.provider: unknown provider %q", c.Generation.Provider))
	}
	if c.Generation.Timeout <= 0 {
		errs = append(errs, errors.New("generation.timeout must be positive"))
	}
	if c.PDF.Timeout <= 0 {
		errs = append(errs, errors.New("pdf.timeout must be positive"))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}

// APIKey returns the key for the configured provider.
func (g Generation) APIKey() string {
	switch report.Source(strings.ToLower(strings.TrimSpace(g.Provider))) {
	case report.SourceAnthropic:
		return g.AnthropicAPIKey
	case report.SourceDeepSeek:
		return g.DeepSeekAPIKey
	case report.SourceGemini:
		return g.GeminiAPIKey
	default:
		return ""
	}
}

func (g Generation) Options() report.GeneratorOptions {
	return report.GeneratorOptions{
		Provider: g.Provider,
		Model:    g.Model,
		BaseURL:  g.BaseURL,
		APIKey:   g.APIKey(),
		Timeout:  g.Timeout.Std(),
		Seed:     g.CompetitorSeed,
	}
}
