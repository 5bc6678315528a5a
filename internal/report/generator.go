package report

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/joelkehle/veridian-reports/internal/location"
)

const tracerName = "github.com/joelkehle/veridian-reports/internal/report"

const DefaultGenerationTimeout = 45 * time.Second

// ContentGenerator produces a bundle for a validated request. The templated
// Assembler is always available; RemoteGenerator layers a model call on top.
type ContentGenerator interface {
	Generate(ctx context.Context, req Request) (Bundle, error)
}

// RemoteGenerator asks a TextGenerator for the executive summary and keeps
// the templated sections. Any remote failure or timeout yields the fully
// templated bundle instead; only validation errors are returned.
type RemoteGenerator struct {
	text     TextGenerator
	source   Source
	fallback *Assembler
	timeout  time.Duration
	logger   *zap.Logger
}

func NewRemoteGenerator(text TextGenerator, source Source, fallback *Assembler, timeout time.Duration, logger *zap.Logger) *RemoteGenerator {
	if fallback == nil {
		fallback = NewAssembler(nil)
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteGenerator{text: text, source: source, fallback: fallback, timeout: timeout, logger: logger}
}

func (g *RemoteGenerator) Generate(ctx context.Context, req Request) (Bundle, error) {
	if err := Validate(req); err != nil {
		return Bundle{}, err
	}
	cls := location.Classify(req.Location.City, req.Location.State)
	bundle := g.fallback.build(req, cls)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "report.remote_generate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("report.source", string(g.source)))

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	start := time.Now()
	text, err := g.text.GenerateText(callCtx, BuildPrompt(req, cls))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote generation failed")
		span.SetAttributes(attribute.Bool("report.fallback", true))
		g.logger.Warn("remote generation failed, using template",
			zap.String("source", string(g.source)),
			zap.String("failure", failureClass(err)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return bundle, nil
	}

	bundle.ExecutiveSummary = withDisclaimer(text, req.Company.Name, req.Location.State)
	bundle.Source = g.source
	g.logger.Debug("remote generation complete",
		zap.String("source", string(g.source)),
		zap.Int("chars", len(bundle.ExecutiveSummary)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return bundle, nil
}

func withDisclaimer(text, companyName, state string) string {
	if strings.Contains(strings.ToUpper(text), "DISCLAIMER") {
		return text
	}
	return text + "\n\n---\n\n" + Disclaimer(companyName, state)
}

// GeneratorOptions selects and configures the content generator.
type GeneratorOptions struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Seed       uint64
	HTTPClient *http.Client
}

// NewGenerator builds the generator for opts.Provider. A remote provider
// without an API key degrades to the template generator with a warning.
func NewGenerator(ctx context.Context, opts GeneratorOptions, logger *zap.Logger) (ContentGenerator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var r Rand
	if opts.Seed != 0 {
		r = NewSeededRand(opts.Seed)
	}
	assembler := NewAssembler(r)

	var (
		text TextGenerator
		err  error
	)
	source := Source(strings.ToLower(strings.TrimSpace(opts.Provider)))
	switch source {
	case "", SourceTemplate:
		return assembler, nil
	case SourceAnthropic:
		text, err = NewAnthropicTextGenerator(opts.APIKey, opts.Model)
	case SourceDeepSeek:
		text, err = NewChatCompletionTextGenerator(opts.BaseURL, opts.APIKey, opts.Model, opts.HTTPClient)
	case SourceGemini:
		text, err = NewGeminiTextGenerator(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", opts.Provider)
	}
	if err != nil {
		logger.Warn("remote generator unavailable, using template", zap.String("provider", string(source)), zap.Error(err))
		return assembler, nil
	}
	return NewRemoteGenerator(text, source, assembler, opts.Timeout, logger.Named("generator")), nil
}
