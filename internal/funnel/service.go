package funnel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/joelkehle/veridian-reports/internal/archive"
	"github.com/joelkehle/veridian-reports/internal/location"
	"github.com/joelkehle/veridian-reports/internal/pdf"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
)

const tracerName = "github.com/joelkehle/veridian-reports/internal/funnel"

// ErrNotReady is returned when a PDF is requested for a report that is still
// generating or has failed.
var ErrNotReady = errors.New("report is not ready")

type ReportStore interface {
	Create(ctx context.Context, in store.CreateInput) (store.Record, error)
	Complete(ctx context.Context, id string, bundle report.Bundle) error
	Fail(ctx context.Context, id, reason string) error
	SetPDFURL(ctx context.Context, id, url string) error
	Get(ctx context.Context, id, userID string) (store.Record, error)
	ListByUser(ctx context.Context, userID string) ([]store.Record, error)
	Delete(ctx context.Context, id, userID string) error
}

type PDFRenderer interface {
	Render(ctx context.Context, doc pdf.Document) ([]byte, error)
}

// Preview is the live location summary shown while a user fills in the
// wizard.
type Preview struct {
	Classification location.Classification `json:"classification"`
	Regulation     location.StateRegulation `json:"regulation"`
	Checklist      []string                 `json:"compliance_checklist"`
}

type RenderedPDF struct {
	Filename string
	Data     []byte
	URL      string
}

// Service runs a purchase through validation, generation, persistence and
// rendering. The archiver is optional.
type Service struct {
	store     ReportStore
	generator report.ContentGenerator
	renderer  PDFRenderer
	archiver  archive.Archiver
	logger    *zap.Logger
}

func New(st ReportStore, gen report.ContentGenerator, renderer PDFRenderer, archiver archive.Archiver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, generator: gen, renderer: renderer, archiver: archiver, logger: logger}
}

// Classify validates a city/state pair and returns its preview.
func (s *Service) Classify(city, state string) (Preview, error) {
	var problems []report.FieldProblem
	if utf8.RuneCountInString(strings.TrimSpace(city)) < 2 {
		problems = append(problems, report.FieldProblem{Field: "city", Message: "must be at least 2 characters"})
	}
	if !report.ValidStateCode(state) {
		problems = append(problems, report.FieldProblem{Field: "state", Message: "must be a two-letter state code"})
	}
	if len(problems) > 0 {
		return Preview{}, &report.ValidationError{Problems: problems}
	}

	cls := location.Classify(city, state)
	s.logger.Debug("classified location",
		zap.String("city", cls.City),
		zap.String("state", cls.State),
		zap.String("tier", string(cls.Tier)),
		zap.Int("market_score", cls.MarketScore),
	)
	return Preview{
		Classification: cls,
		Regulation:     location.Regulation(state),
		Checklist:      location.ComplianceChecklist(state),
	}, nil
}

// Generate validates req, records it as generating, produces the bundle and
// finalizes the record. Validation problems are returned before anything is
// stored; a generation failure leaves a failed record and returns the error.
// Once a record exists it is always finalized, even if ctx is cancelled.
func (s *Service) Generate(ctx context.Context, userID string, req report.Request) (store.Record, error) {
	if err := report.Validate(req); err != nil {
		return store.Record{}, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "funnel.Generate")
	defer span.End()

	cls := location.Classify(req.Location.City, req.Location.State)
	rec, err := s.store.Create(ctx, store.CreateInput{
		UserID:           userID,
		Request:          req,
		LocationTier:     cls.Tier,
		NearestMajorCity: cls.NearestMajorCity,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return store.Record{}, err
	}
	span.SetAttributes(
		attribute.String("report.id", rec.ID),
		attribute.String("location.tier", string(cls.Tier)),
	)
	log := s.logger.With(zap.String("report_id", rec.ID), zap.String("user_id", userID))
	log.Info("report generation started", zap.String("city", rec.City), zap.String("state", rec.State))

	bundle, genErr := s.generator.Generate(ctx, req)
	persistCtx := context.WithoutCancel(ctx)
	if genErr != nil {
		span.RecordError(genErr)
		span.SetStatus(codes.Error, "generation failed")
		s.markFailed(persistCtx, log, rec.ID, genErr)
		log.Error("report generation failed", zap.Error(genErr))
		return store.Record{}, fmt.Errorf("generate report %s: %w", rec.ID, genErr)
	}
	if err := s.store.Complete(persistCtx, rec.ID, bundle); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "complete failed")
		s.markFailed(persistCtx, log, rec.ID, err)
		log.Error("store report content failed", zap.Error(err))
		return store.Record{}, fmt.Errorf("complete report %s: %w", rec.ID, err)
	}
	span.SetAttributes(attribute.String("report.source", string(bundle.Source)))
	log.Info("report generation finished", zap.String("source", string(bundle.Source)))

	return s.store.Get(persistCtx, rec.ID, userID)
}

func (s *Service) markFailed(ctx context.Context, log *zap.Logger, id string, cause error) {
	if err := s.store.Fail(ctx, id, cause.Error()); err != nil {
		log.Error("mark report failed", zap.Error(err))
	}
}

func (s *Service) Get(ctx context.Context, id, userID string) (store.Record, error) {
	return s.store.Get(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]store.Record, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	return s.store.Delete(ctx, id, userID)
}

// RenderPDF prints a ready report. The first successful render is archived
// when an archiver is configured; archive failures are logged and do not
// fail the render.
func (s *Service) RenderPDF(ctx context.Context, id, userID string) (RenderedPDF, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "funnel.RenderPDF")
	defer span.End()
	span.SetAttributes(attribute.String("report.id", id))

	rec, err := s.store.Get(ctx, id, userID)
	if err != nil {
		return RenderedPDF{}, err
	}
	if rec.Status != store.StatusReady {
		return RenderedPDF{}, fmt.Errorf("%w: status %s", ErrNotReady, rec.Status)
	}

	data, err := s.renderer.Render(ctx, pdf.DocumentFromRecord(rec))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.logger.Error("pdf render failed", zap.String("report_id", id), zap.Error(err))
		return RenderedPDF{}, err
	}
	out := RenderedPDF{Filename: pdf.Filename(rec.CompanyName), Data: data, URL: rec.PDFURL}

	if s.archiver != nil && rec.PDFURL == "" {
		url, err := s.archiver.Put(ctx, rec.ID, data)
		if err != nil {
			s.logger.Warn("archive pdf failed", zap.String("report_id", id), zap.Error(err))
			return out, nil
		}
		if err := s.store.SetPDFURL(ctx, rec.ID, url); err != nil {
			s.logger.Warn("store pdf url failed", zap.String("report_id", id), zap.Error(err))
			return out, nil
		}
		out.URL = url
	}
	return out, nil
}
