package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	tracerName    = "github.com/joelkehle/veridian-reports/internal/archive"
	DefaultRegion = "us-east-1"
)

// Archiver stores a rendered PDF and returns where it can be fetched.
type Archiver interface {
	Put(ctx context.Context, reportID string, pdf []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client objectPutter
	bucket string
	region string
	logger *zap.Logger
}

// NewS3Archiver loads the default AWS credential chain for region.
func NewS3Archiver(ctx context.Context, bucket, region string, logger *zap.Logger) (*S3Archiver, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("archive bucket is required")
	}
	if region == "" {
		region = DefaultRegion
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3Archiver(s3.NewFromConfig(cfg), bucket, region, logger), nil
}

func newS3Archiver(client objectPutter, bucket, region string, logger *zap.Logger) *S3Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Archiver{client: client, bucket: bucket, region: region, logger: logger}
}

func (a *S3Archiver) Put(ctx context.Context, reportID string, pdf []byte) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "archive.Put", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	key := ObjectKey(reportID)
	span.SetAttributes(
		attribute.String("archive.bucket", a.bucket),
		attribute.String("archive.key", key),
		attribute.Int("archive.bytes", len(pdf)),
	)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)
	a.logger.Info("archived report pdf", zap.String("report_id", reportID), zap.String("url", url))
	return url, nil
}

// ObjectKey places each upload under its report id with a unique name.
func ObjectKey(reportID string) string {
	return fmt.Sprintf("reports/%s/%s.pdf", reportID, uuid.NewString())
}
