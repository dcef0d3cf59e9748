package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// S3API is the subset of the S3 client used by InvoiceArchive.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// InvoiceArchive keeps an immutable JSON snapshot of every issued invoice.
// With an empty bucket every call is a no-op.
type InvoiceArchive struct {
	bucket string
	client S3API
	logger zerolog.Logger
}

func NewInvoiceArchive(client S3API, bucket string, logger zerolog.Logger) *InvoiceArchive {
	return &InvoiceArchive{bucket: bucket, client: client, logger: logger}
}

// NewS3Client builds a client from static credentials. S3Endpoint allows a
// local S3-compatible server.
func NewS3Client(cfg *config.Config) *s3.Client {
	awsCfg := aws.Config{
		Region: cfg.S3Region,
	}
	if cfg.AWSAccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID, cfg.AWSSecretKey, "",
		)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
}

func (a *InvoiceArchive) Enabled() bool {
	return a != nil && a.bucket != "" && a.client != nil
}

func Key(inv *models.Invoice) string {
	return fmt.Sprintf("invoices/clinic-%d/%d/%02d/%s.json",
		inv.ClinicID, inv.CreatedAt.Year(), inv.CreatedAt.Month(), inv.InvoiceNumber)
}

func (a *InvoiceArchive) Archive(ctx context.Context, inv *models.Invoice) error {
	if !a.Enabled() {
		return nil
	}

	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("archive: marshal invoice: %w", err)
	}

	key := Key(inv)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	a.logger.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("s3_key", key).
		Msg("archived invoice")

	return nil
}
