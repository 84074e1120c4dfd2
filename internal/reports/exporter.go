// Package reports exports processing summaries to S3-compatible object
// storage via presigned PUT URLs.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	ac "github.com/dmitrijs2005/accountkeeper/internal/config"
	"github.com/dmitrijs2005/accountkeeper/internal/netx"
	"github.com/dmitrijs2005/accountkeeper/internal/records"
	"github.com/google/uuid"
)

// ErrNotConfigured is returned by Export when no object storage endpoint or
// bucket is configured.
var ErrNotConfigured = errors.New("report export is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
)

// Exporter uploads report documents to the configured bucket.
type Exporter struct {
	config *ac.Config
}

// NewExporter constructs an Exporter over the application configuration.
func NewExporter(cfg *ac.Config) *Exporter {
	return &Exporter{config: cfg}
}

// Enabled reports whether an object storage endpoint and bucket are
// configured.
func (e *Exporter) Enabled() bool {
	return e.config.S3BaseEndpoint != "" && e.config.S3Bucket != ""
}

// storageKey builds the object key a report is stored under.
func storageKey(now time.Time) string {
	return fmt.Sprintf("reports/%d/%d/%d/%v", now.Year(), now.Month(), now.Day(), uuid.New())
}

func (e *Exporter) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.config.S3RootUser,
			e.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(e.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (e *Exporter) presignedPutURL(ctx context.Context) (string, string, error) {
	presignClient, err := e.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := e.config.S3Bucket
	key := storageKey(time.Now())

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// Export marshals the summary to JSON and uploads it, returning the storage
// key the report was stored under.
func (e *Exporter) Export(ctx context.Context, summary records.Summary) (string, error) {
	if !e.Enabled() {
		return "", ErrNotConfigured
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}

	key, url, err := e.presignedPutURL(ctx)
	if err != nil {
		return "", err
	}

	if err := uploadToPresignedURL(ctx, url, data, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}
