package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/folio-cms/folio/internal/config"
)

const defaultRegion = "auto"

// S3 writes objects to an S3 compatible bucket (AWS, Cloudflare R2, ...).
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3 builds the client from static credentials. A custom Endpoint switches
// to path style addressing.
func NewS3(ctx context.Context, cfg config.Storage) (*S3, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = defaultS3BaseURL(cfg, region)
	}

	return &S3{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func defaultS3BaseURL(cfg config.Storage, region string) string {
	if cfg.Endpoint != "" {
		return joinURL(cfg.Endpoint, cfg.Bucket)
	}

	if region == defaultRegion {
		return "https://" + cfg.Bucket + ".s3.amazonaws.com"
	}

	return "https://" + cfg.Bucket + ".s3." + region + ".amazonaws.com"
}

// Put implements Store. The write is conditional on the key being absent.
func (s *S3) Put(ctx context.Context, key string, r io.Reader, size int64, contentType, cacheControl string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	in := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
		IfNoneMatch:  aws.String("*"),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		if isPreconditionFailed(err) {
			return ErrObjectExists
		}

		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// PublicURL implements Store.
func (s *S3) PublicURL(key string) string {
	return joinURL(s.baseURL, key)
}

func isPreconditionFailed(err error) bool {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusPreconditionFailed {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "PreconditionFailed"
	}

	return false
}
