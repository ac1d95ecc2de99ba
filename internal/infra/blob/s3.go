package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/saas-factory/api/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

// S3Deps bundles the client, the multipart uploader and the static-site bucket.
type S3Deps struct {
	Client        *s3.Client
	Uploader      *manager.Uploader
	Bucket        string
	PublicBaseURL string
}

// Configured reports whether uploads can succeed at all.
func Configured(cfg *config.Config) bool {
	return cfg.S3.Bucket != "" && cfg.S3.PublicBaseURL != ""
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3.Region)}
	if cfg.S3.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}
	acfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&acfg.APIOptions)

	client := s3.NewFromConfig(acfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	})
	return &S3Deps{
		Client:        client,
		Uploader:      manager.NewUploader(client),
		Bucket:        cfg.S3.Bucket,
		PublicBaseURL: strings.TrimRight(cfg.S3.PublicBaseURL, "/"),
	}, nil
}

type Object struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

func (d *S3Deps) Put(ctx context.Context, o Object) error {
	_, err := d.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(d.Bucket),
		Key:          aws.String(o.Key),
		Body:         bytes.NewReader(o.Body),
		ContentType:  aws.String(o.ContentType),
		CacheControl: aws.String(o.CacheControl),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", o.Key, err)
	}
	return nil
}

// PublicURL joins the public base with an escaped key prefix.
func (d *S3Deps) PublicURL(prefix string) string {
	parts := strings.Split(strings.Trim(prefix, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return d.PublicBaseURL + "/" + strings.Join(parts, "/") + "/"
}
