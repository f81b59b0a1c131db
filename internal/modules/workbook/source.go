package workbook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Source fetches the raw bytes of a workbook together with a file name used
// for format detection.
type Source interface {
	Fetch(ctx context.Context) (filename string, data []byte, err error)
	String() string
}

// FileSource reads a workbook from the local filesystem.
type FileSource struct {
	Path string
}

// Fetch reads the whole file.
func (s FileSource) Fetch(ctx context.Context) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return filepath.Base(s.Path), data, nil
}

func (s FileSource) String() string {
	return s.Path
}

// S3Config holds connection settings for S3-compatible object storage.
// Endpoint is optional and switches to path-style addressing (R2, MinIO).
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Source downloads a workbook object from S3-compatible storage.
type S3Source struct {
	downloader *manager.Downloader
	bucket     string
	key        string
	log        zerolog.Logger
}

// NewS3Source creates a source for s3://bucket/key using cfg. Static
// credentials are used when both keys are set, otherwise the default AWS
// credential chain applies.
func NewS3Source(ctx context.Context, bucket, key string, cfg S3Config, log zerolog.Logger) (*S3Source, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Source{
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		key:        key,
		log:        log.With().Str("component", "s3_source").Str("bucket", bucket).Logger(),
	}, nil
}

// Fetch downloads the object into memory.
func (s *S3Source) Fetch(ctx context.Context) (string, []byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to download %s: %w", s, err)
	}

	s.log.Debug().Str("key", s.key).Int64("bytes", n).Msg("Downloaded workbook")
	return filepath.Base(s.key), buf.Bytes(), nil
}

func (s *S3Source) String() string {
	return "s3://" + s.bucket + "/" + s.key
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// NewSource builds an S3Source for s3:// URIs and a FileSource otherwise.
func NewSource(ctx context.Context, uri string, cfg S3Config, log zerolog.Logger) (Source, error) {
	if strings.HasPrefix(uri, "s3://") {
		bucket, key, ok := ParseS3URI(uri)
		if !ok {
			return nil, fmt.Errorf("invalid S3 URI %q, expected s3://bucket/key", uri)
		}
		return NewS3Source(ctx, bucket, key, cfg, log)
	}
	return FileSource{Path: uri}, nil
}
