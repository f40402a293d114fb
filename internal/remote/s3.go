package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/adubois/patrontheque/internal/logging"
)

// S3Config holds settings for an S3-compatible backend. Endpoint is optional
// and covers MinIO, Cloudflare R2, DigitalOcean Spaces and friends.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// S3Store implements ObjectStore on an S3-compatible bucket. A "folder" is a
// key prefix; object identifiers are full keys, so Download needs no folder
// context.
type S3Store struct {
	client *s3.Client
	bucket string
	log    logging.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config, log logging.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket, log: log}, nil
}

// FindFolder reports whether any object exists under the name/ prefix.
func (s *S3Store) FindFolder(ctx context.Context, name string) (string, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(name + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to find folder: %w", err)
	}
	if len(out.Contents) == 0 {
		return "", nil
	}
	return name, nil
}

// CreateFolder writes the zero-byte marker object name/.
func (s *S3Store) CreateFolder(ctx context.Context, name string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name + "/"),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return name, nil
}

func (s *S3Store) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (string, error) {
	key := folderID + "/" + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return key, nil
}

// List returns the folder's objects in one listing call; truncated results
// are not chased.
func (s *S3Store) List(ctx context.Context, folderID, nameContains string) ([]Object, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(folderID + "/"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	objects := make([]Object, 0, len(out.Contents))
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		base := path.Base(key)
		if base == "" || strings.HasSuffix(key, "/") {
			continue
		}
		if nameContains != "" && !strings.Contains(base, nameContains) {
			continue
		}
		objects = append(objects, Object{ID: key, Name: base})
	}
	return objects, nil
}

func (s *S3Store) Download(ctx context.Context, objectID string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", objectID, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}
