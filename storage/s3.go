package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	mediacfg "mediaengine/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// objectAPI is the part of the S3 client used here
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3 stores assembly artifacts in a single bucket under an optional key prefix.
type S3 struct {
	client objectAPI
	bucket string
	prefix string
}

// NewS3 creates a client from the default AWS configuration chain,
// with optional overrides from cfg.
func NewS3(ctx context.Context, cfg mediacfg.S3Config) (*S3, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 bucket is not configured")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3{client: c, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Bucket returns the target bucket name
func (s *S3) Bucket() string { return s.bucket }

// Put uploads body to key. contentType is set when non-empty.
func (s *S3) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// PutFile uploads the file at localPath to key
func (s *S3) PutFile(ctx context.Context, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	return s.Put(ctx, key, f, ContentType(localPath))
}

// UploadArtifact stores a job artifact under <prefix>/<jobID>/<file name>,
// checks that the object is readable back, and returns the key.
func (s *S3) UploadArtifact(ctx context.Context, jobID, localPath string) (string, error) {
	key := ObjectKey(s.prefix, jobID, filepath.Base(localPath))
	log.Printf("📤 Uploading %s to s3://%s/%s", localPath, s.bucket, key)
	if err := s.PutFile(ctx, key, localPath); err != nil {
		return "", err
	}

	ok, err := s.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to verify s3://%s/%s: %w", s.bucket, key, err)
	}
	if !ok {
		return "", fmt.Errorf("uploaded object s3://%s/%s is not visible", s.bucket, key)
	}
	return key, nil
}

// Exists reports whether key is present; 404/NotFound means false.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func isNotFound(err error) bool {
	var respErr *http.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return true
	}
	return false
}

// ObjectKey joins prefix, job id and file name into an object key
func ObjectKey(prefix, id, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(id, name)
	}
	return path.Join(prefix, id, name)
}

// ContentType guesses the object content type from the file extension
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4":
		return "video/mp4"
	case ".srt":
		return "application/x-subrip"
	case ".json":
		return "application/json"
	case ".mp3":
		return "audio/mpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
