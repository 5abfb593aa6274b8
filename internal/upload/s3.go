package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures the object storage backend.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	Prefix        string
	PublicBaseURL string
}

// S3 stores files in an S3 (or compatible) bucket.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	baseURL  string
	Now      func() time.Time
}

// NewS3 loads the default AWS configuration and builds an S3 store.
// A custom endpoint switches to path-style addressing for S3-compatible
// servers.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3WithClient(client, cfg), nil
}

// NewS3WithClient builds an S3 store around an existing client.
func NewS3WithClient(client *s3.Client, cfg S3Config) *S3 {
	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		baseURL:  baseURL,
		Now:      time.Now,
	}
}

// key builds the object key for a file.
func (s *S3) key(f File) string {
	stem, ext := baseName(f, s.Now())
	if s.prefix == "" {
		return stem + ext
	}
	return s.prefix + "/" + stem + ext
}

// keyFromRef recovers the object key from a public reference.
func (s *S3) keyFromRef(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Save uploads the file and returns "<public base url>/<key>". Object keys
// are not checked for collisions.
func (s *S3) Save(ctx context.Context, f File) (string, error) {
	key := s.key(f)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(f.Data),
		ContentType: aws.String(f.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind ref.
func (s *S3) Delete(ctx context.Context, ref string) error {
	key, ok := s.keyFromRef(ref)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
