// Package blobstore fetches opaque artifacts (the trained classifier) from
// either the local filesystem or an S3-compatible bucket.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Fetcher resolves an artifact location to its raw bytes.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Store fetches artifacts from local paths or s3:// URLs.
type Store struct {
	region   string
	endpoint string // optional, for MinIO-style endpoints
	client   *s3.Client
}

// Option configures a Store.
type Option func(*Store)

// WithEndpoint points the S3 client at a custom endpoint (e.g. MinIO).
func WithEndpoint(endpoint string) Option {
	return func(s *Store) { s.endpoint = endpoint }
}

// New creates a Store. The S3 client is constructed lazily on the first
// s3:// fetch so that local-only deployments need no AWS configuration.
func New(region string, opts ...Option) *Store {
	st := &Store{region: region}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Fetch reads the artifact at location. Locations beginning with s3:// are
// fetched from the bucket; anything else is treated as a filesystem path.
func (s *Store) Fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "s3://") {
		return s.fetchS3(ctx, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", location, err)
	}
	return data, nil
}

func (s *Store) fetchS3(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse artifact url %s: %w", location, err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("artifact url %s must be s3://bucket/key", location)
	}

	if s.client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(s.region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if s.endpoint != "" {
				o.BaseEndpoint = aws.String(s.endpoint)
				o.UsePathStyle = true
			}
		})
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s: %w", location, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object %s: %w", location, err)
	}
	return data, nil
}
