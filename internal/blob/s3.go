// Package blob stores profile images in S3.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/questionconnection/backend/internal/breaker"
)

// urlHostSuffix separates the bucket host from the object key in public URLs.
const urlHostSuffix = ".amazonaws.com/"

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store puts and deletes objects in a single bucket.
type Store struct {
	client  S3API
	bucket  string
	region  string
	breaker breaker.Breaker
}

// New creates a Store. A nil breaker disables circuit breaking.
func New(client S3API, bucket, region string, br breaker.Breaker) *Store {
	if br == nil {
		br = breaker.Noop()
	}
	return &Store{
		client:  client,
		bucket:  bucket,
		region:  region,
		breaker: br,
	}
}

// NewFromConfig builds a Store from the default AWS credential chain.
func NewFromConfig(ctx context.Context, bucket, region string, br breaker.Breaker) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket, region, br), nil
}

// Put uploads data under key.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	err := s.breaker.Execute(func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// Delete removes the object under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.breaker.Execute(func() error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// URL returns the public virtual-hosted URL of key.
func (s *Store) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// KeyFromURL recovers the object key from a URL built by URL.
// It returns "" when url does not contain exactly one ".amazonaws.com/" marker.
func KeyFromURL(url string) string {
	parts := strings.Split(url, urlHostSuffix)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// ProfileImageKey is the object key of a user's profile image.
func ProfileImageKey(userID string) string {
	return "profile-images/" + userID + "/profile.jpg"
}
