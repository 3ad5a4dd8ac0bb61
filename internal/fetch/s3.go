// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ik5/audshout/internal/config"
)

// ErrInvalidS3URL is returned for s3 locations without an object key.
var ErrInvalidS3URL = errors.New("fetch: invalid s3 url")

// S3API is the part of the S3 client the fetcher uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client creates an S3 client with static credentials. A custom
// endpoint switches to path-style addressing for S3 compatible stores.
func NewS3Client(cfg config.S3Config) *s3.Client {
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	options := []func(*s3.Options){
		func(o *s3.Options) {
			o.Credentials = creds
			o.Region = region
		},
	}

	if cfg.Endpoint != "" {
		options = append(options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return s3.New(s3.Options{}, options...)
}

// S3Fetcher reads objects addressed as s3://bucket/key.
type S3Fetcher struct {
	client        S3API
	defaultBucket string
	maxBytes      int64
}

// NewS3Fetcher wraps client. defaultBucket serves locations of the form
// s3:///key; maxBytes <= 0 disables the size limit.
func NewS3Fetcher(client S3API, defaultBucket string, maxBytes int64) *S3Fetcher {
	return &S3Fetcher{client: client, defaultBucket: defaultBucket, maxBytes: maxBytes}
}

func (f *S3Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyURL
	}

	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = f.defaultBucket
	}
	if bucket == "" {
		return nil, fmt.Errorf("%w: no bucket in %q and no default bucket", ErrInvalidS3URL, location)
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", ErrFetch, bucket, key, err)
	}
	defer out.Body.Close()

	if f.maxBytes > 0 && aws.ToInt64(out.ContentLength) > f.maxBytes {
		return nil, fmt.Errorf("%w: object size %d", ErrTooLarge, aws.ToInt64(out.ContentLength))
	}

	return readLimited(out.Body, f.maxBytes)
}

// ParseS3URL splits s3://bucket/path/to/key. The bucket may be empty.
func ParseS3URL(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidS3URL, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return "", "", fmt.Errorf("%w: scheme %q", ErrInvalidS3URL, u.Scheme)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: missing object key", ErrInvalidS3URL)
	}

	return u.Host, key, nil
}
