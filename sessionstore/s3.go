// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when neither the configuration nor the AWS
// environment names a region.
const DefaultRegion = "us-east-1"

// S3API is the subset of the S3 client used by S3.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ClientConfig configures NewS3Client.
type S3ClientConfig struct {
	// Region defaults to the AWS SDK's resolution, then DefaultRegion.
	Region string

	// Endpoint is an optional base URL for an S3-compatible service.
	// Setting it enables path-style addressing.
	Endpoint string

	// AccessKeyID and SecretAccessKey select static credentials. When
	// empty, the SDK's default credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client from config.
func NewS3Client(ctx context.Context, config S3ClientConfig) (*s3.Client, error) {
	var options []func(*awsconfig.LoadOptions) error
	if config.Region != "" {
		options = append(options, awsconfig.WithRegion(config.Region))
	}
	if config.AccessKeyID != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, "")))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	if awsConfig.Region == "" {
		awsConfig.Region = DefaultRegion
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3 is a Store backed by objects under a key prefix in a bucket.
// Keys below nested "directories" under the prefix are not listed.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 returns an S3 store. An empty prefix lists the whole bucket.
func NewS3(client S3API, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// List returns every capture under the prefix, newest first.
func (s *S3) List(ctx context.Context) ([]SessionInfo, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var sessions []SessionInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, object := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(object.Key), s.prefix)
			if ValidateName(name) != nil {
				continue
			}
			sessions = append(sessions, SessionInfo{
				Name:     name,
				Size:     aws.ToInt64(object.Size),
				Modified: aws.ToTime(object.LastModified),
			})
		}
	}
	if sessions == nil {
		sessions = []SessionInfo{}
	}
	sortSessions(sessions)
	return sessions, nil
}

// Get downloads and decompresses the named capture. If no object has
// exactly that name, the name with each compression suffix is tried.
func (s *S3) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	candidates := []string{name}
	if CompressionOf(name) == CompressionNone {
		for _, c := range compressions {
			candidates = append(candidates, name+c.Suffix())
		}
	}

	for _, candidate := range candidates {
		data, err := s.fetch(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		decoded, err := Decompress(CompressionOf(candidate), data)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", candidate, err)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (s *S3) fetch(ctx context.Context, name string) ([]byte, error) {
	key := s.prefix + name
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", s.bucket, key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(io.LimitReader(output.Body, MaxCaptureSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, key, err)
	}
	if len(data) > MaxCaptureSize {
		return nil, fmt.Errorf("s3://%s/%s exceeds %d bytes", s.bucket, key, MaxCaptureSize)
	}
	return data, nil
}

// isNoSuchKey matches the typed NoSuchKey error and the bare codes
// some S3-compatible services return instead.
func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
