package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vkushnir/contactbook/internal/common"
	sc "github.com/vkushnir/contactbook/internal/server/config"
)

// MediaStore stores an uploaded blob and returns a durable public URL.
// Keeping the contract this narrow means nothing outside this file depends
// on a concrete object-storage SDK.
type MediaStore interface {
	Store(ctx context.Context, contentType string, body io.Reader) (string, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3MediaStore keeps contact photos in an S3-compatible bucket (minio in
// development).
type S3MediaStore struct {
	config *sc.Config
}

// NewS3MediaStore constructs a media store from the server config.
func NewS3MediaStore(config *sc.Config) *S3MediaStore {
	return &S3MediaStore{config: config}
}

// GetRandomStorageKey returns a collision-free object key partitioned by date.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("contacts/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3MediaStore) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Store uploads body under a fresh key and returns the public object URL.
func (s *S3MediaStore) Store(ctx context.Context, contentType string, body io.Reader) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", common.ErrorUpstream
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", common.ErrorUpstream
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.config.S3BaseEndpoint, "/"), bucket, key), nil
}
