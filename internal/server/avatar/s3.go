package avatar

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/google/uuid"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// loadAWSConfig is a seam for testing awsconfig.LoadDefaultConfig.
var loadAWSConfig = awsconfig.LoadDefaultConfig

// S3Store uploads avatar images and returns their public URL.
type S3Store struct {
	client    putObjectAPI
	bucket    string
	publicURL string
}

// NewS3Store builds an S3 client from the server configuration. Path-style
// addressing keeps it compatible with MinIO.
func NewS3Store(ctx context.Context, c *config.Config) (*S3Store, error) {
	cfg, err := loadAWSConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newS3Store(client, c.S3Bucket, c.S3PublicURL), nil
}

func newS3Store(client putObjectAPI, bucket, publicURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// StorageKey returns a fresh object key for an avatar of userID.
func StorageKey(userID int64) string {
	return fmt.Sprintf("avatars/%d/%v", userID, uuid.New())
}

// Upload stores image under a new key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, userID int64, contentType string, image []byte) (string, error) {
	key := StorageKey(userID)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(image),
		ContentLength: aws.Int64(int64(len(image))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	return s.publicURL + "/" + key, nil
}
