package storage

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// MaxUploadBytes caps a single deliverable file at 500MB.
const MaxUploadBytes = 500 << 20

// Options configures the S3 client. Endpoint is set for MinIO in local
// development and left empty for real AWS.
type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	DisableSSL      bool
}

type Client struct {
	s3Client *s3.S3
	bucket   string
}

func NewClient(opts Options) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(opts.Region),
		Credentials: credentials.NewStaticCredentials(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
	}

	if opts.Endpoint != "" {
		awsConfig.Endpoint = aws.String(opts.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		if opts.DisableSSL {
			awsConfig.DisableSSL = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := &Client{
		s3Client: s3.New(sess),
		bucket:   opts.Bucket,
	}

	// MinIO starts empty; create the bucket if it is missing.
	if _, err := client.s3Client.HeadBucket(&s3.HeadBucketInput{
		Bucket: aws.String(opts.Bucket),
	}); err != nil {
		client.s3Client.CreateBucket(&s3.CreateBucketInput{
			Bucket: aws.String(opts.Bucket),
		})
	}

	return client, nil
}

var allowedContentTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// AllowedContentType reports whether a deliverable upload type is accepted.
func AllowedContentType(contentType string) bool {
	_, ok := allowedContentTypes[contentType]
	return ok
}

// DeliverableKey builds the object key for an uploaded deliverable version.
// The timestamp keeps every re-upload as a distinct object.
func DeliverableKey(campaignID, deliverableID uuid.UUID, contentType string, now time.Time) string {
	ext := allowedContentTypes[contentType]
	if ext == "" {
		ext = ".bin"
	}
	return path.Join("deliverables", campaignID.String(), deliverableID.String(),
		fmt.Sprintf("%d%s", now.UnixMilli(), ext))
}

// UploadFile stores the file and returns its public URL. The reader is
// size-limited; anything over MaxUploadBytes is rejected.
func (c *Client) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	buf := bytes.NewBuffer(nil)
	n, err := io.Copy(buf, io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if n > MaxUploadBytes {
		return "", fmt.Errorf("file exceeds %d byte limit", MaxUploadBytes)
	}

	_, err = c.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return c.publicURL(key), nil
}

func (c *Client) DeleteFile(key string) error {
	_, err := c.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (c *Client) publicURL(key string) string {
	endpoint := aws.StringValue(c.s3Client.Config.Endpoint)
	if endpoint != "" && !strings.Contains(endpoint, "amazonaws.com") {
		protocol := "https"
		if c.s3Client.Config.DisableSSL != nil && *c.s3Client.Config.DisableSSL {
			protocol = "http"
		}
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, c.bucket, key)
	}

	region := aws.StringValue(c.s3Client.Config.Region)
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, region, key)
}
