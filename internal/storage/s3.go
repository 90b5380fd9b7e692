package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 timeout constants
const (
	S3UploadTimeout   = 60 * time.Second
	S3DownloadTimeout = 30 * time.Second
)

// S3Driver implements Driver on top of an S3-compatible bucket. Each package
// maps to an object prefix; files are objects directly under that prefix.
type S3Driver struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Driver creates a driver bound to the object prefix subPath under the
// parsed S3 root URI. The token should be in format ACCESS_KEY:SECRET_KEY;
// when empty, AWS environment credentials or IAM roles apply.
func NewS3Driver(uri *StorageURI, subPath, token string, logger *slog.Logger) (*S3Driver, error) {
	if !uri.IsS3Scheme() {
		return nil, fmt.Errorf("expected S3 URI, got scheme: %s", uri.Scheme)
	}

	accessKey, secretKey, err := ParseS3Token(token)
	if err != nil {
		return nil, fmt.Errorf("failed to parse S3 credentials: %w", err)
	}

	region := uri.S3Region()
	if region == "" {
		region = ExtractRegionFromEndpoint(uri.S3Endpoint())
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: uri.S3UseSSL(),
	}
	if region != "" {
		opts.Region = region
	}

	client, err := minio.New(uri.S3Endpoint(), opts)
	if err != nil {
		return nil, CategorizeS3Error(S3OpConnect, fmt.Errorf("failed to create S3 client: %w", err))
	}

	prefix := path.Join(uri.S3Prefix(), subPath)

	logger.Debug("S3 driver created",
		"endpoint", uri.S3Endpoint(),
		"bucket", uri.S3Bucket(),
		"prefix", prefix,
		"ssl", uri.S3UseSSL(),
		"region", region)

	return &S3Driver{
		client: client,
		bucket: uri.S3Bucket(),
		prefix: prefix,
		logger: logger,
	}, nil
}

// Location returns the bound object location as an s3:// style string
func (d *S3Driver) Location() string {
	return fmt.Sprintf("s3://%s/%s/%s", d.client.EndpointURL().Host, d.bucket, d.prefix)
}

func (d *S3Driver) key(name string) string {
	return path.Join(d.prefix, name)
}

// ReadFile downloads a single object from the package prefix
func (d *S3Driver) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := validateFileName(name); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, S3DownloadTimeout)
	defer cancel()

	obj, err := d.client.GetObject(ctx, d.bucket, d.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, CategorizeS3Error(S3OpDownload, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, CategorizeS3Error(S3OpDownload, err)
	}

	return data, nil
}

// WriteFile uploads a single object under the package prefix
func (d *S3Driver) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := validateFileName(name); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, S3UploadTimeout)
	defer cancel()

	start := time.Now()
	reader := bytes.NewReader(data)
	_, err := d.client.PutObject(ctx, d.bucket, d.key(name), reader, int64(len(data)),
		minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		},
	)
	if err != nil {
		d.logger.Error("S3 upload failed",
			"bucket", d.bucket,
			"key", d.key(name),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return CategorizeS3Error(S3OpUpload, err)
	}

	return nil
}

// DeleteFile removes a single object from the package prefix
func (d *S3Driver) DeleteFile(ctx context.Context, name string) error {
	if err := validateFileName(name); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, S3UploadTimeout)
	defer cancel()

	if err := d.client.RemoveObject(ctx, d.bucket, d.key(name), minio.RemoveObjectOptions{}); err != nil {
		return CategorizeS3Error(S3OpUpload, err)
	}

	return nil
}

// ListFiles lists object names directly under the package prefix
func (d *S3Driver) ListFiles(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, S3DownloadTimeout)
	defer cancel()

	names := []string{}
	prefix := d.prefix + "/"
	for obj := range d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, CategorizeS3Error(S3OpDownload, obj.Err)
		}
		names = append(names, strings.TrimPrefix(obj.Key, prefix))
	}

	return names, nil
}

// ParseS3Token parses the storage token into access key and secret key.
// Token format: ACCESS_KEY:SECRET_KEY
// Falls back to AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY env vars if token is empty.
func ParseS3Token(token string) (accessKey, secretKey string, err error) {
	if token == "" {
		// Fallback to AWS environment variables
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		if accessKey != "" && secretKey != "" {
			return accessKey, secretKey, nil
		}
		// Allow empty credentials for IAM role authentication
		if accessKey == "" && secretKey == "" {
			return "", "", nil
		}
		return "", "", fmt.Errorf("S3 credentials incomplete: set both AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY, or configure storage.token ACCESS_KEY:SECRET_KEY")
	}

	// Split on first colon only (secret key may contain colons)
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format: expected ACCESS_KEY:SECRET_KEY")
	}

	accessKey = parts[0]
	secretKey = parts[1]

	if accessKey == "" {
		return "", "", fmt.Errorf("invalid token format: access key cannot be empty")
	}
	if secretKey == "" {
		return "", "", fmt.Errorf("invalid token format: secret key cannot be empty")
	}

	return accessKey, secretKey, nil
}

// ExtractRegionFromEndpoint extracts AWS region from endpoint URL.
// Supports patterns: s3.REGION.amazonaws.com and s3-REGION.amazonaws.com
func ExtractRegionFromEndpoint(endpoint string) string {
	re := regexp.MustCompile(`s3[.-]([a-z]{2}-[a-z]+-\d+)\.amazonaws\.com`)
	if matches := re.FindStringSubmatch(endpoint); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
