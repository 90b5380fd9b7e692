package storage

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
)

// S3 error categories for clear error messages
const (
	S3CategoryAuth    = "authentication"
	S3CategoryNetwork = "network"
	S3CategoryStorage = "storage"
)

// S3 operations for error context
const (
	S3OpUpload   = "upload"
	S3OpDownload = "download"
	S3OpConnect  = "connect"
)

// S3Error wraps S3-specific failures with categorization
type S3Error struct {
	Category string // "authentication", "network", or "storage"
	Op       string // "upload", "download", or "connect"
	Err      error  // Underlying error
}

// Error implements the error interface
func (e *S3Error) Error() string {
	return fmt.Sprintf("S3 %s error during %s: %v", e.Category, e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *S3Error) Unwrap() error {
	return e.Err
}

// Is implements the errors.Is interface to match ErrStorageUnavailable
func (e *S3Error) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// CategorizeS3Error examines an error and returns an appropriately categorized
// S3Error. It checks for MinIO error responses and network failure patterns.
func CategorizeS3Error(op string, err error) *S3Error {
	if err == nil {
		return nil
	}

	// MinIO ErrorResponse carries an S3 error code
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		switch minioErr.Code {
		case "AccessDenied":
			return &S3Error{S3CategoryAuth, op, fmt.Errorf("access denied: token lacks required permissions")}
		case "InvalidAccessKeyId":
			return &S3Error{S3CategoryAuth, op, fmt.Errorf("invalid access key: verify credentials are correct")}
		case "SignatureDoesNotMatch":
			return &S3Error{S3CategoryAuth, op, fmt.Errorf("signature mismatch: verify secret key is correct")}
		case "ExpiredToken":
			return &S3Error{S3CategoryAuth, op, fmt.Errorf("token expired: refresh credentials")}
		case "NoSuchBucket":
			return &S3Error{S3CategoryStorage, op, fmt.Errorf("bucket not found: verify bucket exists and name is correct")}
		case "NoSuchKey":
			return &S3Error{S3CategoryStorage, op, fmt.Errorf("object not found")}
		default:
			return &S3Error{S3CategoryStorage, op, fmt.Errorf("%s: %s", minioErr.Code, minioErr.Message)}
		}
	}

	// Network-level failures
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &S3Error{S3CategoryNetwork, op, fmt.Errorf("network timeout: unable to reach S3 endpoint")}
		}
		return &S3Error{S3CategoryNetwork, op, fmt.Errorf("network error: unable to reach S3 endpoint")}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &S3Error{S3CategoryNetwork, op, fmt.Errorf("network error: cannot resolve S3 endpoint hostname")}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &S3Error{S3CategoryNetwork, op, fmt.Errorf("network error: unable to reach S3 endpoint")}
	}

	// Auth errors surfaced only as strings
	errStr := err.Error()
	if strings.Contains(errStr, "AccessDenied") ||
		strings.Contains(errStr, "InvalidAccessKeyId") ||
		strings.Contains(errStr, "SignatureDoesNotMatch") {
		return &S3Error{S3CategoryAuth, op, fmt.Errorf("authentication failed: %v", err)}
	}

	return &S3Error{S3CategoryStorage, op, err}
}
