package storage

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// SupportedSchemes lists all currently supported storage root URI schemes
var SupportedSchemes = []string{"file", "s3", "s3+http"}

// StorageURI represents a parsed storage root URI
type StorageURI struct {
	Scheme string     // Storage backend type (e.g., "file", "s3")
	Host   string     // Endpoint host for network backends (empty for file://)
	Path   string     // Path to the storage root
	Query  url.Values // Query parameters (e.g., region for S3)
	Raw    string     // Original URI string for logging/debugging
}

// NormalizeStorageURI ensures the URI has a scheme, prepending "file://" if missing
func NormalizeStorageURI(uri string) string {
	if uri == "" {
		return uri
	}
	if !strings.Contains(uri, "://") {
		return "file://" + uri
	}
	return uri
}

// ParseStorageURI parses a storage root URI string into its components
func ParseStorageURI(uri string) (*StorageURI, error) {
	if uri == "" {
		return nil, fmt.Errorf("storage URI cannot be empty")
	}

	// Normalize URI (add file:// if no scheme)
	normalized := NormalizeStorageURI(uri)

	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid URI format: %w", err)
	}

	if err := validateScheme(parsed.Scheme); err != nil {
		return nil, err
	}

	if parsed.Scheme == "s3" || parsed.Scheme == "s3+http" {
		if parsed.Host == "" {
			return nil, fmt.Errorf("S3 URI must include endpoint host: s3://<endpoint>/<bucket>[/prefix]")
		}
		p := strings.TrimPrefix(parsed.Path, "/")
		if p == "" {
			return nil, fmt.Errorf("S3 URI must include bucket: s3://<endpoint>/<bucket>[/prefix]")
		}
		return &StorageURI{
			Scheme: parsed.Scheme,
			Host:   parsed.Host,
			Path:   p,
			Query:  parsed.Query(),
			Raw:    uri,
		}, nil
	}

	// file:// URIs - relative paths may land in Opaque or carry a "." host
	p := parsed.Path
	if p == "" && parsed.Opaque != "" {
		p = parsed.Opaque
	}
	if parsed.Host == "." && strings.HasPrefix(p, "/") {
		p = "./" + strings.TrimPrefix(p, "/")
	}
	if p == "" {
		return nil, fmt.Errorf("storage URI must have a path")
	}

	return &StorageURI{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   p,
		Query:  parsed.Query(),
		Raw:    uri,
	}, nil
}

// validateScheme checks if the scheme is supported
func validateScheme(scheme string) error {
	if scheme == "" {
		return fmt.Errorf("URI must have a scheme (e.g., file://)")
	}
	for _, s := range SupportedSchemes {
		if scheme == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported storage scheme %q; supported schemes: %s",
		scheme, strings.Join(SupportedSchemes, ", "))
}

// IsFileScheme returns true if this is a file:// URI
func (u *StorageURI) IsFileScheme() bool {
	return u.Scheme == "file"
}

// IsS3Scheme returns true if this is an s3:// or s3+http:// URI
func (u *StorageURI) IsS3Scheme() bool {
	return u.Scheme == "s3" || u.Scheme == "s3+http"
}

// S3Endpoint returns the S3 endpoint host
func (u *StorageURI) S3Endpoint() string {
	return u.Host
}

// S3Bucket returns the bucket name (first path segment)
func (u *StorageURI) S3Bucket() string {
	bucket, _, _ := strings.Cut(u.Path, "/")
	return bucket
}

// S3Prefix returns the object key prefix under the bucket (may be empty)
func (u *StorageURI) S3Prefix() string {
	_, prefix, found := strings.Cut(u.Path, "/")
	if !found {
		return ""
	}
	return strings.Trim(path.Clean("/"+prefix), "/")
}

// S3UseSSL returns true unless the s3+http scheme explicitly disables TLS
func (u *StorageURI) S3UseSSL() bool {
	return u.Scheme != "s3+http"
}

// S3Region returns the region query parameter, if any
func (u *StorageURI) S3Region() string {
	return u.Query.Get("region")
}

// String returns the original URI string
func (u *StorageURI) String() string {
	return u.Raw
}
