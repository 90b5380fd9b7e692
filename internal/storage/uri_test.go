package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorageURI_File(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantPath string
	}{
		{"plain path auto-prefixed", "/data/storage", "/data/storage"},
		{"relative path auto-prefixed", "./storage", "./storage"},
		{"explicit file scheme", "file:///data/storage", "/data/storage"},
		{"relative with dot host", "file://./storage", "./storage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := ParseStorageURI(tt.uri)
			require.NoError(t, err)
			assert.True(t, uri.IsFileScheme())
			assert.Equal(t, tt.wantPath, uri.Path)
			assert.Equal(t, tt.uri, uri.String())
		})
	}
}

func TestParseStorageURI_S3(t *testing.T) {
	uri, err := ParseStorageURI("s3://s3.eu-west-1.amazonaws.com/my-bucket/registry/packages?region=eu-west-1")
	require.NoError(t, err)

	assert.True(t, uri.IsS3Scheme())
	assert.Equal(t, "s3.eu-west-1.amazonaws.com", uri.S3Endpoint())
	assert.Equal(t, "my-bucket", uri.S3Bucket())
	assert.Equal(t, "registry/packages", uri.S3Prefix())
	assert.Equal(t, "eu-west-1", uri.S3Region())
	assert.True(t, uri.S3UseSSL())
}

func TestParseStorageURI_S3BucketOnly(t *testing.T) {
	uri, err := ParseStorageURI("s3://minio.local:9000/my-bucket")
	require.NoError(t, err)

	assert.Equal(t, "my-bucket", uri.S3Bucket())
	assert.Equal(t, "", uri.S3Prefix())
}

func TestParseStorageURI_S3PlainHTTP(t *testing.T) {
	uri, err := ParseStorageURI("s3+http://minio.local:9000/my-bucket")
	require.NoError(t, err)

	assert.True(t, uri.IsS3Scheme())
	assert.False(t, uri.S3UseSSL())
}

func TestParseStorageURI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		errMsg string
	}{
		{"empty URI", "", "cannot be empty"},
		{"unsupported scheme", "oci://registry.example.com/repo", "unsupported storage scheme"},
		{"s3 without bucket", "s3://endpoint.example.com", "must include bucket"},
		{"s3 without host", "s3:///bucket", "must include endpoint host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStorageURI(tt.uri)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNormalizeStorageURI(t *testing.T) {
	assert.Equal(t, "file:///data", NormalizeStorageURI("/data"))
	assert.Equal(t, "s3://host/bucket", NormalizeStorageURI("s3://host/bucket"))
	assert.Equal(t, "", NormalizeStorageURI(""))
}
