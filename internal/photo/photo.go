// Package photo reads uploaded site photos and scores their condition.
//
// This package defines a read-only Source interface with implementations for:
// - LocalSource: File system storage for development
// - R2Source: Cloudflare R2 (S3-compatible) storage for production
//
// Photos are written by the upload flow of the record manager; this service
// only ever reads them. Scorer turns one photo into a condition score in
// [0,1] for the risk engine's photo factor.
package photo

import (
	"context"
	"io"
	"time"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Source defines read access to stored site photos.
//
// Implementations:
// - LocalSource: Reads files from the local filesystem
// - R2Source: Reads objects from Cloudflare R2 object storage
//
// All methods are context-aware for timeout and cancellation support.
type Source interface {
	// Open retrieves the photo at the specified key.
	// Returns the data as an io.ReadCloser (caller must close), object metadata,
	// and an error. Returns ErrNotFound if the key doesn't exist.
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}

// =============================================================================
// Data Types
// =============================================================================

// ObjectInfo contains metadata about a stored photo.
type ObjectInfo struct {
	Key          string    // Object key/path
	Size         int64     // Size in bytes, -1 when unknown
	ContentType  string    // MIME type
	LastModified time.Time // Last modification time
	ETag         string    // Entity tag (if available)
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem photos.
type LocalConfig struct {
	// BasePath is the root directory photos are read from.
	// Example: "./storage" or "/var/lib/kyrisk/photos"
	BasePath string
}

// R2Config holds configuration for Cloudflare R2 photos.
type R2Config struct {
	// AccountID is your Cloudflare account ID.
	AccountID string

	// AccessKeyID is the R2 API access key ID.
	AccessKeyID string

	// SecretAccessKey is the R2 API secret key.
	SecretAccessKey string

	// BucketName is the name of the R2 bucket to use.
	BucketName string

	// Endpoint overrides the account endpoint. Used for tests and
	// S3-compatible stand-ins; empty means the R2 account endpoint.
	Endpoint string

	// Region is the AWS region to use (required by AWS SDK).
	// For R2, this can be any valid region string as R2 is globally distributed.
	// Default: "auto"
	Region string
}

// =============================================================================
// Provider Constants
// =============================================================================

const (
	// ProviderNone disables photo scoring.
	ProviderNone = "none"

	// ProviderLocal identifies the local filesystem photo source.
	ProviderLocal = "local"

	// ProviderR2 identifies the Cloudflare R2 photo source.
	ProviderR2 = "r2"
)

// MaxPhotoSize is the largest photo the scorer will decode (20 MiB).
const MaxPhotoSize = 20 * 1024 * 1024
