package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ArchiveStore defines the interface for the object-storage archive.
// Destructive schedule operations write a JSON snapshot of everything they
// are about to delete, so an accidental clear can be recovered by hand.
type ArchiveStore interface {
	// PutSnapshot marshals payload as JSON and stores it under objectKey.
	PutSnapshot(ctx context.Context, objectKey string, payload any) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for retrieving a snapshot directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes a snapshot from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
