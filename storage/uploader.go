package storage

import (
	"context"
	"io"
)

const ContentTypeJSON = "application/json"

// UploadResult describes an object once the bucket has accepted it.
type UploadResult struct {
	Key         string
	Location    string
	ETag        string
	ContentType string
}

// FileUploader writes archived brackets to object storage. Keys are stable per
// match, so archiving the same match again replaces the previous object.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	GetPublicURL(key string) string
}
