package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ImageStore uploads image payloads to the Firebase storage bucket and
// returns public object URLs. Payloads arrive as data URLs
// ("data:image/png;base64,...") straight from the frontend.
type ImageStore struct {
	bucketName string
}

func NewImageStore(bucketName string) *ImageStore {
	return &ImageStore{bucketName: bucketName}
}

func (s *ImageStore) Upload(ctx context.Context, data string) (string, error) {
	client, err := getStorageClient()
	if err != nil {
		return "", err
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return "", fmt.Errorf("default bucket: %w", err)
	}

	contentType, raw, err := decodeDataURL(data)
	if err != nil {
		return "", err
	}

	name := "images/" + uuid.NewString() + extensionFor(contentType)
	w := bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = "publicRead"
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return "", fmt.Errorf("write image object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish image upload: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, name), nil
}

func (s *ImageStore) Delete(ctx context.Context, ref string) error {
	client, err := getStorageClient()
	if err != nil {
		return err
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return fmt.Errorf("default bucket: %w", err)
	}

	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucketName)
	if !strings.HasPrefix(ref, prefix) {
		// Not one of ours (seed data, external avatar); nothing to delete.
		return nil
	}
	return bucket.Object(strings.TrimPrefix(ref, prefix)).Delete(ctx)
}

func decodeDataURL(data string) (string, []byte, error) {
	if !strings.HasPrefix(data, "data:") {
		return "", nil, fmt.Errorf("image payload is not a data URL")
	}
	meta, payload, found := strings.Cut(data[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("malformed image data URL")
	}
	contentType := strings.TrimSuffix(meta, ";base64")

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return contentType, raw, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
