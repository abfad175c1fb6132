// Package gcsstore keeps snapshots in Google Cloud Storage.
package gcsstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/asset"
)

// Store keeps snapshots as objects in a Cloud Storage bucket.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// New connects with base64 encoded service account credentials.
// Empty credentials fall back to application default credentials.
func New(ctx context.Context, bucket, encodedCredentials string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket not set")
	}

	var opts []option.ClientOption
	if encodedCredentials != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCredentials)
		if err != nil {
			return nil, fmt.Errorf("failed to decode service account json: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &Store{client: client, bucket: bucket, prefix: "snapshots/"}, nil
}

func (s *Store) object(id string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + id + ".png")
}

func (s *Store) Put(ctx context.Context, id string, png []byte) error {
	w := s.object(id).NewWriter(ctx)
	w.ContentType = "image/png"
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := w.Write(png); err != nil {
		w.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object writer: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	r, err := s.object(id).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, asset.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ asset.Store = (*Store)(nil)
