// Package gcs stores document artifacts as Google Cloud Storage objects.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/heartmarshall/dossier-issuance/internal/artifact"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// objects is the slice of the bucket API the store relies on.
type objects interface {
	create(ctx context.Context, name, contentType string, data []byte) (int64, error)
	size(ctx context.Context, name string) (int64, error)
	open(ctx context.Context, name string) (io.ReadCloser, error)
	attrs(ctx context.Context) error
}

// Store keeps artifacts in a bucket under an optional key prefix.
type Store struct {
	objects     objects
	bucket      string
	prefix      string
	contentType string
}

// New creates a store over bucket. contentType is stamped on every object.
func New(client *storage.Client, bucket, prefix, contentType string) *Store {
	return &Store{
		objects:     bucketObjects{b: client.Bucket(bucket)},
		bucket:      bucket,
		prefix:      strings.Trim(prefix, "/"),
		contentType: contentType,
	}
}

func (s *Store) objectName(p string) (string, error) {
	if !artifact.ValidKey(p) {
		return "", domain.NewStorageError("resolve", p, fmt.Errorf("invalid artifact key"))
	}
	if s.prefix == "" {
		return p, nil
	}
	return path.Join(s.prefix, p), nil
}

// Write creates the object only if it does not exist yet.
func (s *Store) Write(ctx context.Context, p string, data []byte) (int64, error) {
	name, err := s.objectName(p)
	if err != nil {
		return 0, err
	}

	n, err := s.objects.create(ctx, name, s.contentType, data)
	if err != nil {
		if isPreconditionFailed(err) {
			return 0, fmt.Errorf("gs://%s/%s: %w", s.bucket, name, artifact.ErrArtifactExists)
		}
		return 0, domain.NewStorageError("write", "gs://"+s.bucket+"/"+name, err)
	}
	return n, nil
}

// Verify compares the object size with the recorded one.
func (s *Store) Verify(ctx context.Context, p string, size int64) (bool, error) {
	name, err := s.objectName(p)
	if err != nil {
		return false, nil
	}

	got, err := s.objects.size(ctx, name)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewStorageError("stat", "gs://"+s.bucket+"/"+name, err)
	}
	return got == size, nil
}

// Open streams the object.
func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	name, err := s.objectName(p)
	if err != nil {
		return nil, err
	}

	rc, err := s.objects.open(ctx, name)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("artifact %s: %w", p, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewStorageError("open", "gs://"+s.bucket+"/"+name, err)
	}
	return rc, nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.objects.attrs(ctx); err != nil {
		return domain.NewStorageError("ping", "gs://"+s.bucket, err)
	}
	return nil
}

// isPreconditionFailed reports whether err is the 412 GCS returns when a
// DoesNotExist condition does not hold.
func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

type bucketObjects struct {
	b *storage.BucketHandle
}

func (o bucketObjects) create(ctx context.Context, name, contentType string, data []byte) (int64, error) {
	w := o.b.Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType

	n, err := w.Write(data)
	if err != nil {
		_ = w.Close()
		return 0, err
	}
	// The precondition is only evaluated when the upload is finalised.
	if err := w.Close(); err != nil {
		return 0, err
	}
	return int64(n), nil
}

func (o bucketObjects) size(ctx context.Context, name string) (int64, error) {
	attrs, err := o.b.Object(name).Attrs(ctx)
	if err != nil {
		return 0, err
	}
	return attrs.Size, nil
}

func (o bucketObjects) open(ctx context.Context, name string) (io.ReadCloser, error) {
	return o.b.Object(name).NewReader(ctx)
}

func (o bucketObjects) attrs(ctx context.Context) error {
	_, err := o.b.Attrs(ctx)
	return err
}
