// Package local stores document artifacts on a local or mounted filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/heartmarshall/dossier-issuance/internal/artifact"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// Store keeps artifacts under a root directory. Writes go to a temporary file
// that is hard-linked into place, so a reader never sees a partial artifact
// and an existing path is never replaced.
type Store struct {
	root string
	log  *slog.Logger
}

// New creates a store rooted at root, creating the directory if needed.
func New(root string, logger *slog.Logger) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, domain.NewStorageError("init", abs, err)
	}
	return &Store{root: abs, log: logger.With("adapter", "storage_local")}, nil
}

func (s *Store) resolve(p string) (string, error) {
	if !artifact.ValidKey(p) {
		return "", domain.NewStorageError("resolve", p, fmt.Errorf("invalid artifact key"))
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}

// Write stores data at p. It returns artifact.ErrArtifactExists when p is taken.
func (s *Store) Write(ctx context.Context, p string, data []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	full, err := s.resolve(p)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return 0, domain.NewStorageError("mkdir", p, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return 0, domain.NewStorageError("create", p, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			s.log.WarnContext(ctx, "remove temp artifact", slog.String("path", tmpName), slog.String("error", rmErr.Error()))
		}
	}()

	n, err := tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, domain.NewStorageError("write", p, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return 0, domain.NewStorageError("chmod", p, err)
	}

	// link(2) fails with EEXIST instead of replacing the target.
	if err := os.Link(tmpName, full); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("%s: %w", p, artifact.ErrArtifactExists)
		}
		return 0, domain.NewStorageError("link", p, err)
	}

	return int64(n), nil
}

// Verify reports whether p exists as a regular file of exactly size bytes.
func (s *Store) Verify(ctx context.Context, p string, size int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	full, err := s.resolve(p)
	if err != nil {
		// A record pointing outside the store cannot be served; regenerate it.
		return false, nil
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewStorageError("stat", p, err)
	}
	return info.Mode().IsRegular() && info.Size() == size, nil
}

// Open returns a reader over the artifact at p.
func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("artifact %s: %w", p, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewStorageError("open", p, err)
	}
	return f, nil
}

// Ping checks that the root is still a writable directory.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.root)
	if err != nil {
		return domain.NewStorageError("ping", s.root, err)
	}
	if !info.IsDir() {
		return domain.NewStorageError("ping", s.root, fmt.Errorf("not a directory"))
	}
	f, err := os.CreateTemp(s.root, ".ping-*")
	if err != nil {
		return domain.NewStorageError("ping", s.root, err)
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return domain.NewStorageError("ping", s.root, err)
	}
	return nil
}
