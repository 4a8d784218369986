// Package artifact defines durable document files: where they live and the
// store contract every backend implements.
package artifact

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// ErrArtifactExists is returned by Store.Write when the path is already taken.
// Stores never overwrite.
var ErrArtifactExists = errors.New("artifact already exists")

// Store persists rendered documents. Paths are slash-separated keys relative
// to the store root, as produced by BuildPath.
type Store interface {
	// Write stores data at p and returns the number of bytes written.
	Write(ctx context.Context, p string, data []byte) (int64, error)
	// Verify reports whether p exists with exactly size bytes. A missing or
	// truncated artifact is (false, nil); only backend failures are errors.
	Verify(ctx context.Context, p string, size int64) (bool, error)
	// Open returns a reader over the artifact at p.
	Open(ctx context.Context, p string) (io.ReadCloser, error)
}

// BuildPath returns
// {KIND}/{district}/{yyyy}/{mm}/{yyyymmdd_HHMMSS}_{KIND}_{discriminator}.{ext}.
// District and discriminator are slugified. ts is used as given, so callers
// convert it to the issuance timezone first.
func BuildPath(kind domain.DocumentKind, districtSlug string, ts time.Time, discriminator, ext string) string {
	k := string(kind)
	name := ts.Format("20060102_150405") + "_" + k + "_" + domain.Slugify(discriminator)
	if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
		name += "." + ext
	}
	return path.Join(k, domain.Slugify(districtSlug), ts.Format("2006"), ts.Format("01"), name)
}

// FileName is the last element of an artifact path.
func FileName(p string) string {
	return path.Base(p)
}

// ValidKey reports whether p is a relative key that stays inside the store.
func ValidKey(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
