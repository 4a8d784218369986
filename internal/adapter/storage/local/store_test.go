package local_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dossier-issuance/internal/adapter/storage/local"
	"github.com/heartmarshall/dossier-issuance/internal/artifact"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

func newStore(t *testing.T) (*local.Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := local.New(root, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s, root
}

const key = "RECEIPT/north/2025/03/20250307_140509_RECEIPT_jose.docx"

func TestStore_WriteVerifyOpen(t *testing.T) {
	t.Parallel()
	s, root := newStore(t)
	ctx := context.Background()

	n, err := s.Write(ctx, key, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)

	ok, err := s.Verify(ctx, key, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	// No temporary files are left behind.
	entries, err := os.ReadDir(filepath.Dir(filepath.Join(root, filepath.FromSlash(key))))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_Write_NeverOverwrites(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.Write(ctx, key, []byte("first"))
	require.NoError(t, err)

	_, err = s.Write(ctx, key, []byte("second!"))
	assert.ErrorIs(t, err, artifact.ErrArtifactExists)

	ok, err := s.Verify(ctx, key, 5)
	require.NoError(t, err)
	assert.True(t, ok, "original artifact must be intact")
}

func TestStore_Verify_MissingOrTruncated(t *testing.T) {
	t.Parallel()
	s, root := newStore(t)
	ctx := context.Background()

	ok, err := s.Verify(ctx, key, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Write(ctx, key, []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, os.Truncate(filepath.Join(root, filepath.FromSlash(key)), 2))

	ok, err = s.Verify(ctx, key, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Verify(ctx, "../escape", 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Open_Missing(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)

	_, err := s.Open(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Write_InvalidKey(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)

	_, err := s.Write(context.Background(), "../../etc/passwd", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()
	s, root := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, os.RemoveAll(root))
	assert.ErrorIs(t, s.Ping(ctx), domain.ErrStorage)
}
