package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSaveしたものをLoadできる(t *testing.T) {
	store, _ := newTestStore(t)
	digest := Digest("v1", []byte("これはtestです"))

	require.NoError(t, store.Save("docs/a.md", digest, []byte(`[{"line":1}]`)))

	got, ok, err := store.Load("docs/a.md", digest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"line":1}]`, string(got))
}

func Testダイジェストが違えばミスになる(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save("a.md", Digest("v1", []byte("x")), []byte(`[]`)))

	_, ok, err := store.Load("a.md", Digest("v1", []byte("y")))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Load("a.md", Digest("v2", []byte("x")))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Load("missing.md", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveは不正なJSONを拒否する(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.Save("a.md", "d", []byte("{")))
}

func TestPruneは不要なエントリを消す(t *testing.T) {
	store, _ := newTestStore(t)
	for _, f := range []string{"a.md", "b.md", "c.txt"} {
		require.NoError(t, store.Save(f, "d", []byte(`[]`)))
	}
	removed, err := store.Prune(map[string]struct{}{"b.md": {}})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func Test再オープンしても残っている(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("a.md", "d", []byte(`{"ok":true}`)))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	got, ok, err := store.Load("a.md", "d")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(got))
}

func TestDigestは決定的(t *testing.T) {
	a := Digest("v1", []byte("abc"))
	assert.Equal(t, a, Digest("v1", []byte("abc")))
	assert.NotEqual(t, a, Digest("v1a", []byte("bc")))
	assert.Len(t, a, 64)
}
