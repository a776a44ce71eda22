package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "b/one", data))
	require.NoError(t, store.Put(ctx, "a/two", []byte("xy")))

	// Put copies its input.
	data[0] = 'X'

	got, err := ReadAll(ctx, store, "b/one")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(got))

	blob, err := store.Open(ctx, "b/one")
	require.NoError(t, err)
	assert.Equal(t, int64(10), blob.Size())

	buf := make([]byte, 4)
	n, err := blob.ReadAt(ctx, buf, 8)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)

	rc, err := blob.ReadRange(ctx, 3, 100)
	require.NoError(t, err)
	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "3456789", string(rest))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/two", "b/one"}, names)

	names, err = store.List(ctx, "b/")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/one"}, names)

	require.NoError(t, store.Delete(ctx, "b/one"))
	_, err = store.Open(ctx, "b/one")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFrom(t *testing.T) {
	files := map[string][]byte{"layer.npy": []byte("abc")}
	store := NewMemoryStoreFrom(files)
	files["layer.npy"][0] = 'X'

	got, err := ReadAll(context.Background(), store, "layer.npy")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	blob, err := store.Open(context.Background(), "layer.npy")
	require.NoError(t, err)
	_, isMappable := blob.(Mappable)
	assert.False(t, isMappable)
}

func TestMemoryStore_Edges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.ErrorIs(t, store.Put(ctx, "", []byte("x")), ErrEmptyName)

	require.NoError(t, store.Put(ctx, "empty", nil))
	got, err := ReadAll(ctx, store, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Put(ctx, "data", []byte("0123")))
	blob, err := store.Open(ctx, "data")
	require.NoError(t, err)

	// An open blob is a snapshot.
	require.NoError(t, store.Put(ctx, "data", []byte("zz")))
	assert.Equal(t, int64(4), blob.Size())

	tests := []struct {
		name      string
		off, size int64
		want      string
	}{
		{"Inner", 1, 2, "12"},
		{"PastEnd", 9, 3, ""},
		{"NegativeOffset", -2, 2, "01"},
		{"Overlong", 2, 50, "23"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := blob.ReadRange(ctx, tt.off, tt.size)
			require.NoError(t, err)
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = store.Open(canceled, "data")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = blob.ReadAt(canceled, make([]byte, 1), 0)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.List(canceled, "")
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, store.Delete(ctx, "missing"))
}
