package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

func TestDocumentStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	doc := &domain.Document{ID: "doc-1", OwnerID: "alice", Title: "notes"}
	require.NoError(t, store.Save(ctx, doc))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "notes", got.Title)

	// Stored copy is detached from the caller's struct.
	doc.Title = "changed"
	got, err = store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "notes", got.Title)
}

func TestDocumentStoreGetMissing(t *testing.T) {
	_, err := NewDocumentStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStoreListByOwner(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	require.NoError(t, store.Save(ctx, &domain.Document{ID: "b", OwnerID: "alice"}))
	require.NoError(t, store.Save(ctx, &domain.Document{ID: "a", OwnerID: "alice"}))
	require.NoError(t, store.Save(ctx, &domain.Document{ID: "c", OwnerID: "bob"}))

	docs, err := store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
}

func TestDocumentStoreSetVectorized(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	require.NoError(t, store.Save(ctx, &domain.Document{ID: "doc-1", OwnerID: "alice"}))
	require.NoError(t, store.SetVectorized(ctx, "doc-1", true))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, got.Vectorized)

	assert.ErrorIs(t, store.SetVectorized(ctx, "missing", true), domain.ErrNotFound)
}

func TestDocumentStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	require.NoError(t, store.Save(ctx, &domain.Document{ID: "doc-1", OwnerID: "alice"}))
	require.NoError(t, store.Delete(ctx, "doc-1"))

	_, err := store.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is not an error.
	require.NoError(t, store.Delete(ctx, "doc-1"))
}
