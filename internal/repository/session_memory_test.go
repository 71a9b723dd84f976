package repository

import (
	"context"
	"testing"
	"time"

	"insurebot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(0)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session := &model.Session{
		ID:      "s1",
		UserID:  "default",
		Context: model.ConversationContext{model.CtxUserName: "Ada"},
	}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Context[model.CtxUserName])

	got.Context[model.CtxUserName] = "changed"
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Context[model.CtxUserName], "callers must receive independent copies")

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &model.Session{ID: "s1"}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, got.Context)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len(), "expired session is removed on read")
}

func TestMemorySessionStore_SaveSweepsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &model.Session{ID: "old-1"}))
	require.NoError(t, store.Save(ctx, &model.Session{ID: "old-2"}))
	require.Equal(t, 2, store.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, &model.Session{ID: "new"}))
	assert.Equal(t, 1, store.Len())

	_, err := store.Get(ctx, "new")
	assert.NoError(t, err)
}
