package redisstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/store"
)

type record struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestStore_CreateGet(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "things", "a", record{ID: "a", UserID: "u1", Status: "Pending"}))

	var got record
	require.NoError(t, s.Get(ctx, "things", "a", &got))
	assert.Equal(t, "Pending", got.Status)

	err := s.Create(ctx, "things", "a", record{ID: "a"})
	assert.ErrorIs(t, err, store.ErrConflict)

	err = s.Get(ctx, "things", "missing", &got)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Query(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "things", "a", record{ID: "a", UserID: "u1", Status: "Pending"}))
	require.NoError(t, s.Create(ctx, "things", "b", record{ID: "b", UserID: "u1", Status: "Approved"}))
	require.NoError(t, s.Create(ctx, "things", "c", record{ID: "c", UserID: "u2", Status: "Pending"}))
	require.NoError(t, s.Create(ctx, "other", "d", record{ID: "d", UserID: "u1", Status: "Pending"}))

	var pending []record
	require.NoError(t, s.Query(ctx, "things", []store.Filter{store.Eq("status", "Pending")}, &pending))
	assert.Len(t, pending, 2)

	var mine []record
	require.NoError(t, s.Query(ctx, "things", []store.Filter{store.Eq("userId", "u1"), store.Eq("status", "Pending")}, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].ID)

	var none []record
	require.NoError(t, s.Query(ctx, "empty", nil, &none))
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStore_UpdateIf(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, "things", "a", record{ID: "a", Status: "Pending"}))

	t.Run("applies when condition holds", func(t *testing.T) {
		err := s.UpdateIf(ctx, "things", "a", store.Eq("status", "Pending"), map[string]any{"status": "Approved", "note": "ok"})
		require.NoError(t, err)

		var got record
		require.NoError(t, s.Get(ctx, "things", "a", &got))
		assert.Equal(t, "Approved", got.Status)
		assert.Equal(t, "ok", got.Note)
		assert.Equal(t, "a", got.ID)
	})

	t.Run("conflicts when condition no longer holds", func(t *testing.T) {
		err := s.UpdateIf(ctx, "things", "a", store.Eq("status", "Pending"), map[string]any{"status": "Rejected"})
		assert.ErrorIs(t, err, store.ErrConflict)

		var got record
		require.NoError(t, s.Get(ctx, "things", "a", &got))
		assert.Equal(t, "Approved", got.Status)
	})

	t.Run("not found", func(t *testing.T) {
		err := s.UpdateIf(ctx, "things", "zzz", store.Eq("status", "Pending"), map[string]any{"status": "Rejected"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_UpdateIf_OnlyOneRacerWins(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, "things", "a", record{ID: "a", Status: "Open"}))

	targets := []string{"Resolved", "In Progress", "Resolved", "In Progress"}
	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			errs[i] = s.UpdateIf(ctx, "things", "a", store.Eq("status", "Open"), map[string]any{"status": target})
		}(i, target)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, errors.Is(err, store.ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "things", "a", record{ID: "a", Status: "Pending"}))

	require.NoError(t, s.Update(ctx, "things", "a", map[string]any{"note": "hi"}))
	assert.ErrorIs(t, s.Update(ctx, "things", "nope", map[string]any{"note": "hi"}), store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "things", "a"))
	assert.ErrorIs(t, s.Delete(ctx, "things", "a"), store.ErrNotFound)

	var all []record
	require.NoError(t, s.Query(ctx, "things", nil, &all))
	assert.Empty(t, all)
}

func TestStore_PersistenceError(t *testing.T) {
	s, mr := setupStore(t)
	mr.Close()

	err := s.Create(context.Background(), "things", "a", record{ID: "a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
}
