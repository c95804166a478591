// Package storetest provides a miniredis-backed store for tests.
package storetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/talenthub/portal-backend/internal/store/redisstore"
)

// New returns a fresh store backed by an in-process Redis that is torn down
// with t.
func New(t testing.TB) *redisstore.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisstore.New(client)
}
