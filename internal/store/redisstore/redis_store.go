package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/talenthub/portal-backend/internal/store"
)

const (
	defaultPrefix = "portal:"
	maxTxRetries  = 3
)

// Store keeps each document as a JSON string under {prefix}doc:{collection}:{id}
// and indexes ids per collection in the set {prefix}coll:{collection}.
type Store struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client) *Store {
	return &Store{client: client, prefix: defaultPrefix}
}

// WithPrefix returns a copy of s that namespaces keys under prefix.
func (s *Store) WithPrefix(prefix string) *Store {
	return &Store{client: s.client, prefix: prefix}
}

func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	data, err := s.encode(doc)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	created := pipe.SetNX(ctx, s.docKey(collection, id), data, 0)
	pipe.SAdd(ctx, s.collKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return store.Wrap(fmt.Sprintf("create %s/%s", collection, id), err)
	}
	if !created.Val() {
		return store.ErrConflict
	}
	return nil
}

func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	data, err := s.encode(doc)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.docKey(collection, id), data, 0)
	pipe.SAdd(ctx, s.collKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return store.Wrap(fmt.Sprintf("set %s/%s", collection, id), err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string, dst any) error {
	data, err := s.client.Get(ctx, s.docKey(collection, id)).Result()
	if err == redis.Nil {
		return store.ErrNotFound
	}
	if err != nil {
		return store.Wrap(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filters []store.Filter, dst any) error {
	op := "query " + collection

	ids, err := s.client.SMembers(ctx, s.collKey(collection)).Result()
	if err != nil {
		return store.Wrap(op, err)
	}

	docs := make([]map[string]any, 0, len(ids))
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = s.docKey(collection, id)
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return store.Wrap(op, err)
		}
		for _, v := range values {
			raw, ok := v.(string)
			if !ok {
				// id left in the index after a delete raced with this read
				continue
			}
			var doc map[string]any
			if err := json.Unmarshal([]byte(raw), &doc); err != nil {
				return fmt.Errorf("failed to unmarshal %s document: %w", collection, err)
			}
			if store.Matches(doc, filters) {
				docs = append(docs, doc)
			}
		}
	}

	return store.DecodeList(docs, dst)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.update(ctx, collection, id, nil, fields)
}

func (s *Store) UpdateIf(ctx context.Context, collection, id string, cond store.Filter, fields map[string]any) error {
	return s.update(ctx, collection, id, &cond, fields)
}

// update runs read-check-write under WATCH so a concurrent writer aborts the
// transaction; the condition is re-evaluated on retry.
func (s *Store) update(ctx context.Context, collection, id string, cond *store.Filter, fields map[string]any) error {
	key := s.docKey(collection, id)
	op := fmt.Sprintf("update %s/%s", collection, id)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return fmt.Errorf("failed to unmarshal %s/%s: %w", collection, id, err)
		}
		if cond != nil && !store.Matches(doc, []store.Filter{*cond}) {
			return store.ErrConflict
		}
		if err := store.Merge(doc, fields); err != nil {
			return err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return store.Wrap(op, err)
	}
	return store.ErrConflict
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	pipe := s.client.TxPipeline()
	deleted := pipe.Del(ctx, s.docKey(collection, id))
	pipe.SRem(ctx, s.collKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return store.Wrap(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	if deleted.Val() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) encode(doc any) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

func (s *Store) docKey(collection, id string) string {
	return s.prefix + "doc:" + collection + ":" + id
}

func (s *Store) collKey(collection string) string {
	return s.prefix + "coll:" + collection
}
