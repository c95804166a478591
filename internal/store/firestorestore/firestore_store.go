package firestorestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/talenthub/portal-backend/internal/store"
)

// Store maps collections one-to-one onto Firestore collections. Conditional
// updates run inside a Firestore transaction.
type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	data, err := store.ToMap(doc)
	if err != nil {
		return err
	}
	_, err = s.client.Collection(collection).Doc(id).Create(ctx, data)
	return translate(fmt.Sprintf("create %s/%s", collection, id), err)
}

func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	data, err := store.ToMap(doc)
	if err != nil {
		return err
	}
	_, err = s.client.Collection(collection).Doc(id).Set(ctx, data)
	return translate(fmt.Sprintf("set %s/%s", collection, id), err)
}

func (s *Store) Get(ctx context.Context, collection, id string, dst any) error {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return translate(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	return store.Decode(snap.Data(), dst)
}

func (s *Store) Query(ctx context.Context, collection string, filters []store.Filter, dst any) error {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return translate("query "+collection, err)
	}

	docs := make([]map[string]any, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, snap.Data())
	}
	return store.DecodeList(docs, dst)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	ups, err := updates(fields)
	if err != nil {
		return err
	}
	_, err = s.client.Collection(collection).Doc(id).Update(ctx, ups)
	return translate(fmt.Sprintf("update %s/%s", collection, id), err)
}

func (s *Store) UpdateIf(ctx context.Context, collection, id string, cond store.Filter, fields map[string]any) error {
	ups, err := updates(fields)
	if err != nil {
		return err
	}
	ref := s.client.Collection(collection).Doc(id)

	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := store.ToMap(snap.Data())
		if err != nil {
			return err
		}
		if !store.Matches(current, []store.Filter{cond}) {
			return store.ErrConflict
		}
		return tx.Update(ref, ups)
	})
	return translate(fmt.Sprintf("update %s/%s", collection, id), err)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	return translate(fmt.Sprintf("delete %s/%s", collection, id), err)
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.Collection(store.Users).Limit(1).Documents(ctx).GetAll()
	return err
}

// updates goes through the same JSON normalization as Create and Set, so
// nested structs land under their json tags rather than Go field names.
func updates(fields map[string]any) ([]firestore.Update, error) {
	data, err := store.ToMap(fields)
	if err != nil {
		return nil, err
	}
	out := make([]firestore.Update, 0, len(data))
	for k, v := range data {
		out = append(out, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	return out, nil
}

func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return store.ErrNotFound
	case codes.AlreadyExists:
		return store.ErrConflict
	case codes.Aborted:
		return store.ErrConflict
	}
	return store.Wrap(op, err)
}
