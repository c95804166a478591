// Package store defines the document-store collaborator: flat collections of
// JSON documents keyed by id, queried by field equality.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// Collection names.
const (
	Users                = "users"
	LeaveRequests        = "leave_requests"
	ITTickets            = "it_tickets"
	ProfileUpdates       = "profile_updates"
	Announcements        = "announcements"
	Scorecards           = "scorecards"
	VerifiedCertificates = "verified_certificates"
	Feedback             = "feedback"
	CandidateMetrics     = "candidate_metrics"
	Cohorts              = "cohorts"
)

// Filter matches documents whose top-level Field equals Value.
type Filter struct {
	Field string
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Store is implemented by redisstore, pgstore and firestorestore.
//
// Documents are any JSON-marshalable value. dst arguments are pointers: to a
// struct for Get, to a slice for Query.
type Store interface {
	// Create fails with ErrConflict if the id is already taken.
	Create(ctx context.Context, collection, id string, doc any) error
	// Set writes the whole document, creating it if needed.
	Set(ctx context.Context, collection, id string, doc any) error
	Get(ctx context.Context, collection, id string, dst any) error
	Query(ctx context.Context, collection string, filters []Filter, dst any) error
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// UpdateIf merges fields only while cond still holds on the stored
	// document, returning ErrConflict otherwise.
	UpdateIf(ctx context.Context, collection, id string, cond Filter, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}

// ToMap converts a document into its JSON object form.
func ToMap(doc any) (map[string]any, error) {
	if m, ok := doc.(map[string]any); ok {
		return normalizeMap(m)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("document is not a JSON object: %w", err)
	}
	return out, nil
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode copies a JSON-object document into dst.
func Decode(doc map[string]any, dst any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// DecodeList fills the slice pointed to by dst from docs.
func DecodeList(docs []map[string]any, dst any) error {
	if docs == nil {
		docs = []map[string]any{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// Matches reports whether doc satisfies every filter. Values are compared in
// their JSON form, so 3 and 3.0 are equal.
func Matches(doc map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(doc[f.Field], jsonValue(f.Value)) {
			return false
		}
	}
	return true
}

// Merge applies fields on top of doc in place.
func Merge(doc map[string]any, fields map[string]any) error {
	norm, err := normalizeMap(fields)
	if err != nil {
		return err
	}
	for k, v := range norm {
		doc[k] = v
	}
	return nil
}

func jsonValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
