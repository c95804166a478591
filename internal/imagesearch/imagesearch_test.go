package imagesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/metrics"
)

func TestSearch_NoKeyUsesFallback(t *testing.T) {
	s := New("", nil, nil)
	got := s.Search(context.Background(), "team")
	assert.Equal(t, Fallback, got)
	assert.Len(t, got, 6)
	assert.Equal(t, "https://images.unsplash.com/photo-1517048676732-d65bc937f952?w=500&q=80", got[0].URLs.Small)
}

func TestSearch_CachesUpstreamResults(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("client_id"))
		assert.Equal(t, "8", r.URL.Query().Get("per_page"))
		assert.Equal(t, "hackathon", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"results":[{"id":"abc","urls":{"small":"s","regular":"r"},"alt_description":"people","user":{"name":"Sam"}}]}`))
	}))
	defer srv.Close()

	m := metrics.NewNop()
	s := New("key", m, nil).WithBaseURL(srv.URL)

	first := s.Search(context.Background(), "Hackathon")
	require.Len(t, first, 1)
	assert.Equal(t, "abc", first[0].ID)
	assert.Equal(t, "Sam", first[0].User.Name)

	second := s.Search(context.Background(), "hackathon ")
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageSearchHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageSearchMisses))
}

func TestSearch_UpstreamErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New("key", nil, nil).WithBaseURL(srv.URL)
	assert.Equal(t, Fallback, s.Search(context.Background(), "office"))
}
