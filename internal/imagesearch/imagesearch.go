// Package imagesearch suggests banner images for announcements.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"
	perPage        = 8
)

type URLs struct {
	Small   string `json:"small"`
	Regular string `json:"regular"`
}

type Author struct {
	Name string `json:"name"`
}

// Image is one search hit, shaped like an Unsplash photo.
type Image struct {
	ID             string `json:"id"`
	URLs           URLs   `json:"urls"`
	AltDescription string `json:"alt_description"`
	User           Author `json:"user"`
}

func curated(id, alt, author string) Image {
	base := "https://images.unsplash.com/photo-" + id
	return Image{
		ID:             id,
		URLs:           URLs{Small: base + "?w=500&q=80", Regular: base + "?w=800"},
		AltDescription: alt,
		User:           Author{Name: author},
	}
}

// Fallback is served when no access key is configured or Unsplash fails.
var Fallback = []Image{
	curated("1517048676732-d65bc937f952", "Corporate meeting", "Daria Nepriakhina"),
	curated("1522202176988-66273c2fd55f", "Team collaboration", "Annie Spratt"),
	curated("1531482615713-2afd69097998", "Coding bootcamp", "Desola Lanre-Ologun"),
	curated("1505373877741-e174b4cc10e0", "Technology background", "Clément H"),
	curated("1552664730-d307ca884978", "Team workshop", "Jason Goodman"),
	curated("1516321318423-f06f85e504b3", "Digital connectivity", "John Schnobrich"),
}

// Searcher queries Unsplash and caches results per query.
type Searcher struct {
	baseURL   string
	accessKey string
	http      *http.Client
	cache     *cache.Cache
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func New(accessKey string, m *metrics.Metrics, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{
		baseURL:   DefaultBaseURL,
		accessKey: accessKey,
		http:      &http.Client{Timeout: 10 * time.Second},
		cache:     cache.New(1*time.Hour, 10*time.Minute),
		metrics:   m,
		logger:    logger,
	}
}

// WithBaseURL points the searcher at another host, for tests.
func (s *Searcher) WithBaseURL(u string) *Searcher {
	s.baseURL = strings.TrimRight(u, "/")
	return s
}

// Search never fails: any upstream problem yields the curated list.
// Fallback results are not cached so a recovered upstream is picked up.
func (s *Searcher) Search(ctx context.Context, query string) []Image {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || s.accessKey == "" {
		return Fallback
	}

	if v, ok := s.cache.Get(query); ok {
		s.metrics.ImageSearch(true)
		return v.([]Image)
	}
	s.metrics.ImageSearch(false)

	images, err := s.fetch(ctx, query)
	if err != nil {
		logging.WithRequest(ctx, s.logger).Warn("image search failed, using curated images",
			zap.String("query", query), zap.Error(err))
		return Fallback
	}
	if len(images) == 0 {
		return Fallback
	}

	s.cache.Set(query, images, cache.DefaultExpiration)
	return images
}

func (s *Searcher) fetch(ctx context.Context, query string) ([]Image, error) {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("query", query)
	q.Set("client_id", s.accessKey)
	q.Set("per_page", fmt.Sprint(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash status %d", res.StatusCode)
	}

	var body struct {
		Results []Image `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Results, nil
}
