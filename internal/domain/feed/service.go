// internal/domain/feed/service.go
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

const (
	sourcesKey  = "feeds:sources"
	cachePrefix = "feeds:cache:"
)

// Item is one feed entry
type Item struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Published *time.Time `json:"published,omitempty"`
	Summary   string     `json:"summary"`
}

// Source is a named feed URL
type Source struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

// Service serves RSS items from named sources through a redis cache.
// Fetch failures degrade to an empty list and are cached like any other result.
type Service struct {
	client   *redis.Client
	parser   *gofeed.Parser
	defaults map[string]string
	ttl      time.Duration
	maxItems int
	log      *logrus.Logger
}

// NewService creates a new feed service
func NewService(client *redis.Client, cfg config.FeedConfig, log *logrus.Logger) *Service {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: cfg.FetchTimeout}

	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 5
	}

	return &Service{
		client:   client,
		parser:   parser,
		defaults: cfg.Sources,
		ttl:      cfg.CacheTTL,
		maxItems: maxItems,
		log:      log,
	}
}

// Sources returns the configured sources sorted by name. Admin edits override the defaults.
func (s *Service) Sources(ctx context.Context) ([]Source, error) {
	stored, err := s.client.HGetAll(ctx, sourcesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load feed sources: %w", err)
	}
	if len(stored) == 0 {
		stored = s.defaults
	}

	sources := make([]Source, 0, len(stored))
	for name, u := range stored {
		sources = append(sources, Source{Name: name, URL: u})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

// SetSources replaces the whole source table.
func (s *Service) SetSources(ctx context.Context, sources []Source) ([]Source, error) {
	if len(sources) == 0 {
		return nil, apperr.Invalid("sources", "at least one source is required")
	}

	fields := make(map[string]any, len(sources))
	for i, src := range sources {
		name := strings.ToLower(strings.TrimSpace(src.Name))
		if name == "" {
			return nil, apperr.Invalid(fmt.Sprintf("sources[%d].name", i), "is required")
		}
		if err := validateURL(src.URL); err != nil {
			return nil, apperr.Invalid(fmt.Sprintf("sources[%d].url", i), "%v", err)
		}
		fields[name] = strings.TrimSpace(src.URL)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sourcesKey)
		pipe.HSet(ctx, sourcesKey, fields)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save feed sources: %w", err)
	}

	s.log.WithField("count", len(fields)).Info("Feed sources updated")
	return s.Sources(ctx)
}

// Items returns up to maxItems entries of the named feed.
func (s *Service) Items(ctx context.Context, name string) ([]Item, error) {
	sources, err := s.Sources(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.ToLower(strings.TrimSpace(name))
	var feedURL string
	for _, src := range sources {
		if src.Name == name {
			feedURL = src.URL
		}
	}
	if feedURL == "" {
		return nil, fmt.Errorf("feed %q: %w", name, apperr.ErrNotFound)
	}

	if items, ok := s.cached(ctx, feedURL); ok {
		return items, nil
	}

	items := s.fetch(ctx, feedURL)
	if ctx.Err() != nil {
		// failures caused by a cancelled request are not cached
		return items, nil
	}
	if data, err := json.Marshal(items); err == nil {
		if err := s.client.Set(ctx, cachePrefix+feedURL, data, s.ttl).Err(); err != nil {
			s.log.WithField("url", feedURL).WithError(err).Warn("Failed to cache feed")
		}
	}
	return items, nil
}

func (s *Service) cached(ctx context.Context, feedURL string) ([]Item, bool) {
	data, err := s.client.Get(ctx, cachePrefix+feedURL).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WithField("url", feedURL).WithError(err).Warn("Feed cache unavailable")
		}
		return nil, false
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *Service) fetch(ctx context.Context, feedURL string) []Item {
	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		s.log.WithField("url", feedURL).WithError(err).Warn("Failed to fetch feed")
		return []Item{}
	}

	items := make([]Item, 0, min(len(parsed.Items), s.maxItems))
	for _, entry := range parsed.Items {
		if len(items) == s.maxItems {
			break
		}
		items = append(items, Item{
			Title:     entry.Title,
			Link:      entry.Link,
			Published: entry.PublishedParsed,
			Summary:   entry.Description,
		})
	}
	return items
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}
