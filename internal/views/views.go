package views

import (
	"context"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/bioscizone-api/internal/dto"
)

// BuddySource fetches the approved directory.
type BuddySource interface {
	Buddies(ctx context.Context, course string) ([]dto.BuddyResponse, error)
}

// ArticleSource fetches articles of a category.
type ArticleSource interface {
	Articles(ctx context.Context, category string) ([]dto.ArticleResponse, error)
}

// Collection holds one fetched list and filters it locally.
type Collection[T any] struct {
	fetch func(ctx context.Context) ([]T, error)
	match func(item T, needle string) bool

	mu         sync.RWMutex
	items      []T
	generation uint64
	cancel     context.CancelFunc
}

// Mount replaces the held items with a fresh fetch. A newer Mount cancels an
// older one still in flight, and the older result is dropped.
func (c *Collection[T]) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	items, err := c.fetch(fetchCtx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.cancel = nil
	if err != nil {
		return err
	}
	c.items = items
	return nil
}

// Items returns everything fetched.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Filter returns items whose text fields contain the query, ignoring case.
// A blank query returns every item.
func (c *Collection[T]) Filter(query string) []T {
	items := c.Items()
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if c.match(item, needle) {
			out = append(out, item)
		}
	}
	return out
}

// NewBuddyDirectory lists approved buddies of a course ("" or "All" for every course).
func NewBuddyDirectory(source BuddySource, course string) *Collection[dto.BuddyResponse] {
	return &Collection[dto.BuddyResponse]{
		fetch: func(ctx context.Context) ([]dto.BuddyResponse, error) {
			return source.Buddies(ctx, course)
		},
		match: func(item dto.BuddyResponse, needle string) bool {
			return containsAny(needle, item.FullName, item.ResearchTopic, deref(item.ResearchField), item.Course)
		},
	}
}

var textPolicy = bluemonday.StrictPolicy()

// NewArticleFeed lists articles of a category ("" for all).
func NewArticleFeed(source ArticleSource, category string) *Collection[dto.ArticleResponse] {
	return &Collection[dto.ArticleResponse]{
		fetch: func(ctx context.Context) ([]dto.ArticleResponse, error) {
			return source.Articles(ctx, category)
		},
		match: func(item dto.ArticleResponse, needle string) bool {
			// Content is editor HTML; match its text only.
			return containsAny(needle, item.Title, deref(item.Author), textPolicy.Sanitize(deref(item.Content)))
		},
	}
}

// FilterBuddies applies the directory filter to an existing slice.
func FilterBuddies(items []dto.BuddyResponse, query string) []dto.BuddyResponse {
	c := NewBuddyDirectory(nil, "")
	c.items = items
	return c.Filter(query)
}

// FilterArticles applies the feed filter to an existing slice.
func FilterArticles(items []dto.ArticleResponse, query string) []dto.ArticleResponse {
	c := NewArticleFeed(nil, "")
	c.items = items
	return c.Filter(query)
}

func containsAny(needle string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
