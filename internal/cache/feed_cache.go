// Package cache keeps rendered post pages for a short time.
//
// Entries are keyed by listing view, filter id and page number. Writers call
// InvalidatePost after any post mutation so readers see their own writes
// without waiting for the TTL.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"yatube/internal/logger"
	"yatube/internal/models"
	"yatube/internal/paginate"
)

const (
	ViewIndex   = "index"
	ViewGroup   = "group"
	ViewProfile = "profile"
)

// Key identifies one cached page. Filter is the group id for ViewGroup,
// the author id for ViewProfile and zero for ViewIndex.
type Key struct {
	View   string
	Filter int64
	Page   int
}

type FeedCache struct {
	pages *expirable.LRU[Key, *paginate.Page[models.Post]]
}

func NewFeedCache(size int, ttl time.Duration) *FeedCache {
	if size < 1 {
		size = 1
	}
	return &FeedCache{
		pages: expirable.NewLRU[Key, *paginate.Page[models.Post]](size, nil, ttl),
	}
}

func (c *FeedCache) Get(key Key) (*paginate.Page[models.Post], bool) {
	return c.pages.Get(key)
}

func (c *FeedCache) Set(key Key, page *paginate.Page[models.Post]) {
	c.pages.Add(key, page)
}

// InvalidatePost drops every page the post could appear on: all index pages,
// the pages of each given group and the author's profile pages.
func (c *FeedCache) InvalidatePost(authorID int64, groupIDs ...*int64) {
	groups := make(map[int64]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		if id != nil {
			groups[*id] = struct{}{}
		}
	}

	removed := 0
	for _, key := range c.pages.Keys() {
		drop := false
		switch key.View {
		case ViewIndex:
			drop = true
		case ViewProfile:
			drop = key.Filter == authorID
		case ViewGroup:
			_, drop = groups[key.Filter]
		}
		if drop && c.pages.Remove(key) {
			removed++
		}
	}

	logger.L.Debug("feed cache invalidated",
		zap.Int64("author_id", authorID),
		zap.Int("groups", len(groups)),
		zap.Int("removed", removed))
}

// InvalidateGroup drops the pages of one group, used when the group goes away.
func (c *FeedCache) InvalidateGroup(groupID int64) {
	for _, key := range c.pages.Keys() {
		if key.View == ViewGroup && key.Filter == groupID {
			c.pages.Remove(key)
		}
	}
}

func (c *FeedCache) Clear() {
	c.pages.Purge()
}

func (c *FeedCache) Len() int {
	return c.pages.Len()
}
