package cache

import (
	"fmt"
	"time"
)

// TTL policy for post reads. Lists expire faster than details because
// any mutation already clears every list key.
const (
	ListTTL   = 300 * time.Second
	DetailTTL = 600 * time.Second
)

// ListKeyPrefix is the prefix shared by all cached list pages, used for
// coarse invalidation on any post mutation.
const ListKeyPrefix = "posts:"

// ListKey builds the cache key for a list page from the full, normalized
// parameter tuple. Empty category and search collapse to fixed markers so
// equivalent requests share a key.
func ListKey(page, limit int, sortField, category, search string) string {
	if category == "" {
		category = "all"
	}
	if search == "" {
		search = "none"
	}
	return fmt.Sprintf("%s%d:%d:%s:%s:%s", ListKeyPrefix, page, limit, sortField, category, search)
}

// DetailKey builds the cache key for a single post.
func DetailKey(id string) string {
	return "post:" + id
}
