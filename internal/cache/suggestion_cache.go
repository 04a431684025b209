package cache

import (
	"fmt"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	SuggestionListTTL = 2 * time.Minute
)

// SuggestionCache keeps the per-group suggestion list (with vote counts) so
// the group page doesn't re-run the vote-count join on every refresh.
type SuggestionCache struct {
	redis *RedisCache
}

func NewSuggestionCache(redis *RedisCache) *SuggestionCache {
	return &SuggestionCache{redis: redis}
}

func suggestionKey(groupID uint) string {
	return fmt.Sprintf("suggestions:%d", groupID)
}

func (sc *SuggestionCache) Get(groupID uint) ([]models.GroupBookResponse, bool) {
	if sc == nil || sc.redis == nil {
		return nil, false
	}
	data, err := sc.redis.Get(suggestionKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}

	var suggestions []models.GroupBookResponse
	if err := msgpack.Unmarshal(data, &suggestions); err != nil {
		return nil, false
	}
	return suggestions, true
}

func (sc *SuggestionCache) Set(groupID uint, suggestions []models.GroupBookResponse) {
	if sc == nil || sc.redis == nil {
		return
	}
	data, err := msgpack.Marshal(suggestions)
	if err != nil {
		return
	}
	_ = sc.redis.Set(suggestionKey(groupID), data, SuggestionListTTL)
}

// Invalidate drops the cached list after any write that changes vote counts
// or suggestion statuses.
func (sc *SuggestionCache) Invalidate(groupID uint) {
	if sc == nil || sc.redis == nil {
		return
	}
	_ = sc.redis.Delete(suggestionKey(groupID))
}
