package cache

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	mentorKeyPrefix  = "mentor:id:"
	mentorListKey    = "mentor:list"
	cacheCheckPeriod = 10 * time.Second
)

// MentorCache is a keyed in-memory cache for mentor listings. Writes
// invalidate only the touched mentor plus the listing key, never the
// whole cache.
type MentorCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMentorCache creates a new mentor cache with the given TTL in seconds
func NewMentorCache(ttlSeconds int) *MentorCache {
	ttl := time.Duration(ttlSeconds) * time.Second

	return &MentorCache{
		cache: gocache.New(ttl, cacheCheckPeriod),
		ttl:   ttl,
	}
}

func mentorKey(mentorID int64) string {
	return mentorKeyPrefix + strconv.FormatInt(mentorID, 10)
}

// GetByID retrieves a single mentor profile from cache
func (mc *MentorCache) GetByID(mentorID int64) (*models.MentorProfile, bool) {
	data, found := mc.cache.Get(mentorKey(mentorID))
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_by_id").Inc()
		return nil, false
	}

	profile, ok := data.(*models.MentorProfile)
	if !ok {
		logger.Error("Invalid cache data type", zap.Int64("mentor_id", mentorID))
		mc.cache.Delete(mentorKey(mentorID))
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("mentor_by_id").Inc()
	return profile, true
}

// SetByID stores a single mentor profile with the configured TTL
func (mc *MentorCache) SetByID(profile *models.MentorProfile) {
	mc.cache.Set(mentorKey(profile.ID), profile, mc.ttl)
}

// GetList retrieves the cached mentor listing
func (mc *MentorCache) GetList() ([]*models.MentorProfile, bool) {
	data, found := mc.cache.Get(mentorListKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_list").Inc()
		return nil, false
	}

	profiles, ok := data.([]*models.MentorProfile)
	if !ok {
		logger.Error("Invalid cache data type for mentor list")
		mc.cache.Delete(mentorListKey)
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("mentor_list").Inc()
	return profiles, true
}

// SetList stores the mentor listing with the configured TTL
func (mc *MentorCache) SetList(profiles []*models.MentorProfile) {
	mc.cache.Set(mentorListKey, profiles, mc.ttl)
}

// Invalidate drops one mentor's entry and the listing. Called on every
// write that touches the mentor (profile edit, new review, visibility
// change) so reads after the write see fresh data.
func (mc *MentorCache) Invalidate(mentorID int64) {
	mc.cache.Delete(mentorKey(mentorID))
	mc.cache.Delete(mentorListKey)

	metrics.CacheInvalidations.WithLabelValues("mentor").Inc()
	logger.Debug("Mentor cache invalidated", zap.Int64("mentor_id", mentorID))
}

// InvalidateList drops only the listing entry (e.g. a new mentor registered)
func (mc *MentorCache) InvalidateList() {
	mc.cache.Delete(mentorListKey)
	metrics.CacheInvalidations.WithLabelValues("mentor_list").Inc()
}

// Clear flushes the entire cache. Admin escape hatch only.
func (mc *MentorCache) Clear() {
	mc.cache.Flush()
	logger.Info("Mentor cache cleared")
}

// ItemCount returns the number of cached entries, for the health endpoint
func (mc *MentorCache) ItemCount() int {
	return mc.cache.ItemCount()
}

// String implements fmt.Stringer for debug logging
func (mc *MentorCache) String() string {
	return fmt.Sprintf("MentorCache{ttl: %s, items: %d}", mc.ttl, mc.cache.ItemCount())
}
