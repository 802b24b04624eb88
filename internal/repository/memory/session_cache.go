package memory

import (
	"time"

	"ai-studyguide-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionCache holds hot session state in process memory. Sessions in
// FILE_UPLOAD live only here; every other state is also written through to
// the database, so a cache miss falls back to the snapshot row.
type SessionCache struct {
	cache *cache.Cache
}

func NewSessionCache() *SessionCache {
	// Sessions idle for a day are dropped; expired entries purged hourly.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SessionCache{
		cache: c,
	}
}

func (r *SessionCache) Save(session *entity.StudySession) {
	r.cache.Set(session.Id.String(), session, cache.DefaultExpiration)
}

func (r *SessionCache) Get(sessionId uuid.UUID) (*entity.StudySession, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(*entity.StudySession), true
	}
	return nil, false
}

func (r *SessionCache) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
