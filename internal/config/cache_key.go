package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LeaderboardSnapshotKey returns the cache key for the rendered leaderboard snapshot.
func (r *CacheKeyStruct) LeaderboardSnapshotKey() string {
	return "leaderboard:snapshot"
}

// GameChangesChannel returns the Redis PubSub channel carrying table change events.
func (r *CacheKeyStruct) GameChangesChannel() string {
	return "game:changes"
}

var CacheKey = NewCacheKeyStruct()
