package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient swaps the singleton; used by tests.
func NewRedisClient(rdb *redis.Client) {
	redisClient = rdb
}

// CacheVenueSession stores the operator's resolved venue for the night.
// The session/auth service is the source of truth; this is only a cache
// so every request does not need a round trip.
func CacheVenueSession(uid string, venueID uint, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	key := fmt.Sprintf("%s:venue", uid)
	if err := rd.SetEx(context.Background(), key, venueID, ttl).Err(); err != nil {
		log.Printf("[redis] Error caching venue session for [%s]: %s\n", uid, err.Error())
	}
}

// GetVenueSession returns the cached venue for an operator, if any.
func GetVenueSession(uid string) (uint, bool) {
	rd := GetRedisClient()
	if rd == nil {
		return 0, false
	}
	key := fmt.Sprintf("%s:venue", uid)
	val, err := rd.Get(context.Background(), key).Result()
	if err != nil {
		return 0, false
	}
	venueID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(venueID), true
}
