package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"
)

const (
	EventListKey  = "events:all"
	CategoriesKey = "events:categories"

	versionKey       = "events:version"
	eventKeyPrefix   = "events:id:"
	revokedKeyPrefix = "auth:revoked:"
)

// EventKey is the cache key of a single event.
func EventKey(id int64) string {
	return eventKeyPrefix + strconv.FormatInt(id, 10)
}

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// Enabled reports whether a Valkey address is configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// setIfVersion writes ARGV[2] to KEYS[2] only while KEYS[1] still holds
// ARGV[1], treating a missing version as 0.
var setIfVersion = rueidis.NewLuaScript(`
local v = redis.call('GET', KEYS[1])
if (v or '0') ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'EX', ARGV[3])
return 1
`)

type ValkeyClient struct {
	client rueidis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      []string{cfg.Addr},
		Password:         cfg.Password,
		DisableCache:     true,
		ConnWriteTimeout: 2 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &ValkeyClient{client: client, ttl: ttl}, nil
}

// GetJSON decodes the value at key into dest. It reports false on a miss.
func (v *ValkeyClient) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache lookup error: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("invalid cached value for %s: %w", key, err)
	}
	return true, nil
}

// Version returns the event invalidation counter.
func (v *ValkeyClient) Version(ctx context.Context) (int64, error) {
	n, err := v.client.Do(ctx, v.client.B().Get().Key(versionKey).Build()).AsInt64()
	if rueidis.IsRedisNil(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}
	return n, nil
}

// SetJSONIfVersion stores value under key for the configured TTL unless the
// invalidation counter moved past version. It reports whether it stored.
func (v *ValkeyClient) SetJSONIfVersion(ctx context.Context, key string, version int64, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	n, err := setIfVersion.Exec(ctx, v.client,
		[]string{versionKey, key},
		[]string{strconv.FormatInt(version, 10), string(raw), ttlSeconds(v.ttl)},
	).AsInt64()
	if err != nil {
		return false, fmt.Errorf("cache write error: %w", err)
	}
	return n == 1, nil
}

func ttlSeconds(ttl time.Duration) string {
	sec := int64(ttl / time.Second)
	if sec < 1 {
		sec = 1
	}
	return strconv.FormatInt(sec, 10)
}

func (v *ValkeyClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return v.client.Do(ctx, v.client.B().Del().Key(keys...).Build()).Error()
}

// InvalidateEvent bumps the version, so in-flight fills are discarded, and
// drops every cached view that may contain event id.
func (v *ValkeyClient) InvalidateEvent(ctx context.Context, id int64) error {
	if err := v.client.Do(ctx, v.client.B().Incr().Key(versionKey).Build()).Error(); err != nil {
		return fmt.Errorf("cache version bump error: %w", err)
	}
	return v.Delete(ctx, EventListKey, CategoriesKey, EventKey(id))
}

// RevokeToken blacklists a token id until it would have expired anyway.
func (v *ValkeyClient) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	cmd := v.client.B().Set().Key(revokedKeyPrefix + jti).Value("1").Ex(ttl).Build()
	return v.client.Do(ctx, cmd).Error()
}

func (v *ValkeyClient) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := v.client.Do(ctx, v.client.B().Exists().Key(revokedKeyPrefix+jti).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("cache lookup error: %w", err)
	}
	return n > 0, nil
}

func (v *ValkeyClient) Ping(ctx context.Context) error {
	return v.client.Do(ctx, v.client.B().Ping().Build()).Error()
}

func (v *ValkeyClient) Close() error {
	v.client.Close()
	return nil
}
