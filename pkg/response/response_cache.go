package response

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"eventsapp/pkg/tracing"
)

// CachedResponse is the stored form of an intercepted response.
type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Store is the backing storage for cached responses.
type Store interface {
	Get(ctx context.Context, key string) (CachedResponse, bool)
	Set(ctx context.Context, key string, resp CachedResponse, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Keys(ctx context.Context) []string
	Flush(ctx context.Context)
	Source() string
}

// MemoryStore keeps cached responses in process memory.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(5*time.Minute, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (CachedResponse, bool) {
	raw, found := s.cache.Get(key)
	if !found {
		return CachedResponse{}, false
	}

	return raw.(CachedResponse), true
}

func (s *MemoryStore) Set(_ context.Context, key string, resp CachedResponse, ttl time.Duration) {
	s.cache.Set(key, resp, ttl)
}

func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.cache.Delete(key)
}

func (s *MemoryStore) Keys(_ context.Context) []string {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))

	for key := range items {
		keys = append(keys, key)
	}

	return keys
}

func (s *MemoryStore) Flush(_ context.Context) {
	s.cache.Flush()
}

func (s *MemoryStore) Source() string {
	return "memory"
}

// RedisStore shares cached responses across instances.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisStore(redisURL string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, logger: logger}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (CachedResponse, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return CachedResponse{}, false
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn("Corrupt cached response, dropping", zap.String("key", key), zap.Error(err))
		s.client.Del(ctx, key)
		return CachedResponse{}, false
	}

	return resp, true
}

func (s *RedisStore) Set(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) {
	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("Failed to encode cached response", zap.String("key", key), zap.Error(err))
		return
	}

	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Warn("Failed to store cached response", zap.String("key", key), zap.Error(err))
	}
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	s.client.Del(ctx, key)
}

func (s *RedisStore) Keys(ctx context.Context) []string {
	keys, err := s.client.Keys(ctx, "cache:*").Result()
	if err != nil {
		s.logger.Warn("Failed to list cache keys", zap.Error(err))
		return nil
	}

	return keys
}

func (s *RedisStore) Flush(ctx context.Context) {
	for _, key := range s.Keys(ctx) {
		s.client.Del(ctx, key)
	}
}

func (s *RedisStore) Source() string {
	return "redis"
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// ResponseCache serves repeated GET requests from a short lived cache.
type ResponseCache struct {
	store   Store
	ttl     time.Duration
	logger  *zap.Logger
	metrics *tracing.AppMetrics
}

func NewResponseCache(store Store, ttl time.Duration, logger *zap.Logger, metrics *tracing.AppMetrics) *ResponseCache {
	return &ResponseCache{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// CacheMiddleware intercepts successful GET responses and replays them until the TTL expires.
func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		cacheKey := rc.generateCacheKey(c, path)

		if cached, found := rc.store.Get(c.Request.Context(), cacheKey); found {
			if time.Since(cached.Timestamp) < rc.ttl {
				_, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
					attribute.String("cache.key", cacheKey),
					attribute.String("cache.path", path),
					attribute.String("cache.age", time.Since(cached.Timestamp).String()),
					attribute.String("cache.source", rc.store.Source()),
				})
				defer span.End()

				if rc.metrics != nil {
					rc.metrics.RecordCacheHit(c.Request.Context(), path)
				}

				rc.logger.Debug("Cache hit",
					zap.String("path", path),
					zap.String("cache_key", cacheKey),
					zap.Duration("age", time.Since(cached.Timestamp)))

				for key, values := range cached.Headers {
					for _, value := range values {
						c.Header(key, value)
					}
				}

				c.Header("X-Cache", "HIT")
				c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}

			rc.store.Delete(c.Request.Context(), cacheKey)
		}

		ctx, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.miss", []attribute.KeyValue{
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.path", path),
			attribute.String("cache.source", rc.store.Source()),
		})
		defer span.End()

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 {
			_, storeSpan := tracing.CreateChildSpan(ctx, "cache.response.store", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.Int("cache.status_code", writer.statusCode),
				attribute.Int("cache.body_size", writer.body.Len()),
				attribute.String("cache.ttl", rc.ttl.String()),
			})
			storeSpan.End()

			rc.store.Set(ctx, cacheKey, CachedResponse{
				StatusCode: writer.statusCode,
				Headers:    writer.Header(),
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			}, rc.ttl)

			c.Header("X-Cache", "MISS")
		}
	}
}

// generateCacheKey partitions entries by the presented credential. The cache
// runs before authentication, so the bearer token (or jwt cookie) stands in
// for the user identity; unauthenticated requests fall back to the client IP.
func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyParts := []string{path}

	if c.Request.URL.RawQuery != "" {
		keyParts = append(keyParts, c.Request.URL.RawQuery)
	}

	if credential := requestCredential(c); credential != "" {
		keyParts = append(keyParts, "auth_"+credential)
	} else {
		keyParts = append(keyParts, fmt.Sprintf("ip_%s", c.ClientIP()))
	}

	keyString := strings.Join(keyParts, "|")
	hash := md5.Sum([]byte(keyString))

	return fmt.Sprintf("cache:%s:%x", path, hash)
}

func requestCredential(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return header
	}

	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}

	return ""
}

// InvalidatePath drops every cached entry under a path, across all clients.
func (rc *ResponseCache) InvalidatePath(ctx context.Context, path string) {
	for _, key := range rc.store.Keys(ctx) {
		if strings.Contains(key, path) {
			rc.store.Delete(ctx, key)
			rc.logger.Debug("Cache invalidated",
				zap.String("key", key),
				zap.String("path", path))
		}
	}
}

func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	rc.store.Flush(ctx)
	rc.logger.Info("All cache invalidated")
}

type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
