package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/circuitbreaker"
	"github.com/xiebiao/booklibrary/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key格式
//
//	book:isbn:<isbn> → 图书JSON，或失效标记
//	book:id:<id>     → isbn（反向索引，更新/删除时用来找到旧ISBN）
const (
	isbnKeyPrefix = "book:isbn:"
	idKeyPrefix   = "book:id:"

	// tombstone 失效标记，不是合法JSON
	tombstone = "-"
	// invalidationHold 失效标记的存活时间，期间回填被拒绝
	invalidationHold = 10 * time.Second
)

func isbnKey(isbn string) string { return isbnKeyPrefix + isbn }
func idKey(id book.ID) string    { return idKeyPrefix + id.String() }

// cachedBook 缓存中的图书
type cachedBook struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	ISBN      string  `json:"isbn"`
	Author    string  `json:"author"`
	Pages     int     `json:"pages"`
	Editorial *string `json:"editorial"`
}

// BookCache 基于Redis的ISBN查询缓存
// 设计说明：
// 1. 所有Redis调用都经过熔断器，Redis故障时快速降级为直接查存储
// 2. 缓存错误只记录日志和指标，从不返回给调用方
// 3. 两个key使用相同的TTL，过期后自然失效
// 4. 回填用SET NX，Invalidate把ISBN key写成短期失效标记而不是直接删除：
//    读请求在写请求之前查到旧数据、在失效之后才回填时，NX会拒绝这次写入，
//    避免旧数据在缓存里再停留一个TTL
type BookCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewBookCache 创建缓存
func NewBookCache(client redis.UniversalClient, ttl time.Duration, breaker *circuitbreaker.CircuitBreaker) *BookCache {
	return &BookCache{client: client, ttl: ttl, breaker: breaker}
}

// NewBreaker 创建缓存熔断器，状态变化同步到circuit_breaker_state指标
func NewBreaker(failures uint32, timeout time.Duration) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.NewCircuitBreaker("redis-cache", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": cb.Name()}, float64(circuitbreaker.StateClosed))
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("熔断器状态变化")
	})
	return cb
}

// Get 按ISBN读缓存
func (c *BookCache) Get(ctx context.Context, isbn string) (*book.Book, bool) {
	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.client.Get(ctx, isbnKey(isbn)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		metrics.RecordCache(metrics.CacheError)
		log.Ctx(ctx).Warn().Err(err).Str("isbn", isbn).Msg("读取图书缓存失败")
		return nil, false
	}
	if data == nil || string(data) == tombstone {
		metrics.RecordCache(metrics.CacheMiss)
		return nil, false
	}

	b, err := decode(data)
	if err != nil {
		metrics.RecordCache(metrics.CacheError)
		log.Ctx(ctx).Warn().Err(err).Str("isbn", isbn).Msg("图书缓存内容损坏")
		return nil, false
	}

	metrics.RecordCache(metrics.CacheHit)
	return b, true
}

// Set 写入ISBN → 图书以及ID → ISBN
// ISBN key已存在(包括失效标记)时不覆盖
func (c *BookCache) Set(ctx context.Context, b *book.Book) {
	data, err := json.Marshal(cachedBook{
		ID:        b.ID.String(),
		Title:     b.Title,
		ISBN:      b.ISBN,
		Author:    b.Author,
		Pages:     b.Pages,
		Editorial: b.Editorial,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("序列化图书缓存失败")
		return
	}

	err = c.breaker.Execute(func() error {
		_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, isbnKey(b.ISBN), data, c.ttl)
			pipe.Set(ctx, idKey(b.ID), b.ISBN, c.ttl)
			return nil
		})
		return err
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("isbn", b.ISBN).Msg("写入图书缓存失败")
	}
}

// Invalidate 删除id索引，并把id索引到的旧ISBN以及额外给出的ISBN标记为失效
func (c *BookCache) Invalidate(ctx context.Context, id book.ID, isbns ...string) {
	hold := invalidationHold
	if c.ttl < hold {
		hold = c.ttl
	}

	err := c.breaker.Execute(func() error {
		oldISBN, err := c.client.Get(ctx, idKey(id)).Result()
		switch {
		case err == nil:
			isbns = append(isbns, oldISBN)
		case !errors.Is(err, redis.Nil):
			return err
		}

		_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, idKey(id))
			for _, isbn := range isbns {
				pipe.Set(ctx, isbnKey(isbn), tombstone, hold)
			}
			return nil
		})
		return err
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("book_id", id.String()).Msg("清除图书缓存失败")
	}
}

func decode(data []byte) (*book.Book, error) {
	var cb cachedBook
	if err := json.Unmarshal(data, &cb); err != nil {
		return nil, err
	}
	id, err := book.ParseID(cb.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid cached id %q: %w", cb.ID, err)
	}
	return &book.Book{
		ID:        id,
		Title:     cb.Title,
		ISBN:      cb.ISBN,
		Author:    cb.Author,
		Pages:     cb.Pages,
		Editorial: cb.Editorial,
	}, nil
}
