package book

import (
	"context"

	"github.com/xiebiao/booklibrary/internal/domain/book"
)

// NoopCache 关闭缓存时使用
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*book.Book, bool) { return nil, false }
func (NoopCache) Set(context.Context, *book.Book)                {}
func (NoopCache) Invalidate(context.Context, book.ID, ...string) {}

// NoopPublisher 关闭消息发布时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, book.Event) error { return nil }
