package book

import (
	"context"

	"github.com/xiebiao/booklibrary/internal/domain/book"
)

// tracerName 用例Span所属的Tracer
const tracerName = "booklibrary"

// BookCache ISBN查询缓存(cache-aside)
// 缓存是可降级的旁路依赖:实现自己记录日志和指标,从不向用例返回错误
type BookCache interface {
	// Get 按ISBN读缓存,未命中或缓存不可用时返回false
	Get(ctx context.Context, isbn string) (*book.Book, bool)

	// Set 写入ISBN → 图书,并记录ID → ISBN的反向索引
	Set(ctx context.Context, b *book.Book)

	// Invalidate 删除id当前索引到的ISBN缓存、id索引本身,以及额外给出的ISBN缓存
	Invalidate(ctx context.Context, id book.ID, isbns ...string)
}

// EventPublisher 图书事件发布者
// 发布失败由调用方记录日志,不影响请求结果
type EventPublisher interface {
	Publish(ctx context.Context, event book.Event) error
}
