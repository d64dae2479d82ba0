package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/tracing"
)

// GetBookUseCase 按ISBN查询图书用例
// 读路径走cache-aside:先查缓存,未命中再查存储并回填
type GetBookUseCase struct {
	bookService book.Service
	cache       BookCache
}

// NewGetBookUseCase 创建查询用例
func NewGetBookUseCase(bookService book.Service, cache BookCache) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache}
}

// Execute 执行查询
func (uc *GetBookUseCase) Execute(ctx context.Context, isbn string) (dto *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.GetBookByISBN")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("book.isbn", isbn))

	if cached, ok := uc.cache.Get(ctx, isbn); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return toDTO(cached), nil
	}

	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(ctx, b)
	return toDTO(b), nil
}
