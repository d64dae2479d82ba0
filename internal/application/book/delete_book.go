package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	bookService book.Service
	cache       BookCache
	publisher   EventPublisher
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache BookCache, publisher EventPublisher) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		cache:       cache,
		publisher:   publisher,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, rawID string) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.DeleteBook")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("book.id", rawID))

	id, err := uc.bookService.DeleteBook(ctx, rawID)
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, id)
	publishEvent(ctx, uc.publisher, book.NewEvent(book.EventDeleted, id, ""))
	return nil
}
