package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/tracing"
)

// UpdateBookUseCase 部分更新用例
type UpdateBookUseCase struct {
	bookService book.Service
	cache       BookCache
	publisher   EventPublisher
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, cache BookCache, publisher EventPublisher) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
		publisher:   publisher,
	}
}

// UpdateBookRequest 更新请求
type UpdateBookRequest struct {
	ID    string // 路径中的原始标识
	Patch book.Patch
}

// Execute 执行更新
// 空补丁不写存储,也不清缓存、不发事件
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (dto *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.UpdateBook")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(
		attribute.String("book.id", req.ID),
		attribute.Bool("patch.empty", req.Patch.IsEmpty()),
	)

	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.Patch)
	if err != nil {
		return nil, err
	}

	if !req.Patch.IsEmpty() {
		// 旧ISBN通过ID索引找到,新ISBN直接给出
		uc.cache.Invalidate(ctx, b.ID, b.ISBN)
		publishEvent(ctx, uc.publisher, book.NewEvent(book.EventUpdated, b.ID, b.ISBN))
	}

	return toDTO(b), nil
}
