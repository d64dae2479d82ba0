package book

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/tracing"
)

// CreateBookUseCase 新增图书用例
// 设计说明:
// 1. 客户端传入的id一律忽略,由存储分配
// 2. 不检查ISBN重复
// 3. 成功后清掉该ISBN的缓存并发布book.created事件
type CreateBookUseCase struct {
	bookService book.Service
	cache       BookCache
	publisher   EventPublisher
}

// NewCreateBookUseCase 创建新增用例
func NewCreateBookUseCase(bookService book.Service, cache BookCache, publisher EventPublisher) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		cache:       cache,
		publisher:   publisher,
	}
}

// CreateBookRequest 新增请求
type CreateBookRequest struct {
	Title     string
	ISBN      string
	Author    string
	Pages     int
	Editorial *string
}

// Execute 执行新增
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (dto *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.CreateBook")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := uc.bookService.CreateBook(ctx, req.Title, req.ISBN, req.Author, req.Pages, req.Editorial)
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, b.ID, b.ISBN)
	publishEvent(ctx, uc.publisher, book.NewEvent(book.EventCreated, b.ID, b.ISBN))

	return toDTO(b), nil
}

// publishEvent 发布事件,失败只记日志
func publishEvent(ctx context.Context, publisher EventPublisher, event book.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("event", string(event.Type)).
			Str("book_id", event.BookID).
			Msg("发布图书事件失败")
	}
}
