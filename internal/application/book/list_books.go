package book

import (
	"context"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/tracing"
)

// ListBooksUseCase 图书列表用例
// 不分页,最多返回book.MaxListSize条,顺序即存储顺序
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksResponse 列表响应
// 外面包一层books,不直接返回顶层数组
type ListBooksResponse struct {
	Books []*BookDTO `json:"books"`
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.ListBooks")
	defer func() { tracing.EndSpan(span, err) }()

	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{Books: toDTOs(books)}, nil
}
