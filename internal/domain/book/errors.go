package book

import (
	"fmt"

	apperrors "github.com/xiebiao/booklibrary/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在(哨兵错误,仓储层返回它,服务层再补上查询条件)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrInvalidID 标识不是合法的ObjectID
	ErrInvalidID = apperrors.New(apperrors.ErrCodeBookNotFound, "invalid book id")

	// ErrEmptyTitle 书名为空
	ErrEmptyTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "title must not be empty")
)

// NotFoundByISBN 按ISBN查询不到
func NotFoundByISBN(isbn string) error {
	return apperrors.WithCause(apperrors.ErrCodeBookNotFound, fmt.Sprintf("Book with ISBN %s was not found", isbn), ErrBookNotFound)
}

// NotFoundByID 按标识查询不到(标识非法时也使用它)
func NotFoundByID(id string) error {
	return apperrors.WithCause(apperrors.ErrCodeBookNotFound, fmt.Sprintf("Book %s not found", id), ErrBookNotFound)
}
