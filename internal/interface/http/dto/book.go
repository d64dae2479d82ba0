package dto

import (
	appbook "github.com/xiebiao/booklibrary/internal/application/book"
	"github.com/xiebiao/booklibrary/internal/domain/book"
)

// CreateBookRequest HTTP新增请求
// validator tag说明:
// - 字段用指针区分"缺省"和"零值",required只要求字段出现
// - title除了必须出现还不能为空串
// - editorial可缺省,也可以显式传null
type CreateBookRequest struct {
	Title     *string `json:"title" binding:"required,min=1" example:"Dune"`
	ISBN      *string `json:"isbn" binding:"required" example:"9780441013593"`
	Author    *string `json:"author" binding:"required" example:"Frank Herbert"`
	Pages     *int    `json:"pages" binding:"required" example:"412"`
	Editorial *string `json:"editorial" example:"Ace"`
}

// ToUseCase 转换为应用层请求
// 调用前必须已经通过binding校验,必填字段都不为nil
func (r *CreateBookRequest) ToUseCase() appbook.CreateBookRequest {
	return appbook.CreateBookRequest{
		Title:     *r.Title,
		ISBN:      *r.ISBN,
		Author:    *r.Author,
		Pages:     *r.Pages,
		Editorial: r.Editorial,
	}
}

// UpdateBookRequest HTTP部分更新请求
// 缺省或null的字段保持不变;title出现时不能为空串
type UpdateBookRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1" example:"Dune Messiah"`
	ISBN      *string `json:"isbn" example:"9780441172696"`
	Author    *string `json:"author" example:"Frank Herbert"`
	Pages     *int    `json:"pages" example:"500"`
	Editorial *string `json:"editorial" example:"Ace"`
}

// ToPatch 转换为领域补丁
func (r *UpdateBookRequest) ToPatch() book.Patch {
	return book.Patch{
		Title:     r.Title,
		ISBN:      r.ISBN,
		Author:    r.Author,
		Pages:     r.Pages,
		Editorial: r.Editorial,
	}
}

// ErrorResponse 错误响应(仅用于API文档)
type ErrorResponse struct {
	Detail string `json:"detail" example:"Book with ISBN 9780441013593 was not found"`
}

// ValidationErrorResponse 422响应(仅用于API文档)
type ValidationErrorResponse struct {
	Detail []FieldIssue `json:"detail"`
}

// FieldIssue 单个字段的校验失败(仅用于API文档)
type FieldIssue struct {
	Loc  []string `json:"loc" example:"body,title"`
	Msg  string   `json:"msg" example:"Field required"`
	Type string   `json:"type" example:"missing"`
}

// ConnectionErrorResponse 连通性检查失败(仅用于API文档)
type ConnectionErrorResponse struct {
	Error string `json:"error" example:"server selection error: context deadline exceeded"`
}
