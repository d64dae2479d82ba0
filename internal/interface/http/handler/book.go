package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/booklibrary/internal/application/book"
	"github.com/xiebiao/booklibrary/internal/interface/http/dto"
	"github.com/xiebiao/booklibrary/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase  *appbook.ListBooksUseCase
	getBookUseCase    *appbook.GetBookUseCase
	createBookUseCase *appbook.CreateBookUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:  listBooksUseCase,
		getBookUseCase:    getBookUseCase,
		createBookUseCase: createBookUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回至少0条、最多1000条图书
// @Tags         图书
// @Produce      json
// @Success      200 {object} appbook.ListBooksResponse
// @Failure      500 {object} dto.ErrorResponse "存储错误"
// @Router       /books/ [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	result, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBook 按ISBN查询
// @Summary      按ISBN查询图书
// @Description  ISBN重复时返回任意一条匹配记录
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN"
// @Success      200 {object} appbook.BookDTO
// @Failure      404 {object} dto.ErrorResponse "图书不存在"
// @Router       /books/{isbn} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	result, err := h.getBookUseCase.Execute(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateBook 新增图书
// @Summary      新增图书
// @Description  存储分配ID,返回完整记录
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} appbook.BookDTO
// @Failure      422 {object} dto.ValidationErrorResponse "参数错误"
// @Router       /books/ [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	// 2. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), req.ToUseCase())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateBook 部分更新
// @Summary      部分更新图书
// @Description  只修改请求中出现且不为null的字段;空请求体返回当前记录
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path string                true "图书ID"
// @Param        request body dto.UpdateBookRequest true "需要修改的字段"
// @Success      200 {object} appbook.BookDTO
// @Failure      404 {object} dto.ErrorResponse "图书不存在"
// @Failure      422 {object} dto.ValidationErrorResponse "参数错误"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:    c.Param("id"),
		Patch: req.ToPatch(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Param        id path string true "图书ID"
// @Success      204 "删除成功"
// @Failure      404 {object} dto.ErrorResponse "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.deleteBookUseCase.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
