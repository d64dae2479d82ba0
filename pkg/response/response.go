package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/xiebiao/booklibrary/pkg/errors"
)

// ErrorBody 错误响应结构
// 对外只暴露detail，业务错误码和内部原因只进日志
type ErrorBody struct {
	Detail interface{} `json:"detail"`
}

// Success 200响应，data直接作为响应体（不再包一层code/message）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204响应，无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := uc.Execute(ctx, isbn)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := apperrors.HTTPStatus(appErr.Code)

	// 5xx的内部原因记录到日志，响应里只给标准状态文本
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().
			Err(err).
			Int("code", appErr.Code).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		if status == http.StatusInternalServerError {
			message = http.StatusText(status)
		}
	}

	c.AbortWithStatusJSON(status, ErrorBody{Detail: message})
}

// ErrorWithStatus 自定义状态码和提示
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: message})
}
