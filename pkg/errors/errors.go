package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用错误
// 设计说明：
// 1. Code是业务错误码，HTTP状态码由错误码所在的区间推导（见HTTPStatus）
// 2. Message会原样作为响应中的detail返回给客户端
// 3. Err是内部原因，仅用于日志和errors.Is/As，不会序列化
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WithCause 创建带内部原因的AppError
// 典型用法：用一个带上下文的提示信息包装领域哨兵错误，
// 调用方仍然可以用errors.Is匹配哨兵错误
func WithCause(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapDatabase 包装存储层错误
func WrapDatabase(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 404xx: 资源不存在
// - 409xx: 参数错误（对外表现为422）
// - 5xxxx: 服务端错误

const (
	// 系统级错误码
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误

	// 资源错误
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 参数错误
	ErrCodeInvalidParams = 40900 // 参数错误
)

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch {
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40900 && code < 41000:
		return http.StatusUnprocessableEntity
	case code >= 40000 && code < 50000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal Server Error")
}
