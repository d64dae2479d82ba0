package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/booklibrary/pkg/tracing"
)

const (
	// RequestIDKey 日志中请求ID的字段名
	RequestIDKey = "request_id"
	// RequestIDHeader 请求ID响应头,客户端传入时沿用
	RequestIDHeader = "X-Request-ID"

	slowRequestThreshold = 3 * time.Second
)

// Logger 请求日志中间件
//
// 要点：
// 1. 每个请求一个request_id,写入响应头和日志
// 2. 请求级日志器挂到request context,后续log.Ctx(ctx)自动带上request_id
// 3. 请求结束输出一行结构化日志,慢请求升级为warn
// 4. 放在Tracing之后,日志带上trace_id和span_id
//
// 不记录请求体,避免把大对象和敏感信息写进日志
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := log.Logger.With().Str(RequestIDKey, requestID).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case latency > slowRequestThreshold:
			event = reqLogger.Warn().Bool("slow", true)
		default:
			event = reqLogger.Info()
		}

		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			event = event.
				Str("trace_id", traceID).
				Str("span_id", tracing.ExtractSpanID(c.Request.Context()))
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size()).
			Msg("request")
	}
}
