package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/booklibrary/pkg/tracing"
)

const tracerName = "booklibrary"

// Tracing 为每个请求创建Server Span并挂到request context
// 上游带traceparent时沿用其TraceID;用例中的Span都成为它的子Span
// 必须放在Logger之前,Logger才能从context取到trace_id
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := tracing.StartServerSpan(c.Request.Context(), c.Request.Header, tracerName, c.Request.Method+" "+route)
		defer span.End()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
	}
}
