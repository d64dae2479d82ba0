package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/booklibrary/pkg/response"
)

// Recovery 捕获handler中的panic,记录堆栈并返回500
// 响应头已经写出时只记日志
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Ctx(c.Request.Context()).Error().
					Interface("panic", r).
					Str("stack", string(debug.Stack())).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")

				if !c.Writer.Written() {
					response.ErrorWithStatus(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
