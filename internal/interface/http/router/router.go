// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/booklibrary/docs"
	"github.com/xiebiao/booklibrary/internal/infrastructure/config"
	"github.com/xiebiao/booklibrary/internal/interface/http/handler"
	"github.com/xiebiao/booklibrary/internal/interface/http/middleware"
	"github.com/xiebiao/booklibrary/pkg/metrics"
	"github.com/xiebiao/booklibrary/pkg/response"
)

// New 创建Gin引擎并注册全部路由
// gin运行模式由调用方在此之前设置
func New(cfg *config.Config, bookHandler *handler.BookHandler, healthHandler *handler.HealthHandler) *gin.Engine {
	// 校验错误里的字段名使用json tag(title而不是Title)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(response.JSONTagName)
	}

	r := gin.New()
	// Recovery放在最内层,panic的请求同样有访问日志和指标
	r.Use(
		middleware.Tracing(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.Recovery(),
	)

	// 健康检查
	r.GET("/ping", healthHandler.Ping)
	r.GET("/test-db-connection/", healthHandler.TestDBConnection)

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger文档,生产环境不暴露
	// 访问 http://localhost:8000/swagger/index.html
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 图书模块
	books := r.Group("/books")
	{
		books.GET("/", bookHandler.ListBooks)
		books.POST("/", bookHandler.CreateBook)
		books.GET("/:isbn", bookHandler.GetBook)
		books.PUT("/:id", bookHandler.UpdateBook)
		books.DELETE("/:id", bookHandler.DeleteBook)
	}

	return r
}
