//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式：
// 1. 修改本文件中的Provider或Injector
// 2. 运行 `wire gen ./cmd/api` 重新生成wire_gen.go
// 3. main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/booklibrary/internal/application/book"
	"github.com/xiebiao/booklibrary/internal/application/health"
	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/internal/infrastructure/config"
	"github.com/xiebiao/booklibrary/internal/interface/http/handler"
	"github.com/xiebiao/booklibrary/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 存储、缓存、消息都按配置选择实现,并返回各自的cleanup
var infrastructureSet = wire.NewSet(
	provideBookRepository, // 图书仓储(mongodb/mysql/memory)
	provideBookCache,      // ISBN查询缓存
	provideEventPublisher, // 图书事件发布
	providePinger,         // 连通性检查
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	health.NewCheckConnectionUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewHealthHandler,
)

// InitializeApp 初始化整个应用
// 返回配置好的Gin引擎和按依赖逆序释放资源的cleanup
//
// 配置由main加载后传入,日志和链路追踪要在依赖创建之前初始化
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		handlerSet,
		router.New,
	)
	return nil, nil, nil
}
