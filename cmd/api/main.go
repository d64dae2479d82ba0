package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/booklibrary/internal/infrastructure/config"
	"github.com/xiebiao/booklibrary/internal/interface/http/router"
	"github.com/xiebiao/booklibrary/pkg/logger"
	"github.com/xiebiao/booklibrary/pkg/tracing"
)

// main 主程序入口
//
// @title           Book Library API
// @version         1.0
// @description     图书记录CRUD服务:按ISBN查询、按ID更新删除,支持MongoDB/MySQL存储
// @host            localhost:8000
// @BasePath        /
func main() {
	// 1. 加载.env(不存在时忽略)和配置
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("读取.env失败")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	// 2. 初始化日志
	_, closeLog, err := logger.Setup(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("初始化日志失败")
	}
	defer func() { _ = closeLog() }()

	log.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Bool("cache", cfg.Cache.Enabled).
		Bool("events", cfg.RabbitMQ.Enabled).
		Msg("配置加载成功")

	// 3. 链路追踪
	shutdownTracer := tracing.ShutdownFunc(func(context.Context) error { return nil })
	if cfg.Tracing.Enabled {
		shutdownTracer, err = tracing.InitTracer(cfg.Server.Name, cfg.Tracing.Endpoint, cfg.Tracing.Insecure)
		if err != nil {
			log.Fatal().Err(err).Msg("初始化链路追踪失败")
		}
	}

	// 4. 依赖注入
	setGinMode(cfg.Server.Mode)
	engine, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化应用失败")
	}

	// 5. 启动HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.WithCORS(cfg.Server.CORS, engine),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("服务启动成功")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP服务器启动失败")
		}
	}()

	// 6. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("正在优雅关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP服务器强制关闭")
	}
	cleanup()
	if err := shutdownTracer(ctx); err != nil {
		log.Error().Err(err).Msg("关闭链路追踪失败")
	}

	log.Info().Msg("服务已完全关闭")
}

// setGinMode 未知模式按debug处理
func setGinMode(mode string) {
	switch mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
