package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	appbook "github.com/xiebiao/booklibrary/internal/application/book"
	"github.com/xiebiao/booklibrary/internal/application/health"
	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/internal/infrastructure/config"
	"github.com/xiebiao/booklibrary/internal/infrastructure/messaging"
	"github.com/xiebiao/booklibrary/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/booklibrary/internal/infrastructure/persistence/mongodb"
	"github.com/xiebiao/booklibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/booklibrary/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/booklibrary/pkg/mq"
)

const cleanupTimeout = 5 * time.Second

// provideBookRepository 按database.driver创建图书仓储
// 返回的cleanup在进程退出时关闭底层连接
func provideBookRepository(cfg *config.Config) (book.Repository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewBookRepository(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))

		// 启动时存储可能还不可达,建索引失败不阻止启动
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.ServerSelectionTimeout)
		defer cancel()
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("创建isbn索引失败")
		}

		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
			defer cancel()
			if err := mongodb.Disconnect(ctx, client); err != nil {
				log.Error().Err(err).Msg("关闭MongoDB连接失败")
			}
		}
		return repo, cleanup, nil

	case config.DriverMySQL:
		db, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := mysql.Close(db); err != nil {
				log.Error().Err(err).Msg("关闭MySQL连接失败")
			}
		}
		return mysql.NewBookRepository(db, mysql.NewTxManager(db)), cleanup, nil

	case config.DriverMemory:
		log.Warn().Msg("使用内存存储,进程退出后数据丢失")
		return memory.NewBookRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("不支持的存储驱动: %q", cfg.Database.Driver)
	}
}

// provideBookCache 创建ISBN查询缓存
// 未启用或Redis启动时不可达都降级为空缓存,查询直接走存储
func provideBookCache(cfg *config.Config) (appbook.BookCache, func(), error) {
	if !cfg.Cache.Enabled {
		return appbook.NoopCache{}, func() {}, nil
	}

	client, err := redis.NewClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Redis不可用,缓存已禁用")
		return appbook.NoopCache{}, func() {}, nil
	}

	breaker := redis.NewBreaker(cfg.Cache.BreakerFailures, cfg.Cache.BreakerTimeout)
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("关闭Redis连接失败")
		}
	}
	return redis.NewBookCache(client, cfg.Cache.TTL, breaker), cleanup, nil
}

// provideEventPublisher 创建图书事件发布者
// 未启用或RabbitMQ启动时不可达都降级为空发布者
func provideEventPublisher(cfg *config.Config) (appbook.EventPublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return appbook.NoopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.ExchangeType)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ不可用,事件发布已禁用")
		return appbook.NoopPublisher{}, func() {}, nil
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	return messaging.NewBookEventPublisher(publisher), cleanup, nil
}

// providePinger 连通性检查直接探测仓储
func providePinger(repo book.Repository) health.Pinger {
	return repo
}
