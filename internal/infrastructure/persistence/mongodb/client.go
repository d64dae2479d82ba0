// Package mongodb 基于MongoDB的图书仓储
package mongodb

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/xiebiao/booklibrary/internal/infrastructure/config"
)

// NewClient 创建MongoDB客户端
// 设计说明：
// 1. 客户端在启动时创建一次，由依赖注入传给仓储，内部自带连接池
// 2. mongodb.tls开启时使用系统证书池校验服务端证书
// 3. 启动时ping一次，失败只记警告：连通性由/test-db-connection/对外报告
func NewClient(cfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoDB.URI).
		SetAppName(cfg.Server.Name).
		SetConnectTimeout(cfg.MongoDB.ConnectTimeout).
		SetServerSelectionTimeout(cfg.MongoDB.ServerSelectionTimeout)
	if cfg.MongoDB.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MongoDB.MaxPoolSize)
	}

	if cfg.MongoDB.TLS {
		pool, err := x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("加载系统证书失败: %w", err)
		}
		opts.SetTLSConfig(&tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		})
	}

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("创建MongoDB客户端失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Warn().Err(err).Msg("MongoDB暂不可达，服务继续启动")
	} else {
		log.Info().Str("database", cfg.MongoDB.Database).Msg("MongoDB连接成功")
	}

	return client, nil
}

// Disconnect 关闭客户端
func Disconnect(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("关闭MongoDB连接失败: %w", err)
	}
	return nil
}
