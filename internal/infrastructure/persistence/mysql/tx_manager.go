package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中保存事务DB的key
type txKey struct{}

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn返回error时ROLLBACK,返回nil时COMMIT;fn内的仓储操作通过ctx拿到同一个事务DB
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := getDB(ctx, db).Model(&BookModel{}).Where("id = ?", id).Updates(fields).Error; err != nil {
//	        return err // 自动回滚
//	    }
//	    return getDB(ctx, db).First(&model, "id = ?", id).Error
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// getDB 优先使用context中的事务DB
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
