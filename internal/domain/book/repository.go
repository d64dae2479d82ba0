package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MongoDB、MySQL、内存)
// 2. 每个业务操作只对应一次存储调用
// 3. 查询不到统一返回ErrBookNotFound
type Repository interface {
	// Insert 插入图书,由存储分配ID并回填到book.ID
	Insert(ctx context.Context, book *Book) error

	// FindByISBN 返回第一条ISBN匹配的图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id ID) (*Book, error)

	// List 按存储顺序返回最多limit条记录
	List(ctx context.Context, limit int) ([]*Book, error)

	// UpdateFields 原子地修改指定字段并返回修改后的图书
	// fields的key见Field*常量,不能为空
	UpdateFields(ctx context.Context, id ID, fields map[string]interface{}) (*Book, error)

	// Delete 删除一条记录,不存在时返回ErrBookNotFound
	Delete(ctx context.Context, id ID) error

	// Ping 检查存储连通性
	Ping(ctx context.Context) error
}
