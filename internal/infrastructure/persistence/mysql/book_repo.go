package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	apperrors "github.com/xiebiao/booklibrary/pkg/errors"
)

// BookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 主键在插入时生成,与MongoDB实现共用book.ID
type BookRepository struct {
	db        *gorm.DB
	txManager *TxManager
}

var _ book.Repository = (*BookRepository)(nil)

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, txManager *TxManager) *BookRepository {
	return &BookRepository{db: db, txManager: txManager}
}

// Insert 插入图书并回填ID
func (r *BookRepository) Insert(ctx context.Context, b *book.Book) (err error) {
	defer func() { record("insert", err) }()

	id := book.NewID()
	model := toBookModel(b)
	model.ID = id.String()

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapDatabase(err, "创建图书失败")
	}

	b.ID = id
	return nil
}

// FindByISBN 按存储顺序返回第一条ISBN匹配的图书
func (r *BookRepository) FindByISBN(ctx context.Context, isbn string) (b *book.Book, err error) {
	defer func() { record("find_by_isbn", err) }()

	var model BookModel
	if err := getDB(ctx, r.db).Where("isbn = ?", isbn).Order("id").First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDatabase(err, "查询图书失败")
	}
	return toBookEntity(&model)
}

// FindByID 根据ID查找图书
func (r *BookRepository) FindByID(ctx context.Context, id book.ID) (b *book.Book, err error) {
	defer func() { record("find_by_id", err) }()
	return r.findByID(ctx, id)
}

func (r *BookRepository) findByID(ctx context.Context, id book.ID) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).Where("id = ?", id.String()).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDatabase(err, "查询图书失败")
	}
	return toBookEntity(&model)
}

// List 按插入顺序返回最多limit条
// ObjectID前4字节是秒级时间戳,按id排序即按插入顺序
func (r *BookRepository) List(ctx context.Context, limit int) (books []*book.Book, err error) {
	defer func() { record("list", err) }()

	var models []BookModel
	if err := getDB(ctx, r.db).Order("id").Limit(limit).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDatabase(err, "查询图书列表失败")
	}

	books = make([]*book.Book, 0, len(models))
	for i := range models {
		b, err := toBookEntity(&models[i])
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

// UpdateFields 在一个事务内更新指定字段并读回修改后的记录
func (r *BookRepository) UpdateFields(ctx context.Context, id book.ID, fields map[string]interface{}) (b *book.Book, err error) {
	defer func() { record("update", err) }()

	err = r.txManager.Transaction(ctx, func(ctx context.Context) error {
		res := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", id.String()).Updates(fields)
		if res.Error != nil {
			return apperrors.WrapDatabase(res.Error, "更新图书失败")
		}

		// MySQL的RowsAffected不含值未变化的行,以读回结果判断是否存在
		updated, err := r.findByID(ctx, id)
		if err != nil {
			return err
		}
		b = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Delete 删除一条记录(物理删除)
func (r *BookRepository) Delete(ctx context.Context, id book.ID) (err error) {
	defer func() { record("delete", err) }()

	res := getDB(ctx, r.db).Where("id = ?", id.String()).Delete(&BookModel{})
	if res.Error != nil {
		return apperrors.WrapDatabase(res.Error, "删除图书失败")
	}
	if res.RowsAffected != 1 {
		return book.ErrBookNotFound
	}
	return nil
}

// Ping 检查数据库连通性
func (r *BookRepository) Ping(ctx context.Context) (err error) {
	defer func() { record("ping", err) }()

	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		Title:     b.Title,
		ISBN:      b.ISBN,
		Author:    b.Author,
		Pages:     b.Pages,
		Editorial: b.Editorial,
	}
}

func toBookEntity(m *BookModel) (*book.Book, error) {
	id, err := book.ParseID(m.ID)
	if err != nil {
		return nil, apperrors.WrapDatabase(err, "图书主键格式错误")
	}
	return &book.Book{
		ID:        id,
		Title:     m.Title,
		ISBN:      m.ISBN,
		Author:    m.Author,
		Pages:     m.Pages,
		Editorial: m.Editorial,
	}, nil
}
