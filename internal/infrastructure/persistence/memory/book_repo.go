// Package memory 进程内图书仓储
// 用于本地开发(database.driver: memory)和HTTP层测试,重启后数据丢失
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/metrics"
)

// BookRepository 内存仓储,按插入顺序保存
type BookRepository struct {
	mu    sync.RWMutex
	order []book.ID
	books map[book.ID]*book.Book
}

var _ book.Repository = (*BookRepository)(nil)

// NewBookRepository 创建内存仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{books: make(map[book.ID]*book.Book)}
}

// Insert 插入图书并分配ID
func (r *BookRepository) Insert(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = book.NewID()
	r.books[b.ID] = clone(b)
	r.order = append(r.order, b.ID)
	metrics.RecordStoreOperation("insert", nil)
	return nil
}

// FindByISBN 返回第一条ISBN匹配的图书
func (r *BookRepository) FindByISBN(_ context.Context, isbn string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	metrics.RecordStoreOperation("find_by_isbn", nil)

	for _, id := range r.order {
		if b := r.books[id]; b.ISBN == isbn {
			return clone(b), nil
		}
	}
	return nil, book.ErrBookNotFound
}

// FindByID 根据ID查找
func (r *BookRepository) FindByID(_ context.Context, id book.ID) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	metrics.RecordStoreOperation("find_by_id", nil)

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return clone(b), nil
}

// List 按插入顺序返回最多limit条
func (r *BookRepository) List(_ context.Context, limit int) ([]*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	metrics.RecordStoreOperation("list", nil)

	n := len(r.order)
	if limit >= 0 && limit < n {
		n = limit
	}
	books := make([]*book.Book, 0, n)
	for _, id := range r.order[:n] {
		books = append(books, clone(r.books[id]))
	}
	return books, nil
}

// UpdateFields 在锁内修改并返回副本
func (r *BookRepository) UpdateFields(_ context.Context, id book.ID, fields map[string]interface{}) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	metrics.RecordStoreOperation("update", nil)

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	patchFromFields(fields).ApplyTo(b)
	return clone(b), nil
}

// Delete 删除一条记录
func (r *BookRepository) Delete(_ context.Context, id book.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	metrics.RecordStoreOperation("delete", nil)

	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping 内存仓储总是可用
func (r *BookRepository) Ping(context.Context) error {
	return nil
}

// patchFromFields Fields()的逆变换
func patchFromFields(fields map[string]interface{}) book.Patch {
	var p book.Patch
	if v, ok := fields[book.FieldTitle].(string); ok {
		p.Title = &v
	}
	if v, ok := fields[book.FieldISBN].(string); ok {
		p.ISBN = &v
	}
	if v, ok := fields[book.FieldAuthor].(string); ok {
		p.Author = &v
	}
	if v, ok := fields[book.FieldPages].(int); ok {
		p.Pages = &v
	}
	if v, ok := fields[book.FieldEditorial].(string); ok {
		p.Editorial = &v
	}
	return p
}

func clone(b *book.Book) *book.Book {
	c := *b
	if b.Editorial != nil {
		editorial := *b.Editorial
		c.Editorial = &editorial
	}
	return &c
}
