package book

import (
	"context"
	"errors"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 封装业务规则(书名非空、标识转换、空补丁的回查分支)
// 2. 把仓储返回的ErrBookNotFound换成带查询条件的错误信息
// 3. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// ListBooks 按存储顺序返回最多MaxListSize条图书
	ListBooks(ctx context.Context) ([]*Book, error)

	// GetBookByISBN 返回第一条ISBN匹配的图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// CreateBook 创建图书,不检查ISBN重复
	CreateBook(ctx context.Context, title, isbn, author string, pages int, editorial *string) (*Book, error)

	// UpdateBook 部分更新
	// 补丁非空时原子修改并返回修改后的图书;补丁为空时不写入,按转换后的ID返回当前图书
	UpdateBook(ctx context.Context, rawID string, patch Patch) (*Book, error)

	// DeleteBook 删除图书,返回被删除的ID
	DeleteBook(ctx context.Context, rawID string) (ID, error)

	// Ping 检查存储连通性
	Ping(ctx context.Context) error
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ListBooks 图书列表
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	books, err := s.repo.List(ctx, MaxListSize)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*Book{}
	}
	return books, nil
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	book, err := s.repo.FindByISBN(ctx, isbn)
	if errors.Is(err, ErrBookNotFound) {
		return nil, NotFoundByISBN(isbn)
	}
	return book, err
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, title, isbn, author string, pages int, editorial *string) (*Book, error) {
	book, err := NewBook(title, isbn, author, pages, editorial)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook 部分更新
func (s *service) UpdateBook(ctx context.Context, rawID string, patch Patch) (*Book, error) {
	// 1. 标识转换,非法标识按不存在处理
	id, err := ParseID(rawID)
	if err != nil {
		return nil, NotFoundByID(rawID)
	}

	// 2. 补丁校验
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	// 3. 空补丁:不写入,直接返回当前状态
	var book *Book
	if patch.IsEmpty() {
		book, err = s.repo.FindByID(ctx, id)
	} else {
		book, err = s.repo.UpdateFields(ctx, id, patch.Fields())
	}
	if errors.Is(err, ErrBookNotFound) {
		return nil, NotFoundByID(rawID)
	}
	return book, err
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, rawID string) (ID, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return ID{}, NotFoundByID(rawID)
	}

	err = s.repo.Delete(ctx, id)
	if errors.Is(err, ErrBookNotFound) {
		return ID{}, NotFoundByID(rawID)
	}
	if err != nil {
		return ID{}, err
	}
	return id, nil
}

// Ping 检查存储连通性
func (s *service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
