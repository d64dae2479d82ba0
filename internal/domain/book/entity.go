package book

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxListSize 列表接口单次返回的最大记录数(不分页)
const MaxListSize = 1000

// ID 图书标识
// 存储层原生主键是12字节的ObjectID,对外以24位十六进制字符串表示
type ID [12]byte

// NewID 生成新的标识(供不自动分配主键的存储实现使用)
func NewID() ID {
	return ID(primitive.NewObjectID())
}

// ParseID 外部字符串 → 存储主键
// 这是标识转换的唯一入口:更新、空更新回查、删除都必须经过这里。
// 不是合法ObjectID的字符串不可能匹配任何记录,返回ErrInvalidID(按"不存在"处理)
func ParseID(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, ErrInvalidID
	}
	return ID(oid), nil
}

// ObjectID 转为mongo驱动的ObjectID
func (id ID) ObjectID() primitive.ObjectID {
	return primitive.ObjectID(id)
}

// IsZero 是否尚未分配
func (id ID) IsZero() bool {
	return id == ID{}
}

func (id ID) String() string {
	return primitive.ObjectID(id).Hex()
}

// Book 图书实体
// 设计说明:
// 1. ID由存储层在插入时分配,创建后不可修改,也从不取自客户端
// 2. ISBN不保证唯一,允许重复
// 3. Editorial可为空(nil表示未提供)
type Book struct {
	ID        ID
	Title     string
	ISBN      string
	Author    string
	Pages     int
	Editorial *string
}

// NewBook 创建新图书(工厂方法)
// 业务规则:书名不能为空
func NewBook(title, isbn, author string, pages int, editorial *string) (*Book, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &Book{
		Title:     title,
		ISBN:      isbn,
		Author:    author,
		Pages:     pages,
		Editorial: editorial,
	}, nil
}

// EditorialValue 出版社(未设置时返回空串)
func (b *Book) EditorialValue() string {
	if b.Editorial == nil {
		return ""
	}
	return *b.Editorial
}
