package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	apperrors "github.com/xiebiao/booklibrary/pkg/errors"
	"github.com/xiebiao/booklibrary/pkg/metrics"
)

// bookDocument 存储文档
// 设计说明:
// 1. 这是infrastructure层的数据模型,带bson tag
// 2. _id留空时由驱动生成ObjectID
// 3. editorial为nil时存为null
type bookDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	ISBN      string             `bson:"isbn"`
	Author    string             `bson:"author"`
	Pages     int                `bson:"pages"`
	Editorial *string            `bson:"editorial"`
}

// BookRepository 图书仓储实现(MongoDB)
// 每个方法只发一条命令
type BookRepository struct {
	coll *mongo.Collection
}

var _ book.Repository = (*BookRepository)(nil)

// NewBookRepository 创建图书仓储
func NewBookRepository(coll *mongo.Collection) *BookRepository {
	return &BookRepository{coll: coll}
}

// Insert 插入图书,回填驱动生成的ObjectID
func (r *BookRepository) Insert(ctx context.Context, b *book.Book) (err error) {
	defer func() { record("insert", err) }()

	doc := fromEntity(b)
	doc.ID = primitive.NilObjectID

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return apperrors.WrapDatabase(err, "创建图书失败")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return apperrors.WrapDatabase(fmt.Errorf("unexpected inserted id type %T", res.InsertedID), "创建图书失败")
	}
	b.ID = book.ID(oid)
	return nil
}

// FindByISBN 返回第一条ISBN匹配的图书
func (r *BookRepository) FindByISBN(ctx context.Context, isbn string) (b *book.Book, err error) {
	defer func() { record("find_by_isbn", err) }()
	return r.findOne(ctx, bson.M{"isbn": isbn})
}

// FindByID 根据ID查找图书
func (r *BookRepository) FindByID(ctx context.Context, id book.ID) (b *book.Book, err error) {
	defer func() { record("find_by_id", err) }()
	return r.findOne(ctx, bson.M{"_id": id.ObjectID()})
}

func (r *BookRepository) findOne(ctx context.Context, filter bson.M) (*book.Book, error) {
	var doc bookDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDatabase(err, "查询图书失败")
	}
	return doc.toEntity(), nil
}

// List 按存储顺序返回最多limit条
func (r *BookRepository) List(ctx context.Context, limit int) (books []*book.Book, err error) {
	defer func() { record("list", err) }()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, apperrors.WrapDatabase(err, "查询图书列表失败")
	}

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.WrapDatabase(err, "读取图书列表失败")
	}

	books = make([]*book.Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].toEntity())
	}
	return books, nil
}

// UpdateFields $set指定字段并返回修改后的文档
func (r *BookRepository) UpdateFields(ctx context.Context, id book.ID, fields map[string]interface{}) (b *book.Book, err error) {
	defer func() { record("update", err) }()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bookDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id.ObjectID()}, bson.M{"$set": bson.M(fields)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDatabase(err, "更新图书失败")
	}
	return doc.toEntity(), nil
}

// Delete 删除一条记录
func (r *BookRepository) Delete(ctx context.Context, id book.ID) (err error) {
	defer func() { record("delete", err) }()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.ObjectID()})
	if err != nil {
		return apperrors.WrapDatabase(err, "删除图书失败")
	}
	if res.DeletedCount != 1 {
		return book.ErrBookNotFound
	}
	return nil
}

// Ping 在admin库执行ping命令
func (r *BookRepository) Ping(ctx context.Context) (err error) {
	defer func() { record("ping", err) }()

	admin := r.coll.Database().Client().Database("admin")
	return admin.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// EnsureIndexes 创建isbn普通索引(ISBN允许重复,不建唯一索引)
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: options.Index().SetName("isbn_1"),
	})
	if err != nil {
		return fmt.Errorf("创建isbn索引失败: %w", err)
	}
	return nil
}

// record 记录存储指标,查询不到属于正常结果
func record(operation string, err error) {
	if errors.Is(err, book.ErrBookNotFound) {
		err = nil
	}
	metrics.RecordStoreOperation(operation, err)
}

func fromEntity(b *book.Book) bookDocument {
	return bookDocument{
		ID:        b.ID.ObjectID(),
		Title:     b.Title,
		ISBN:      b.ISBN,
		Author:    b.Author,
		Pages:     b.Pages,
		Editorial: b.Editorial,
	}
}

func (d bookDocument) toEntity() *book.Book {
	return &book.Book{
		ID:        book.ID(d.ID),
		Title:     d.Title,
		ISBN:      d.ISBN,
		Author:    d.Author,
		Pages:     d.Pages,
		Editorial: d.Editorial,
	}
}
