package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/xiebiao/booklibrary/internal/domain/book"
)

const ns = "library.books"

func duneDoc(id primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "Dune"},
		{Key: "isbn", Value: "9780441013593"},
		{Key: "author", Value: "Herbert"},
		{Key: "pages", Value: int32(412)},
		{Key: "editorial", Value: "Ace"},
	}
}

// sentCommand 取出最近发出的命令并校验命令名
func sentCommand(mt *mtest.T, name string) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt, "没有发出%s命令", name)
	require.Equal(mt, name, evt.CommandName)
	return evt.Command
}

func TestBookRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("Insert回填生成的ID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewBookRepository(mt.Coll)

		editorial := "Ace"
		b := &book.Book{Title: "Dune", ISBN: "9780441013593", Author: "Herbert", Pages: 412, Editorial: &editorial}
		require.NoError(mt, repo.Insert(ctx, b))
		assert.False(mt, b.ID.IsZero())

		cmd := sentCommand(mt, "insert")
		assert.Equal(mt, b.ID.ObjectID(), cmd.Lookup("documents", "0", "_id").ObjectID())
		assert.Equal(mt, "Ace", cmd.Lookup("documents", "0", "editorial").StringValue())
	})

	mt.Run("Insert失败", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "invalid document",
		}))
		repo := NewBookRepository(mt.Coll)

		err := repo.Insert(ctx, &book.Book{Title: "Dune"})
		assert.Error(mt, err)
	})

	mt.Run("FindByISBN找到", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, duneDoc(id)))
		repo := NewBookRepository(mt.Coll)

		b, err := repo.FindByISBN(ctx, "9780441013593")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), b.ID.String())
		assert.Equal(mt, 412, b.Pages)
		assert.Equal(mt, "Ace", b.EditorialValue())

		cmd := sentCommand(mt, "find")
		assert.Equal(mt, "9780441013593", cmd.Lookup("filter", "isbn").StringValue())
		assert.EqualValues(mt, 1, cmd.Lookup("limit").AsInt64())
	})

	mt.Run("FindByISBN不存在", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewBookRepository(mt.Coll)

		_, err := repo.FindByISBN(ctx, "0000")
		assert.ErrorIs(mt, err, book.ErrBookNotFound)
	})

	mt.Run("FindByID", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, duneDoc(id)))
		repo := NewBookRepository(mt.Coll)

		b, err := repo.FindByID(ctx, book.ID(id))
		require.NoError(mt, err)
		assert.Equal(mt, "Dune", b.Title)

		// _id按ObjectID查询,不是24位十六进制字符串
		filterID := sentCommand(mt, "find").Lookup("filter", "_id")
		require.Equal(mt, bson.TypeObjectID, filterID.Type)
		assert.Equal(mt, id, filterID.ObjectID())
	})

	mt.Run("editorial为null", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		doc := bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Dune Messiah"},
			{Key: "isbn", Value: "9780441172696"},
			{Key: "author", Value: "Herbert"},
			{Key: "pages", Value: int32(256)},
			{Key: "editorial", Value: nil},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc))
		repo := NewBookRepository(mt.Coll)

		b, err := repo.FindByID(ctx, book.ID(id))
		require.NoError(mt, err)
		assert.Nil(mt, b.Editorial)
	})

	mt.Run("List", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			duneDoc(primitive.NewObjectID()),
			duneDoc(primitive.NewObjectID()),
		))
		repo := NewBookRepository(mt.Coll)

		books, err := repo.List(ctx, book.MaxListSize)
		require.NoError(mt, err)
		assert.Len(mt, books, 2)

		cmd := sentCommand(mt, "find")
		assert.EqualValues(mt, 1000, cmd.Lookup("limit").AsInt64())
		filter, err := cmd.Lookup("filter").Document().Elements()
		require.NoError(mt, err)
		assert.Empty(mt, filter)
	})

	mt.Run("List空集合", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewBookRepository(mt.Coll)

		books, err := repo.List(ctx, book.MaxListSize)
		require.NoError(mt, err)
		assert.NotNil(mt, books)
		assert.Empty(mt, books)
	})

	mt.Run("UpdateFields返回修改后的文档", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		updated := duneDoc(id)
		updated[4] = bson.E{Key: "pages", Value: int32(500)}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: updated}})
		repo := NewBookRepository(mt.Coll)

		b, err := repo.UpdateFields(ctx, book.ID(id), map[string]interface{}{book.FieldPages: 500})
		require.NoError(mt, err)
		assert.Equal(mt, 500, b.Pages)
		assert.Equal(mt, "Dune", b.Title)

		cmd := sentCommand(mt, "findAndModify")
		assert.Equal(mt, id, cmd.Lookup("query", "_id").ObjectID())
		assert.EqualValues(mt, 500, cmd.Lookup("update", "$set", "pages").AsInt64())
		assert.True(mt, cmd.Lookup("new").Boolean(), "返回修改后的文档")
	})

	mt.Run("UpdateFields不存在", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})
		repo := NewBookRepository(mt.Coll)

		_, err := repo.UpdateFields(ctx, book.NewID(), map[string]interface{}{book.FieldPages: 1})
		assert.ErrorIs(mt, err, book.ErrBookNotFound)
	})

	mt.Run("Delete成功", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})
		repo := NewBookRepository(mt.Coll)

		id := book.NewID()
		assert.NoError(mt, repo.Delete(ctx, id))

		cmd := sentCommand(mt, "delete")
		assert.Equal(mt, id.ObjectID(), cmd.Lookup("deletes", "0", "q", "_id").ObjectID())
		assert.EqualValues(mt, 1, cmd.Lookup("deletes", "0", "limit").AsInt64())
	})

	mt.Run("Delete不存在", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})
		repo := NewBookRepository(mt.Coll)

		assert.ErrorIs(mt, repo.Delete(ctx, book.NewID()), book.ErrBookNotFound)
	})

	mt.Run("Ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewBookRepository(mt.Coll)

		assert.NoError(mt, repo.Ping(ctx))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "ping", evt.CommandName)
		assert.Equal(mt, "admin", evt.DatabaseName)
	})

	mt.Run("Ping失败", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "command ping requires authentication",
		}))
		repo := NewBookRepository(mt.Coll)

		assert.Error(mt, repo.Ping(ctx))
	})

	mt.Run("EnsureIndexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewBookRepository(mt.Coll)

		assert.NoError(mt, repo.EnsureIndexes(ctx))

		cmd := sentCommand(mt, "createIndexes")
		assert.Equal(mt, "isbn_1", cmd.Lookup("indexes", "0", "name").StringValue())
		_, err := cmd.LookupErr("indexes", "0", "unique")
		assert.Error(mt, err, "ISBN允许重复,不建唯一索引")
	})
}
