package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booklibrary/internal/domain/book"
)

func TestBookRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository()

	editorial := "Ace"
	b := &book.Book{Title: "Dune", ISBN: "9780441013593", Author: "Herbert", Pages: 412, Editorial: &editorial}
	require.NoError(t, repo.Insert(ctx, b))
	require.False(t, b.ID.IsZero())

	t.Run("返回副本", func(t *testing.T) {
		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		found.Title = "changed"
		*found.Editorial = "changed"

		again, err := repo.FindByISBN(ctx, b.ISBN)
		require.NoError(t, err)
		assert.Equal(t, "Dune", again.Title)
		assert.Equal(t, "Ace", again.EditorialValue())
	})

	t.Run("更新", func(t *testing.T) {
		updated, err := repo.UpdateFields(ctx, b.ID, book.Patch{Pages: intPtr(500)}.Fields())
		require.NoError(t, err)
		assert.Equal(t, 500, updated.Pages)
		assert.Equal(t, "Dune", updated.Title)
	})

	t.Run("列表上限", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, &book.Book{Title: "Dune Messiah", ISBN: "9780441172696"}))

		books, err := repo.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, b.ID))
		assert.ErrorIs(t, repo.Delete(ctx, b.ID), book.ErrBookNotFound)

		_, err := repo.FindByID(ctx, b.ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		_, err = repo.UpdateFields(ctx, b.ID, map[string]interface{}{book.FieldPages: 1})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestBookRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Insert(ctx, &book.Book{Title: "Dune", ISBN: "9780441013593"})
			_, _ = repo.List(ctx, book.MaxListSize)
		}()
	}
	wg.Wait()

	books, err := repo.List(ctx, book.MaxListSize)
	require.NoError(t, err)
	assert.Len(t, books, 20)
}

func intPtr(i int) *int { return &i }
