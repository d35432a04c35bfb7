package service

import (
	"context"
	"strings"
	"testing"

	"unimarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.ProductComment) error
	getByIDFn       func(context.Context, uint) (*models.ProductComment, error)
	listByProductFn func(context.Context, uint) ([]models.ProductComment, error)
	deleteFn        func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.ProductComment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.ProductComment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByProduct(ctx context.Context, productID uint) ([]models.ProductComment, error) {
	return s.listByProductFn(ctx, productID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.ProductComment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.ProductComment, error) {
			return &models.ProductComment{ID: id, AuthorID: 1, Content: "nice"}, nil
		},
		listByProductFn: func(_ context.Context, _ uint) ([]models.ProductComment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopProductRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, ProductID: 1, Content: "  "})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopProductRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, ProductID: 1, Content: strings.Repeat("y", 1001)})
		assertValidationError(t, err)
	})

	t.Run("deleted product rejected", func(t *testing.T) {
		t.Parallel()
		products := noopProductRepo()
		products.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
			p := &models.Product{ID: id}
			p.DeletedAt.Valid = true
			return p, nil
		}
		svc := NewCommentService(noopCommentRepo(), products)
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, ProductID: 1, Content: "hello"})
		assertAppErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("trims content", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopProductRepo())
		comment, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, ProductID: 1, Content: "  great price  "})
		require.NoError(t, err)
		assert.Equal(t, "great price", comment.Content)
	})
}

func TestCommentService_DeleteComment_AuthorOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewCommentService(noopCommentRepo(), noopProductRepo())

	require.NoError(t, svc.DeleteComment(ctx, 1, 5))
	assertForbiddenError(t, svc.DeleteComment(ctx, 2, 5))
}
