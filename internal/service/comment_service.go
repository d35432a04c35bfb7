package service

import (
	"context"
	"strings"

	"unimarket/internal/models"
	"unimarket/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
}

type CreateCommentInput struct {
	AuthorID  uint
	ProductID uint
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
) *CommentService {
	return &CommentService{commentRepo: commentRepo, productRepo: productRepo}
}

const maxCommentLen = 1000

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.ProductComment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.DeletedAt.Valid {
		return nil, models.NewNotFoundError("Product", in.ProductID)
	}

	comment := &models.ProductComment{
		Content:   content,
		ProductID: in.ProductID,
		AuthorID:  in.AuthorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, productID uint) ([]models.ProductComment, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByProduct(ctx, productID)
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
