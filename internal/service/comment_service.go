package service

import (
	"context"
	"errors"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) Create(ctx context.Context, actor *domain.User, postID uuid.UUID, body string) (*domain.Comment, error) {
	if body == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		PostID:  postID,
		UserID:  actor.ID,
		Author:  actor.FirstName + " " + actor.LastName,
		Comment: body,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor *domain.User, commentID uuid.UUID, body string) (*domain.Comment, error) {
	if body == "" {
		return nil, domain.ErrMissingFields
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, comment.UserID) {
		return nil, domain.ErrForbidden
	}

	comment.Comment = body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actor *domain.User, commentID uuid.UUID) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}

	if !canManage(actor, comment.UserID) {
		return domain.ErrForbidden
	}

	return s.commentRepo.Delete(ctx, commentID)
}

func (s *CommentService) GetByPostID(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	return s.commentRepo.GetByPostID(ctx, postID)
}

func (s *CommentService) getComment(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
