package service

import (
	"context"
	"errors"
	"log"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/repository"
	"github.com/devhire/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	imageStore  storage.ImageStore
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, imageStore storage.ImageStore) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		imageStore:  imageStore,
	}
}

type PostInput struct {
	Title       string
	Description string
	Image       string // data URI, or empty to keep the current image
	Tags        []string
}

func (in *PostInput) validate() error {
	if in.Title == "" || in.Description == "" || len(in.Tags) == 0 {
		return domain.ErrMissingFields
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, actor *domain.User, input PostInput) (*domain.Post, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tags, err := marshalJSONStrings(input.Tags)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:       input.Title,
		Description: input.Description,
		Tags:        tags,
		Username:    actor.FirstName + " " + actor.LastName,
		UserID:      actor.ID,
	}

	if input.Image != "" {
		upload, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = upload.URL
		post.ImageKey = upload.Key
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *PostService) Update(ctx context.Context, actor *domain.User, postID uuid.UUID, input PostInput) (*domain.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, post.UserID) {
		return nil, domain.ErrForbidden
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	tags, err := marshalJSONStrings(input.Tags)
	if err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Description = input.Description
	post.Tags = tags

	// A new image replaces the stored object; an empty field keeps it.
	if input.Image != "" {
		if post.ImageKey != "" {
			if err := s.imageStore.Delete(ctx, post.ImageKey); err != nil {
				log.Printf("ERROR [post.Update] failed to delete previous image %s: %v", post.ImageKey, err)
			}
		}
		upload, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = upload.URL
		post.ImageKey = upload.Key
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes the post, its stored image and its comments.
func (s *PostService) Delete(ctx context.Context, actor *domain.User, postID uuid.UUID) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	if !canManage(actor, post.UserID) {
		return domain.ErrForbidden
	}

	if post.ImageKey != "" {
		if err := s.imageStore.Delete(ctx, post.ImageKey); err != nil {
			log.Printf("ERROR [post.Delete] failed to delete image %s: %v", post.ImageKey, err)
		}
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	return s.commentRepo.DeleteByPostID(ctx, postID)
}

func (s *PostService) GetAll(ctx context.Context, titleFilter string) ([]*domain.Post, error) {
	return s.postRepo.GetAll(ctx, titleFilter)
}

func (s *PostService) GetByID(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	return s.getPost(ctx, postID)
}

func (s *PostService) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID)
}

func (s *PostService) getPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) uploadImage(ctx context.Context, dataURI string) (domain.Upload, error) {
	data, contentType, err := storage.DecodeDataURI(dataURI)
	if err != nil {
		return domain.Upload{}, domain.ErrMissingFields
	}
	return s.imageStore.Upload(ctx, "post-images", data, contentType)
}
