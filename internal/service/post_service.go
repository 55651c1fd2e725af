package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/repository"
)

type CreatePostInput struct {
	Title    string `validate:"required,max=255"`
	Content  string `validate:"required"`
	AuthorID string `validate:"required,uuid"`
}

type ChangePostInput struct {
	Title   *string `validate:"omitempty,min=1,max=255"`
	Content *string `validate:"omitempty,min=1"`
}

// PostService 帖子写操作
type PostService interface {
	Create(ctx context.Context, in CreatePostInput) (*model.Post, error)
	Change(ctx context.Context, id string, in ChangePostInput) (*model.Post, error)
	Delete(ctx context.Context, id string) (*model.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) PostService {
	return &postService{postRepo: postRepo, userRepo: userRepo}
}

func (s *postService) Create(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.AuthorID); err != nil {
		return nil, notFound(err, "author")
	}
	p := &model.Post{ID: uuid.New().String(), Title: in.Title, Content: in.Content, AuthorID: in.AuthorID}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *postService) Change(ctx context.Context, id string, in ChangePostInput) (*model.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if err := s.postRepo.Update(ctx, id, fields); err != nil {
		return nil, notFound(err, "post")
	}
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post")
	}
	return p, nil
}

// Delete 返回被删除的帖子，调用方据此清理作者维度的缓存
func (s *postService) Delete(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post")
	}
	found, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return p, nil
}
