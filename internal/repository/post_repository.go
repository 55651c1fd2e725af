package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	// ListByAuthorIDs 批量查询多个作者的帖子，按 (created_at, id) 排序
	ListByAuthorIDs(ctx context.Context, authorIDs []string) ([]*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return updateByID(ctx, r.db, &model.Post{}, id, fields)
}

func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, &model.Post{}, id)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&res).Error
	return res, err
}

func (r *postRepository) ListByAuthorIDs(ctx context.Context, authorIDs []string) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var res []*model.Post
	err := r.db.WithContext(ctx).Where("author_id IN ?", authorIDs).Order("created_at, id").Find(&res).Error
	return res, err
}
