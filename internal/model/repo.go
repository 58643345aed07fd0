package model

import (
	"blog/internal/entity"
	"context"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	ChangeUserPassword(ctx context.Context, login string, passwordHash string) error
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	GetUserByLogin(ctx context.Context, login string) (*entity.DbUser, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	CountUsers(ctx context.Context) (int64, error)

	// 博客
	CreateBlog(ctx context.Context, blog *entity.DbBlog) error
	SaveBlog(ctx context.Context, blog *entity.DbBlog) error
	GetBlog(ctx context.Context, id uint) (*entity.DbBlog, error)
	ListBlogs(ctx context.Context, params *entity.BlogQuery) ([]entity.DbBlog, *entity.Meta, error)
	SearchBlogs(ctx context.Context, query string, params *entity.BlogQuery) ([]entity.DbBlog, *entity.Meta, error)
	DeleteBlog(ctx context.Context, id uint) error
	CountBlogs(ctx context.Context) (int64, error)
}
