package sql

import (
	"blog/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreateBlog persists a new blog record.
func (r *GormRepository) CreateBlog(ctx context.Context, blog *entity.DbBlog) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if blog == nil {
		return fmt.Errorf("blog is nil")
	}
	return r.db.WithContext(ctx).Create(blog).Error
}

// SaveBlog writes the full blog record, inserting when the id is new.
func (r *GormRepository) SaveBlog(ctx context.Context, blog *entity.DbBlog) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if blog == nil {
		return fmt.Errorf("blog is nil")
	}
	return r.db.WithContext(ctx).Save(blog).Error
}

// GetBlog loads a blog by ID.
func (r *GormRepository) GetBlog(ctx context.Context, id uint) (*entity.DbBlog, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var blog entity.DbBlog
	if err := r.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// ListBlogs returns paginated blogs.
func (r *GormRepository) ListBlogs(ctx context.Context, params *entity.BlogQuery) ([]entity.DbBlog, *entity.Meta, error) {
	return r.queryBlogs(ctx, "", params)
}

// SearchBlogs returns paginated blogs whose name or handle matches the query,
// case-insensitively.
func (r *GormRepository) SearchBlogs(ctx context.Context, query string, params *entity.BlogQuery) ([]entity.DbBlog, *entity.Meta, error) {
	return r.queryBlogs(ctx, query, params)
}

func (r *GormRepository) queryBlogs(ctx context.Context, keyword string, params *entity.BlogQuery) ([]entity.DbBlog, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbBlog{})
	if trimmed := strings.TrimSpace(keyword); trimmed != "" {
		kw := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(handle) LIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var blogs []entity.DbBlog
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&blogs).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return blogs, meta, nil
}

// DeleteBlog removes a blog by ID. Deleting an absent id is not an error.
func (r *GormRepository) DeleteBlog(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid blog id")
	}
	return r.db.WithContext(ctx).Delete(&entity.DbBlog{}, id).Error
}

// CountBlogs returns total blog count.
func (r *GormRepository) CountBlogs(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbBlog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
