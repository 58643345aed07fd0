package api

import (
	"blog/internal/config"
	"blog/internal/entity"
	"context"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// fakeRepo 是一个内存 model.Repository，用于在没有数据库的情况下
// 测试 HTTP 层行为。
type fakeRepo struct {
	users      map[uint]*entity.DbUser
	blogs      map[uint]*entity.DbBlog
	nextUserID uint
	nextBlogID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[uint]*entity.DbUser),
		blogs: make(map[uint]*entity.DbBlog),
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, user *entity.DbUser) error {
	if user.ID == 0 {
		f.nextUserID++
		user.ID = f.nextUserID
	} else if user.ID > f.nextUserID {
		f.nextUserID = user.ID
	}
	for _, existing := range f.users {
		if strings.EqualFold(existing.Login, user.Login) || strings.EqualFold(existing.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, id uint, updates entity.UserUpdates) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.Login != nil {
		for otherID, other := range f.users {
			if otherID != id && strings.EqualFold(other.Login, *updates.Login) {
				return gorm.ErrDuplicatedKey
			}
		}
		user.Login = *updates.Login
	}
	if updates.Email != nil {
		for otherID, other := range f.users {
			if otherID != id && strings.EqualFold(other.Email, *updates.Email) {
				return gorm.ErrDuplicatedKey
			}
		}
		user.Email = *updates.Email
	}
	if updates.FirstName != nil {
		user.FirstName = *updates.FirstName
	}
	if updates.LastName != nil {
		user.LastName = *updates.LastName
	}
	if updates.ImageURL != nil {
		user.ImageURL = *updates.ImageURL
	}
	if updates.LangKey != nil {
		user.LangKey = *updates.LangKey
	}
	if updates.Activated != nil {
		user.Activated = *updates.Activated
	}
	if updates.Roles != nil {
		user.Roles = *updates.Roles
	}
	return nil
}

func (f *fakeRepo) ChangeUserPassword(_ context.Context, login string, passwordHash string) error {
	for _, user := range f.users {
		if user.Login == strings.ToLower(login) {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeRepo) GetUserByLogin(_ context.Context, login string) (*entity.DbUser, error) {
	for _, user := range f.users {
		if user.Login == login {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CountUsers(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeRepo) CreateBlog(_ context.Context, blog *entity.DbBlog) error {
	f.nextBlogID++
	blog.ID = f.nextBlogID
	clone := *blog
	f.blogs[blog.ID] = &clone
	return nil
}

func (f *fakeRepo) SaveBlog(_ context.Context, blog *entity.DbBlog) error {
	if blog.ID == 0 {
		return f.CreateBlog(context.Background(), blog)
	}
	if blog.ID > f.nextBlogID {
		f.nextBlogID = blog.ID
	}
	clone := *blog
	f.blogs[blog.ID] = &clone
	return nil
}

func (f *fakeRepo) GetBlog(_ context.Context, id uint) (*entity.DbBlog, error) {
	blog, ok := f.blogs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *blog
	return &clone, nil
}

func (f *fakeRepo) ListBlogs(_ context.Context, params *entity.BlogQuery) ([]entity.DbBlog, *entity.Meta, error) {
	return f.collectBlogs(""), f.metaFor(params, int64(len(f.blogs))), nil
}

func (f *fakeRepo) SearchBlogs(_ context.Context, query string, params *entity.BlogQuery) ([]entity.DbBlog, *entity.Meta, error) {
	matched := f.collectBlogs(query)
	return matched, f.metaFor(params, int64(len(matched))), nil
}

func (f *fakeRepo) collectBlogs(keyword string) []entity.DbBlog {
	out := make([]entity.DbBlog, 0, len(f.blogs))
	kw := strings.ToLower(strings.TrimSpace(keyword))
	for _, blog := range f.blogs {
		if kw != "" &&
			!strings.Contains(strings.ToLower(blog.Name), kw) &&
			!strings.Contains(strings.ToLower(blog.Handle), kw) {
			continue
		}
		out = append(out, *blog)
	}
	return out
}

func (f *fakeRepo) metaFor(params *entity.BlogQuery, total int64) *entity.Meta {
	meta := &entity.Meta{Page: 1, PageSize: 20, Total: total}
	if params != nil {
		if params.Page > 0 {
			meta.Page = params.Page
		}
		if params.PageSize > 0 {
			meta.PageSize = params.PageSize
		}
	}
	return meta
}

func (f *fakeRepo) DeleteBlog(_ context.Context, id uint) error {
	delete(f.blogs, id)
	return nil
}

func (f *fakeRepo) CountBlogs(_ context.Context) (int64, error) {
	return int64(len(f.blogs)), nil
}

func newTestHandler(t *testing.T, repo *fakeRepo) *HTTPHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 60,
	}
	handler, err := NewHTTPHandler(cfg, repo, nil)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return handler
}

// newTestRouter 以与生产环境相同的路由布局挂载处理器。
func newTestRouter(handler *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	apiGroup := r.Group("/api")
	apiGroup.GET("/setup", handler.GetSetup)
	apiGroup.GET("/setup/user", handler.GetSetupUser)
	apiGroup.PUT("/setup/user", handler.UpdateSetupUser)

	apiGroup.POST("/authenticate", handler.Authenticate)

	protected := apiGroup.Group("")
	protected.Use(handler.AuthMiddleware())
	protected.GET("/account", handler.Account)

	apiGroup.POST("/blogs", handler.CreateBlog)
	apiGroup.PUT("/blogs", handler.UpdateBlog)
	apiGroup.GET("/blogs", handler.ListBlogs)
	apiGroup.GET("/blogs/:id", handler.GetBlog)
	apiGroup.DELETE("/blogs/:id", handler.DeleteBlog)
	apiGroup.GET("/_search/blogs", handler.SearchBlogs)

	return r
}

func seedAdmin(t *testing.T, repo *fakeRepo) *entity.DbUser {
	t.Helper()
	admin := &entity.DbUser{
		ID:        42,
		Login:     entity.AdminLogin,
		Email:     "admin@localhost",
		Activated: true,
		Roles:     entity.StringArray{entity.RoleAdmin, entity.RoleUser},
	}
	if err := repo.CreateUser(context.Background(), admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return admin
}

func seedBlog(t *testing.T, repo *fakeRepo, name, handle string) *entity.DbBlog {
	t.Helper()
	blog := &entity.DbBlog{Name: name, Handle: handle}
	if err := repo.CreateBlog(context.Background(), blog); err != nil {
		t.Fatalf("failed to seed blog: %v", err)
	}
	return blog
}
