package service

import (
	"blog/internal/auth"
	"blog/internal/entity"
	"blog/internal/model"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrSetupClosed 首次安装窗口已关闭（已存在博客记录）
	ErrSetupClosed = errors.New("setup window is closed")
	// ErrEmailInUse 邮箱已被其他账号占用
	ErrEmailInUse = errors.New("email already used")
	// ErrLoginInUse 登录名已被其他账号占用
	ErrLoginInUse = errors.New("login already used")
	// ErrUserNotFound 目标用户不存在
	ErrUserNotFound = errors.New("user not found")
)

// SetupService 首次安装服务，封装 admin 账号认领的业务逻辑。
//
// The provisioning state is derived, not stored: the window is open exactly
// while the blog table is empty. Creating the first blog (through the normal
// CRUD path, by any actor) closes it for good. Bulk-deleting every blog would
// reopen the window for that data set.
type SetupService struct {
	repo model.Repository
}

// NewSetupService 创建首次安装服务实例
func NewSetupService(repo model.Repository) *SetupService {
	return &SetupService{repo: repo}
}

// IsFirstSetup reports whether the one-time setup window is still open.
// Evaluated fresh on every call; never cached.
func (s *SetupService) IsFirstSetup(ctx context.Context) (bool, error) {
	if s == nil || s.repo == nil {
		return false, errors.New("setup service not initialised")
	}
	count, err := s.repo.CountBlogs(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// AdminUserID returns the id of the seeded bootstrap "admin" account.
// A missing seed is a deployment precondition violation and is reported as
// ErrUserNotFound, never repaired here.
func (s *SetupService) AdminUserID(ctx context.Context) (uint, error) {
	if err := s.requireFirstSetup(ctx); err != nil {
		return 0, err
	}

	user, err := s.repo.GetUserByLogin(ctx, entity.AdminLogin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.ID, nil
}

// ClaimAdmin repurposes the seeded admin record to the caller's chosen
// identity. The record keeps its database id; login, email, names, language,
// image and password are replaced, and the resulting account always holds
// exactly {ROLE_ADMIN, ROLE_USER} with activation on.
func (s *SetupService) ClaimAdmin(ctx context.Context, req entity.ManagedUserRequest) (*entity.DbUser, error) {
	if err := s.requireFirstSetup(ctx); err != nil {
		return nil, err
	}

	login := strings.ToLower(strings.TrimSpace(req.Login))
	email := strings.TrimSpace(req.Email)

	if err := s.checkEmailFree(ctx, email, req.ID); err != nil {
		return nil, err
	}
	if err := s.checkLoginFree(ctx, login, req.ID); err != nil {
		return nil, err
	}

	// 无论调用方提交了什么角色/激活状态，结果权限由这里决定
	roles := entity.StringArray{entity.RoleAdmin, entity.RoleUser}
	activated := true

	updates := entity.UserUpdates{
		Login:     &login,
		Email:     &email,
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		ImageURL:  &req.ImageURL,
		LangKey:   &req.LangKey,
		Activated: &activated,
		Roles:     &roles,
	}

	if err := s.repo.UpdateUser(ctx, req.ID, updates); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// 并发认领在唯一索引上落败
			return nil, ErrLoginInUse
		default:
			return nil, err
		}
	}

	// 密码修改是独立的第二次写入，以（可能刚刚变更的）login 为键
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ChangeUserPassword(ctx, login, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updated, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": updated.ID,
		"login":   updated.Login,
	}).Info("admin account claimed")

	return updated, nil
}

// requireFirstSetup 每个安装操作入口处的显式守卫
func (s *SetupService) requireFirstSetup(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return errors.New("setup service not initialised")
	}
	open, err := s.IsFirstSetup(ctx)
	if err != nil {
		return err
	}
	if !open {
		return ErrSetupClosed
	}
	return nil
}

func (s *SetupService) checkEmailFree(ctx context.Context, email string, claimedID uint) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != claimedID {
			return ErrEmailInUse
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func (s *SetupService) checkLoginFree(ctx context.Context, login string, claimedID uint) error {
	existing, err := s.repo.GetUserByLogin(ctx, login)
	switch {
	case err == nil:
		if existing.ID != claimedID {
			return ErrLoginInUse
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}
