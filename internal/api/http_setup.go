package api

import (
	"blog/internal/entity"
	"blog/internal/service"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	alertHeader       = "X-Blog-Alert"
	alertParamsHeader = "X-Blog-Params"
)

// GetSetup 查询首次安装窗口是否开放
func (h *HTTPHandler) GetSetup(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	open, err := h.setupService.IsFirstSetup(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to evaluate first setup state")
		InternalError(c, "failed to check setup state")
		return
	}
	if !open {
		Forbidden(c, ErrCodeSetupClosed, "setup already completed")
		return
	}

	c.JSON(http.StatusOK, true)
}

// GetSetupUser 查询种子 admin 账号的数据库 id
func (h *HTTPHandler) GetSetupUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id, err := h.setupService.AdminUserID(ctx)
	if err != nil {
		h.renderSetupError(c, err, "failed to look up admin user")
		return
	}

	c.JSON(http.StatusOK, id)
}

// UpdateSetupUser 认领 admin 账号（一次性的核心变更）
func (h *HTTPHandler) UpdateSetupUser(c *gin.Context) {
	var req entity.ManagedUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.setupService.ClaimAdmin(ctx, req)
	if err != nil {
		h.renderSetupError(c, err, "failed to claim admin account")
		return
	}

	c.Header(alertHeader, "userManagement.updated")
	c.Header(alertParamsHeader, updated.Login)
	c.JSON(http.StatusOK, makeUserProfile(updated))
}

// renderSetupError 将安装服务的类型化错误映射到 HTTP 响应
func (h *HTTPHandler) renderSetupError(c *gin.Context, err error, logMessage string) {
	switch {
	case errors.Is(err, service.ErrSetupClosed):
		Forbidden(c, ErrCodeSetupClosed, "setup already completed")
	case errors.Is(err, service.ErrEmailInUse):
		BadRequest(c, ErrCodeEmailExists, "email already used")
	case errors.Is(err, service.ErrLoginInUse):
		BadRequest(c, ErrCodeLoginExists, "login already used")
	case errors.Is(err, service.ErrUserNotFound):
		NotFound(c, ErrCodeUserNotFound, "user not found")
	default:
		logrus.WithError(err).Error(logMessage)
		InternalError(c, logMessage)
	}
}
