package api

import (
	"blog/internal/entity"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateBlog 新建博客。携带 id 的请求视为客户端错误。
func (h *HTTPHandler) CreateBlog(c *gin.Context) {
	var req entity.BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.ID != 0 {
		BadRequest(c, ErrCodeIDExists, "a new blog cannot already have an id")
		return
	}

	h.createBlogFromRequest(c, req)
}

// UpdateBlog 更新博客。没有 id 时退化为新建。
func (h *HTTPHandler) UpdateBlog(c *gin.Context) {
	var req entity.BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.ID == 0 {
		h.createBlogFromRequest(c, req)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blog := &entity.DbBlog{
		ID:     req.ID,
		Name:   strings.TrimSpace(req.Name),
		Handle: strings.TrimSpace(req.Handle),
	}
	if err := h.repo.SaveBlog(ctx, blog); err != nil {
		logrus.WithError(err).WithField("blog_id", req.ID).Error("failed to update blog")
		InternalError(c, "failed to update blog")
		return
	}

	c.Header(alertHeader, "blog.updated")
	c.Header(alertParamsHeader, strconv.FormatUint(uint64(blog.ID), 10))
	c.JSON(http.StatusOK, blog)
}

func (h *HTTPHandler) createBlogFromRequest(c *gin.Context, req entity.BlogRequest) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blog := &entity.DbBlog{
		Name:   strings.TrimSpace(req.Name),
		Handle: strings.TrimSpace(req.Handle),
	}
	if err := h.repo.CreateBlog(ctx, blog); err != nil {
		logrus.WithError(err).Error("failed to create blog")
		InternalError(c, "failed to create blog")
		return
	}

	c.Header("Location", fmt.Sprintf("/api/blogs/%d", blog.ID))
	c.Header(alertHeader, "blog.created")
	c.Header(alertParamsHeader, strconv.FormatUint(uint64(blog.ID), 10))
	c.JSON(http.StatusCreated, blog)
}

// ListBlogs 分页列出博客
func (h *HTTPHandler) ListBlogs(c *gin.Context) {
	var query entity.BlogQuery
	if err := bindPageParams(c, &query.BaseParams); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blogs, meta, err := h.repo.ListBlogs(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list blogs")
		InternalError(c, "failed to load blogs")
		return
	}

	setPaginationHeaders(c, meta, "/api/blogs", nil)
	c.JSON(http.StatusOK, blogs)
}

// GetBlog 按 id 查询博客
func (h *HTTPHandler) GetBlog(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blog, err := h.repo.GetBlog(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeBlogNotFound, "blog not found")
			return
		}
		logrus.WithError(err).WithField("blog_id", id).Error("failed to load blog")
		InternalError(c, "failed to load blog")
		return
	}

	c.JSON(http.StatusOK, blog)
}

// DeleteBlog 按 id 删除博客，幂等
func (h *HTTPHandler) DeleteBlog(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteBlog(ctx, id); err != nil {
		logrus.WithError(err).WithField("blog_id", id).Error("failed to delete blog")
		InternalError(c, "failed to delete blog")
		return
	}

	c.Header(alertHeader, "blog.deleted")
	c.Header(alertParamsHeader, strconv.FormatUint(uint64(id), 10))
	c.Status(http.StatusOK)
}

// SearchBlogs 按关键词搜索博客，结果分页
func (h *HTTPHandler) SearchBlogs(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("query"))
	if keyword == "" {
		BadRequest(c, ErrCodeInvalidRequest, "query parameter is required")
		return
	}

	var query entity.BlogQuery
	if err := bindPageParams(c, &query.BaseParams); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blogs, meta, err := h.repo.SearchBlogs(ctx, keyword, &query)
	if err != nil {
		logrus.WithError(err).WithField("query", keyword).Error("failed to search blogs")
		InternalError(c, "failed to search blogs")
		return
	}

	setPaginationHeaders(c, meta, "/api/_search/blogs", map[string]string{"query": keyword})
	c.JSON(http.StatusOK, blogs)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	idValue := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(idValue, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid blog id")
		return 0, false
	}
	return uint(id), true
}
