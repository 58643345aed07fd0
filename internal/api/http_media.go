package api

import (
	"blog/internal/storage"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 头像等图片上传的大小上限
const maxMediaUploadBytes = 8 << 20

// UploadMedia 接收 multipart 文件并写入对象存储，返回可用于
// 用户资料 image_url 字段的公开地址。
func (h *HTTPHandler) UploadMedia(c *gin.Context) {
	if h.storage == nil {
		ServiceUnavailable(c, "media storage not available")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "file field is required")
		return
	}
	if fileHeader.Size > maxMediaUploadBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxMediaUploadBytes+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	if len(data) == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "file is empty")
		return
	}
	if len(data) > maxMediaUploadBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file is too large")
		return
	}

	ext := strings.TrimPrefix(path.Ext(fileHeader.Filename), ".")

	// 以内容哈希为文件名，重复上传同一文件时直接复用已有对象
	sum := md5.Sum(data)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	storedPath, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:     "avatars",
		Extension:    ext,
		BaseName:     hex.EncodeToString(sum[:]),
		SkipIfExists: true,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to persist uploaded file")
		InternalError(c, "failed to store upload")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": storedPath,
		"url":  h.publicURL(storedPath),
	})
}

func (h *HTTPHandler) publicURL(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	base := h.storagePublicBase
	if base == "" {
		base = "/files"
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(trimmed, "/"))
}
