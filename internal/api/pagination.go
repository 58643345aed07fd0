package api

import (
	"blog/internal/entity"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	totalCountHeader = "X-Total-Count"
	linkHeader       = "Link"
)

// setPaginationHeaders 写入总数与 Link 导航头
func setPaginationHeaders(c *gin.Context, meta *entity.Meta, basePath string, extraParams map[string]string) {
	if meta == nil {
		return
	}
	c.Header(totalCountHeader, strconv.FormatInt(meta.Total, 10))
	if link := buildLinkHeader(meta, basePath, extraParams); link != "" {
		c.Header(linkHeader, link)
	}
}

// buildLinkHeader assembles the RFC 5988 style Link header with
// next/prev/first/last relations for a 1-based page window.
func buildLinkHeader(meta *entity.Meta, basePath string, extraParams map[string]string) string {
	if meta == nil || meta.PageSize <= 0 {
		return ""
	}

	lastPage := meta.Total / meta.PageSize
	if meta.Total%meta.PageSize != 0 {
		lastPage++
	}
	if lastPage < 1 {
		lastPage = 1
	}

	var links []string
	appendLink := func(page int64, rel string) {
		links = append(links, fmt.Sprintf("<%s>; rel=\"%s\"", pageURL(basePath, page, meta.PageSize, extraParams), rel))
	}

	if meta.Page < lastPage {
		appendLink(meta.Page+1, "next")
	}
	if meta.Page > 1 {
		appendLink(meta.Page-1, "prev")
	}
	appendLink(lastPage, "last")
	appendLink(1, "first")

	return strings.Join(links, ",")
}

func pageURL(basePath string, page, size int64, extraParams map[string]string) string {
	params := url.Values{}
	for key, value := range extraParams {
		params.Set(key, value)
	}
	params.Set("page", strconv.FormatInt(page, 10))
	params.Set("size", strconv.FormatInt(size, 10))
	return basePath + "?" + params.Encode()
}

// bindPageParams 读取分页查询参数并套用默认值与上限
func bindPageParams(c *gin.Context, params *entity.BaseParams) error {
	if err := c.ShouldBindQuery(params); err != nil {
		return err
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}
	return nil
}
