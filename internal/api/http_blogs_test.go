package api

import (
	"blog/internal/entity"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func blogBody(t *testing.T, req entity.BlogRequest) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal blog payload: %v", err)
	}
	return bytes.NewBuffer(data)
}

func TestCreateBlog(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", blogBody(t, entity.BlogRequest{Name: "My Blog", Handle: "myblog"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created entity.DbBlog
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal blog: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected server assigned id")
	}
	if created.Name != "My Blog" || created.Handle != "myblog" {
		t.Fatalf("unexpected blog %+v", created)
	}

	wantLocation := fmt.Sprintf("/api/blogs/%d", created.ID)
	if got := w.Header().Get("Location"); got != wantLocation {
		t.Fatalf("expected Location %q, got %q", wantLocation, got)
	}
	if got := w.Header().Get(alertHeader); got != "blog.created" {
		t.Fatalf("unexpected alert header %q", got)
	}
}

func TestCreateBlogRejectsPresetID(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", blogBody(t, entity.BlogRequest{ID: 7, Name: "My Blog", Handle: "myblog"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to unmarshal error: %v", err)
	}
	if apiErr.Code != ErrCodeIDExists {
		t.Fatalf("expected code %s, got %s", ErrCodeIDExists, apiErr.Code)
	}
	if len(repo.blogs) != 0 {
		t.Fatal("expected no blog to be stored")
	}
}

func TestCreateBlogValidation(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(newTestHandler(t, repo))

	// name 最少三个字符，handle 最少两个
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", blogBody(t, entity.BlogRequest{Name: "ab", Handle: "h"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", w.Code)
	}
}

func TestUpdateBlog(t *testing.T) {
	repo := newFakeRepo()
	existing := seedBlog(t, repo, "Old Name", "oldhandle")
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/blogs", blogBody(t, entity.BlogRequest{ID: existing.ID, Name: "New Name", Handle: "newhandle"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get(alertHeader); got != "blog.updated" {
		t.Fatalf("unexpected alert header %q", got)
	}

	stored := repo.blogs[existing.ID]
	if stored == nil || stored.Name != "New Name" || stored.Handle != "newhandle" {
		t.Fatalf("expected stored blog to be updated, got %+v", stored)
	}
}

func TestUpdateBlogWithoutIDCreates(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/blogs", blogBody(t, entity.BlogRequest{Name: "My Blog", Handle: "myblog"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 when updating without id, got %d", w.Code)
	}
	if len(repo.blogs) != 1 {
		t.Fatalf("expected one stored blog, got %d", len(repo.blogs))
	}
}

func TestListBlogs(t *testing.T) {
	repo := newFakeRepo()
	seedBlog(t, repo, "First Blog", "first")
	seedBlog(t, repo, "Second Blog", "second")
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/blogs?page=1&size=20", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get(totalCountHeader); got != "2" {
		t.Fatalf("expected X-Total-Count 2, got %q", got)
	}
	if link := w.Header().Get(linkHeader); !strings.Contains(link, `rel="last"`) {
		t.Fatalf("expected Link header with last relation, got %q", link)
	}

	var blogs []entity.DbBlog
	if err := json.Unmarshal(w.Body.Bytes(), &blogs); err != nil {
		t.Fatalf("failed to unmarshal list: %v", err)
	}
	if len(blogs) != 2 {
		t.Fatalf("expected 2 blogs, got %d", len(blogs))
	}
}

func TestGetBlog(t *testing.T) {
	repo := newFakeRepo()
	existing := seedBlog(t, repo, "First Blog", "first")
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/blogs/%d", existing.ID), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var blog entity.DbBlog
	if err := json.Unmarshal(w.Body.Bytes(), &blog); err != nil {
		t.Fatalf("failed to unmarshal blog: %v", err)
	}
	if blog.ID != existing.ID || blog.Name != "First Blog" {
		t.Fatalf("unexpected blog %+v", blog)
	}
}

func TestGetBlogNotFound(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/blogs/999", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to unmarshal error: %v", err)
	}
	if apiErr.Code != ErrCodeBlogNotFound {
		t.Fatalf("expected code %s, got %s", ErrCodeBlogNotFound, apiErr.Code)
	}
}

func TestGetBlogInvalidID(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/blogs/notanumber", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeleteBlogIdempotent(t *testing.T) {
	repo := newFakeRepo()
	existing := seedBlog(t, repo, "First Blog", "first")
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/blogs/%d", existing.ID), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(repo.blogs) != 0 {
		t.Fatal("expected blog to be removed")
	}

	// 再次删除同一 id 仍然成功
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/blogs/%d", existing.ID), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat delete, got %d", w.Code)
	}
}

func TestDeleteBlogReopensSetup(t *testing.T) {
	repo := newFakeRepo()
	seedAdmin(t, repo)
	existing := seedBlog(t, repo, "First Blog", "first")
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/setup", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected setup closed while blog exists, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/blogs/%d", existing.ID), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", w.Code)
	}

	// 安装状态是派生的：最后一条博客删除后窗口重新打开
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/setup", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected setup reopened after last blog removed, got %d", w.Code)
	}
}

func TestSearchBlogs(t *testing.T) {
	repo := newFakeRepo()
	seedBlog(t, repo, "Golang Weekly", "golang")
	seedBlog(t, repo, "Cooking Diary", "cooking")
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/_search/blogs?query=golang", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get(totalCountHeader); got != "1" {
		t.Fatalf("expected X-Total-Count 1, got %q", got)
	}
	if link := w.Header().Get(linkHeader); !strings.Contains(link, "query=golang") {
		t.Fatalf("expected query to be carried in Link header, got %q", link)
	}

	var blogs []entity.DbBlog
	if err := json.Unmarshal(w.Body.Bytes(), &blogs); err != nil {
		t.Fatalf("failed to unmarshal list: %v", err)
	}
	if len(blogs) != 1 || blogs[0].Handle != "golang" {
		t.Fatalf("unexpected search result %+v", blogs)
	}
}

func TestSearchBlogsRequiresQuery(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(newTestHandler(t, repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/_search/blogs", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without query, got %d", w.Code)
	}
}
