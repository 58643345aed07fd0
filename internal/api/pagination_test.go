package api

import (
	"blog/internal/entity"
	"strings"
	"testing"
)

func TestBuildLinkHeader(t *testing.T) {
	tests := []struct {
		name        string
		meta        entity.Meta
		wantRels    []string
		notWantRels []string
	}{
		{
			name:        "first page of many",
			meta:        entity.Meta{Page: 1, PageSize: 20, Total: 45},
			wantRels:    []string{`rel="next"`, `rel="last"`, `rel="first"`},
			notWantRels: []string{`rel="prev"`},
		},
		{
			name:        "middle page",
			meta:        entity.Meta{Page: 2, PageSize: 20, Total: 45},
			wantRels:    []string{`rel="next"`, `rel="prev"`, `rel="last"`, `rel="first"`},
			notWantRels: nil,
		},
		{
			name:        "last page",
			meta:        entity.Meta{Page: 3, PageSize: 20, Total: 45},
			wantRels:    []string{`rel="prev"`, `rel="last"`, `rel="first"`},
			notWantRels: []string{`rel="next"`},
		},
		{
			name:        "single page",
			meta:        entity.Meta{Page: 1, PageSize: 20, Total: 5},
			wantRels:    []string{`rel="last"`, `rel="first"`},
			notWantRels: []string{`rel="next"`, `rel="prev"`},
		},
		{
			name:        "empty result still links page one",
			meta:        entity.Meta{Page: 1, PageSize: 20, Total: 0},
			wantRels:    []string{`rel="last"`, `rel="first"`},
			notWantRels: []string{`rel="next"`, `rel="prev"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := buildLinkHeader(&tt.meta, "/api/blogs", nil)
			for _, rel := range tt.wantRels {
				if !strings.Contains(link, rel) {
					t.Errorf("expected %s in %q", rel, link)
				}
			}
			for _, rel := range tt.notWantRels {
				if strings.Contains(link, rel) {
					t.Errorf("did not expect %s in %q", rel, link)
				}
			}
		})
	}
}

func TestBuildLinkHeaderCarriesExtraParams(t *testing.T) {
	meta := entity.Meta{Page: 1, PageSize: 20, Total: 45}
	link := buildLinkHeader(&meta, "/api/_search/blogs", map[string]string{"query": "golang"})

	if !strings.Contains(link, "query=golang") {
		t.Fatalf("expected query parameter carried through, got %q", link)
	}
	if !strings.Contains(link, "page=2") {
		t.Fatalf("expected next page target, got %q", link)
	}
}

func TestBuildLinkHeaderNilMeta(t *testing.T) {
	if link := buildLinkHeader(nil, "/api/blogs", nil); link != "" {
		t.Fatalf("expected empty link for nil meta, got %q", link)
	}
}
