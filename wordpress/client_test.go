package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Warnf(format string, args ...interface{})  { l.t.Logf("WARN "+format, args...) }
func (l testLogger) Errorf(format string, args ...interface{}) { l.t.Logf("ERROR "+format, args...) }

func newTestClient(t *testing.T, h http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	base := []Option{WithLogger(testLogger{t}), withClock(func() time.Time { return fixed })}
	return NewClient(srv.URL, append(base, opts...)...), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func lessons(from, n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, map[string]any{
			"slug":  fmt.Sprintf("lesson-%d", i),
			"title": map[string]string{"rendered": fmt.Sprintf("Lesson %d", i)},
			"date":  "2024-01-01T00:00:00",
		})
	}
	return out
}

func TestCollectStopsOnShortPage(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q, want 100", got)
		}
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(t, w, lessons(0, 100))
		case "2":
			writeJSON(t, w, lessons(100, 40))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			writeJSON(t, w, []any{})
		}
	})
	c, _ := newTestClient(t, mux)

	posts := c.GetAllPosts(context.Background())
	if len(posts) != 140 {
		t.Fatalf("len(posts) = %d, want 140", len(posts))
	}
	if calls.Load() != 2 {
		t.Errorf("requests = %d, want 2", calls.Load())
	}
	if posts[0].Slug != "lesson-0" || posts[139].Slug != "lesson-139" {
		t.Errorf("order not preserved: first %q last %q", posts[0].Slug, posts[139].Slug)
	}
}

func TestCollectTreatsLaterPageErrorAsEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writeJSON(t, w, lessons(0, 3))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, mux, withPageSize(3))

	posts := c.GetAllPosts(context.Background())
	if len(posts) != 3 {
		t.Fatalf("len(posts) = %d, want 3", len(posts))
	}
}

func TestCollectFirstPageErrorYieldsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, mux)

	posts := c.GetAllPosts(context.Background())
	if posts == nil || len(posts) != 0 {
		t.Fatalf("posts = %#v, want empty non-nil slice", posts)
	}
}

func TestCollectEmptyFirstPage(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, []any{})
	})
	c, _ := newTestClient(t, mux)

	if posts := c.GetAllPosts(context.Background()); len(posts) != 0 {
		t.Fatalf("len(posts) = %d, want 0", len(posts))
	}
	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
}

func TestGetPostBySlug(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") != "intro" {
			writeJSON(t, w, []any{})
			return
		}
		writeJSON(t, w, []map[string]any{{
			"slug":                 "intro",
			"title":                map[string]string{"rendered": "Intro"},
			"content":              map[string]string{"rendered": "<p>Body</p>"},
			"date":                 "2024-01-05T10:00:00",
			"lesson_category":      []int{7},
			"categories_name":      []string{"Basics"},
			"featured_media_url":   false,
			"category_description": "",
			"meta": map[string]any{
				"_lesson_sections": []any{
					map[string]any{"title": "Setup", "content": "<p>x</p>", "time_to_read": 5},
					"junk",
				},
				"_additional_materials": false,
			},
		}})
	})
	mux.HandleFunc("/wp-json/wp/v2/lesson_category/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"id":   7,
			"name": "Basics",
			"meta": map[string]any{"lesson_category_image": "/img/basics.svg"},
		})
	})
	c, _ := newTestClient(t, mux)

	post, err := c.GetPostBySlug(context.Background(), "intro")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if post == nil {
		t.Fatal("expected post, got nil")
	}
	if post.Category != "Basics" || post.CategoryID != 7 {
		t.Errorf("category = %q/%d, want Basics/7", post.Category, post.CategoryID)
	}
	if post.CategoryImage != "/img/basics.svg" {
		t.Errorf("CategoryImage = %q", post.CategoryImage)
	}
	if post.CoverImage != DefaultCoverImage {
		t.Errorf("CoverImage = %q, want default", post.CoverImage)
	}
	if post.Author.Name != DefaultAuthorName || post.Author.Avatar != DefaultAuthorAvatar {
		t.Errorf("Author = %+v, want defaults", post.Author)
	}
	if post.CategoryDescription != DefaultCategoryDescription {
		t.Errorf("CategoryDescription = %q", post.CategoryDescription)
	}
	if len(post.LessonSections) != 1 || post.LessonSections[0].TimeToRead != "5" {
		t.Errorf("LessonSections = %+v", post.LessonSections)
	}
	if post.AdditionalMaterials == nil || len(post.AdditionalMaterials) != 0 {
		t.Errorf("AdditionalMaterials = %#v, want empty", post.AdditionalMaterials)
	}

	missing, err := c.GetPostBySlug(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetPostBySlug(nope): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown slug, got %+v", missing)
	}
}

func TestGetPostBySlugCategoryFailureKeepsDefaultImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{{
			"slug":            "intro",
			"title":           map[string]string{"rendered": "Intro"},
			"lesson_category": []int{3},
			"meta":            []any{},
		}})
	})
	mux.HandleFunc("/wp-json/wp/v2/lesson_category/3", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	c, _ := newTestClient(t, mux)

	post, err := c.GetPostBySlug(context.Background(), "intro")
	if err != nil || post == nil {
		t.Fatalf("GetPostBySlug = %v, %v", post, err)
	}
	if post.CategoryImage != DefaultCategoryImage {
		t.Errorf("CategoryImage = %q, want default", post.CategoryImage)
	}
	if post.Date != "2024-03-01T12:00:00.000Z" {
		t.Errorf("Date = %q, want clock fallback", post.Date)
	}
}

func TestSlugLookupTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := NewClient(url, WithLogger(testLogger{t}), WithTimeout(time.Second))

	if _, err := c.GetPostBySlug(context.Background(), "intro"); err == nil {
		t.Error("GetPostBySlug: expected error on transport failure")
	}
	if _, err := c.GetRegularPostBySlug(context.Background(), "intro"); err == nil {
		t.Error("GetRegularPostBySlug: expected error on transport failure")
	}
	if _, err := c.GetPageBySlug(context.Background(), "about"); err == nil {
		t.Error("GetPageBySlug: expected error on transport failure")
	}
}

func TestSlugLookupHTTPFailureIsStatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/pages", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadGateway)
	})
	c, _ := newTestClient(t, mux)

	_, err := c.GetPageBySlug(context.Background(), "about")
	se, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("err = %v (%T), want *StatusError", err, err)
	}
	if se.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
}

func TestGetRegularPostBySlugUsesEmbedded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["_embed"]; !ok {
			t.Error("expected _embed parameter")
		}
		writeJSON(t, w, []map[string]any{{
			"slug":    "news",
			"title":   map[string]string{"rendered": "News"},
			"content": map[string]string{"rendered": "<p>hi</p>"},
			"date":    "2024-02-02T00:00:00",
			"_embedded": map[string]any{
				"wp:featuredmedia": []any{map[string]string{"source_url": "/uploads/cover.png"}},
				"author": []any{map[string]any{
					"name":        "Ivan",
					"avatar_urls": map[string]string{"96": "/avatars/ivan.png"},
				}},
			},
		}})
	})
	c, _ := newTestClient(t, mux)

	post, err := c.GetRegularPostBySlug(context.Background(), "news")
	if err != nil || post == nil {
		t.Fatalf("GetRegularPostBySlug = %v, %v", post, err)
	}
	if post.CoverImage != "/uploads/cover.png" {
		t.Errorf("CoverImage = %q", post.CoverImage)
	}
	if post.Author.Name != "Ivan" || post.Author.Avatar != "/avatars/ivan.png" {
		t.Errorf("Author = %+v", post.Author)
	}
}

func TestGetPageBySlug(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/pages", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") != "privacy-policy" {
			writeJSON(t, w, []any{})
			return
		}
		writeJSON(t, w, []map[string]any{{
			"title":           map[string]string{"rendered": "Privacy"},
			"content":         map[string]string{"rendered": "<p>text</p>"},
			"date":            "2024-01-01T00:00:00",
			"yoast_head_json": map[string]any{"title": "Privacy | Site", "robots": map[string]string{"index": "index"}},
		}})
	})
	c, _ := newTestClient(t, mux)

	page, err := c.GetPageBySlug(context.Background(), "privacy-policy")
	if err != nil || page == nil {
		t.Fatalf("GetPageBySlug = %v, %v", page, err)
	}
	if page.SEO == nil || page.SEO.Title != "Privacy | Site" || page.SEO.Robots.Index != "index" {
		t.Errorf("SEO = %+v", page.SEO)
	}
	missing, err := c.GetPageBySlug(context.Background(), "nope")
	if err != nil || missing != nil {
		t.Errorf("GetPageBySlug(nope) = %v, %v, want nil, nil", missing, err)
	}
}

func TestGetPostsByCategoryLimits(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantPer   string
		wantPaged bool
	}{
		{"default", 0, "100", false},
		{"negative", -5, "100", false},
		{"explicit", 12, "12", false},
		{"all", All, "100", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("lesson_category") != "4" || q.Get("orderby") != "date" || q.Get("order") != "asc" {
					t.Errorf("query = %v", q)
				}
				if q.Get("per_page") != tt.wantPer {
					t.Errorf("per_page = %q, want %q", q.Get("per_page"), tt.wantPer)
				}
				if _, paged := q["page"]; paged != tt.wantPaged {
					t.Errorf("page present = %v, want %v", paged, tt.wantPaged)
				}
				writeJSON(t, w, lessons(0, 2))
			})
			c, _ := newTestClient(t, mux)
			if got := c.GetPostsByCategory(context.Background(), 4, tt.limit); len(got) != 2 {
				t.Errorf("len = %d, want 2", len(got))
			}
		})
	}
}

func TestGetRelatedPostsByCategory(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/java-lessons", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("slug_not") != "current" {
			t.Errorf("slug_not = %q", q.Get("slug_not"))
		}
		if q.Get("per_page") != strconv.Itoa(DefaultRelatedLimit) {
			t.Errorf("per_page = %q", q.Get("per_page"))
		}
		writeJSON(t, w, lessons(0, 3))
	})
	c, _ := newTestClient(t, mux)

	links := c.GetRelatedPostsByCategory(context.Background(), 9, "current", 0)
	if len(links) != 3 || links[1].Title != "Lesson 1" {
		t.Errorf("links = %+v", links)
	}
	if got := c.GetRelatedPostsByCategory(context.Background(), 0, "current", 0); len(got) != 0 {
		t.Errorf("category 0 returned %d links", len(got))
	}
	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
}

func TestGetAdjacentPosts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/adjacent-posts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "broken" {
			http.Error(w, "x", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"previous":{"slug":"a","title":"A"},"next":null}`)
	})
	c, _ := newTestClient(t, mux)

	adj := c.GetAdjacentPosts(context.Background(), "b")
	if adj.Previous == nil || adj.Previous.Slug != "a" {
		t.Errorf("Previous = %+v", adj.Previous)
	}
	if adj.Next != nil {
		t.Errorf("Next = %+v, want nil", adj.Next)
	}
	if adj := c.GetAdjacentPosts(context.Background(), "broken"); adj.Previous != nil || adj.Next != nil {
		t.Errorf("failure should yield empty pair, got %+v", adj)
	}
}

func TestCollectStopsAtPageCap(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		writeJSON(t, w, lessons(n, 1))
	}), withPageSize(1))

	posts := c.GetAllPosts(context.Background())
	if got := int(calls.Load()); got != maxPages {
		t.Errorf("requests = %d, want %d", got, maxPages)
	}
	if len(posts) != maxPages {
		t.Fatalf("len(posts) = %d, want %d", len(posts), maxPages)
	}
	if posts[0].Slug != "lesson-1" || posts[maxPages-1].Slug != "lesson-"+strconv.Itoa(maxPages) {
		t.Errorf("first %q last %q", posts[0].Slug, posts[maxPages-1].Slug)
	}
}
