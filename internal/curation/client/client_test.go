package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lunahq/curator/internal/curation"
)

func TestFetchImagesSendsPersonaAndFilter(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/curation/images" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = map[string]string{
			"persona":       r.URL.Query().Get("persona"),
			"filter_status": r.URL.Query().Get("filter_status"),
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]any{
				{"path": "a.png", "filename": "a.png", "status": "pending"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "velvet")
	images, err := c.FetchImages(context.Background(), curation.FilterPending)
	if err != nil {
		t.Fatalf("FetchImages: %v", err)
	}
	if gotQuery["persona"] != "velvet" || gotQuery["filter_status"] != "pending" {
		t.Fatalf("wrong query: %v", gotQuery)
	}
	if len(images) != 1 || images[0].Path != "a.png" {
		t.Fatalf("unexpected images: %+v", images)
	}
	if images[0].Scored() {
		t.Fatalf("image without score must report unscored")
	}
}

func TestFetchImagesRejectsUnknownFilter(t *testing.T) {
	c := New("http://unused.local", "velvet")
	if _, err := c.FetchImages(context.Background(), curation.Filter("bogus")); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestRejectSerializesDeleteFlag(t *testing.T) {
	for _, del := range []bool{true, false} {
		var got struct {
			ImagePath string `json:"image_path"`
			Delete    bool   `json:"delete"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode body: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		}))
		c := New(srv.URL, "velvet")
		if err := c.Reject(context.Background(), "b.png", del); err != nil {
			t.Fatalf("Reject(%v): %v", del, err)
		}
		srv.Close()
		if got.ImagePath != "b.png" {
			t.Fatalf("wrong image_path %q", got.ImagePath)
		}
		if got.Delete != del {
			t.Fatalf("delete = %v, want %v", got.Delete, del)
		}
	}
}

func TestScoreDecodesVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ImagePath string `json:"image_path"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.ImagePath != "c.png" {
			t.Errorf("wrong image_path %q", body.ImagePath)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"score":          91.5,
			"recommendation": "approve",
			"issues":         []string{},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "velvet")
	res, err := c.Score(context.Background(), "c.png")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Score != 91.5 || res.Recommendation != curation.RecommendApprove {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestResetScoresReturnsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/curation/reset-scores" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("persona") != "velvet" {
			t.Errorf("missing persona query")
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"reset": 17})
	}))
	defer srv.Close()

	c := New(srv.URL, "velvet")
	n, err := c.ResetScores(context.Background())
	if err != nil {
		t.Fatalf("ResetScores: %v", err)
	}
	if n != 17 {
		t.Fatalf("reset count = %d, want 17", n)
	}
}

func TestNonOKStatusSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "persona not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "velvet")
	if _, err := c.FetchStats(context.Background()); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestMalformedBodySurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, "velvet")
	if _, err := c.FetchStats(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
