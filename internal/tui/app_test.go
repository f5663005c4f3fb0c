package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lunahq/curator/internal/config"
	"github.com/lunahq/curator/internal/curation"
	"github.com/lunahq/curator/internal/curation/client"
	"github.com/lunahq/curator/internal/logbook"
	"github.com/lunahq/curator/internal/review"
)

type testBackend struct {
	images     []curation.Image
	stats      curation.Stats
	lastFilter string
}

func (b *testBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/curation/images", func(w http.ResponseWriter, r *http.Request) {
		b.lastFilter = r.URL.Query().Get("filter_status")
		_ = json.NewEncoder(w).Encode(map[string]any{"images": b.images})
	})
	mux.HandleFunc("/api/curation/stats", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(b.stats)
	})
	mux.HandleFunc("/api/curation/approve", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/curation/reject", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestApp(t *testing.T, backend *testBackend) *App {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	book, err := logbook.New(filepath.Join(t.TempDir(), "curation.log"), "CURATION")
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	desk := review.NewDesk(client.New(srv.URL, "velvet"), book)
	app := NewApp(cfg, desk, book)
	desk.Refresh(context.Background())
	app.applySnapshot()
	return app
}

func scoreOf(v float64) *float64 { return &v }

func approvedImage(path string) curation.Image {
	rec := curation.RecommendApprove
	face := 92.0
	return curation.Image{
		Path: path, Filename: filepath.Base(path),
		Status: curation.StatusApproved,
		Score:  scoreOf(95), Recommendation: &rec, FaceMatch: &face,
	}
}

func pendingImage(path string) curation.Image {
	return curation.Image{Path: path, Filename: filepath.Base(path), Status: curation.StatusPending}
}

func selectPath(t *testing.T, app *App, path string) {
	t.Helper()
	for i, it := range app.imageList.Items() {
		if it.(imageItem).img.Path == path {
			app.imageList.Select(i)
			return
		}
	}
	t.Fatalf("path %s not in list", path)
}

func TestUnscoredImageRendersNotScoredAndNoSubScores(t *testing.T) {
	backend := &testBackend{images: []curation.Image{pendingImage("p.png")}}
	app := newTestApp(t, backend)
	selectPath(t, app, "p.png")

	item := app.imageList.SelectedItem().(imageItem)
	if !strings.Contains(item.Title(), "Not scored") {
		t.Fatalf("unscored row title = %q, missing Not scored badge", item.Title())
	}
	detail := app.renderDetailPanel(60)
	for _, sub := range []string{"face", "hair", "body", "Score"} {
		if strings.Contains(detail, sub) {
			t.Fatalf("unscored detail must not render %q:\n%s", sub, detail)
		}
	}
}

func TestDetailPanelHidesActionsForApprovedImages(t *testing.T) {
	backend := &testBackend{images: []curation.Image{
		approvedImage("done.png"),
		pendingImage("todo.png"),
	}}
	app := newTestApp(t, backend)

	selectPath(t, app, "done.png")
	detail := app.renderDetailPanel(60)
	if strings.Contains(detail, "a approve") || strings.Contains(detail, "x reject") {
		t.Fatalf("approved image must offer no review actions:\n%s", detail)
	}

	selectPath(t, app, "todo.png")
	detail = app.renderDetailPanel(60)
	if !strings.Contains(detail, "a approve") || !strings.Contains(detail, "x reject") {
		t.Fatalf("pending image must offer review actions:\n%s", detail)
	}
}

func TestApproveKeyIgnoredForApprovedImage(t *testing.T) {
	backend := &testBackend{images: []curation.Image{approvedImage("done.png")}}
	app := newTestApp(t, backend)
	selectPath(t, app, "done.png")

	if cmd := app.actionCmd("approve"); cmd != nil {
		t.Fatalf("approve on a terminal image must be a no-op")
	}
}

func TestScoreKeyDisabledWhenNothingUnscored(t *testing.T) {
	backend := &testBackend{images: []curation.Image{approvedImage("done.png")}}
	app := newTestApp(t, backend)

	cmd, handled := app.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if !handled {
		t.Fatalf("s key should be handled")
	}
	if cmd != nil {
		t.Fatalf("scoring must not start with nothing unscored")
	}
	if !strings.Contains(app.statusMsg, "Nothing left to score") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestScoreKeyIgnoredWhileBusy(t *testing.T) {
	backend := &testBackend{images: []curation.Image{pendingImage("p.png")}}
	app := newTestApp(t, backend)
	app.snapshot.ScoreState = review.State{Phase: review.PhaseRunning}

	cmd, handled := app.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if !handled || cmd != nil {
		t.Fatalf("scoring key must be inert while an orchestrator runs")
	}
}

func TestFilterKeyRefetchesWithFilterStatus(t *testing.T) {
	backend := &testBackend{images: []curation.Image{pendingImage("p.png")}}
	app := newTestApp(t, backend)

	cmd := app.selectFilter(curation.FilterPending)
	if cmd == nil {
		t.Fatalf("filter change should produce a command")
	}
	if msg := cmd(); msg == nil {
		t.Fatalf("filter command returned no message")
	}
	if backend.lastFilter != "pending" {
		t.Fatalf("backend saw filter_status=%q, want pending", backend.lastFilter)
	}
	if app.desk.Filter() != curation.FilterPending {
		t.Fatalf("desk filter = %s", app.desk.Filter())
	}
}

func TestQuitCancelsRunContext(t *testing.T) {
	backend := &testBackend{}
	app := newTestApp(t, backend)

	cmd, handled := app.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !handled || cmd == nil {
		t.Fatalf("q must be handled and quit")
	}
	select {
	case <-app.runCtx.Done():
	default:
		t.Fatalf("quit must cancel the run context so in-flight requests abort")
	}
}
