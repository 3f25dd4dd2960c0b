package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tactics-board/internal/annotation"
	"tactics-board/internal/app"
	"tactics-board/internal/tracking"
	"tactics-board/pkg/geometry"
)

func newTestServer(t *testing.T) (*app.State, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := app.NewState(tracking.NewDemoMatch(4))
	return st, SetRouter(st)
}

func TestGetAnnotations(t *testing.T) {
	st, r := newTestServer(t)
	st.Arrows.AddPoint(geometry.Point2D{X: 10, Y: 10})
	st.Arrows.AddPoint(geometry.Point2D{X: 20, Y: 10})
	if st.Arrows.TryFinishShape() == nil {
		t.Fatal("arrow not committed")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/annotations", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var proj app.ProjectFile
	if err := json.Unmarshal(w.Body.Bytes(), &proj); err != nil {
		t.Fatal(err)
	}
	if len(proj.Arrows) != 1 {
		t.Fatalf("arrows = %d", len(proj.Arrows))
	}
}

func TestSimulateEndpoint(t *testing.T) {
	st, r := newTestServer(t)

	st.Arrows.SetStroke(annotation.StrokeDotted)
	st.Arrows.AddPoint(geometry.Point2D{X: 20, Y: 10})
	st.Arrows.AddPoint(geometry.Point2D{X: 25, Y: 10})
	shape := st.Arrows.TryFinishShape()
	if shape == nil {
		t.Fatal("arrow not committed")
	}
	st.Simulation.Associate(shape.(*annotation.Arrow), "H1", 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/simulate",
		strings.NewReader(`{"interval_seconds": 1.5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var payload struct {
		Players map[string][]struct {
			X     float64 `json:"x"`
			Frame int     `json:"frame"`
		} `json:"players"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Players["H1"]) == 0 {
		t.Fatal("no simulated samples for H1")
	}
}

func TestSimulateRejectsBadInterval(t *testing.T) {
	_, r := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/simulate",
		strings.NewReader(`{"interval_seconds": -1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestClearEndpoint(t *testing.T) {
	st, r := newTestServer(t)
	st.Arrows.AddPoint(geometry.Point2D{})
	st.Arrows.AddPoint(geometry.Point2D{X: 5})
	st.Arrows.TryFinishShape()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/clear", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if len(st.Arrows.Shapes()) != 0 {
		t.Fatal("annotations survived clear")
	}
}

func TestPlaybackFrameEndpoint(t *testing.T) {
	st, r := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/playback/frame",
		strings.NewReader(`{"frame": 40}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if st.Frame() != 40 {
		t.Fatalf("frame = %d", st.Frame())
	}
}
