package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"forcemap/internal/editor"
	"forcemap/internal/render"
	"forcemap/internal/repository/sqlite"
	"forcemap/internal/service"
	"forcemap/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts editor.Options) http.Handler {
	t.Helper()
	ed := editor.New(opts)
	require.NoError(t, ed.Seed())

	bus := service.NewEventBus()
	session := service.NewSession(ed, bus, time.Millisecond)
	graphSvc := service.NewGraphService(session, bus)

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	librarySvc := service.NewLibraryService(repo, graphSvc, session, bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = session.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	mux := http.NewServeMux()
	Register(mux, NewGraphHandler(graphSvc), NewLibraryHandler(librarySvc))
	return Chain(mux, Recover, CORS)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestGraphEndpoints(t *testing.T) {
	h := newTestServer(t, editor.DefaultOptions())

	t.Run("graph is in snapshot wire format", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/graph", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		doc := decode[map[string][]map[string]any](t, w)
		assert.Len(t, doc["nodes"], 3)
		assert.Len(t, doc["links"], 2)
	})

	t.Run("scene frame", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/scene", "")
		require.Equal(t, http.StatusOK, w.Code)
		frame := decode[render.Frame](t, w)
		assert.Len(t, frame.Nodes, 3)
		assert.Equal(t, render.DefaultBackground, frame.Background)
	})

	t.Run("scene svg", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/scene.svg", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<svg")
	})

	t.Run("health", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})
}

func TestNodeEndpoints(t *testing.T) {
	h := newTestServer(t, editor.DefaultOptions())

	t.Run("click spawns a child", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/1/click", `{"text":"Write tests"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":4,"parent":1}`, w.Body.String())
	})

	t.Run("empty answer is a cancellation", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/1/click", `{"text":""}`)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = do(t, h, http.MethodPost, "/api/nodes", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("add important", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes", `{"text":"Ship it"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":5}`, w.Body.String())
	})

	t.Run("unknown node is 404", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/99/click", `{"text":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "Failed to add node", resp.Error)
		assert.Contains(t, resp.Details, store.ErrUnknownNode.Error())
	})

	t.Run("drag lifecycle", func(t *testing.T) {
		for _, phase := range []string{"dragstart", "drag", "dragend"} {
			w := do(t, h, http.MethodPost, "/api/nodes/2/drag", `{"phase":"`+phase+`","x":100,"y":120}`)
			assert.Equal(t, http.StatusNoContent, w.Code, phase)
		}
	})

	t.Run("invalid drag phase", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/2/drag", `{"phase":"click"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("hover", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/2/hover", `{"visible":true}`)
		assert.Equal(t, http.StatusNoContent, w.Code)

		frame := decode[render.Frame](t, do(t, h, http.MethodGet, "/api/scene", ""))
		for _, n := range frame.Nodes {
			if n.Text == "Example Main Goal" {
				assert.True(t, n.LabelVisible)
			}
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/2/hover", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCanvasEndpoints(t *testing.T) {
	t.Run("live viewport resizes", func(t *testing.T) {
		h := newTestServer(t, editor.DefaultOptions())
		w := do(t, h, http.MethodPost, "/api/viewport", `{"width":640,"height":480}`)
		require.Equal(t, http.StatusNoContent, w.Code)

		frame := decode[render.Frame](t, do(t, h, http.MethodGet, "/api/scene", ""))
		assert.Equal(t, 640.0, frame.Width)
		assert.Equal(t, 480.0, frame.Height)

		w = do(t, h, http.MethodPost, "/api/viewport", `{"width":0,"height":480}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("fixed viewport conflicts", func(t *testing.T) {
		opts := editor.DefaultOptions()
		opts.Viewport = render.FixedViewport{Width: 960, Height: 500}
		h := newTestServer(t, opts)
		w := do(t, h, http.MethodPost, "/api/viewport", `{"width":640,"height":480}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("background", func(t *testing.T) {
		h := newTestServer(t, editor.DefaultOptions())
		w := do(t, h, http.MethodPut, "/api/background", `{"color":"white"}`)
		require.Equal(t, http.StatusNoContent, w.Code)
		frame := decode[render.Frame](t, do(t, h, http.MethodGet, "/api/scene", ""))
		assert.Equal(t, "white", frame.Background)

		w = do(t, h, http.MethodPut, "/api/background", `{"color":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestImportExport(t *testing.T) {
	h := newTestServer(t, editor.DefaultOptions())

	t.Run("export defaults to json attachment", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/export", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=graph.json", w.Header().Get("Content-Disposition"))
	})

	t.Run("yaml export with name", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/export?format=yaml&name=plan", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-yaml", w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=plan.yaml", w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Example Main Goal")
	})

	t.Run("unknown format", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/export?format=xml", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("import replaces the graph", func(t *testing.T) {
		doc := `{"nodes":[{"id":1,"size":30,"color":"red","text":"A","x":5,"y":5},{"id":2,"size":20,"color":"black","text":"B"}],"links":[{"source":1,"target":2},{"source":1,"target":7}]}`
		w := do(t, h, http.MethodPost, "/api/import", doc)
		require.Equal(t, http.StatusOK, w.Code)

		report := decode[store.RestoreReport](t, w)
		assert.Equal(t, 2, report.NodesRestored)
		assert.Equal(t, 1, report.LinksRestored)
		assert.Len(t, report.SkippedLinks, 1)
	})

	t.Run("malformed document", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/import", `{"nodes":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStringNodeIDsInPath(t *testing.T) {
	h := newTestServer(t, editor.DefaultOptions())

	doc := `{"nodes":[{"id":1,"size":30,"color":"blue","text":"Main","x":50,"y":50},{"id":"2","size":20,"color":"black","text":"string two","x":80,"y":80}],"links":[{"source":1,"target":"2"}]}`
	w := do(t, h, http.MethodPost, "/api/import", doc)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("click reaches the string node", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/2/click", `{"text":"child"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"parent":"2"`)
	})

	t.Run("drag and hover reach the string node", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/nodes/2/drag", `{"phase":"dragstart","x":10,"y":10}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = do(t, h, http.MethodPost, "/api/nodes/2/hover", `{"visible":true}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("numeric node wins when both exist", func(t *testing.T) {
		doc := `{"nodes":[{"id":2,"size":20,"color":"black","text":"int"},{"id":"2","size":20,"color":"black","text":"str"}]}`
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/import", doc).Code)

		w := do(t, h, http.MethodPost, "/api/nodes/2/click", `{"text":"child"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"parent":2`)
	})
}

func TestSnapshotEndpoints(t *testing.T) {
	h := newTestServer(t, editor.DefaultOptions())

	w := do(t, h, http.MethodPost, "/api/snapshots", `{"name":"first"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/snapshots", "")
	require.Equal(t, http.StatusOK, w.Code)
	infos := decode[[]map[string]any](t, w)
	require.Len(t, infos, 1)
	assert.Equal(t, "first", infos[0]["name"])

	w = do(t, h, http.MethodGet, "/api/snapshots/first", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Example Main Goal")

	w = do(t, h, http.MethodPost, "/api/snapshots/first/load", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[store.RestoreReport](t, w).NodesRestored)

	w = do(t, h, http.MethodDelete, "/api/snapshots/first", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/snapshots/first", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/snapshots", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	t.Run("recover", func(t *testing.T) {
		w := httptest.NewRecorder()
		Chain(panicky, Recover).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		Chain(panicky, CORS).ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/graph", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("chain order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}
		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		Chain(ok, mw("a"), mw("b"), Logger).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"a", "b"}, order)
	})
}
