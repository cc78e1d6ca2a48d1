package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventurebag/shop/internal/catalog"
	"github.com/adventurebag/shop/internal/coach"
	"github.com/adventurebag/shop/internal/experiment"
	"github.com/adventurebag/shop/internal/images"
	"github.com/adventurebag/shop/internal/metadata"
	"github.com/adventurebag/shop/internal/metrics"
)

type testEnv struct {
	server  *httptest.Server
	dir     string
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, coachURL string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	for _, name := range []string{"Var_01_1.jpg", "Var_02_1.jpg", "Base_01_side.png", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644))
	}

	store := metadata.NewStore(
		metadata.Record{ID: "Base_01", Attributes: metadata.Attributes{
			Audience: metadata.Str("Man"), Purpose: metadata.Str("Hiking"), Material: metadata.Str("Nylon"),
			PriceBand: metadata.Str("€90–€119"), Price: metadata.Num(99), ImageURL: metadata.Str("/backpacks/Base_01.jpg"),
		}},
		metadata.Record{ID: "Base_02", Attributes: metadata.Attributes{
			Audience: metadata.Str("Woman"), Purpose: metadata.Str("City"), Material: metadata.Str("Canvas"),
			PriceBand: metadata.Str("€30–€49"), Price: metadata.Num(45),
		}},
		metadata.Record{ID: "Var_01_1", Attributes: metadata.Attributes{Audience: metadata.Str("Woman")}},
	)
	provider := metadata.Static(store)
	m := metrics.New()

	imgDir := images.NewDir(dir, "/backpacks")
	opts := catalog.Options{ImageURLPrefix: imgDir.URLPrefix}
	h := New(Deps{
		Catalog:     &catalog.LocalSource{Metadata: provider, Images: imgDir, Options: opts, Observer: m},
		Fallback:    &catalog.FallbackSource{Metadata: provider, Options: opts, Observer: m},
		Images:      imgDir,
		Coach:       coach.NewService(coach.NewClient(coachURL), m, nil),
		Experiments: experiment.NewStore(),
		Options:     opts,
	})

	server := httptest.NewServer(h.Routes(m.Handler()))
	t.Cleanup(server.Close)
	return &testEnv{server: server, dir: dir, metrics: m}
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(e.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.get(t, "/api/catalog")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	full := decodeJSON[catalog.Response](t, resp)
	// Two bases, Var_01_1 (explicit over scanned) and Var_02_1.
	require.Len(t, full.Items, 4)
	assert.Equal(t, "Woman", full.Items[2].Audience)
	assert.Equal(t, "/backpacks/Var_01_1.jpg", full.Items[2].ImageURL)
	assert.Equal(t, "Base_02", full.Items[3].BaseID)

	resp = env.get(t, "/api/catalog/fallback")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fallback := decodeJSON[catalog.Response](t, resp)
	require.Len(t, fallback.Items, 3)
	assert.Empty(t, fallback.Items[2].ImageURL)
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := newTestEnv(t, "")

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/healthcheck", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestSearch(t *testing.T) {
	coachServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"visibleCount": 2}`))
	}))
	defer coachServer.Close()
	env := newTestEnv(t, coachServer.URL)

	resp := env.get(t, "/api/search?audience=Woman")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeJSON[SearchResponse](t, resp)

	// Base_02, Var_01_1 and Var_02_1, which inherits from Base_02.
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.VisibleCount)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, []string{"Man", "Woman"}, got.Facets.Audience)
	assert.Equal(t, []string{"€30–€49", "€90–€119"}, got.Facets.PriceBand)

	resp = env.get(t, "/api/search?purpose=City,Hiking")
	got = decodeJSON[SearchResponse](t, resp)
	assert.Equal(t, 4, got.Total)
	assert.Len(t, got.Items, 2)

	resp = env.get(t, "/api/search?q=canvas&purpose=City")
	got = decodeJSON[SearchResponse](t, resp)
	assert.Equal(t, 2, got.Total)
}

func TestSearchDoesNotWaitForSlowCoach(t *testing.T) {
	coachServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		_, _ = w.Write([]byte(`{"visibleCount": 2}`))
	}))
	defer coachServer.Close()

	store := metadata.NewStore(metadata.Record{ID: "Base_01", Attributes: metadata.Attributes{Audience: metadata.Str("Man")}})
	h := New(Deps{
		Catalog:      &catalog.FallbackSource{Metadata: metadata.Static(store)},
		Coach:        coach.NewService(coach.NewClient(coachServer.URL), nil, nil),
		CoachTimeout: 50 * time.Millisecond,
	})

	start := time.Now()
	rec := httptest.NewRecorder()
	h.Routes(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, http.StatusOK, rec.Code)
	var got SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, coach.DefaultSearchConfig().VisibleCount, got.VisibleCount)
	assert.Equal(t, 1, got.Total)
}

func TestItemDetails(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.get(t, "/api/items/001")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decodeJSON[catalog.Details](t, resp)

	assert.Equal(t, "AB-000001", d.DisplaySKU)
	assert.Equal(t, "/backpacks/Base_01.jpg", d.Hero)
	require.Len(t, d.Gallery, 2)
	assert.Equal(t, "/backpacks/Base_01_side.png", d.Gallery[1].URL)
	require.Len(t, d.Siblings, 1)
	assert.Equal(t, 3, d.Siblings[0].ID)

	resp = env.get(t, "/api/items/4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d = decodeJSON[catalog.Details](t, resp)
	assert.Equal(t, "/backpacks/Var_02_1.jpg", d.Hero)

	resp = env.get(t, "/api/items/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImages(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.get(t, "/backpacks/Var_01_1.jpg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "img", string(body))

	resp = env.get(t, "/backpacks/readme.txt")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.get(t, "/backpacks/missing.jpg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.get(t, "/api/thumbs/readme.txt")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Fixture files are not real images.
	resp = env.get(t, "/api/thumbs/Var_01_1.jpg?size=thumb")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestCoachEndpoints(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, "")

		for _, path := range []string{"/api/landing-config", "/api/search-config", "/api/details-config"} {
			resp := env.get(t, path)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
			assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"), path)
			got := decodeJSON[coach.ErrorResponse](t, resp)
			assert.Equal(t, "Missing COACH_BASE_URL", got.Error, path)
		}
	})

	t.Run("coach down", func(t *testing.T) {
		coachServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer coachServer.Close()
		env := newTestEnv(t, coachServer.URL)

		resp := env.get(t, "/api/landing-config")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		resp = env.get(t, "/api/search-config")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decodeJSON[map[string]any](t, resp)
		assert.Equal(t, true, got["ok"])
		assert.Equal(t, "Falling back to defaults; Coach unreachable.", got["note"])
		assert.Equal(t, float64(24), got["visibleCount"])

		resp = env.get(t, "/api/shop-config")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		all := decodeJSON[map[string]map[string]any](t, resp)
		assert.Equal(t, false, all["landing"]["ok"])
		assert.Equal(t, "Add to cart", all["details"]["ctaCaption"])
	})
}

func TestExperimentFlow(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.get(t, "/api/experiments/problems")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	problems := decodeJSON[problemsResponse](t, resp)
	assert.Len(t, problems.Problems, 2)
	assert.Contains(t, problems.Markets, "Ukraine")

	resp = env.post(t, "/api/experiments", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := decodeJSON[experiment.Session](t, resp)
	assert.Equal(t, "PROBLEM", session.StageCode)
	base := "/api/experiments/" + session.ID

	resp = env.post(t, base+"/run", `{"duration":"1","market":"Italy"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.post(t, base+"/choose", `{"hypothesisId":"h9"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.post(t, base+"/choose", `{"hypothesisId":"h3"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeJSON[experiment.Session](t, resp)
	assert.Equal(t, "TEST_CONFIGURATION", session.StageCode)
	assert.Equal(t, "p2", session.Choice.ProblemID)

	resp = env.post(t, base+"/run", `{"duration":"7","market":"Italy"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.post(t, base+"/run", `{"duration":"1","market":"Italy"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeJSON[experiment.Session](t, resp)
	assert.Equal(t, "RUN_TEST", session.StageCode)
	assert.Equal(t, "50/50", session.Params.Split)

	resp = env.get(t, base)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.post(t, base+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeJSON[experiment.Session](t, resp)
	assert.Equal(t, "WELCOME", session.StageCode)
	assert.Nil(t, session.Choice)

	resp = env.post(t, base+"/explode", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.post(t, base+"/choose", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.get(t, "/api/experiments/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.get(t, "/api/experiments")
	list := decodeJSON[[]experiment.Session](t, resp)
	assert.Len(t, list, 1)

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+base, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, "")

	env.get(t, "/api/catalog")
	resp := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `adventurebag_catalog_builds_total{mode="primary"} 1`)
}
