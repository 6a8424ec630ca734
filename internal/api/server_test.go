package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/kingdom"
	"github.com/talgya/hexcrawl/internal/water"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	store, err := kingdom.Open(filepath.Join(t.TempDir(), "realm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	err = store.UpdateDocument(func(d *kingdom.Document) (bool, error) {
		d.Name = "apirealm"
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				d.Hexes = append(d.Hexes, kingdom.HexRecord{Row: i, Col: j, Terrain: kingdom.TerrainPlains})
			}
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	s := &Server{
		Store:    store,
		Water:    water.NewService(store),
		Topo:     hexgrid.NewGrid(4, 4),
		AdminKey: "sekrit",
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var status map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/status", &status)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if status["name"] != "apirealm" {
		t.Errorf("name = %v", status["name"])
	}
	if status["hexes"].(float64) != 16 {
		t.Errorf("hexes = %v, want 16", status["hexes"])
	}
}

func TestPathEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var result struct {
		Found    bool     `json:"found"`
		Strategy string   `json:"strategy"`
		Hexes    []string `json:"hexes"`
		Cost     float64  `json:"cost"`
	}
	resp := getJSON(t, ts.URL+"/api/v1/path?from=0.0&to=0.3", &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !result.Found || result.Strategy != "manhattan" {
		t.Errorf("found=%v strategy=%q", result.Found, result.Strategy)
	}
	if len(result.Hexes) != 4 || result.Cost != 3 {
		t.Errorf("path = %v cost %f", result.Hexes, result.Cost)
	}
}

func TestPathEndpointBadInput(t *testing.T) {
	_, ts := newTestServer(t)

	var ignore map[string]any
	if resp := getJSON(t, ts.URL+"/api/v1/path", &ignore); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing params status = %d, want 400", resp.StatusCode)
	}
	if resp := getJSON(t, ts.URL+"/api/v1/path?from=zzz&to=0.0", &ignore); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad hex id status = %d, want 400", resp.StatusCode)
	}
}

func TestToggleEndpointAuth(t *testing.T) {
	_, ts := newTestServer(t)
	body := `{"feature":"lake","hexI":1,"hexJ":1}`

	resp, err := http.Post(ts.URL+"/api/v1/features/toggle", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated toggle status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/features/toggle", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authorized toggle status = %d", resp.StatusCode)
	}
	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result["result"] != "added" {
		t.Errorf("toggle result = %q, want added", result["result"])
	}
}
