// Package api serves the realm over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/kingdom"
	"github.com/talgya/hexcrawl/internal/movement"
	"github.com/talgya/hexcrawl/internal/pathfind"
	"github.com/talgya/hexcrawl/internal/water"
)

// Server serves realm state and path queries over HTTP.
type Server struct {
	Store    *kingdom.Store
	Water    *water.Service
	Topo     hexgrid.Topology
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/path", s.handlePath)
	mux.HandleFunc("/api/v1/features", s.handleFeatures)
	mux.HandleFunc("/api/v1/features/toggle", s.handleToggle)
	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api listening", "addr", addr)
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	doc := s.Store.Document()
	writeJSON(w, map[string]any{
		"name":       doc.Name,
		"hexes":      len(doc.Hexes),
		"lakes":      len(doc.Water.Lakes),
		"swamps":     len(doc.Water.Swamps),
		"bridges":    len(doc.Water.Bridges),
		"fords":      len(doc.Water.Fords),
		"waterfalls": len(doc.Water.Waterfalls),
	})
}

// handlePath runs an A* query: /api/v1/path?from=0.0&to=3.3&move=octile&swim=1
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "from and to are required", http.StatusBadRequest)
		return
	}

	strategy := movement.ByName(r.URL.Query().Get("move"))
	mover := pathfind.Mover{CanSwim: r.URL.Query().Get("swim") == "1"}
	engine := pathfind.New(strategy, s.Topo, s.Water, pathfind.WithMover(mover))

	path, err := engine.FindPath(from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if path == nil {
		writeJSON(w, map[string]any{"found": false, "strategy": strategy.Name()})
		return
	}
	writeJSON(w, map[string]any{
		"found":    true,
		"strategy": strategy.Name(),
		"hexes":    path.Hexes,
		"cost":     path.Cost,
	})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Store.Document().Water)
}

type toggleRequest struct {
	Feature string `json:"feature"` // lake, swamp, bridge, ford, waterfall
	HexI    int    `json:"hexI"`
	HexJ    int    `json:"hexJ"`
	Edge    int    `json:"edgeIndex"`
}

// handleToggle flips a water feature. Admin plane: requires the bearer token.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	var (
		result water.ToggleResult
		err    error
	)
	switch req.Feature {
	case "lake":
		result, err = s.Water.ToggleLake(req.HexI, req.HexJ)
	case "swamp":
		result, err = s.Water.ToggleSwamp(req.HexI, req.HexJ)
	case "bridge":
		result, err = s.Water.ToggleBridge(req.HexI, req.HexJ, req.Edge)
	case "ford":
		result, err = s.Water.ToggleFord(req.HexI, req.HexJ, req.Edge)
	case "waterfall":
		result, err = s.Water.ToggleWaterfall(req.HexI, req.HexJ, req.Edge)
	default:
		http.Error(w, "unknown feature "+strconv.Quote(req.Feature), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("feature toggle failed", "feature", req.Feature, "error", err)
		http.Error(w, "toggle failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"result": result.String()})
}

func (s *Server) authorized(r *http.Request) bool {
	if s.AdminKey == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
