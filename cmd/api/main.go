package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/pefman/warcry-anvil/internal/catalog"
	"github.com/pefman/warcry-anvil/internal/config"
	"github.com/pefman/warcry-anvil/internal/game"
	"github.com/pefman/warcry-anvil/internal/store"
)

// maxBody bounds request bodies; a selection is a handful of short strings.
const maxBody = 64 << 10

type server struct {
	cat    *catalog.Catalog
	data   catalog.Source
	builds *store.Store
}

func newRouter(s *server) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Raw reference files, read by the live builder's data client.
	r.HandleFunc("/data/{file}", s.handleDataFile).Methods(http.MethodGet)

	r.HandleFunc("/api/catalog", s.handleCatalog).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog/{collection}", s.handleCollection).Methods(http.MethodGet)
	r.HandleFunc("/api/resolve", s.handleResolve).Methods(http.MethodPost)
	r.HandleFunc("/api/export.xlsx", s.handleExportSelection).Methods(http.MethodPost)

	r.HandleFunc("/api/builds", s.handleListBuilds).Methods(http.MethodGet)
	r.HandleFunc("/api/builds/{name}", s.handleGetBuild).Methods(http.MethodGet)
	r.HandleFunc("/api/builds/{name}", s.handleSaveBuild).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/api/builds/{name}", s.handleDeleteBuild).Methods(http.MethodDelete)
	r.HandleFunc("/api/builds/{name}/record", s.handleBuildRecord).Methods(http.MethodGet)
	r.HandleFunc("/api/builds/{name}/export.xlsx", s.handleExportBuild).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	return r
}

func (s *server) handleDataFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	if !slices.Contains(catalog.Files, name) {
		writeError(w, http.StatusNotFound, "unknown data file: "+name)
		return
	}
	data, err := s.data.ReadFile(r.Context(), name)
	if errors.Is(err, catalog.ErrMissingFile) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.Error("read data file", "file", name, "err", err)
		writeError(w, http.StatusInternalServerError, "read failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.cat.Names())
}

func (s *server) handleCollection(w http.ResponseWriter, r *http.Request) {
	var out any
	switch mux.Vars(r)["collection"] {
	case "fighters":
		out = s.cat.Fighters()
	case "archetypes":
		out = s.cat.Archetypes()
	case "primaryWeapons":
		out = s.cat.PrimaryWeapons()
	case "secondaryWeapons":
		out = s.cat.SecondaryWeapons()
	case "mounts":
		out = s.cat.Mounts()
	case "divineBlessings":
		out = s.cat.Blessings()
	case "extraRunemarks":
		out = s.cat.ExtraRunemarks()
	case "rules":
		out = s.cat.Rules()
	default:
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}
	writeJSON(w, out)
}

func decodeSelection(w http.ResponseWriter, r *http.Request) (game.Selection, bool) {
	var sel game.Selection
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return sel, false
	}
	return sel, true
}

func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	sel, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	writeJSON(w, game.Resolve(s.cat, sel))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

// simple CORS for the browser builder
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	configPath := flag.String("config", "anvil.yaml", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	cfg.SetupLogging()

	data := catalog.DirSource(cfg.DataDir)
	cat, err := catalog.Load(context.Background(), data)
	if err != nil {
		slog.Error("load reference data", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	builds, err := store.New(cfg.BuildsDir)
	if err != nil {
		slog.Error("open build store", "dir", cfg.BuildsDir, "err", err)
		os.Exit(1)
	}

	router := newRouter(&server{cat: cat, data: data, builds: builds})

	// Prefer Cloud Run's PORT env var when present
	addr := cfg.ListenAddr
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		addr = ":" + port
	}
	slog.Info("anvil api listening", "addr", addr, "data", cfg.DataDir, "builds", cfg.BuildsDir)
	if err := http.ListenAndServe(addr, withCORS(router)); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
