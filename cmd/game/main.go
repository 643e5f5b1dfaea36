package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pefman/warcry-anvil/internal/api"
	"github.com/pefman/warcry-anvil/internal/config"
	"github.com/pefman/warcry-anvil/internal/store"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func newMux(h *hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", serveIndex)
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/sessions", h.handleSessions)
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"version": buildVersion,
			"time":    buildTime,
		})
	})
	return mux
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := strings.ReplaceAll(indexHTML, "{{BUILD_VERSION}}", buildVersion)
	fmt.Fprint(w, html)
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

	client := api.NewClientWithConfig(api.Config{BaseURL: cfg.DataAPIBase, CacheTTL: cfg.DataCacheTTL})
	builds, err := store.New(cfg.BuildsDir)
	if err != nil {
		slog.Error("open build store", "dir", cfg.BuildsDir, "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	h, err := newHub(ctx, client, builds)
	cancel()
	if err != nil {
		slog.Error("load reference data", "api", cfg.DataAPIBase, "err", err)
		os.Exit(1)
	}

	addr := cfg.GameListenAddr
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		addr = ":" + port
	}
	slog.Info("anvil live builder listening", "addr", addr, "data_api_base", cfg.DataAPIBase, "version", buildVersion)
	if err := http.ListenAndServe(addr, newMux(h)); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
