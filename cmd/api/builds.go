package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pefman/warcry-anvil/internal/export"
	"github.com/pefman/warcry-anvil/internal/game"
	"github.com/pefman/warcry-anvil/internal/store"
)

type buildResponse struct {
	Key    string       `json:"key"`
	Record store.Record `json:"record"`
	Result game.Result  `json:"result"`
}

// GET /api/builds
func (s *server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	keys, err := s.builds.List()
	if err != nil {
		slog.Error("list builds", "err", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, keys)
}

// lookupBuild loads the named build or writes the error response.
func (s *server) lookupBuild(w http.ResponseWriter, r *http.Request) (string, store.Record, bool) {
	name := mux.Vars(r)["name"]
	rec, err := s.builds.Get(name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "build not found: "+name)
		return "", rec, false
	case err != nil:
		slog.Error("load build", "name", name, "err", err)
		writeError(w, http.StatusInternalServerError, "load failed")
		return "", rec, false
	}
	return store.Key(name), rec, true
}

// GET /api/builds/{name} re-resolves the saved selection against the current data.
func (s *server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	key, rec, ok := s.lookupBuild(w, r)
	if !ok {
		return
	}
	writeJSON(w, buildResponse{Key: key, Record: rec, Result: game.Resolve(s.cat, rec.Selection)})
}

// PUT /api/builds/{name} saves the reconciled form of the posted selection.
func (s *server) handleSaveBuild(w http.ResponseWriter, r *http.Request) {
	sel, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]
	res := game.Resolve(s.cat, sel)
	rec, err := s.builds.Save(name, res.Selection)
	if err != nil {
		slog.Error("save build", "name", name, "err", err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	slog.Info("build saved", "key", store.Key(name), "fighter", res.Selection.FighterType, "points", res.Points.Total)
	writeJSON(w, buildResponse{Key: store.Key(name), Record: rec, Result: res})
}

// DELETE /api/builds/{name}
func (s *server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	err := s.builds.Delete(name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "build not found: "+name)
	case err != nil:
		slog.Error("delete build", "name", name, "err", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/builds/{name}/record returns the key: value text form.
func (s *server) handleBuildRecord(w http.ResponseWriter, r *http.Request) {
	_, rec, ok := s.lookupBuild(w, r)
	if !ok {
		return
	}
	data, err := store.EncodeRecord(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}

// GET /api/builds/{name}/export.xlsx
func (s *server) handleExportBuild(w http.ResponseWriter, r *http.Request) {
	_, rec, ok := s.lookupBuild(w, r)
	if !ok {
		return
	}
	writeCard(w, game.Resolve(s.cat, rec.Selection))
}

// POST /api/export.xlsx
func (s *server) handleExportSelection(w http.ResponseWriter, r *http.Request) {
	sel, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	writeCard(w, game.Resolve(s.cat, sel))
}

func writeCard(w http.ResponseWriter, res game.Result) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(res)+`"`)
	if err := export.WriteFighterCard(w, res); err != nil {
		slog.Error("export fighter card", "fighter", res.Name, "err", err)
	}
}
