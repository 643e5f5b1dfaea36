package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pefman/warcry-anvil/internal/catalog"
	"github.com/pefman/warcry-anvil/internal/game"
	"github.com/pefman/warcry-anvil/internal/store"
)

// dataSource is the reference data feed; Invalidate drops any cached files
// so the next load sees fresh data.
type dataSource interface {
	catalog.Source
	Invalidate()
}

// hub owns the shared catalog and the set of connected builder sessions.
type hub struct {
	data   dataSource
	builds *store.Store

	catMu sync.RWMutex
	cat   *catalog.Catalog

	sessionsMu sync.Mutex
	sessions   map[string]*Session
}

func newHub(ctx context.Context, data dataSource, builds *store.Store) (*hub, error) {
	cat, err := catalog.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	return &hub{data: data, builds: builds, cat: cat, sessions: map[string]*Session{}}, nil
}

func (h *hub) current() *catalog.Catalog {
	h.catMu.RLock()
	defer h.catMu.RUnlock()
	return h.cat
}

// reload refetches the reference data. On failure the old catalog stays.
func (h *hub) reload(ctx context.Context) error {
	h.data.Invalidate()
	cat, err := catalog.Load(ctx, h.data)
	if err != nil {
		return err
	}
	h.catMu.Lock()
	h.cat = cat
	h.catMu.Unlock()
	return nil
}

// Session is one connected builder. Its selection is the last reconciled one.
type Session struct {
	ID    string
	Conn  *websocket.Conn
	Since int64

	mu        sync.Mutex
	selection game.Selection
	name      string
	points    int
}

// SessionEntry is the public view of a session exposed via /sessions.
type SessionEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Fighter string `json:"fighter"`
	Points  int    `json:"points"`
	Since   int64  `json:"since"` // unix seconds
}

func (s *Session) entry() SessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionEntry{ID: s.ID, Name: s.name, Fighter: s.selection.FighterType, Points: s.points, Since: s.Since}
}

type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type buildRef struct {
	Name string `json:"name"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws: upgrade failed", "from", r.RemoteAddr, "err", err)
		return
	}
	s := &Session{ID: fmt.Sprintf("s_%d", time.Now().UnixNano()), Conn: conn, Since: time.Now().Unix()}
	slog.Info("ws: connect", "id", s.ID, "from", r.RemoteAddr)

	h.sessionsMu.Lock()
	h.sessions[s.ID] = s
	h.sessionsMu.Unlock()

	sendTo(s, wsMsg{Type: "you", Data: map[string]string{"id": s.ID}})
	h.resolveAndSend(s, game.Selection{})
	go h.wsReader(s)
}

func (h *hub) wsReader(s *Session) {
	defer func() {
		_ = s.Conn.Close()
		h.sessionsMu.Lock()
		delete(h.sessions, s.ID)
		h.sessionsMu.Unlock()
		slog.Info("ws: closed", "id", s.ID)
	}()
	for {
		var in clientIn
		if err := s.Conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws: read error", "id", s.ID, "err", err)
			}
			return
		}
		slog.Debug("ws: recv", "id", s.ID, "type", in.Type)
		h.dispatch(s, in)
	}
}

func (h *hub) dispatch(s *Session, in clientIn) {
	switch in.Type {
	case "select":
		var sel game.Selection
		if err := json.Unmarshal(in.Data, &sel); err != nil {
			sendError(s, "invalid selection")
			return
		}
		h.resolveAndSend(s, sel)

	case "save":
		var ref buildRef
		_ = json.Unmarshal(in.Data, &ref)
		s.mu.Lock()
		sel := s.selection
		s.mu.Unlock()
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			name = sel.FighterName
		}
		if strings.TrimSpace(name) == "" {
			sendError(s, "a build needs a name to be saved")
			return
		}
		rec, err := h.builds.Save(name, sel)
		if err != nil {
			slog.Error("ws: save build", "id", s.ID, "name", name, "err", err)
			sendError(s, "save failed")
			return
		}
		sendTo(s, wsMsg{Type: "saved", Data: map[string]any{"key": store.Key(name), "record": rec}})

	case "load":
		var ref buildRef
		if err := json.Unmarshal(in.Data, &ref); err != nil || strings.TrimSpace(ref.Name) == "" {
			sendError(s, "load needs a build name")
			return
		}
		rec, err := h.builds.Get(ref.Name)
		if errors.Is(err, store.ErrNotFound) {
			sendError(s, "build not found: "+ref.Name)
			return
		}
		if err != nil {
			slog.Error("ws: load build", "id", s.ID, "name", ref.Name, "err", err)
			sendError(s, "load failed")
			return
		}
		h.resolveAndSend(s, rec.Selection)

	case "list":
		keys, err := h.builds.List()
		if err != nil {
			sendError(s, "list failed")
			return
		}
		sendTo(s, wsMsg{Type: "builds", Data: keys})

	case "reload":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := h.reload(ctx)
		cancel()
		if err != nil {
			slog.Error("ws: reload reference data", "id", s.ID, "err", err)
			sendError(s, "reload failed; keeping current data")
			return
		}
		s.mu.Lock()
		sel := s.selection
		s.mu.Unlock()
		h.resolveAndSend(s, sel)

	default:
		sendError(s, "unknown message type: "+in.Type)
	}
}

// resolveAndSend runs a pass over sel, remembers the reconciled selection and
// pushes the summary to the client.
func (h *hub) resolveAndSend(s *Session, sel game.Selection) {
	res := game.Resolve(h.current(), sel)
	s.mu.Lock()
	s.selection = res.Selection
	s.name = res.Name
	s.points = res.Points.Total
	s.mu.Unlock()
	sendTo(s, wsMsg{Type: "summary", Data: res})
}

func sendTo(s *Session, m wsMsg) {
	if s == nil || s.Conn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Conn.WriteJSON(m); err != nil {
		slog.Warn("ws: write error", "id", s.ID, "err", err)
	}
}

func sendError(s *Session, msg string) {
	sendTo(s, wsMsg{Type: "error", Data: map[string]string{"message": msg}})
}

// GET /sessions lists connected builders, oldest first.
func (h *hub) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	h.sessionsMu.Lock()
	out := make([]SessionEntry, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s.entry())
	}
	h.sessionsMu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Since != out[j].Since {
			return out[i].Since < out[j].Since
		}
		return out[i].ID < out[j].ID
	})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
