package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pefman/warcry-anvil/internal/api"
	"github.com/pefman/warcry-anvil/internal/game"
	"github.com/pefman/warcry-anvil/internal/store"
)

type serverMsg struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newTestHub(t *testing.T) *httptest.Server {
	t.Helper()
	dataSrv := httptest.NewServer(http.StripPrefix("/data/", http.FileServer(http.Dir("../../internal/catalog/testdata/valid"))))
	t.Cleanup(dataSrv.Close)

	builds, err := store.New(t.TempDir())
	require.NoError(t, err)
	h, err := newHub(context.Background(), api.NewClient(dataSrv.URL), builds)
	require.NoError(t, err)

	ts := httptest.NewServer(newMux(h))
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) serverMsg {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var m serverMsg
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func expectSummary(t *testing.T, conn *websocket.Conn) game.Result {
	t.Helper()
	m := next(t, conn)
	require.Equal(t, "summary", m.Type, string(m.Data))
	var res game.Result
	require.NoError(t, json.Unmarshal(m.Data, &res))
	return res
}

func expectError(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	m := next(t, conn)
	require.Equal(t, "error", m.Type)
	var body map[string]string
	require.NoError(t, json.Unmarshal(m.Data, &body))
	return body["message"]
}

func send(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"type": typ, "data": data}))
}

func TestSessionGreets(t *testing.T) {
	ts := newTestHub(t)
	conn := dial(t, ts)

	you := next(t, conn)
	assert.Equal(t, "you", you.Type)

	res := expectSummary(t, conn)
	assert.Equal(t, "Human", res.Selection.FighterType)
	assert.Equal(t, game.UnnamedFighter, res.Name)
}

func TestSessionBuildFlow(t *testing.T) {
	ts := newTestHub(t)
	conn := dial(t, ts)
	next(t, conn)
	expectSummary(t, conn)

	send(t, conn, "select", game.Selection{FighterName: "Grum", FighterType: "Ogor", Archetype: "Zealot"})
	res := expectSummary(t, conn)
	assert.Equal(t, "Commander", res.Selection.Archetype)
	assert.Equal(t, []string{"Ogor cannot be a Zealot. Reverting Archetype to Commander."}, res.Messages)

	send(t, conn, "save", map[string]string{})
	saved := next(t, conn)
	require.Equal(t, "saved", saved.Type)
	assert.Contains(t, string(saved.Data), `"key":"Grum"`)

	send(t, conn, "list", nil)
	list := next(t, conn)
	require.Equal(t, "builds", list.Type)
	assert.JSONEq(t, `["Grum"]`, string(list.Data))

	// Switch away, then load the saved build back.
	send(t, conn, "select", game.Selection{FighterType: "Aelf"})
	assert.Equal(t, "Aelf", expectSummary(t, conn).Selection.FighterType)

	send(t, conn, "load", map[string]string{"name": "Grum"})
	loaded := expectSummary(t, conn)
	assert.Equal(t, res.Selection, loaded.Selection)
	assert.Equal(t, res.Stats, loaded.Stats)
	assert.Equal(t, res.Points, loaded.Points)

	resp, err := http.Get(ts.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var sessions []SessionEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "Ogor", sessions[0].Fighter)
	assert.Equal(t, "Grum", sessions[0].Name)
}

func TestSessionErrors(t *testing.T) {
	ts := newTestHub(t)
	conn := dial(t, ts)
	next(t, conn)
	expectSummary(t, conn)

	send(t, conn, "load", map[string]string{"name": "nobody"})
	assert.Equal(t, "build not found: nobody", expectError(t, conn))

	send(t, conn, "save", map[string]string{})
	assert.Equal(t, "a build needs a name to be saved", expectError(t, conn))

	send(t, conn, "duel", nil)
	assert.Equal(t, "unknown message type: duel", expectError(t, conn))

	send(t, conn, "select", "not a selection")
	assert.Equal(t, "invalid selection", expectError(t, conn))
}

func TestSessionReload(t *testing.T) {
	ts := newTestHub(t)
	conn := dial(t, ts)
	next(t, conn)
	expectSummary(t, conn)

	send(t, conn, "select", game.Selection{FighterType: "Duardin"})
	expectSummary(t, conn)

	send(t, conn, "reload", nil)
	res := expectSummary(t, conn)
	assert.Equal(t, "Duardin", res.Selection.FighterType)
}

func TestIndexAndVersion(t *testing.T) {
	ts := newTestHub(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp2, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var v map[string]string
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&v))
	assert.Equal(t, "dev", v["version"])
}
