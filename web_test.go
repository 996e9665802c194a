/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHandle(h httprouter.Handle) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r, nil)
	})
}

func TestServeRooms(t *testing.T) {
	srv := NewServer(testConfig(), nil)
	require.NoError(t, srv.rooms.Create("sala1", uuid.New()))

	errs := make(chan error, 1)
	res := httptest.NewRecorder()

	serveHandle(serveRooms(srv, errs)).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))

	var rooms []RoomInfo
	require.NoError(t, json.NewDecoder(res.Body).Decode(&rooms))
	assert.Equal(t, []RoomInfo{{Name: "sala1", Players: 1}}, rooms)
}

func TestServeHealthCheck(t *testing.T) {
	res := httptest.NewRecorder()

	serveHandle(serveHealthCheck(make(chan error, 1))).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Ok\n", res.Body.String())
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
}

func TestServeHomePage(t *testing.T) {
	cfg := testConfig()
	cfg.host = "0.0.0.0"
	cfg.port = 4000

	srv := NewServer(cfg, nil)
	require.NoError(t, srv.rooms.Create("<sala>", uuid.New()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "forca.example:8080"
	res := httptest.NewRecorder()

	serveHandle(serveHomePage(cfg, srv, make(chan error, 1))).ServeHTTP(res, req)

	body := res.Body.String()
	assert.Contains(t, body, "forca play forca.example 4000")
	assert.Contains(t, body, "&lt;sala&gt;")
	assert.Contains(t, body, "1/3")
	assert.NotContains(t, body, "<sala>")
}

func TestServeQR(t *testing.T) {
	cfg := testConfig()
	cfg.host = "127.0.0.1"
	cfg.port = 4000

	res := httptest.NewRecorder()

	serveHandle(serveQR(cfg, make(chan error, 1))).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/qr", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "image/png", res.Header().Get("Content-Type"))

	_, err := png.Decode(res.Body)
	assert.NoError(t, err)
}

func TestGameAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "forca.example:8080"

	assert.Equal(t, "forca.example:4000", gameAddress(&Config{host: "", port: 4000}, req))
	assert.Equal(t, "10.0.0.2:4000", gameAddress(&Config{host: "10.0.0.2", port: 4000}, req))
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1:1234", realIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7:1234", realIP(req))

	req.Header.Set("CF-Connecting-IP", "2001:db8::1")
	assert.Equal(t, "[2001:db8::1]:1234", realIP(req))
}

func TestServeWS_SpeaksTheLobbyProtocol(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	ctx := t.Context()

	ts := httptest.NewServer(serveHandle(serveWS(ctx, srv)))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	exchange := func(frame, want string) {
		t.Helper()

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}

	exchange("salas_disponiveis", "404")
	exchange("criar_sala,web", "200")
	exchange("salas_disponiveis", "-  web (1/3)")

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	require.Eventually(t, func() bool {
		return srv.rooms.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}
