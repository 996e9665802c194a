/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		burst: 100,
		rate:  1000,
	}
}

func startServer(t *testing.T, cfg *Config) (*Server, string) {
	t.Helper()

	themes, err := newThemes(map[string][]string{"animais": {"gato"}})
	require.NoError(t, err)

	srv := NewServer(cfg, themes)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	t.Cleanup(func() {
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	return srv, ln.Addr().String()
}

type testClient struct {
	t    *testing.T
	conn *tcpTransport
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	c := &testClient{t: t, conn: newTCPTransport(conn)}
	t.Cleanup(func() {
		_ = c.conn.Close()
	})

	return c
}

func (c *testClient) send(frame string) {
	c.t.Helper()

	require.NoError(c.t, c.conn.WriteFrame(frame))
}

func (c *testClient) expect(want string) {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	got, err := c.conn.ReadFrame()
	require.NoError(c.t, err)
	assert.Equal(c.t, want, got)
}

func (c *testClient) request(frame, want string) {
	c.t.Helper()

	c.send(frame)
	c.expect(want)
}

func (c *testClient) expectClosed() {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, err := c.conn.ReadFrame()
	assert.True(c.t, errors.Is(err, io.EOF), "expected EOF, got %v", err)
}

func TestServer_FullSession(t *testing.T) {
	srv, addr := startServer(t, testConfig())

	a, b, c, d := dial(t, addr), dial(t, addr), dial(t, addr), dial(t, addr)

	a.request("salas_disponiveis", "404")

	a.send("nickname,ana")
	a.request("criar_sala,sala1", "200")
	b.request("entrar_na_sala,sala1", "200")
	c.request("entrar_na_sala,sala1", "200")

	d.request("entrar_na_sala,sala1", "403")
	d.request("entrar_na_sala,nope", "401")
	d.request("criar_sala,sala1", "402")
	d.request("jogador_pronto,davi", "401")
	d.request("salas_disponiveis", "-  sala1 (3/3)")

	for i, player := range []*testClient{a, b, c} {
		player.request("jogador_pronto,"+[]string{"ana", "bia", "caio"}[i], "200")

		require.Eventually(t, func() bool {
			return srv.ready.Count("sala1") == i+1
		}, 5*time.Second, 10*time.Millisecond)
	}

	a.expect("tema,animais")
	a.send("animais")

	for _, player := range []*testClient{a, b, c} {
		player.expect("\nO tema escolhido foi animais\n")
	}

	a.expect("menu")
	a.send("chutar_palavra,Gato")

	for _, player := range []*testClient{a, b, c} {
		player.expect("\nO jogador ana acertou a palavra.")
		player.expect("Jogo encerrado")
		player.expectClosed()
	}

	require.Eventually(t, func() bool {
		return srv.rooms.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)

	d.request("salas_disponiveis", "404")
}

func TestServer_LobbyDisconnectRemovesEmptyRoom(t *testing.T) {
	srv, addr := startServer(t, testConfig())

	a := dial(t, addr)
	a.request("criar_sala,sala1", "200")

	b := dial(t, addr)
	b.request("entrar_na_sala,sala1", "200")
	a.request("salas_disponiveis", "-  sala1 (2/3)")

	_ = b.conn.Close()

	require.Eventually(t, func() bool {
		return srv.roster.Len() == 1
	}, 5*time.Second, 10*time.Millisecond)

	a.request("salas_disponiveis", "-  sala1 (1/3)")

	_ = a.conn.Close()

	require.Eventually(t, func() bool {
		return srv.rooms.Len() == 0 && srv.roster.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestServer_SecondRoomIsRefused(t *testing.T) {
	srv, addr := startServer(t, testConfig())

	a := dial(t, addr)
	a.request("criar_sala,r1", "200")
	a.request("criar_sala,r2", "401")

	b := dial(t, addr)
	b.request("criar_sala,r3", "200")
	a.request("entrar_na_sala,r3", "401")
	a.request("salas_disponiveis", "-  r1 (1/3)\n-  r3 (1/3)")

	_ = a.conn.Close()
	_ = b.conn.Close()

	require.Eventually(t, func() bool {
		return srv.rooms.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestServer_Compat404(t *testing.T) {
	cfg := testConfig()
	cfg.compat404 = true

	_, addr := startServer(t, cfg)

	a := dial(t, addr)
	a.request("criar_sala,sala1", "200")

	for range RoomCapacity - 1 {
		dial(t, addr).request("entrar_na_sala,sala1", "200")
	}

	dial(t, addr).request("entrar_na_sala,sala1", "404")
}

func TestServer_UnknownCommandIsIgnored(t *testing.T) {
	_, addr := startServer(t, testConfig())

	a := dial(t, addr)
	a.send("dancar,agora")
	a.request("salas_disponiveis", "404")
}

func TestServer_IdleTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.idleTimeout = 50 * time.Millisecond

	srv, addr := startServer(t, cfg)

	a := dial(t, addr)
	a.request("criar_sala,sala1", "200")
	a.expectClosed()

	require.Eventually(t, func() bool {
		return srv.rooms.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}
