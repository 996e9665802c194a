/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport carries protocol frames for one connected client. Writes are
// safe for concurrent use; reads must come from one goroutine at a time.
type Transport interface {
	ReadFrame() (string, error)
	WriteFrame(msg string) error
	SetReadDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

type tcpTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner

	wmu sync.Mutex
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 512), maxFrame+2)

	return &tcpTransport{
		conn:    conn,
		scanner: scanner,
	}
}

func (t *tcpTransport) ReadFrame() (string, error) {
	if !t.scanner.Scan() {
		err := t.scanner.Err()
		switch {
		case err == nil:
			return "", io.EOF
		case errors.Is(err, bufio.ErrTooLong):
			return "", ErrFrameTooLong
		default:
			return "", err
		}
	}

	return decodeFrame(t.scanner.Text())
}

func (t *tcpTransport) WriteFrame(msg string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	_, err := t.conn.Write([]byte(encodeFrame(msg)))

	return err
}

func (t *tcpTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// wsTransport speaks the same protocol with one text message per frame.
type wsTransport struct {
	conn *websocket.Conn
	addr string

	wmu sync.Mutex
}

func newWSTransport(conn *websocket.Conn, addr string) *wsTransport {
	conn.SetReadLimit(maxFrame)

	return &wsTransport{
		conn: conn,
		addr: addr,
	}
}

func (t *wsTransport) ReadFrame() (string, error) {
	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				return "", ErrFrameTooLong
			}

			return "", err
		}

		if kind == websocket.TextMessage {
			return string(data), nil
		}
	}
}

func (t *wsTransport) WriteFrame(msg string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	_ = t.conn.SetWriteDeadline(time.Now().Add(timeout))

	return t.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

func (t *wsTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *wsTransport) RemoteAddr() string {
	return t.addr
}

func (t *wsTransport) Close() error {
	t.wmu.Lock()
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	t.wmu.Unlock()

	return t.conn.Close()
}
