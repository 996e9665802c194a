/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

// Client is one connected player. The ID is its identity everywhere in the
// server; the transport is only reached through it.
type Client struct {
	ID       uuid.UUID
	conn     Transport
	limiter  *rate.Limiter
	released chan struct{}
	once     sync.Once
}

func newClient(conn Transport, limit rate.Limit, burst int) *Client {
	return &Client{
		ID:       uuid.New(),
		conn:     conn,
		limiter:  rate.NewLimiter(limit, burst),
		released: make(chan struct{}),
	}
}

func (c *Client) Send(msg string) error {
	return c.conn.WriteFrame(msg)
}

// release tells the client's handler that its session is over.
func (c *Client) release() {
	c.once.Do(func() {
		close(c.released)
	})
}

// Roster is the table of connected clients and their nicknames.
type Roster struct {
	mu        sync.Mutex
	clients   map[uuid.UUID]*Client
	nicknames map[uuid.UUID]string
}

func NewRoster() *Roster {
	return &Roster{
		clients:   make(map[uuid.UUID]*Client),
		nicknames: make(map[uuid.UUID]string),
	}
}

func (r *Roster) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[c.ID] = c
}

func (r *Roster) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.clients, id)
	delete(r.nicknames, id)
}

func (r *Roster) Get(id uuid.UUID) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[id]

	return c, ok
}

func (r *Roster) SetNickname(id uuid.UUID, nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nicknames[id] = nickname
}

// Nickname falls back to a short form of the ID for players who never sent
// one.
func (r *Roster) Nickname(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.nicknames[id]; ok && name != "" {
		return name
	}

	return "jogador-" + id.String()[:8]
}

func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.clients)
}

// CloseAll closes every transport, unblocking any pending reads.
func (r *Roster) CloseAll() {
	r.mu.Lock()
	clients := lo.Values(r.clients)
	r.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

// Prompt sends a cue to one player and waits for the reply.
func (r *Roster) Prompt(ctx context.Context, id uuid.UUID, cue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c, ok := r.Get(id)
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", id, ErrNotFound)
	}

	if err := c.Send(cue); err != nil {
		return "", fmt.Errorf("prompt %s: %w", id, err)
	}

	reply, err := c.conn.ReadFrame()
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", id, err)
	}

	return reply, nil
}

func (r *Roster) Send(id uuid.UUID, msg string) error {
	c, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("send %s: %w", id, ErrNotFound)
	}

	return c.Send(msg)
}

// Broadcast writes msg to every listed player still connected. Failures are
// left for the next prompt to discover.
func (r *Roster) Broadcast(ids []uuid.UUID, msg string) {
	for _, id := range ids {
		_ = r.Send(id, msg)
	}
}
