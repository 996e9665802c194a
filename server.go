/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

// Server owns the shared lobby state and dispatches commands from every
// connected client.
type Server struct {
	cfg   *Config
	words WordSource

	rooms  *Registry
	ready  *Readiness
	roster *Roster

	handlers sync.WaitGroup
	sessions sync.WaitGroup

	startTime time.Time
}

func NewServer(cfg *Config, words WordSource) *Server {
	return &Server{
		cfg:       cfg,
		words:     words,
		rooms:     NewRegistry(),
		ready:     NewReadiness(),
		roster:    NewRoster(),
		startTime: time.Now(),
	}
}

func Serve(ctx context.Context, cfg *Config, words WordSource) error {
	srv := NewServer(cfg, words)

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port)))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if cfg.statusPort > 0 {
		go func() {
			if err := ServeStatus(ctx, cfg, srv); err != nil {
				errorf("status server: %v", err)
			}
		}()
	}

	return srv.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// client and waits for handlers and sessions to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logf(s.cfg, "START: forca v%s", releaseVersion)
	logf(s.cfg, "SERVE: Listening on tcp://%s", ln.Addr())

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}

			errorf("accept: %v", err)

			continue
		}

		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()

			s.handle(ctx, newTCPTransport(conn))
		}()
	}

	s.roster.CloseAll()
	s.handlers.Wait()
	s.sessions.Wait()

	logf(s.cfg, "SERVE: Shut down after %s", formatUptime(time.Since(s.startTime)))

	return nil
}

// handle runs the lobby command loop for one client. It returns when the
// client disconnects, or once the session it joined has ended.
func (s *Server) handle(ctx context.Context, t Transport) {
	c := newClient(t, rate.Limit(s.cfg.rate), s.cfg.burst)
	s.roster.Add(c)

	logf(s.cfg, "CONN: %s connected from %s", c.ID, t.RemoteAddr())

	defer func() {
		s.disconnect(c)
		_ = t.Close()

		logf(s.cfg, "CONN: %s disconnected", c.ID)
	}()

	for {
		if s.cfg.idleTimeout > 0 {
			_ = t.SetReadDeadline(time.Now().Add(s.cfg.idleTimeout))
		}

		frame, err := t.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logf(s.cfg, "CONN: %s read failed: %v", c.ID, err)
			}

			return
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		if s.dispatch(ctx, c, parseCommand(frame)) {
			_ = t.SetReadDeadline(time.Time{})

			select {
			case <-c.released:
			case <-ctx.Done():
			}

			return
		}
	}
}

// dispatch handles one lobby command. It reports true once the client is
// ready and its connection belongs to a session.
func (s *Server) dispatch(ctx context.Context, c *Client, cmd Command) bool {
	switch cmd.Verb {
	case cmdNickname:
		s.roster.SetNickname(c.ID, cmd.Arg)
		logf(s.cfg, "CONN: %s is now known as %q", c.ID, cmd.Arg)

	case cmdCreateRoom:
		err := s.rooms.Create(cmd.Arg, c.ID)
		s.reply(c, statusFor(err, s.cfg.compat404))
		if err != nil {
			logf(s.cfg, "ROOMS: %s could not create %q: %v (open rooms: %s)",
				s.roster.Nickname(c.ID), cmd.Arg, err, strings.Join(s.rooms.Names(), ", "))
		} else {
			logf(s.cfg, "ROOMS: %q created by %s", cmd.Arg, s.roster.Nickname(c.ID))
		}

	case cmdJoinRoom:
		err := s.rooms.Join(cmd.Arg, c.ID)
		s.reply(c, statusFor(err, s.cfg.compat404))
		if errors.Is(err, ErrAlreadyInRoom) {
			logf(s.cfg, "ROOMS: %s tried to join %q while in another room", s.roster.Nickname(c.ID), cmd.Arg)
		}
		if err == nil {
			logf(s.cfg, "ROOMS: %s joined %q", s.roster.Nickname(c.ID), cmd.Arg)
		}

	case cmdListRooms:
		s.reply(c, s.roomList())

	case cmdReady:
		return s.markReady(ctx, c, cmd.Arg)

	default:
		logf(s.cfg, "CONN: %s sent unknown command %q", c.ID, cmd.Verb)
	}

	return false
}

func (s *Server) reply(c *Client, msg string) {
	if err := c.Send(msg); err != nil {
		logf(s.cfg, "CONN: %s write failed: %v", c.ID, err)
	}
}

func (s *Server) roomList() string {
	infos := s.rooms.List()
	if len(infos) == 0 {
		return statusNoRooms
	}

	lines := lo.Map(infos, func(info RoomInfo, _ int) string {
		return fmt.Sprintf("-  %s (%d/%d)", info.Name, info.Players, RoomCapacity)
	})

	return strings.Join(lines, "\n")
}

func (s *Server) markReady(ctx context.Context, c *Client, nickname string) bool {
	name, ok := s.rooms.RoomOf(c.ID)
	if !ok {
		s.reply(c, statusFor(ErrNotInRoom, s.cfg.compat404))

		return false
	}

	if nickname != "" {
		s.roster.SetNickname(c.ID, nickname)
	}

	s.reply(c, statusOK)

	players, start := s.ready.MarkReady(name, c.ID)

	logf(s.cfg, "ROOMS: %s is ready in %q (%d/%d)", s.roster.Nickname(c.ID), name, s.ready.Count(name), RoomCapacity)

	if start {
		s.rooms.MarkPlaying(name)

		s.sessions.Add(1)
		go s.runSession(ctx, name, players)
	}

	return true
}

// runSession plays one game for a full room, announces the outcome and
// retires the room.
func (s *Server) runSession(ctx context.Context, name string, players []uuid.UUID) {
	defer s.sessions.Done()

	logf(s.cfg, "GAMES: Starting session in %q with %s", name, strings.Join(lo.Map(players, func(id uuid.UUID, _ int) string {
		return s.roster.Nickname(id)
	}), ", "))

	game := NewGame(s.cfg, players, s.roster, s.words)

	result, err := game.Run(ctx)
	if err != nil && ctx.Err() == nil {
		errorf("session %q: %v", name, err)
	}

	switch {
	case result.Won:
		s.roster.Broadcast(players, fmt.Sprintf("\nO jogador %s acertou a palavra.", s.roster.Nickname(result.Winner)))
	case result.Word != "":
		s.roster.Broadcast(players, fmt.Sprintf("\nVocê perdeu! A palavra era \"%s\"", result.Word))
	}

	if ctx.Err() == nil && s.cfg.endDelay > 0 {
		select {
		case <-time.After(s.cfg.endDelay):
		case <-ctx.Done():
		}
	}

	s.roster.Broadcast(players, msgGameOver)

	s.ready.Clear(name)
	s.rooms.Remove(name)

	for _, id := range players {
		if c, ok := s.roster.Get(id); ok {
			c.release()
		}
	}

	logf(s.cfg, "GAMES: Retired room %q", name)
}

func (s *Server) disconnect(c *Client) {
	name, emptied := s.rooms.Leave(c.ID)
	if name != "" {
		s.ready.Unready(name, c.ID)

		if emptied {
			logf(s.cfg, "ROOMS: %q removed after its last player left", name)
		}
	}

	s.roster.Remove(c.ID)
}
