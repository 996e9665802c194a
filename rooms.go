/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// RoomCapacity is both the maximum number of members in a room and the
// number of ready players needed to start its session.
const RoomCapacity = 3

// RoomInfo is a snapshot of one room, safe to hand to other goroutines.
type RoomInfo struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
	Playing bool   `json:"playing"`
}

type room struct {
	members []uuid.UUID
	playing bool
}

// Registry maps room names to their ordered members. Every method holds the
// lock for a single map operation and never performs I/O.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*room),
	}
}

func normalizeRoomName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidRoomName
	}

	return name, nil
}

func (g *Registry) Create(name string, creator uuid.UUID) error {
	name, err := normalizeRoomName(name)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.rooms[name]; exists {
		return ErrRoomNameTaken
	}

	if _, member := g.roomOfLocked(creator); member {
		return ErrAlreadyInRoom
	}

	g.rooms[name] = &room{members: []uuid.UUID{creator}}

	return nil
}

func (g *Registry) Join(name string, id uuid.UUID) error {
	name, err := normalizeRoomName(name)
	if err != nil {
		return ErrRoomNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	r, exists := g.rooms[name]
	if !exists {
		return ErrRoomNotFound
	}

	if slices.Contains(r.members, id) {
		return nil
	}

	if _, member := g.roomOfLocked(id); member {
		return ErrAlreadyInRoom
	}

	if len(r.members) >= RoomCapacity || r.playing {
		return ErrRoomFull
	}

	r.members = append(r.members, id)

	return nil
}

// List returns every room sorted by name. An empty result means there are no
// rooms to join.
func (g *Registry) List() []RoomInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	infos := lo.MapToSlice(g.rooms, func(name string, r *room) RoomInfo {
		return RoomInfo{
			Name:    name,
			Players: len(r.members),
			Playing: r.playing,
		}
	})

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	return infos
}

func (g *Registry) Names() []string {
	return lo.Map(g.List(), func(info RoomInfo, _ int) string {
		return info.Name
	})
}

func (g *Registry) Members(name string) ([]uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, exists := g.rooms[name]
	if !exists {
		return nil, ErrRoomNotFound
	}

	return slices.Clone(r.members), nil
}

// RoomOf finds the room a player belongs to by scanning membership. A
// player is in at most one room.
func (g *Registry) RoomOf(id uuid.UUID) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.roomOfLocked(id)
}

func (g *Registry) roomOfLocked(id uuid.UUID) (string, bool) {
	for name, r := range g.rooms {
		if slices.Contains(r.members, id) {
			return name, true
		}
	}

	return "", false
}

// MarkPlaying flags a room whose session has started, so that nobody can
// take the seat of a player who leaves mid-game.
func (g *Registry) MarkPlaying(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, exists := g.rooms[name]; exists {
		r.playing = true
	}
}

// Leave drops a player from whatever room they are in. It reports the room
// and whether that room is now empty; an emptied room that is not playing is
// removed on the spot.
func (g *Registry) Leave(id uuid.UUID) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for name, r := range g.rooms {
		i := slices.Index(r.members, id)
		if i < 0 {
			continue
		}

		if r.playing {
			return name, false
		}

		r.members = slices.Delete(r.members, i, i+1)

		if len(r.members) == 0 {
			delete(g.rooms, name)

			return name, true
		}

		return name, false
	}

	return "", false
}

func (g *Registry) Remove(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.rooms[name]; !exists {
		return false
	}

	delete(g.rooms, name)

	return true
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.rooms)
}

type readiness struct {
	ready   []uuid.UUID
	started bool
}

// Readiness tracks which members of each room have confirmed they want to
// start. The append and the capacity check happen under one lock, so exactly
// one caller sees the transition to a full record.
type Readiness struct {
	mu      sync.Mutex
	records map[string]*readiness
}

func NewReadiness() *Readiness {
	return &Readiness{
		records: make(map[string]*readiness),
	}
}

// MarkReady records id as ready in roomName. The returned slice is non-nil
// and the flag true only for the call that completes the record.
func (t *Readiness) MarkReady(roomName string, id uuid.UUID) ([]uuid.UUID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, exists := t.records[roomName]
	if !exists {
		rec = &readiness{}
		t.records[roomName] = rec
	}

	if rec.started {
		return nil, false
	}

	if !slices.Contains(rec.ready, id) {
		rec.ready = append(rec.ready, id)
	}

	if len(rec.ready) < RoomCapacity {
		return nil, false
	}

	rec.started = true

	return slices.Clone(rec.ready), true
}

// Unready drops id from a record that has not started yet. A record left
// empty is removed in the same step, so a later room reusing the name starts
// clean and is never touched by a stale leave.
func (t *Readiness) Unready(roomName string, id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, exists := t.records[roomName]
	if !exists || rec.started {
		return
	}

	rec.ready = slices.DeleteFunc(rec.ready, func(other uuid.UUID) bool {
		return other == id
	})

	if len(rec.ready) == 0 {
		delete(t.records, roomName)
	}
}

func (t *Readiness) Count(roomName string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, exists := t.records[roomName]; exists {
		return len(rec.ready)
	}

	return 0
}

func (t *Readiness) Clear(roomName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, roomName)
}
