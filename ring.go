/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

// Ring is a circular turn order with a cursor pointing at the current
// entry. Positions passed to Insert and Remove are 1-based; indexes used by
// ElementAt and IndexOf are 0-based.
type Ring[T comparable] struct {
	items  []T
	cursor int
}

func NewRing[T comparable](values ...T) *Ring[T] {
	r := &Ring[T]{}
	for i, v := range values {
		// positions are always valid here
		_ = r.Insert(v, i+1)
	}

	return r
}

func (r *Ring[T]) Len() int {
	return len(r.items)
}

func (r *Ring[T]) IsEmpty() bool {
	return len(r.items) == 0
}

func (r *Ring[T]) Insert(value T, position int) error {
	if position < 1 || position > len(r.items)+1 {
		return fmt.Errorf("%w: insert at %d (size %d)", ErrInvalidPosition, position, len(r.items))
	}

	idx := position - 1
	r.items = append(r.items, value)
	copy(r.items[idx+1:], r.items[idx:])
	r.items[idx] = value

	// Keep the cursor on the same entry it pointed at before.
	if len(r.items) > 1 && idx <= r.cursor {
		r.cursor++
	}

	return nil
}

// Advance moves the cursor to its successor and returns the new current
// value. It must not be called on an empty ring.
func (r *Ring[T]) Advance() T {
	if len(r.items) == 0 {
		panic("ring: advance on empty ring")
	}

	r.cursor = (r.cursor + 1) % len(r.items)

	return r.items[r.cursor]
}

func (r *Ring[T]) Current() (T, error) {
	if len(r.items) == 0 {
		var zero T

		return zero, ErrEmptyCollection
	}

	return r.items[r.cursor], nil
}

// CursorPosition returns the 1-based position of the current entry, or 0
// when the ring is empty.
func (r *Ring[T]) CursorPosition() int {
	if len(r.items) == 0 {
		return 0
	}

	return r.cursor + 1
}

// Remove deletes the entry at position. When that entry was the current
// one, the cursor lands on its former successor.
func (r *Ring[T]) Remove(position int) (T, error) {
	var zero T

	if len(r.items) == 0 {
		return zero, ErrEmptyCollection
	}

	if position < 1 || position > len(r.items) {
		return zero, fmt.Errorf("%w: remove at %d (size %d)", ErrInvalidPosition, position, len(r.items))
	}

	idx := position - 1
	value := r.items[idx]

	r.items = append(r.items[:idx], r.items[idx+1:]...)

	switch {
	case len(r.items) == 0:
		r.cursor = 0
	case idx < r.cursor:
		r.cursor--
	case idx == r.cursor && r.cursor == len(r.items):
		// removed the last slot; successor wraps to the head
		r.cursor = 0
	}

	return value, nil
}

func (r *Ring[T]) ElementAt(index int) (T, error) {
	if index < 0 || index >= len(r.items) {
		var zero T

		return zero, fmt.Errorf("%w: index %d (size %d)", ErrInvalidPosition, index, len(r.items))
	}

	return r.items[index], nil
}

func (r *Ring[T]) IndexOf(value T) (int, error) {
	for i, v := range r.items {
		if v == value {
			return i, nil
		}
	}

	return -1, ErrNotFound
}

// Values returns one full lap starting at the cursor.
func (r *Ring[T]) Values() []T {
	out := make([]T, 0, len(r.items))
	for i := range r.items {
		out = append(out, r.items[(r.cursor+i)%len(r.items)])
	}

	return out
}
