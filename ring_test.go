/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_InsertIntoEmptyRing(t *testing.T) {
	r := NewRing[string]()

	require.NoError(t, r.Insert("a", 1))

	current, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, "a", current)
	assert.Equal(t, 1, r.CursorPosition())
	assert.Equal(t, "a", r.Advance())
}

func TestRing_InsertRejectsOutOfRangePositions(t *testing.T) {
	r := NewRing("a", "b")

	for _, position := range []int{-1, 0, 4} {
		err := r.Insert("x", position)
		assert.ErrorIs(t, err, ErrInvalidPosition, "position %d", position)
	}

	assert.Equal(t, 2, r.Len())
	assert.ErrorIs(t, NewRing[string]().Insert("x", 2), ErrInvalidPosition)
}

func TestRing_InsertBeforeCursorKeepsCurrent(t *testing.T) {
	r := NewRing("a", "b", "c")
	r.Advance()

	require.NoError(t, r.Insert("z", 1))

	current, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, "b", current)
	assert.Equal(t, []string{"b", "c", "z", "a"}, r.Values())
}

func TestRing_AdvanceVisitsInsertionOrder(t *testing.T) {
	r := NewRing("a", "b", "c")

	var seen []string
	for range 7 {
		seen = append(seen, r.Advance())
	}

	assert.Equal(t, []string{"b", "c", "a", "b", "c", "a", "b"}, seen)
}

func TestRing_AdvanceOnEmptyRingPanics(t *testing.T) {
	r := NewRing[int]()

	assert.Panics(t, func() {
		r.Advance()
	})
}

func TestRing_CurrentOnEmptyRing(t *testing.T) {
	r := NewRing[int]()

	_, err := r.Current()
	assert.ErrorIs(t, err, ErrEmptyCollection)
	assert.Equal(t, 0, r.CursorPosition())
	assert.True(t, r.IsEmpty())
}

func TestRing_Remove(t *testing.T) {
	tests := []struct {
		name     string
		advance  int
		position int
		removed  string
		current  string
		values   []string
	}{
		{
			name:     "current entry moves cursor to successor",
			advance:  1,
			position: 2,
			removed:  "b",
			current:  "c",
			values:   []string{"c", "a"},
		},
		{
			name:     "current tail entry wraps to head",
			advance:  2,
			position: 3,
			removed:  "c",
			current:  "a",
			values:   []string{"a", "b"},
		},
		{
			name:     "entry before cursor keeps current",
			advance:  2,
			position: 1,
			removed:  "a",
			current:  "c",
			values:   []string{"c", "b"},
		},
		{
			name:     "entry after cursor keeps current",
			advance:  0,
			position: 3,
			removed:  "c",
			current:  "a",
			values:   []string{"a", "b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRing("a", "b", "c")
			for range tc.advance {
				r.Advance()
			}

			removed, err := r.Remove(tc.position)
			require.NoError(t, err)
			assert.Equal(t, tc.removed, removed)

			current, err := r.Current()
			require.NoError(t, err)
			assert.Equal(t, tc.current, current)
			assert.Equal(t, tc.values, r.Values())
		})
	}
}

func TestRing_RemoveErrors(t *testing.T) {
	_, err := NewRing[string]().Remove(1)
	assert.ErrorIs(t, err, ErrEmptyCollection)

	r := NewRing("a")

	_, err = r.Remove(0)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = r.Remove(2)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	removed, err := r.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "a", removed)
	assert.True(t, r.IsEmpty())
}

func TestRing_ElementAtAndIndexOf(t *testing.T) {
	r := NewRing("a", "b", "c")

	value, err := r.ElementAt(2)
	require.NoError(t, err)
	assert.Equal(t, "c", value)

	_, err = r.ElementAt(3)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = r.ElementAt(-1)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	idx, err := r.IndexOf("b")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = r.IndexOf("z")
	assert.ErrorIs(t, err, ErrNotFound)
}
