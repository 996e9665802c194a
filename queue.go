/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Queue is a FIFO log. Sessions use it to record wrong letters and only ever
// append to it and render it.
type Queue[T comparable] struct {
	mu    sync.Mutex
	items []T
}

func (q *Queue[T]) Enqueue(x T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, x)
}

func (q *Queue[T]) Dequeue() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T

		return zero, ErrEmptyCollection
	}

	head := q.items[0]
	q.items = q.items[1:]

	return head, nil
}

func (q *Queue[T]) Contains(x T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return lo.Contains(q.items, x)
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

func (q *Queue[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, len(q.items))
	copy(out, q.items)

	return out
}

func (q *Queue[T]) String() string {
	items := q.Items()

	parts := lo.Map(items, func(item T, _ int) string {
		if r, ok := any(item).(rune); ok {
			return string(r)
		}

		return fmt.Sprint(item)
	})

	return strings.Join(parts, ", ")
}
