/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrNotFound        = errors.New("element not found")
	ErrEmptyCollection = errors.New("collection is empty")

	ErrRoomNameTaken   = errors.New("room name already in use")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrInvalidRoomName = errors.New("invalid room name")
	ErrNotInRoom       = errors.New("player is not in a room")
	ErrAlreadyInRoom   = errors.New("player is already in a room")

	ErrUnknownTheme = errors.New("unknown theme")
	ErrNoPlayers    = errors.New("no players left in session")
	ErrFrameTooLong = errors.New("frame exceeds maximum length")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// errorf is logged regardless of verbosity.
func errorf(format string, args ...any) {
	log.Printf("%s | ERROR: "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta charset="utf-8">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`body{font-family:monospace;margin:2em;}table{border-collapse:collapse;}td,th{padding:0 1em;text-align:left;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body>%s</body></html>", body))

	return htmlBody.String()
}
