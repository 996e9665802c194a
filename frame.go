/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"strings"
)

// maxFrame bounds a single inbound frame, escapes included.
const maxFrame = 4096

// Client to server verbs.
const (
	cmdNickname    = "nickname"
	cmdCreateRoom  = "criar_sala"
	cmdJoinRoom    = "entrar_na_sala"
	cmdReady       = "jogador_pronto"
	cmdListRooms   = "salas_disponiveis"
	cmdGuessWord   = "chutar_palavra"
	cmdGuessLetter = "digitar_letra"
)

// Server to client status codes and cues.
const (
	statusOK           = "200"
	statusRoomNotFound = "401"
	statusRoomTaken    = "402"
	statusRoomFull     = "403"
	statusNoRooms      = "404"

	cueMenu     = "menu"
	cueTheme    = "tema"
	msgGameOver = "Jogo encerrado"
)

type Command struct {
	Verb string
	Arg  string
}

// parseCommand splits a frame at its first comma. Bare keywords have an
// empty Arg.
func parseCommand(frame string) Command {
	verb, arg, _ := strings.Cut(frame, ",")

	return Command{
		Verb: strings.TrimSpace(verb),
		Arg:  strings.TrimSpace(arg),
	}
}

func (c Command) String() string {
	if c.Arg == "" {
		return c.Verb
	}

	return c.Verb + "," + c.Arg
}

// statusFor maps a registry error to its wire code. With compat404 a full
// room reports 404 like "no rooms" does.
func statusFor(err error, compat404 bool) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrRoomNameTaken):
		return statusRoomTaken
	case errors.Is(err, ErrRoomFull):
		if compat404 {
			return statusNoRooms
		}

		return statusRoomFull
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrNotInRoom), errors.Is(err, ErrInvalidRoomName),
		errors.Is(err, ErrAlreadyInRoom):
		return statusRoomNotFound
	default:
		return statusRoomNotFound
	}
}

var (
	frameEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	frameUnescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

// encodeFrame escapes msg so it fits on one line and appends the newline
// terminator.
func encodeFrame(msg string) string {
	return frameEscaper.Replace(msg) + "\n"
}

// decodeFrame reverses encodeFrame on a line read without its terminator.
func decodeFrame(line string) (string, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	if len(line) > maxFrame {
		return "", ErrFrameTooLong
	}

	return frameUnescaper.Replace(line), nil
}
