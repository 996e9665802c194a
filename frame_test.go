/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		frame string
		want  Command
	}{
		{frame: "salas_disponiveis", want: Command{Verb: cmdListRooms}},
		{frame: "criar_sala,sala1", want: Command{Verb: cmdCreateRoom, Arg: "sala1"}},
		{frame: " entrar_na_sala , sala 2 ", want: Command{Verb: cmdJoinRoom, Arg: "sala 2"}},
		{frame: "chutar_palavra,a,b", want: Command{Verb: cmdGuessWord, Arg: "a,b"}},
		{frame: "", want: Command{}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, parseCommand(tc.frame), "frame %q", tc.frame)
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "salas_disponiveis", Command{Verb: cmdListRooms}.String())
	assert.Equal(t, "digitar_letra,a", Command{Verb: cmdGuessLetter, Arg: "a"}.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err       error
		compat404 bool
		want      string
	}{
		{err: nil, want: "200"},
		{err: ErrRoomNotFound, want: "401"},
		{err: ErrNotInRoom, want: "401"},
		{err: ErrInvalidRoomName, want: "401"},
		{err: ErrRoomNameTaken, want: "402"},
		{err: ErrRoomFull, want: "403"},
		{err: ErrRoomFull, compat404: true, want: "404"},
		{err: fmt.Errorf("join: %w", ErrRoomFull), want: "403"},
		{err: errors.New("unexpected"), want: "401"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, statusFor(tc.err, tc.compat404), "err %v compat %v", tc.err, tc.compat404)
	}
}

func TestFrameCodec_MultiLineRoundTrip(t *testing.T) {
	msg := "\nRODADA 1\n\nPalavra = G _ T _\nback\\slash \\n literal"

	encoded := encodeFrame(msg)
	assert.True(t, strings.HasSuffix(encoded, "\n"))
	assert.Equal(t, 1, strings.Count(encoded, "\n"))

	decoded, err := decodeFrame(encoded)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestDecodeFrame_TrimsCarriageReturn(t *testing.T) {
	decoded, err := decodeFrame("nickname,ana\r\n")
	require.NoError(t, err)
	assert.Equal(t, "nickname,ana", decoded)
}

func TestDecodeFrame_RejectsOversizedFrames(t *testing.T) {
	_, err := decodeFrame(strings.Repeat("a", maxFrame+1))
	assert.ErrorIs(t, err, ErrFrameTooLong)

	_, err = decodeFrame(strings.Repeat("a", maxFrame))
	assert.NoError(t, err)
}
