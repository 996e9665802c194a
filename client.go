/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	mainMenu  = "\n      MENU      \n\n1 - Salas disponíveis\n2 - Criar uma nova sala\n"
	roomsMenu = "\n      MENU      \n\n1 - Entrar em uma sala\n2 - Voltar para o menu principal\n"
	guessMenu = "\n\n1 - Adivinhar a palavra\n2 - Escolher uma letra\n"
)

var (
	errInputClosed  = errors.New("input closed")
	errServerClosed = errors.New("server closed the connection")
)

// Play connects to a game server and drives it from a line based terminal.
func Play(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	addr := net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))

	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("could not connect to %s, check HOST and PORT: %w", addr, err)
	}

	t := newTCPTransport(conn)
	defer t.Close()

	logf(cfg, "CONN: Connected to %s", addr)

	done := make(chan error, 1)

	go func() {
		done <- newTerminal(t, in, out).run()
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		return nil
	}

	if errors.Is(err, errInputClosed) {
		return nil
	}

	return err
}

// terminal is one interactive player session against a server.
type terminal struct {
	conn Transport
	in   *bufio.Scanner
	out  io.Writer
}

func newTerminal(conn Transport, in io.Reader, out io.Writer) *terminal {
	return &terminal{
		conn: conn,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

func (t *terminal) ask(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)

	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}

		return "", errInputClosed
	}

	return strings.TrimSpace(t.in.Text()), nil
}

func (t *terminal) say(msg string) {
	fmt.Fprintln(t.out, msg)
}

func (t *terminal) send(cmd Command) error {
	return t.conn.WriteFrame(cmd.String())
}

func (t *terminal) read() (string, error) {
	frame, err := t.conn.ReadFrame()
	if errors.Is(err, io.EOF) {
		return "", errServerClosed
	}

	return frame, err
}

// request sends cmd and returns the server's reply.
func (t *terminal) request(cmd Command) (string, error) {
	if err := t.send(cmd); err != nil {
		return "", err
	}

	return t.read()
}

func (t *terminal) run() error {
	nickname, err := t.ask("Digite o seu nickname: ")
	if err != nil {
		return err
	}

	if err := t.send(Command{Verb: cmdNickname, Arg: nickname}); err != nil {
		return err
	}

	for {
		option, err := t.ask(mainMenu + "\nDigite a opção desejada: ")
		if err != nil {
			return err
		}

		switch option {
		case "1":
			joined, err := t.browse()
			if err != nil {
				return err
			}

			if joined {
				return t.play(nickname)
			}
		case "2":
			if err := t.create(); err != nil {
				return err
			}

			return t.play(nickname)
		default:
			t.say("Opção inválida. Tente novamente.")
		}
	}
}

// browse lists the open rooms and lets the player join one. It reports
// false when the player backs out to the main menu.
func (t *terminal) browse() (bool, error) {
	rooms, err := t.request(Command{Verb: cmdListRooms})
	if err != nil {
		return false, err
	}

	if rooms == statusNoRooms {
		t.say("Nenhuma sala disponível")

		return false, nil
	}

	t.say(rooms)

	option, err := t.ask(roomsMenu + "Digite a opção desejada: ")
	if err != nil || option != "1" {
		return false, err
	}

	for {
		name, err := t.ask("Digite a sala que deseja entrar (vazio para voltar): ")
		if err != nil || name == "" {
			return false, err
		}

		reply, err := t.request(Command{Verb: cmdJoinRoom, Arg: name})
		if err != nil {
			return false, err
		}

		switch reply {
		case statusOK:
			t.say("Você entrou na sala\n")

			return true, nil
		case statusRoomNotFound:
			t.say("Sala não encontrada, tente novamente!!\n")
		case statusRoomFull, statusNoRooms:
			t.say("A sala desejada está com lotação máxima, tente novamente!!\n")
		default:
			return false, fmt.Errorf("unexpected reply %q to %s", reply, cmdJoinRoom)
		}
	}
}

func (t *terminal) create() error {
	for {
		name, err := t.ask("Digite o nome da sala: ")
		if err != nil {
			return err
		}

		reply, err := t.request(Command{Verb: cmdCreateRoom, Arg: name})
		if err != nil {
			return err
		}

		switch reply {
		case statusOK:
			t.say("Sala criada!!")
			t.say("Você entrou na sala")

			return nil
		case statusRoomTaken:
			t.say("O nome da sala já está em uso, tente outro nome, por favor!\n")
		case statusRoomNotFound:
			t.say("Nome de sala inválido.\n")
		default:
			return fmt.Errorf("unexpected reply %q to %s", reply, cmdCreateRoom)
		}
	}
}

// play announces readiness and then answers the session's cues until the
// game is over.
func (t *terminal) play(nickname string) error {
	reply, err := t.request(Command{Verb: cmdReady, Arg: nickname})
	if err != nil {
		return err
	}

	if reply != statusOK {
		return fmt.Errorf("unexpected reply %q to %s", reply, cmdReady)
	}

	t.say("Aguardando mais jogadores para iniciar a partida...")

	for {
		frame, err := t.read()
		if err != nil {
			return err
		}

		var answer string

		switch {
		case frame == cueMenu:
			answer, err = t.guess()
		case strings.HasPrefix(frame, cueTheme+","):
			answer, err = t.theme(strings.Split(parseCommand(frame).Arg, ";"))
		case frame == msgGameOver:
			t.say(frame)

			return nil
		default:
			t.say(frame + "\n")

			continue
		}

		if err != nil {
			return err
		}

		if err := t.conn.WriteFrame(answer); err != nil {
			return err
		}
	}
}

func (t *terminal) guess() (string, error) {
	for {
		option, err := t.ask(guessMenu + "Digite a opção desejada: ")
		if err != nil {
			return "", err
		}

		switch option {
		case "1":
			word, err := t.ask("Digite a palavra: ")

			return Command{Verb: cmdGuessWord, Arg: word}.String(), err
		case "2":
			letter, err := t.ask("Digite uma letra: ")

			return Command{Verb: cmdGuessLetter, Arg: letter}.String(), err
		default:
			t.say("Opção inválida, tente novamente.")
		}
	}
}

func (t *terminal) theme(themes []string) (string, error) {
	t.say("Temas: " + strings.Join(themes, ", "))

	for {
		theme, err := t.ask("Digite o tema: ")
		if err != nil {
			return "", err
		}

		theme = strings.ToLower(theme)
		if lo.Contains(themes, theme) {
			return theme, nil
		}

		t.say("Tema desconhecido, digite o tema novamente!!")
	}
}
