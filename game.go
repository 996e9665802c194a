/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const blank = '_'

// Table is how a session talks to its players.
type Table interface {
	Prompt(ctx context.Context, id uuid.UUID, cue string) (string, error)
	Send(id uuid.UUID, msg string) error
	Broadcast(ids []uuid.UUID, msg string)
	Nickname(id uuid.UUID) string
}

// WordSource hands out secret words by theme.
type WordSource interface {
	Names() []string
	Random(theme string) (string, error)
}

type Phase int

const (
	PhaseAwaitingWord Phase = iota
	PhaseInProgress
	PhaseWon
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingWord:
		return "awaiting-word"
	case PhaseInProgress:
		return "in-progress"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Result is the outcome of a finished session. Winner is uuid.Nil when
// nobody won.
type Result struct {
	Won      bool
	Winner   uuid.UUID
	Theme    string
	Word     string
	Attempts int
	Rounds   int
}

// Game runs one hangman session for a fixed group of players. It is driven
// by a single goroutine and owns its turn ring and word state.
type Game struct {
	cfg   *Config
	table Table
	words WordSource

	players []uuid.UUID
	turns   *Ring[uuid.UUID]

	phase    Phase
	theme    string
	secret   []rune
	masked   []rune
	wrong    Queue[rune]
	attempts int
	rounds   int
	winner   uuid.UUID
}

func NewGame(cfg *Config, players []uuid.UUID, table Table, words WordSource) *Game {
	return &Game{
		cfg:     cfg,
		table:   table,
		words:   words,
		players: slices.Clone(players),
		turns:   NewRing(players...),
		phase:   PhaseAwaitingWord,
	}
}

func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) Masked() string {
	return spaced(g.masked)
}

func (g *Game) Run(ctx context.Context) (Result, error) {
	if g.turns.IsEmpty() {
		g.phase = PhaseLost

		return g.result(), ErrNoPlayers
	}

	if err := g.chooseWord(ctx); err != nil {
		return g.result(), err
	}

	for g.phase == PhaseInProgress {
		if err := g.turn(ctx); err != nil {
			return g.result(), err
		}

		if g.phase == PhaseInProgress && g.attempts >= MaxAttempts {
			g.phase = PhaseLost
		}
	}

	if g.cfg != nil {
		logf(g.cfg, "GAMES: Session ended %s after %d rounds (word %s)", g.phase, g.rounds, string(g.secret))
	}

	return g.result(), nil
}

func (g *Game) result() Result {
	return Result{
		Won:      g.phase == PhaseWon,
		Winner:   g.winner,
		Theme:    g.theme,
		Word:     string(g.secret),
		Attempts: g.attempts,
		Rounds:   g.rounds,
	}
}

// chooseWord asks the first player in turn order for a theme until a known
// one arrives.
func (g *Game) chooseWord(ctx context.Context) error {
	cue := cueTheme + "," + strings.Join(g.words.Names(), ";")

	for {
		chooser, err := g.turns.Current()
		if err != nil {
			return ErrNoPlayers
		}

		reply, err := g.table.Prompt(ctx, chooser, cue)
		if err != nil {
			if err := g.dropAfter(ctx, chooser, err); err != nil {
				return err
			}

			continue
		}

		theme := reply
		if cmd := parseCommand(reply); cmd.Verb == cueTheme {
			theme = cmd.Arg
		}
		theme = strings.ToLower(strings.TrimSpace(theme))

		word, err := g.words.Random(theme)
		if errors.Is(err, ErrUnknownTheme) {
			_ = g.table.Send(chooser, "Tema inválido, escolha um dos temas listados.")

			continue
		}
		if err != nil {
			return fmt.Errorf("pick word for %q: %w", theme, err)
		}

		secret := normalizeWord(word)
		if secret == "" {
			return fmt.Errorf("pick word for %q: %w", theme, ErrEmptyCollection)
		}

		g.theme = theme
		g.secret = []rune(secret)
		g.masked = []rune(strings.Repeat(string(blank), len(g.secret)))
		g.phase = PhaseInProgress

		g.table.Broadcast(g.players, fmt.Sprintf("\nO tema escolhido foi %s\n", theme))

		return nil
	}
}

func (g *Game) turn(ctx context.Context) error {
	player, err := g.turns.Current()
	if err != nil {
		return ErrNoPlayers
	}

	reply, err := g.table.Prompt(ctx, player, cueMenu)
	if err != nil {
		return g.dropAfter(ctx, player, err)
	}

	cmd := parseCommand(reply)

	switch cmd.Verb {
	case cmdGuessWord:
		g.guessWord(player, cmd.Arg)
	case cmdGuessLetter:
		g.guessLetter(player, cmd.Arg)
	}

	return nil
}

func (g *Game) guessWord(player uuid.UUID, guess string) {
	normalized := normalizeWord(guess)
	if normalized == "" {
		_ = g.table.Send(player, "Por favor, digite uma palavra.")

		return
	}

	if normalized == string(g.secret) {
		copy(g.masked, g.secret)
		g.win(player)

		return
	}

	_ = g.table.Send(player, "Palavra incorreta, você perdeu a vez...")

	g.attempts++
	g.rounds++
	g.broadcastRound()
	g.turns.Advance()
}

func (g *Game) guessLetter(player uuid.UUID, input string) {
	letter, ok := normalizeLetter(input)
	if !ok {
		_ = g.table.Send(player, "Por favor, digite apenas uma letra.")

		return
	}

	if g.wrong.Contains(letter) || slices.Contains(g.masked, letter) {
		_ = g.table.Send(player, "Você já tentou essa letra. Tente outra.")

		return
	}

	if !slices.Contains(g.secret, letter) {
		g.wrong.Enqueue(letter)
		g.attempts++
		g.rounds++
		g.broadcastRound()
		g.turns.Advance()

		return
	}

	for i, r := range g.secret {
		if r == letter {
			g.masked[i] = letter
		}
	}

	g.rounds++
	g.broadcastRound()

	if !slices.Contains(g.masked, blank) {
		g.win(player)

		return
	}

	g.turns.Advance()
}

func (g *Game) win(player uuid.UUID) {
	g.phase = PhaseWon
	g.winner = player
}

func (g *Game) broadcastRound() {
	g.table.Broadcast(g.players, fmt.Sprintf(
		"\nRODADA %d\n\nPalavra = %s\nLetras erradas = %s\nTentativas restantes = %d\n\n\n%s",
		g.rounds,
		spaced(g.masked),
		g.wrong.String(),
		MaxAttempts-g.attempts,
		gallows(g.attempts),
	))
}

// dropAfter takes a player whose transport failed out of the turn order. Play
// resumes with their successor; a session with nobody left is lost.
func (g *Game) dropAfter(ctx context.Context, player uuid.UUID, cause error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx, err := g.turns.IndexOf(player)
	if err != nil {
		return err
	}

	if _, err := g.turns.Remove(idx + 1); err != nil {
		return err
	}

	g.players = slices.DeleteFunc(g.players, func(id uuid.UUID) bool {
		return id == player
	})

	if g.cfg != nil {
		logf(g.cfg, "GAMES: Dropped %s from session: %v", player, cause)
	}

	if g.turns.IsEmpty() {
		g.phase = PhaseLost

		return ErrNoPlayers
	}

	g.table.Broadcast(g.players, fmt.Sprintf("%s saiu da partida.", g.table.Nickname(player)))

	return nil
}

func spaced(letters []rune) string {
	parts := make([]string, len(letters))
	for i, r := range letters {
		parts[i] = string(r)
	}

	return strings.Join(parts, " ")
}
