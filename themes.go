/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"crypto/rand"
	_ "embed"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

//go:embed themes.yaml
var defaultThemes []byte

// Themes is the word dictionary, keyed by theme name.
type Themes struct {
	words map[string][]string
	names []string
}

// loadThemes reads the dictionary from path, or from the built-in list when
// path is empty. Any format viper understands (yaml, json, toml) works as
// long as it has a top-level "themes" table of string lists.
func loadThemes(path string) (*Themes, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(defaultThemes)); err != nil {
			return nil, fmt.Errorf("built-in themes: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("themes file %s: %w", path, err)
		}
	}

	return newThemes(v.GetStringMapStringSlice("themes"))
}

func newThemes(raw map[string][]string) (*Themes, error) {
	words := make(map[string][]string, len(raw))

	for name, list := range raw {
		name = strings.ToLower(strings.TrimSpace(name))

		usable := lo.Filter(list, func(w string, _ int) bool {
			return normalizeWord(w) != ""
		})

		if name == "" || len(usable) == 0 {
			continue
		}

		words[name] = usable
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: dictionary has no usable themes", ErrUnknownTheme)
	}

	names := lo.Keys(words)
	sort.Strings(names)

	return &Themes{words: words, names: names}, nil
}

func (t *Themes) Names() []string {
	return append([]string(nil), t.names...)
}

// Random picks a word from theme using crypto/rand.
func (t *Themes) Random(theme string) (string, error) {
	list, ok := t.words[strings.ToLower(strings.TrimSpace(theme))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return list[0], nil
	}

	return list[n.Int64()], nil
}

func (t *Themes) Size() int {
	return lo.SumBy(lo.Values(t.words), func(list []string) int {
		return len(list)
	})
}
