/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// MaxAttempts is the number of wrong guesses a session tolerates; it matches
// the last drawable gallows stage.
const MaxAttempts = 6

var gallowsStages = [MaxAttempts + 1]string{
	`
   -----
   |   |
       |
       |
       |
       |
`,
	`
   -----
   |   |
   O   |
       |
       |
       |
`,
	`
   -----
   |   |
   O   |
   |   |
       |
       |
`,
	`
   -----
   |   |
   O   |
  /|   |
       |
       |
`,
	`
   -----
   |   |
   O   |
  /|\  |
       |
       |
`,
	`
   -----
   |   |
   O   |
  /|\  |
  /    |
       |
`,
	`
   -----
   |   |
   O   |
  /|\  |
  / \  |
       |
`,
}

// gallows returns the drawing for the given number of wrong attempts,
// clamped to the available stages.
func gallows(attempts int) string {
	switch {
	case attempts < 0:
		attempts = 0
	case attempts > MaxAttempts:
		attempts = MaxAttempts
	}

	return gallowsStages[attempts]
}
